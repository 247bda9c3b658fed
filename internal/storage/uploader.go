package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
)

const sniffLen = 512

// Uploader validates product images locally and hands accepted ones to a
// Provider.
type Uploader struct {
	provider Provider
	folder   string
	log      *zap.Logger
	now      func() time.Time
	onReject func(reason string)
}

// NewUploader creates an Uploader storing objects under folder.
func NewUploader(provider Provider, folder string, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{provider: provider, folder: folder, log: log, now: time.Now}
}

// OnReject registers a hook called with the reason of every rejected upload.
func (u *Uploader) OnReject(fn func(reason string)) {
	u.onReject = fn
}

// UploadImage validates and stores one image. Rejections never reach the
// provider.
func (u *Uploader) UploadImage(ctx context.Context, declaredType string, size int64, r io.Reader) (Object, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Object{}, err
	}
	head = head[:n]

	imageType, err := ValidateImage(declaredType, size, head)
	if err != nil {
		var rej *RejectError
		if errors.As(err, &rej) {
			u.log.Info("upload rejected", zap.String("reason", rej.Reason), zap.Int64("size", size))
			if u.onReject != nil {
				u.onReject(rej.Reason)
			}
		}
		return Object{}, err
	}

	objectPath := ObjectPath(u.folder, imageType.Extension, u.now())
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), MaxImageSize)
	obj, err := u.provider.Upload(ctx, objectPath, body, imageType.ContentType)
	if err != nil {
		u.log.Error("upload failed", zap.String("path", objectPath), zap.Error(err))
		return Object{}, err
	}
	u.log.Info("image uploaded", zap.String("path", obj.Path))
	return obj, nil
}

// Remove deletes a stored object.
func (u *Uploader) Remove(ctx context.Context, objectPath string) error {
	return u.provider.Remove(ctx, objectPath)
}
