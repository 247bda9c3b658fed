package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/example/almajid/internal/apperrors"
)

// Cloudinary stores objects as Cloudinary image assets. The object path
// minus its extension is the asset's public id.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary connects using a cloudinary:// URL.
func NewCloudinary(rawURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(rawURL)
	if err != nil {
		return nil, err
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld}, nil
}

func publicID(objectPath string) (string, error) {
	p, err := CleanPath(objectPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(p, path.Ext(p)), nil
}

func (c *Cloudinary) Upload(ctx context.Context, objectPath string, r io.Reader, _ string) (Object, error) {
	id, err := publicID(objectPath)
	if err != nil {
		return Object{}, apperrors.Validation("path", err.Error())
	}

	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:       id,
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
		ResourceType:   "image",
	})
	if err != nil {
		return Object{}, apperrors.Remote("storage", err)
	}
	if res.Error.Message != "" {
		return Object{}, apperrors.Remote("storage", errors.New(res.Error.Message))
	}
	return Object{Path: objectPath, URL: res.SecureURL}, nil
}

func (c *Cloudinary) PublicURL(objectPath string) (string, error) {
	id, err := publicID(objectPath)
	if err != nil {
		return "", apperrors.Validation("path", err.Error())
	}
	img, err := c.cld.Image(id)
	if err != nil {
		return "", apperrors.Remote("storage", err)
	}
	return img.String()
}

func (c *Cloudinary) Remove(ctx context.Context, objectPath string) error {
	id, err := publicID(objectPath)
	if err != nil {
		return apperrors.Validation("path", err.Error())
	}

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id, ResourceType: "image"})
	if err != nil {
		return apperrors.Remote("storage", err)
	}
	if res.Error.Message != "" {
		return apperrors.Remote("storage", errors.New(res.Error.Message))
	}
	if res.Result == "not found" {
		return &apperrors.ErrNotFound{Resource: "object", ID: objectPath}
	}
	return nil
}
