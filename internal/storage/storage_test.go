package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/almajid/internal/apperrors"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}
	webpHeader = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		size     int64
		head     []byte
		wantExt  string
		reason   string
	}{
		{"png", "image/png", 1024, pngHeader, "png", ""},
		{"jpeg declared as jpg", "image/jpg", 2048, jpegHeader, "jpg", ""},
		{"webp", "image/webp", 2048, webpHeader, "webp", ""},
		{"undeclared png", "", 10, pngHeader, "png", ""},
		{"empty", "image/png", 0, nil, "", ReasonMissing},
		{"exactly 5MB", "image/png", MaxImageSize, pngHeader, "png", ""},
		{"over 5MB", "image/png", MaxImageSize + 1, pngHeader, "", ReasonTooLarge},
		{"gif declared", "image/gif", 10, []byte("GIF89a"), "", ReasonType},
		{"text disguised as png", "image/png", 10, []byte("hello world"), "", ReasonType},
		{"png declared as jpeg", "image/jpeg", 10, pngHeader, "", ReasonType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateImage(tt.declared, tt.size, tt.head)
			if tt.reason != "" {
				var rej *RejectError
				require.ErrorAs(t, err, &rej)
				assert.Equal(t, tt.reason, rej.Reason)
				assert.True(t, apperrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, got.Extension)
		})
	}
}

func TestObjectPath(t *testing.T) {
	p := ObjectPath("almajid", "png", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(p, "almajid/products/202403/"), p)
	assert.True(t, strings.HasSuffix(p, ".png"), p)
}

func TestCleanPath(t *testing.T) {
	p, err := CleanPath("/almajid//products/a.png")
	require.NoError(t, err)
	assert.Equal(t, "almajid/products/a.png", p)

	for _, bad := range []string{"", "  ", "/", "../etc/passwd", "a/../../b"} {
		_, err := CleanPath(bad)
		assert.Error(t, err, bad)
	}
}

type recordingProvider struct {
	uploads int
	body    []byte
}

func (r *recordingProvider) Upload(_ context.Context, objectPath string, body io.Reader, _ string) (Object, error) {
	r.uploads++
	r.body, _ = io.ReadAll(body)
	return Object{Path: objectPath, URL: "https://cdn.example/" + objectPath}, nil
}

func (r *recordingProvider) PublicURL(objectPath string) (string, error) {
	return "https://cdn.example/" + objectPath, nil
}

func (r *recordingProvider) Remove(context.Context, string) error { return nil }

func TestUploaderRejectsLocally(t *testing.T) {
	provider := &recordingProvider{}
	u := NewUploader(provider, "almajid", nil)
	var reasons []string
	u.OnReject(func(reason string) { reasons = append(reasons, reason) })

	_, err := u.UploadImage(context.Background(), "image/gif", 6, bytes.NewReader([]byte("GIF89a")))

	require.Error(t, err)
	assert.Zero(t, provider.uploads)
	assert.Equal(t, []string{ReasonType}, reasons)
}

func TestUploaderPassesWholeBody(t *testing.T) {
	provider := &recordingProvider{}
	u := NewUploader(provider, "almajid", nil)
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x42}, 2000)...)

	obj, err := u.UploadImage(context.Background(), "image/png", int64(len(body)), bytes.NewReader(body))

	require.NoError(t, err)
	assert.Equal(t, 1, provider.uploads)
	assert.Equal(t, body, provider.body)
	assert.True(t, strings.HasSuffix(obj.Path, ".png"))
}

func TestDiskRoundTrip(t *testing.T) {
	root := t.TempDir()
	d, err := NewDisk(root, "http://localhost:8080/uploads")
	require.NoError(t, err)

	obj, err := d.Upload(context.Background(), "almajid/products/202401/x.png", bytes.NewReader(pngHeader), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/almajid/products/202401/x.png", obj.URL)

	data, err := os.ReadFile(filepath.Join(root, "almajid", "products", "202401", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, d.Remove(context.Background(), obj.Path))
	assert.True(t, apperrors.IsNotFound(d.Remove(context.Background(), obj.Path)))
}
