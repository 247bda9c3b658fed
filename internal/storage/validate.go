package storage

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/example/almajid/internal/apperrors"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

// Rejection reasons.
const (
	ReasonMissing  = "missing"
	ReasonTooLarge = "too_large"
	ReasonType     = "type"
)

// allowedTypes maps accepted content types to their file extension.
var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// RejectError is a local validation failure of an upload.
type RejectError struct {
	Reason  string
	Message string
}

func (e *RejectError) Error() string { return e.Message }

// Unwrap exposes the failure as a validation error of the "file" field.
func (e *RejectError) Unwrap() error {
	return apperrors.Validation("file", e.Message)
}

// ImageType is the result of a successful validation.
type ImageType struct {
	ContentType string
	Extension   string
}

// ValidateImage checks an upload before it is sent anywhere: size at most
// MaxImageSize, and both the declared type and the type sniffed from head
// must be JPEG, PNG or WEBP and agree with each other. An empty declared
// type defers to the sniffed one.
func ValidateImage(declared string, size int64, head []byte) (ImageType, error) {
	if size <= 0 || len(head) == 0 {
		return ImageType{}, &RejectError{Reason: ReasonMissing, Message: "no file selected"}
	}
	if size > MaxImageSize {
		return ImageType{}, &RejectError{Reason: ReasonTooLarge, Message: "file size exceeds 5MB"}
	}

	typeErr := &RejectError{Reason: ReasonType, Message: "invalid file type, only JPG, PNG and WEBP are allowed"}

	declared = strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	declaredExt, ok := allowedTypes[declared]
	if declared != "" && !ok {
		return ImageType{}, typeErr
	}

	sniffed := mimetype.Detect(head)
	sniffedType := strings.SplitN(sniffed.String(), ";", 2)[0]
	ext, ok := allowedTypes[sniffedType]
	if !ok {
		return ImageType{}, typeErr
	}
	if declared != "" && declaredExt != ext {
		return ImageType{}, &RejectError{
			Reason:  ReasonType,
			Message: fmt.Sprintf("file content is %s but was declared as %s", sniffedType, declared),
		}
	}

	return ImageType{ContentType: sniffedType, Extension: ext}, nil
}
