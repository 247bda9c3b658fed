package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when input is rejected before any remote call
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrForbidden is returned when an authenticated caller lacks permission
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "forbidden"
}

// ErrConflict is returned on uniqueness violations
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ErrRemote wraps a failure reported by the data store, identity or storage provider.
// Its message is the provider's own text.
type ErrRemote struct {
	Provider string
	Err      error
}

func (e *ErrRemote) Error() string {
	if e.Err == nil {
		return e.Provider + " error"
	}
	return e.Err.Error()
}

func (e *ErrRemote) Unwrap() error { return e.Err }

// Remote wraps err as an ErrRemote unless it is nil or already part of the taxonomy.
func Remote(provider string, err error) error {
	if err == nil || IsKnown(err) {
		return err
	}
	return &ErrRemote{Provider: provider, Err: err}
}

// Validation builds an ErrValidation for a single field.
func Validation(field, message string) *ErrValidation {
	return &ErrValidation{Message: message, Fields: map[string]string{field: message}}
}

// IsNotFound reports whether err is (or wraps) an ErrNotFound.
func IsNotFound(err error) bool {
	var target *ErrNotFound
	return errors.As(err, &target)
}

// IsValidation reports whether err is (or wraps) an ErrValidation.
func IsValidation(err error) bool {
	var target *ErrValidation
	return errors.As(err, &target)
}

// IsConflict reports whether err is (or wraps) an ErrConflict.
func IsConflict(err error) bool {
	var target *ErrConflict
	return errors.As(err, &target)
}

// IsKnown reports whether err already belongs to the taxonomy.
func IsKnown(err error) bool {
	var (
		nf  *ErrNotFound
		val *ErrValidation
		ua  *ErrUnauthorized
		fb  *ErrForbidden
		cf  *ErrConflict
		rm  *ErrRemote
	)
	return errors.As(err, &nf) || errors.As(err, &val) || errors.As(err, &ua) ||
		errors.As(err, &fb) || errors.As(err, &cf) || errors.As(err, &rm)
}

// HTTPStatus maps err to the status code the API answers with.
func HTTPStatus(err error) int {
	var (
		nf  *ErrNotFound
		val *ErrValidation
		ua  *ErrUnauthorized
		fb  *ErrForbidden
		cf  *ErrConflict
		rm  *ErrRemote
		fe  *fiber.Error
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &val):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ua):
		return http.StatusUnauthorized
	case errors.As(err, &fb):
		return http.StatusForbidden
	case errors.As(err, &cf):
		return http.StatusConflict
	case errors.As(err, &rm):
		return http.StatusBadGateway
	case errors.As(err, &fe):
		return fe.Code
	default:
		return http.StatusInternalServerError
	}
}
