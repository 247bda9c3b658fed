package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRemoteKeepsProviderMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := Remote("database", cause)

	var remote *ErrRemote
	assert.True(t, errors.As(err, &remote))
	assert.Equal(t, "database", remote.Provider)
	assert.Equal(t, "connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestRemoteLeavesKnownErrorsAlone(t *testing.T) {
	nf := &ErrNotFound{Resource: "product", ID: "42"}
	assert.Same(t, nf, Remote("database", nf))
	assert.Nil(t, Remote("database", nil))
}

func TestPredicatesSeeWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", &ErrNotFound{Resource: "product", ID: "1"})
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))

	v := Validation("price", "price must be >= 0")
	assert.True(t, IsValidation(v))
	assert.Equal(t, "price must be >= 0", v.Fields["price"])

	assert.True(t, IsConflict(&ErrConflict{}))
	assert.Equal(t, "conflict", (&ErrConflict{}).Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{Validation("name", "name is required"), http.StatusBadRequest},
		{fmt.Errorf("x: %w", &ErrNotFound{Resource: "product"}), http.StatusNotFound},
		{&ErrUnauthorized{}, http.StatusUnauthorized},
		{&ErrForbidden{}, http.StatusForbidden},
		{&ErrConflict{}, http.StatusConflict},
		{Remote("storage", errors.New("quota")), http.StatusBadGateway},
		{fiber.NewError(fiber.StatusTeapot, "tea"), http.StatusTeapot},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err))
	}
}
