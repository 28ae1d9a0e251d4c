package response

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBusinessError_Defaults(t *testing.T) {
	err := NewBusinessError()

	assert.Equal(t, Fail, err.Code)
	assert.Equal(t, "business error", err.Msg)
	assert.Nil(t, err.Err)
}

func TestBusinessError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewBusinessError(
		WithErrorCode(NotFound),
		WithErrorMessage("挑战不存在"),
		WithError(cause),
	)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "挑战不存在: connection refused", err.Error())
}

func TestResponseCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code ResponseCode
		want int
	}{
		{Fail, http.StatusInternalServerError},
		{ParseError, http.StatusBadRequest},
		{InvalidParameter, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{ResponseCode(42), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.HTTPStatus(), "code %d", tt.code)
	}
}
