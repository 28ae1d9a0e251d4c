package response

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	r := SuccessResponse(map[string]int{"count": 2})

	assert.Equal(t, Success, r.Code)
	assert.Equal(t, "success", r.Message)
	assert.Equal(t, map[string]int{"count": 2}, r.Data)
}

func TestErrorResponse_HidesCause(t *testing.T) {
	err := NewBusinessError(
		WithErrorCode(Conflict),
		WithErrorMessage("已参与该挑战"),
		WithError(errors.New("duplicate key value violates unique constraint")),
	)

	r := ErrorResponse(err)

	assert.Equal(t, Conflict, r.Code)
	assert.Equal(t, "已参与该挑战", r.Message)
	assert.Nil(t, r.Data)
}
