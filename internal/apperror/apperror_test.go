package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"burningbros/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *apperror.AppError
		want int
	}{
		{"auth", apperror.New(apperror.CodeAuthenticationRequired), http.StatusUnauthorized},
		{"duplicate user", apperror.New(apperror.CodeUserAlreadyExists), http.StatusConflict},
		{"product missing", apperror.New(apperror.CodeProductNotFound), http.StatusNotFound},
		{"internal", apperror.Internal(errors.New("db down")), http.StatusInternalServerError},
		{"unmapped defaults to 400", apperror.New(apperror.CodeUnknown), http.StatusBadRequest},
		{"override", apperror.New(apperror.CodeUserNotFound).WithStatus(http.StatusTeapot), http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAppError_FromWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("toggle like: %w", apperror.Internal(cause))

	appErr, ok := apperror.From(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeInternal, appErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.True(t, apperror.Is(err, apperror.CodeInternal))
	assert.False(t, apperror.Is(errors.New("plain"), apperror.CodeInternal))
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "product_not_found", apperror.New(apperror.CodeProductNotFound).Error())
	assert.Equal(t, "validation_failed: bad id", apperror.New(apperror.CodeValidationFailed).WithMessage("bad %s", "id").Error())
}
