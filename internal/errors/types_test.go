package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorHTTPCodes(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeUploadNotFound, http.StatusNotFound},
		{ErrCodeDuplicateUpload, http.StatusConflict},
		{ErrCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrCodeFileTooLarge, http.StatusBadRequest},
		{ErrCodeInvalidFileFormat, http.StatusBadRequest},
		{ErrCodeExternalService, http.StatusBadGateway},
		{ErrCodeStorage, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewBusinessError(tt.code, "boom")
			assert.Equal(t, tt.expected, err.HTTPCode)
		})
	}
}

func TestAppErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExternalServiceError("embedding", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.Contains(t, err.Error(), "embedding service failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetAppError(t *testing.T) {
	t.Run("passes through app errors", func(t *testing.T) {
		original := NewValidationError("bad input")
		assert.Equal(t, original, GetAppError(original))
	})

	t.Run("wraps plain errors as internal", func(t *testing.T) {
		wrapped := GetAppError(fmt.Errorf("boom"))
		assert.Equal(t, ErrCodeInternalServer, wrapped.Code)
		assert.Equal(t, http.StatusInternalServerError, wrapped.HTTPCode)
	})
}
