package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeInvalidRole, http.StatusBadRequest},
		{CodeNoRecipients, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeRetrieval, http.StatusInternalServerError},
		{CodeTransport, http.StatusInternalServerError},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := fmt.Errorf("handler: %w", E(tt.code, "Op", "msg", nil))
			assert.Equal(t, tt.want, HTTPStatus(err))
			assert.Equal(t, tt.code, CodeOf(err))
			assert.True(t, IsCode(err, tt.code))
		})
	}
}

func TestSentinelFallback(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, CodeNotFound, CodeOf(err))

	plain := errors.New("boom")
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(plain))
	assert.Equal(t, CodeInternal, CodeOf(plain))
}

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := E(CodeTransport, "NotificationService.Notify", "Failed to send emails.", cause)

	assert.Equal(t, "NotificationService.Notify: Failed to send emails.: socket closed", err.Error())
	assert.ErrorIs(t, err, cause)
}
