package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected int
	}{
		{"bad request", NewBadRequestError("m"), http.StatusBadRequest},
		{"not found", NewNotFoundError("m"), http.StatusNotFound},
		{"validation", NewValidationError("d"), http.StatusUnprocessableEntity},
		{"conflict", NewConflictError("m"), http.StatusConflict},
		{"service", NewServiceError("m"), http.StatusBadGateway},
		{"database", NewDatabaseError("m"), http.StatusInternalServerError},
		{"internal", NewInternalError("m"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.HTTPStatus())
		})
	}
}

func TestErrorStringIsJSON(t *testing.T) {
	err := NewConflictError("owner already exists", "wallet 0xabc")
	assert.JSONEq(t, `{"code":"conflict","message":"owner already exists","details":"wallet 0xabc"}`, err.Error())
}
