package errors

import (
	"context"
	"errors"
	"net/http"

	"floradmin/internal/apiclient"
	"floradmin/internal/resource"
	"floradmin/internal/service"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// SessionExpired reports whether the backend rejected the session token.
func (e *HTTPError) SessionExpired() bool {
	return e.Code == "SESSION_EXPIRED"
}

// MapErrorToHTTP maps domain and backend errors to HTTP errors with
// user-facing messages.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *resource.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		e := NewHTTPError(http.StatusUnprocessableEntity, "Revisa los campos marcados", "VALIDATION_ERROR")
		e.Fields = verr.Fields
		return e
	case errors.Is(err, service.ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Usuario o contraseña incorrectos", "INVALID_CREDENTIALS")
	case errors.Is(err, service.ErrAccountNotUsable):
		return NewHTTPError(http.StatusForbidden, "Tu cuenta no tiene acceso a la consola", "ACCOUNT_NOT_USABLE")
	case errors.Is(err, resource.ErrConfirmationRequired):
		return NewHTTPError(http.StatusBadRequest, "Confirma la eliminación para continuar", "CONFIRMATION_REQUIRED")
	case errors.Is(err, resource.ErrNotFound), errors.Is(err, apiclient.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "No se encontró el registro solicitado", "NOT_FOUND")
	case errors.Is(err, apiclient.ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, "Tu sesión expiró, vuelve a iniciar sesión", "SESSION_EXPIRED")
	case errors.Is(err, apiclient.ErrForbidden):
		return NewHTTPError(http.StatusForbidden, "No tienes permiso para esta operación", "FORBIDDEN")
	case errors.Is(err, apiclient.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return NewHTTPError(http.StatusGatewayTimeout, "El servidor tardó demasiado en responder", "BACKEND_TIMEOUT")
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return NewHTTPError(http.StatusBadGateway, apiErr.Message, "BACKEND_ERROR")
	}
	return NewHTTPError(http.StatusBadGateway, "No se pudo completar la operación, inténtalo de nuevo", "BACKEND_ERROR")
}
