package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"pftracker/internal/adapters"
	"pftracker/internal/core"
	"pftracker/internal/services"
)

// ResponseBuilder provides a fluent API for JSON responses.
type ResponseBuilder struct {
	statusCode int
	data       any
	headers    map[string]string
}

// JSON creates a 200 response carrying data.
func JSON(data any) *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		data:       data,
		headers:    make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the response. A nil data writes only the status.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.data == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	body, err := json.Marshal(b.data)
	if err != nil {
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// errorBody is the shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return JSON(errorBody{Error: message}).Status(statusCode)
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// FromError maps a facade error to a response: validation problems are
// 422, unknown transactions 404 and anything else 500. Storage details
// never reach the client.
func FromError(err error) *ResponseBuilder {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		return JSON(errorBody{Error: verr.Err.Error(), Field: verr.Field}).Status(http.StatusUnprocessableEntity)
	case errors.Is(err, services.ErrTransactionNotFound):
		return ErrorResponse(http.StatusNotFound, "transaction not found")
	case errors.Is(err, adapters.ErrPersistence):
		return ErrorResponse(http.StatusInternalServerError, "could not save changes")
	default:
		return ErrorResponse(http.StatusInternalServerError, "internal error")
	}
}
