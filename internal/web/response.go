package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"docsum/internal/domain"
)

type httpError struct {
	Code    int
	Message string
}

func (e *httpError) Error() string { return e.Message }

func jsonResponse(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, status int, message string) error {
	return jsonResponse(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var he *httpError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrNoText):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// userMessage hides internal errors behind a generic message.
func userMessage(err error) string {
	var he *httpError
	switch {
	case errors.As(err, &he):
		return he.Message
	case errors.Is(err, domain.ErrNoText):
		return "Upload a file first!"
	case errors.Is(err, domain.ErrUnsupportedType):
		return "Unsupported file type! Upload a PDF or an image."
	case statusFor(err) == http.StatusInternalServerError:
		return "Internal server error"
	}
	return err.Error()
}

func handleError(w http.ResponseWriter, err error) {
	_ = jsonError(w, statusFor(err), userMessage(err))
}

func decodeJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return &httpError{Code: http.StatusUnsupportedMediaType, Message: "Content-Type must be application/json"}
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &httpError{Code: http.StatusBadRequest, Message: "Invalid JSON payload: " + err.Error()}
	}
	return nil
}
