// Package httputil writes JSON responses in the backend's wire format:
// payloads are bare JSON and failures are {"detail": ...} documents.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/doudou-app/doudou/pkg/errors"
	"github.com/doudou-app/doudou/pkg/logger"
	"github.com/doudou-app/doudou/pkg/validator"
)

// DetailResponse is the error document returned for any non-2xx response.
type DetailResponse struct {
	Detail any `json:"detail"`
}

// FieldDetail describes one request validation failure.
type FieldDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// MessageResponse is the body of endpoints that only acknowledge an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes {"detail": detail} with the given status.
func WriteDetail(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, DetailResponse{Detail: detail})
}

// WriteError maps err to a status code and writes it as a detail document.
// Unclassified errors are logged and reported as 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		WriteDetail(w, appErr.Status, appErr.Message)
		return
	}

	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		WriteDetail(w, status, http.StatusText(status))
		return
	}

	WriteDetail(w, status, err.Error())
}

// WriteValidationError writes a 422 response listing each invalid field.
// Errors that are not validation failures become a single body-level entry.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if !errors.As(err, &valErr) {
		WriteJSON(w, http.StatusUnprocessableEntity, DetailResponse{Detail: []FieldDetail{
			{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error.jsondecode"},
		}})
		return
	}

	details := make([]FieldDetail, 0, len(valErr.Errors))
	for _, fe := range valErr.Errors {
		details = append(details, FieldDetail{
			Loc:  []string{"body", fe.Field()},
			Msg:  valErr.Fields()[fe.Field()],
			Type: "value_error." + strings.ToLower(fe.Tag()),
		})
	}
	WriteJSON(w, http.StatusUnprocessableEntity, DetailResponse{Detail: details})
}

// ParseID checks that param is a well-formed identifier. When it is not, a
// 400 "Invalid <what> ID" response is written and false is returned.
func ParseID(w http.ResponseWriter, param, what string) (string, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		WriteDetail(w, http.StatusBadRequest, "Invalid "+what+" ID")
		return "", false
	}
	return id.String(), true
}
