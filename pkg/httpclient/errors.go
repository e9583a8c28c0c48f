package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/doudou-app/doudou/pkg/errors"
)

// ErrorBody mirrors the error document the Doudou backend returns:
// {"detail": "Location not found"} or, for request validation failures,
// {"detail": [{"loc": [...], "msg": "...", "type": "..."}]}.
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationDetail struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError. The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := strings.TrimSpace(string(bodyBytes))
	var body ErrorBody
	if json.Unmarshal(bodyBytes, &body) == nil && len(body.Detail) > 0 {
		message = detailMessage(body.Detail)
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return mapStatus(resp.StatusCode, message, serviceName)
}

func detailMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var details []validationDetail
	if json.Unmarshal(raw, &details) == nil {
		msgs := make([]string, 0, len(details))
		for _, d := range details {
			field := ""
			if len(d.Loc) > 0 {
				field = fmt.Sprint(d.Loc[len(d.Loc)-1]) + ": "
			}
			msgs = append(msgs, field+d.Msg)
		}
		return strings.Join(msgs, "; ")
	}

	return string(raw)
}

// mapStatus classifies a backend status code. The store treats every non-2xx
// identically; the kinds only feed logs and metrics.
func mapStatus(status int, message, serviceName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: qualifiedMsg,
			Status:  status,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		err := apperrors.InvalidInput(qualifiedMsg)
		err.Status = status
		return err
	case status == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case status == http.StatusServiceUnavailable, status == http.StatusBadGateway, status == http.StatusGatewayTimeout:
		err := apperrors.ServiceUnavailable(qualifiedMsg)
		err.Status = status
		return err
	default:
		return apperrors.UnexpectedStatus(status, qualifiedMsg)
	}
}

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
