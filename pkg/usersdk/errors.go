package usersdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyID is returned by GetUser before any request is sent.
var ErrEmptyID = errors.New("user id is required")

// APIError is a non-2xx response from the service. Detail holds the message
// of {"detail": "..."} bodies; Fields holds the entries of a 422 body.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     []ValidationDetail
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return "Validation errors:\n" + strings.Join(e.FieldMessages(), "\n")
	}
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// FieldMessages renders each validation entry as "- field: msg".
func (e *APIError) FieldMessages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msg := f.Msg
		if msg == "" {
			msg = "Invalid value"
		}
		out = append(out, fmt.Sprintf("- %s: %s", f.Field(), msg))
	}
	return out
}

// parseErrorResponse builds an APIError from either error body shape. Bodies
// that are not JSON end up verbatim in Detail.
func parseErrorResponse(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var raw struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || len(raw.Detail) == 0 {
		apiErr.Detail = strings.TrimSpace(string(body))
		return apiErr
	}

	var msg string
	if err := json.Unmarshal(raw.Detail, &msg); err == nil {
		apiErr.Detail = msg
		return apiErr
	}

	var fields []ValidationDetail
	if err := json.Unmarshal(raw.Detail, &fields); err == nil {
		apiErr.Fields = fields
		return apiErr
	}

	apiErr.Detail = string(raw.Detail)
	return apiErr
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports a 404 from the service.
func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// IsConflict reports a rejected duplicate email (400).
func IsConflict(err error) bool { return statusOf(err) == http.StatusBadRequest }

// IsValidation reports a 422 validation failure.
func IsValidation(err error) bool { return statusOf(err) == http.StatusUnprocessableEntity }

// IsRateLimited reports a 429 from the service.
func IsRateLimited(err error) bool { return statusOf(err) == http.StatusTooManyRequests }
