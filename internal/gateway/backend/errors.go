package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const maxErrorBodyPreview = 800

var (
	// ErrNotFound indicates the backend does not know the restaurant.
	ErrNotFound = errors.New("restaurant not found")
	// ErrUnreachable indicates a transport or non-success HTTP failure.
	ErrUnreachable = errors.New("backend is not reachable, please try again later")
	// ErrInvalidData indicates a malformed menu payload.
	ErrInvalidData = errors.New("invalid menu data received")
)

// UpstreamRequestError carries HTTP context for failed backend calls.
type UpstreamRequestError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamRequestError) Error() string {
	parts := []string{e.Unwrap().Error()}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	method := strings.TrimSpace(e.Method)
	url := strings.TrimSpace(e.URL)
	if method != "" || url != "" {
		parts = append(parts, strings.TrimSpace(method+" "+url))
	}
	if trimmed := compactBodyPreview(e.Body); trimmed != "" {
		parts = append(parts, fmt.Sprintf("body=%q", trimmed))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}
	return strings.Join(parts, "; ")
}

// Unwrap classifies the failure: 404 is NotFound, everything else is Unreachable.
func (e *UpstreamRequestError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrUnreachable
}

func compactBodyPreview(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	body = strings.ReplaceAll(body, "\n", " ")
	body = strings.ReplaceAll(body, "\r", " ")
	body = strings.Join(strings.Fields(body), " ")
	if len(body) > maxErrorBodyPreview {
		return body[:maxErrorBodyPreview] + "..."
	}
	return body
}
