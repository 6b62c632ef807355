package taskapi

import (
	"fmt"

	"github.com/phrazzld/taskwatch/internal/domain"
)

// ResponseError describes a non-2xx answer from the task server.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: server responded %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: server responded %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match ResponseError against the domain sentinels.
func (e *ResponseError) Unwrap() error {
	return domain.ErrRemote
}
