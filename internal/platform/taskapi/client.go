package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/phrazzld/taskwatch/internal/redact"
	"github.com/phrazzld/taskwatch/internal/tracker"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// maxErrorMessage caps a non-JSON error body kept in an error, in bytes.
const maxErrorMessage = 200

// Client talks to the remote task server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid task server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid task server url %q: scheme must be http or https", redact.URL(baseURL))
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		baseURL:    u,
		httpClient: cleanhttp.DefaultPooledClient(),
		logger:     logger.With("component", "task_api_client", "base_url", redact.URL(baseURL)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// wire formats of the task server
type (
	createResponse struct {
		TaskID string `json:"task_id"`
	}

	summaryResponse struct {
		TaskID string `json:"task_id"`
		Status string `json:"status"`
	}

	statusResponse struct {
		Status string `json:"status"`
	}

	outcomeResponse struct {
		Result json.RawMessage `json:"result,omitempty"`
		Error  string          `json:"error,omitempty"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

// Health checks that the task server is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// CreateTask starts a new task and returns its id.
func (c *Client) CreateTask(ctx context.Context) (string, error) {
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, &resp); err != nil {
		return "", err
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("%w: create response without task_id", domain.ErrRemote)
	}
	return resp.TaskID, nil
}

// ListTasks returns the server's tasks, restricted to status unless it is empty.
func (c *Client) ListTasks(ctx context.Context, status domain.TaskStatus) ([]tracker.TaskSummary, error) {
	path := "/tasks"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}

	var resp []summaryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	summaries := make([]tracker.TaskSummary, 0, len(resp))
	for _, s := range resp {
		parsed, err := domain.ParseTaskStatus(s.Status)
		if err != nil {
			c.logger.Warn("skipping listed task with unknown status",
				"task_id", s.TaskID,
				"status", s.Status)
			continue
		}
		summaries = append(summaries, tracker.TaskSummary{ID: s.TaskID, Status: parsed})
	}
	return summaries, nil
}

// GetStatus returns the current status of a task.
func (c *Client) GetStatus(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, taskPath(taskID, "status"), nil, &resp); err != nil {
		return "", err
	}

	status, err := domain.ParseTaskStatus(resp.Status)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRemote, err)
	}
	return status, nil
}

// CancelTask asks the server to cancel a task.
func (c *Client) CancelTask(ctx context.Context, taskID string) error {
	body := statusResponse{Status: string(domain.TaskStatusCancelled)}
	return c.do(ctx, http.MethodPatch, taskPath(taskID, "status"), body, nil)
}

// GetOutcome returns the result or error of a finished task.
func (c *Client) GetOutcome(ctx context.Context, taskID string) (domain.Outcome, error) {
	var resp outcomeResponse
	if err := c.do(ctx, http.MethodGet, taskPath(taskID, "result"), nil, &resp); err != nil {
		return domain.Outcome{}, err
	}

	outcome := domain.Outcome{
		Result: resultText(resp.Result),
		Error:  resp.Error,
	}
	if err := outcome.Validate(); err != nil {
		return domain.Outcome{}, fmt.Errorf("%w: %w", domain.ErrRemote, err)
	}
	return outcome, nil
}

// DeleteTask removes a task from the server.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, taskPath(taskID, ""), nil, nil)
}

// do sends one request and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", redact.Error(err))
		return fmt.Errorf("%w: %s %s: %w", domain.ErrRemote, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", domain.ErrRemote, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s: %s", domain.ErrNotFound, method, path, errorMessage(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ResponseError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		if out != nil {
			return fmt.Errorf("%w: %s %s: empty response body", domain.ErrRemote, method, path)
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", domain.ErrRemote, err)
	}
	return nil
}

func taskPath(taskID, suffix string) string {
	p := "/tasks/" + url.PathEscape(taskID)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// resultText renders a result value as text. Strings are unquoted; numbers
// and other JSON values keep their literal form.
func resultText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

func errorMessage(data []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err == nil && resp.Error != "" {
		return resp.Error
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > maxErrorMessage {
		cut := maxErrorMessage
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return msg
}

var _ tracker.TaskAPI = (*Client)(nil)
