package vikunja

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"

	"github.com/teemow/flow-vikunja/internal/instrumentation"
	"github.com/teemow/flow-vikunja/internal/logging"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// Client talks to the Vikunja REST API with a static bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	base    http.RoundTripper
	timeout time.Duration
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// WithTransport sets the base transport the bearer and tracing layers wrap.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.base = rt }
}

// WithTimeout sets an overall request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithMetrics records API request metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates a client for the Vikunja API rooted at baseURL
// (e.g. "https://vikunja.example.com/api/v1").
func NewClient(baseURL, token string, opts ...Option) *Client {
	o := clientOptions{base: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	transport := &oauth2.Transport{
		Source: src,
		Base:   otelhttp.NewTransport(o.base),
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: transport, Timeout: o.timeout},
		metrics:    o.metrics,
		logger:     o.logger,
	}
}

// BaseURL returns the API root the client was created with, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateTask creates a task via POST /tasks. Vikunja answers 201 on success.
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*Task, error) {
	ctx, span := instrumentation.StartAPISpan(ctx, instrumentation.OperationCreateTask,
		attribute.Int64(instrumentation.SpanAttrListID, input.ListID))
	defer span.End()

	body, err := json.Marshal(toCreateTaskRequest(input))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to marshal create task request: %w", err)
	}

	status, raw, err := c.do(ctx, instrumentation.OperationCreateTask, http.MethodPost, "/tasks", body)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrStatusCode, status))

	if status != http.StatusCreated {
		apiErr := &APIError{Operation: instrumentation.OperationCreateTask, StatusCode: status, Body: string(raw)}
		instrumentation.SetSpanError(span, apiErr)
		return nil, apiErr
	}

	task := &Task{
		Title:   input.Title,
		ListID:  input.ListID,
		DueDate: input.DueDate,
	}
	// The echo is informational; a body we can't read doesn't undo the 201.
	if gjson.ValidBytes(raw) {
		parsed := gjson.ParseBytes(raw)
		task.ID = parsed.Get("id").Int()
		if title := parsed.Get("title"); title.Exists() {
			task.Title = title.String()
		}
	}

	instrumentation.SetSpanSuccess(span)
	return task, nil
}

// Lists fetches all lists via GET /lists. It returns the decoded lists and
// the raw body so callers can persist it verbatim.
func (c *Client) Lists(ctx context.Context) ([]List, []byte, error) {
	ctx, span := instrumentation.StartAPISpan(ctx, instrumentation.OperationListLists)
	defer span.End()

	status, raw, err := c.do(ctx, instrumentation.OperationListLists, http.MethodGet, "/lists", nil)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, nil, err
	}
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrStatusCode, status))

	if status != http.StatusOK {
		apiErr := &APIError{Operation: instrumentation.OperationListLists, StatusCode: status, Body: string(raw)}
		instrumentation.SetSpanError(span, apiErr)
		return nil, nil, apiErr
	}

	lists, err := decodeLists(raw)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, nil, err
	}

	instrumentation.SetSpanSuccess(span)
	return lists, raw, nil
}

func decodeLists(raw []byte) ([]List, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("failed to decode lists response: invalid JSON")
	}
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("failed to decode lists response: expected array, got %s", parsed.Type)
	}

	lists := make([]List, 0, len(parsed.Array()))
	parsed.ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() {
			lists = append(lists, List{
				ID:    value.Get("id").Int(),
				Title: value.Get("title").String(),
			})
		}
		return true
	})
	return lists, nil
}

// do sends one request and returns the status code and (size-capped) body.
// Only failures to get a response are returned as errors.
func (c *Client) do(ctx context.Context, operation, method, path string, body []byte) (int, []byte, error) {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, operation, 0, start, err)
		return 0, nil, &TransportError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.record(ctx, operation, resp.StatusCode, start, err)
		return 0, nil, &TransportError{Operation: operation, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.record(ctx, operation, resp.StatusCode, start, nil)
	return resp.StatusCode, raw, nil
}

func (c *Client) record(ctx context.Context, operation string, statusCode int, start time.Time, err error) {
	duration := time.Since(start)
	status := instrumentation.StatusSuccess
	if err != nil || statusCode >= 300 {
		status = instrumentation.StatusError
	}
	c.metrics.RecordAPIRequest(ctx, operation, status, statusCode, duration)

	c.logger.DebugContext(ctx, "vikunja request",
		logging.Operation(operation),
		logging.StatusCode(statusCode),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, duration),
		logging.Err(err),
	)
}
