package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service is the logstory server surface used by the terminal client.
// It is implemented by *Client and can be faked in tests.
type Service interface {
	Health(ctx context.Context) (HealthResponse, error)
	FetchLogTypes(ctx context.Context) ([]string, error)
	FetchPatterns(ctx context.Context, logType string) ([]PatternSpec, error)
	FetchLogContent(ctx context.Context, logType string) (LogContentResponse, error)
	Upload(ctx context.Context, logType, filename string, content io.Reader) (UploadResponse, error)
	DeleteUpload(ctx context.Context, logType string) error
	Validate(ctx context.Context, pattern string) (ValidateResponse, error)
	Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResponse, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// ErrNilClient is returned by every method of a nil *Client.
var ErrNilClient = errors.New("client is nil")

// StatusError is a non-2xx reply from the server.
type StatusError struct {
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Code, e.Message)
}

// Client talks to the logstory HTTP and socket API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultServer    = "127.0.0.1:5000"
	defaultUserAgent = "logstory/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for server, a host:port or base URL.
func NewClient(server string) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	if c == nil {
		return HealthResponse{}, ErrNilClient
	}
	var payload HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, "", &payload); err != nil {
		return HealthResponse{}, err
	}
	return payload, nil
}

// FetchLogTypes lists the configured log types.
func (c *Client) FetchLogTypes(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	var payload LogTypesResponse
	if err := c.do(ctx, http.MethodGet, "/api/log-types", nil, "", &payload); err != nil {
		return nil, err
	}
	return payload.LogTypes, nil
}

// FetchPatterns retrieves the configured patterns of a log type.
func (c *Client) FetchPatterns(ctx context.Context, logType string) ([]PatternSpec, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	var payload PatternsResponse
	if err := c.doURL(ctx, http.MethodGet, named("/api/patterns/", logType), nil, "", &payload); err != nil {
		return nil, err
	}
	return payload.Patterns, nil
}

// FetchLogContent retrieves the preview window of a log type's content.
func (c *Client) FetchLogContent(ctx context.Context, logType string) (LogContentResponse, error) {
	if c == nil {
		return LogContentResponse{}, ErrNilClient
	}
	var payload LogContentResponse
	if err := c.doURL(ctx, http.MethodGet, named("/api/log-content/", logType), nil, "", &payload); err != nil {
		return LogContentResponse{}, err
	}
	return payload, nil
}

// Upload sends content as the log for logType.
func (c *Client) Upload(ctx context.Context, logType, filename string, content io.Reader) (UploadResponse, error) {
	if c == nil {
		return UploadResponse{}, ErrNilClient
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("log_type", logType); err != nil {
		return UploadResponse{}, fmt.Errorf("encode upload: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("encode upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadResponse{}, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResponse{}, fmt.Errorf("encode upload: %w", err)
	}

	var payload UploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/upload-log", &body, mw.FormDataContentType(), &payload); err != nil {
		return UploadResponse{}, err
	}
	return payload, nil
}

// DeleteUpload discards the uploaded log of logType.
func (c *Client) DeleteUpload(ctx context.Context, logType string) error {
	if c == nil {
		return ErrNilClient
	}
	return c.doURL(ctx, http.MethodDelete, named("/api/uploads/", logType), nil, "", nil)
}

// Validate asks the server whether pattern compiles.
func (c *Client) Validate(ctx context.Context, pattern string) (ValidateResponse, error) {
	if c == nil {
		return ValidateResponse{}, ErrNilClient
	}
	body, err := json.Marshal(ValidateRequest{Pattern: pattern})
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("encode request: %w", err)
	}
	var payload ValidateResponse
	if err := c.do(ctx, http.MethodPost, "/api/validate", bytes.NewReader(body), "application/json", &payload); err != nil {
		return ValidateResponse{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, dest any) error {
	return c.doURL(ctx, method, &url.URL{Path: path}, body, contentType, dest)
}

// named builds prefix+name with name escaped as a single path segment.
func named(prefix, name string) *url.URL {
	return &url.URL{Path: prefix + name, RawPath: prefix + url.PathEscape(name)}
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType string, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var payload ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)
		return &StatusError{Path: rel.Path, Code: resp.StatusCode, Message: payload.Error}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		trimmed = defaultServer
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", server, err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("parse server url %q: unsupported scheme %q", server, u.Scheme)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
