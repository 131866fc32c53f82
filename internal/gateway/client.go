// Package gateway is the HTTP boundary between the site and the projects API.
//
// RESPONSIBILITIES:
//   - issue one request per call (no retries at this layer)
//   - encode create/update payloads as streamed multipart bodies
//   - normalise every failure into an *apperror.AppError:
//     transport failure -> ErrNetwork, non-2xx -> kind by status
//
// The only error that is NOT normalised is the caller's own context being
// cancelled: that is returned as-is so upper layers can ignore late results
// from views the user already left.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/model"
)

// Default per-operation messages, shown when the server gives no explanation.
const (
	MsgList   = "Error fetching projects"
	MsgGet    = "Error fetching project details"
	MsgCreate = "Error creating project"
	MsgUpdate = "Error updating project"
	MsgDelete = "Error deleting project"
	MsgLogin  = "Invalid credentials"
)

// RequestIDHeader carries a per-call id the API echoes into its request log.
const RequestIDHeader = "X-Request-Id"

// Client talks to the projects REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests use httptest's).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTokenSource authenticates every request with a bearer token taken from
// ts. Admin mutations need it; public reads work without.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc := *c.http
		hc.Transport = &oauth2.Transport{Source: ts, Base: base}
		c.http = &hc
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the API rooted at baseURL
// (e.g. "https://api.example.com/api").
//
// Options are applied in order, so WithHTTPClient must come before
// WithTokenSource when both are used.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: base URL must be absolute, got %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the API's response wrapper: {"data": ...}.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// errorBody is the API's error shape. Older deployments only send "error"
// with the human text; newer ones send a machine kind in "error" and the
// text in "message".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// List returns every project in server order.
func (c *Client) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects", nil, &projects, MsgList); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}

// Get returns a single project.
func (c *Client) Get(ctx context.Context, id string) (*model.Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "project ID is required")
	}
	var p model.Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, &p, MsgGet); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create uploads a new project. Empty optional text fields are left out of
// the form.
func (c *Client) Create(ctx context.Context, payload ProjectPayload) (*model.Project, error) {
	body, contentType := encodeMultipart(payload, false)
	var p model.Project
	if err := c.do(ctx, http.MethodPost, "/projects", body, contentType, &p, MsgCreate); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the text fields of a project and uploads any new images.
// Every text field is sent, so clearing a field on the form clears it on
// the server.
func (c *Client) Update(ctx context.Context, id string, payload ProjectPayload) (*model.Project, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "project ID is required")
	}
	body, contentType := encodeMultipart(payload, true)
	var p model.Project
	if err := c.do(ctx, http.MethodPut, "/projects/"+url.PathEscape(id), body, contentType, &p, MsgUpdate); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a project.
func (c *Client) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "project ID is required")
	}
	return c.doJSON(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil, MsgDelete)
}

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("gateway: encoding login: %w", err)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", bytes.NewReader(payload), "application/json", &out, MsgLogin); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", apperror.HTTPStatus(http.StatusBadGateway, MsgLogin)
	}
	return out.Token, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, out any, defMsg string) error {
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out, defMsg)
}

// do performs a single request and decodes a {"data": ...} envelope into out.
// A bare (unwrapped) JSON body is accepted as well.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any, defMsg string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		if rc, ok := body.(io.Closer); ok {
			rc.Close()
		}
		return fmt.Errorf("gateway: building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// The caller gave up; this is not a failure of the API.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// Token source failures (e.g. expired session) arrive wrapped in
		// *url.Error but are already classified.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		c.logger.Debug("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return apperror.Network(defMsg, nil)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, defMsg)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperror.Network(defMsg, nil)
	}
	if err := decodeData(raw, out); err != nil {
		c.logger.Warn("undecodable response",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return apperror.HTTPStatus(resp.StatusCode, defMsg)
	}
	return nil
}

func decodeData(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(raw, out)
}

// decodeError builds the normalised error for a non-2xx response. The
// server's explanation wins over the default message.
func decodeError(resp *http.Response, defMsg string) error {
	msg := defMsg
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			msg = body.Message
		case body.Error != "":
			msg = body.Error
		}
	}
	return apperror.HTTPStatus(resp.StatusCode, msg)
}
