// Package schoolapi is the single gateway to the school records REST backend.
// Every call takes a context, issues exactly one HTTP request and returns either
// the decoded payload or a normalized *Error.
package schoolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const defaultTimeout = 30 * time.Second

var nowFunc = time.Now

type (
	// RequestInterceptor may mutate an outgoing request; a non-nil error aborts the call.
	RequestInterceptor func(req *http.Request) error

	// ResponseInterceptor observes a response before its body is decoded.
	ResponseInterceptor func(req *http.Request, resp *http.Response)

	Options struct {
		BaseURL    string
		Timeout    time.Duration
		Tokens     core.TokenStore
		TokenKey   string
		Logger     core.Logger
		UserAgent  string
		HTTPClient *http.Client

		// run after the built-in interceptors
		RequestInterceptors  []RequestInterceptor
		ResponseInterceptors []ResponseInterceptor
	}

	Client struct {
		baseURL   string
		http      *http.Client
		tokens    core.TokenStore
		tokenKey  string
		logger    core.Logger
		userAgent string
		events    *AuthEvents

		reqInterceptors  []RequestInterceptor
		respInterceptors []ResponseInterceptor

		Students   *StudentsAPI
		Classes    *ClassesAPI
		Sections   *SectionsAPI
		Teachers   *TeachersAPI
		Attendance *AttendanceAPI
		Exams      *ExamsAPI
		Fees       *FeesAPI
		Analytics  *AnalyticsAPI
		AI         *AIAPI
		WhatsApp   *WhatsAppAPI
		Files      *FilesAPI
		Auth       *AuthAPI
	}
)

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tokenKey := opts.TokenKey
	if tokenKey == "" {
		tokenKey = "token"
	}
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		tokens:    opts.Tokens,
		tokenKey:  tokenKey,
		logger:    logger,
		userAgent: opts.UserAgent,
		events:    NewAuthEvents(),
	}
	c.reqInterceptors = append([]RequestInterceptor{c.requestID, c.bearerToken}, opts.RequestInterceptors...)
	c.respInterceptors = append([]ResponseInterceptor{c.unauthorized}, opts.ResponseInterceptors...)

	c.Students = &StudentsAPI{c}
	c.Classes = &ClassesAPI{c}
	c.Sections = &SectionsAPI{c}
	c.Teachers = &TeachersAPI{c}
	c.Attendance = &AttendanceAPI{c}
	c.Exams = &ExamsAPI{c}
	c.Fees = &FeesAPI{c}
	c.Analytics = &AnalyticsAPI{c}
	c.AI = &AIAPI{c}
	c.WhatsApp = &WhatsAppAPI{c}
	c.Files = &FilesAPI{c}
	c.Auth = &AuthAPI{c}
	return c
}

// Events is the bus on which the client publishes session changes.
func (c *Client) Events() *AuthEvents {
	return c.events
}

func (c *Client) url(path string, params url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// do performs one request and decodes a 2xx JSON body into out (when out is not nil).
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, params), body)
	if err != nil {
		return unexpectedError(method, path, 0, errors.Wrap(err, "http.NewRequest()"))
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for _, intercept := range c.reqInterceptors {
		if err := intercept(req); err != nil {
			if ctx.Err() != nil {
				return transportError(ctx, method, path, err)
			}
			return unexpectedError(method, path, 0, err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := transportError(ctx, method, path, err)
		if apiErr.Kind == KindNetwork {
			c.logger.Warn("schoolapi: "+method+" "+path, apiErr.Err)
		}
		return apiErr
	}
	defer resp.Body.Close()

	for _, intercept := range c.respInterceptors {
		intercept(req, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(ctx, method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return unexpectedError(method, path, resp.StatusCode, errors.Wrap(err, "json.Unmarshal()"))
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, payload, out interface{}) error {
	var (
		body        io.Reader
		contentType string
	)
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return unexpectedError(method, path, 0, errors.Wrap(err, "json.Marshal()"))
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, params, body, contentType, out)
}

// Get fetches path and decodes the response into T.
func Get[T any](ctx context.Context, c *Client, path string, params url.Values) (T, error) {
	var out T
	if err := c.doJSON(ctx, http.MethodGet, path, params, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Post sends body as JSON to path and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, path string, body interface{}) (T, error) {
	var out T
	if err := c.doJSON(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func Put[T any](ctx context.Context, c *Client, path string, body interface{}) (T, error) {
	var out T
	if err := c.doJSON(ctx, http.MethodPut, path, nil, body, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func Delete[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Empty is the payload type of calls whose response body is ignored.
type Empty struct{}

func (*Empty) UnmarshalJSON([]byte) error { return nil }

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
