// Package client talks to the circular-code analysis service.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/metrics"
	"github.com/vanderheijden86/ccview/pkg/model"
	"github.com/vanderheijden86/ccview/pkg/results"
)

const (
	analyzePath     = "/analyze"
	analyzeFilePath = "/analyze-file"

	// unknownError is reported when the service fails without a message.
	unknownError = "Unknown error"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client submits text and files for analysis. Calls are not queued: callers
// must not start a second call of the same kind while one is pending.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeText submits text and wraps the single returned result as a
// one-element set labelled "Manual Input".
func (c *Client) AnalyzeText(ctx context.Context, text string) (results.Set, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return results.Set{}, &TransportError{Op: "encode request", Err: err}
	}

	resp, err := c.post(ctx, analyzePath, "application/json", bytes.NewReader(body))
	if err != nil {
		return results.Set{}, err
	}

	return results.Set{
		Results: []model.AnalysisResult{resp.Result()},
		Source:  results.ManualSource,
	}, nil
}

// AnalyzeFile uploads r as the multipart field "file". A multi-block source
// yields one result per block; an older single-object reply yields one.
// An empty result list returns the empty set together with ErrNoValidCodes.
func (c *Client) AnalyzeFile(ctx context.Context, name string, r io.Reader) (results.Set, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return results.Set{}, &TransportError{Op: "build upload", Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return results.Set{}, &TransportError{Op: "read upload", Err: err}
	}
	if err := mw.Close(); err != nil {
		return results.Set{}, &TransportError{Op: "build upload", Err: err}
	}

	resp, err := c.post(ctx, analyzeFilePath, mw.FormDataContentType(), &buf)
	if err != nil {
		return results.Set{}, err
	}

	set := results.Set{Source: filepath.Base(name)}
	if resp.Results != nil {
		set.Results = *resp.Results
	} else {
		set.Results = []model.AnalysisResult{resp.Result()}
	}
	if len(set.Results) == 0 {
		return set, ErrNoValidCodes
	}
	return set, nil
}

// AnalyzeFilePath opens path and uploads it with AnalyzeFile.
func (c *Client) AnalyzeFilePath(ctx context.Context, path string) (results.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return results.Set{}, &TransportError{Op: "open file", Err: err}
	}
	defer f.Close()
	return c.AnalyzeFile(ctx, path, f)
}

// post sends a request and decodes the service envelope. Any response that
// is not ok, or that carries a top-level error, becomes a BackendError.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (model.Response, error) {
	defer metrics.Timer(metrics.Request)()
	op := "POST " + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return model.Response{}, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	debug.Log("%s -> %s", op, c.baseURL)
	res, err := c.http.Do(req)
	if err != nil {
		return model.Response{}, &TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return model.Response{}, &TransportError{Op: op, Err: err}
	}
	debug.Log("%s <- %d (%d bytes)", op, res.StatusCode, len(raw))

	var decoded model.Response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return model.Response{}, &TransportError{
			Op:  op,
			Err: fmt.Errorf("malformed response (HTTP %d): %w", res.StatusCode, err),
		}
	}

	if !decoded.OK || decoded.Error != "" {
		msg := decoded.Error
		if msg == "" {
			msg = unknownError
		}
		return model.Response{}, &BackendError{StatusCode: res.StatusCode, Message: msg}
	}
	return decoded, nil
}
