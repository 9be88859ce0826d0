// Package engine is the HTTP client for the external report engine, the
// service that fetches telemetry and writes the multi-sheet spreadsheet.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/diyip/tb-pivot-excel/pkg/payload"
)

const generatePath = "/api/report/generate"

// maxErrorExcerpt bounds how much of a failure body is carried into the
// error message shown to the user.
const maxErrorExcerpt = 512

// Client talks to one report engine instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given engine base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Result is a successful generation: the spreadsheet stream plus the
// filename the engine suggested. The caller owns closing Body.
type Result struct {
	Body     io.ReadCloser
	Filename string
}

// Generate POSTs the request and returns the binary spreadsheet stream.
// Any non-2xx status is a failure; the body is not required to be JSON, so
// a trimmed excerpt of it is folded into the error. There is no retry:
// the caller surfaces the error and the user re-triggers manually.
func (c *Client) Generate(ctx context.Context, req *payload.Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding report request: %w", err)
	}

	url := c.baseURL + generatePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building report request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling report engine at %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := readExcerpt(resp.Body)
		resp.Body.Close()
		if excerpt == "" {
			return nil, fmt.Errorf("report engine returned %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("report engine returned %d: %s", resp.StatusCode, excerpt)
	}

	return &Result{
		Body:     resp.Body,
		Filename: suggestedFilename(resp.Header.Get("Content-Disposition")),
	}, nil
}

func readExcerpt(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorExcerpt))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func suggestedFilename(contentDisposition string) string {
	if contentDisposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
