package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Body   any    // encoded as JSON when non-nil
	Token  string // bearer token; omitted when empty
}

// Fetcher performs API calls against a base URL.
type Fetcher struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

func NewFetcher(baseURL string, httpClient *http.Client, log logging.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log.With("component", "api"),
	}
}

// Do sends req. When the server answers 401 and onExpired is non-nil,
// onExpired runs before Do returns. The caller owns the response body.
func (f *Fetcher) Do(ctx context.Context, req Request, onExpired func()) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", req.Path, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, f.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", req.Path, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeader, requestID)
	if req.Token != "" {
		httpReq.Header.Set(common.AuthorizationHeader, common.BearerPrefix+req.Token)
	}

	resp, err := f.http.Do(httpReq)
	if err != nil {
		f.log.Debug(ctx, "request failed", "method", req.Method, "path", req.Path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, req.Method, req.Path, err)
	}

	f.log.Debug(ctx, "request done", "method", req.Method, "path", req.Path, "request_id", requestID, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized && onExpired != nil {
		f.log.Info(ctx, "server rejected session token", "path", req.Path)
		onExpired()
	}
	return resp, nil
}
