// Copyright 2024 The Portal Client Authors
// This file is part of sqd-portal-client.
//
// sqd-portal-client is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sqd-portal-client is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with sqd-portal-client. If not, see <http://www.gnu.org/licenses/>.

package sqdportal

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// userAgent identifies this library to the portal service.
const userAgent = "sqd-portal-client/0.1.0"

// transport issues finalized-stream requests against one base URL, retrying
// transient failures with the jitter clock from retry.go.
type transport struct {
	baseURL string
	cfg     ClientConfig
	http    *http.Client
}

func newTransport(baseURL string, cfg ClientConfig) *transport {
	return &transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		cfg:     cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.HTTPReqTimeoutMillis) * time.Millisecond,
			Transport: &http.Transport{
				// HTTP/1-only: an empty, non-nil TLSNextProto map disables the
				// client's automatic HTTP/2 upgrade.
				TLSNextProto: make(map[string]func(string, *tls.Conn) http.RoundTripper),
			},
		},
	}
}

// finalizedQuery POSTs body to {base}/finalized-stream and returns the
// response bytes, or (nil, true) on 204 or an empty body.
func (t *transport) finalizedQuery(ctx context.Context, body []byte) ([]byte, bool, error) {
	var result []byte
	var atHead bool

	err := retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/finalized-stream", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := t.http.Do(req)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		b, atH, err := readResponse(resp)
		if err != nil {
			return err
		}
		result, atHead = b, atH
		return nil
	}, t.cfg.MaxNumRetries, t.cfg.RetryBaseMs, t.cfg.RetryBackoffMs, t.cfg.RetryCeilingMs)

	if err != nil {
		return nil, false, err
	}
	return result, atHead, nil
}

// finalizedHeight GETs {base}/finalized-stream/height and parses the ASCII
// decimal body as a u64.
func (t *transport) finalizedHeight(ctx context.Context) (uint64, error) {
	var height uint64

	err := retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/finalized-stream/height", nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := t.http.Do(req)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		b, atHead, err := readResponse(resp)
		if err != nil {
			return err
		}
		if atHead {
			return fmt.Errorf("finalized height endpoint returned no body")
		}

		n, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 64)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("parse height body: %w", err))
		}
		height = n
		return nil
	}, t.cfg.MaxNumRetries, t.cfg.RetryBaseMs, t.cfg.RetryBackoffMs, t.cfg.RetryCeilingMs)

	return height, err
}

// readResponse implements the transport's response contract: 2xx non-empty
// body → bytes; 204 or 2xx empty body → (nil, true); anything else →
// ErrNonOK with body text.
func readResponse(resp *http.Response) ([]byte, bool, error) {
	if resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil, true, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("%w: status %d, body: %s", ErrNonOK, resp.StatusCode, string(body))
	}

	if len(body) == 0 {
		return nil, true, nil
	}

	return body, false, nil
}
