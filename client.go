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

// Package sqdportal is a client for a remote portal service that serves
// historical EVM and Solana blockchain data as newline-delimited JSON. It
// turns a declarative query into Arrow record batches, either as a single
// finalized-range fetch or as a continuously advancing block stream.
package sqdportal

import (
	"bytes"
	"context"
	"fmt"

	"github.com/steelcake/sqd-portal-client/evm"
	"github.com/steelcake/sqd-portal-client/svm"
)

// Client is the public façade: query execution (one-shot), streaming, and
// chain-height lookup against one portal base URL.
type Client struct {
	t *transport
}

// New returns a Client configured against baseURL.
func New(baseURL string, cfg ClientConfig) *Client {
	return &Client{t: newTransport(baseURL, cfg)}
}

// FinalizedHeight returns the highest finalized block/slot the portal has
// indexed.
func (c *Client) FinalizedHeight(ctx context.Context) (uint64, error) {
	return c.t.finalizedHeight(ctx)
}

// EvmArrowFinalizedQuery executes one EVM query and decodes the response
// into a batch set. The second return value is false when the portal
// responded 204 or with an empty body (the query's range is entirely past
// the chain head).
func (c *Client) EvmArrowFinalizedQuery(ctx context.Context, q *evm.Query) (*evm.Response, bool, error) {
	body, err := q.Marshal()
	if err != nil {
		return nil, false, fmt.Errorf("marshal query: %w", err)
	}

	resp, atHead, err := c.t.finalizedQuery(ctx, body)
	if err != nil {
		return nil, false, fmt.Errorf("execute query: %w", err)
	}
	if atHead {
		return nil, false, nil
	}

	p := evm.NewParser()
	if err := parseLines(resp, p.ParseLine); err != nil {
		return nil, false, fmt.Errorf("parse response: %w", err)
	}

	return p.Finish(), true, nil
}

// SvmArrowFinalizedQuery executes one SVM query and decodes the response
// into a batch set. The second return value is false on a 204 or an empty
// body.
func (c *Client) SvmArrowFinalizedQuery(ctx context.Context, q *svm.Query) (*svm.Response, bool, error) {
	body, err := q.Marshal()
	if err != nil {
		return nil, false, fmt.Errorf("marshal query: %w", err)
	}

	resp, atHead, err := c.t.finalizedQuery(ctx, body)
	if err != nil {
		return nil, false, fmt.Errorf("execute query: %w", err)
	}
	if atHead {
		return nil, false, nil
	}

	p := svm.NewParser()
	if err := parseLines(resp, p.ParseLine); err != nil {
		return nil, false, fmt.Errorf("parse response: %w", err)
	}

	return p.Finish(), true, nil
}

// parseLines splits an NDJSON body on '\n', skips empty lines, and hands
// each remaining line to parseLine.
func parseLines(body []byte, parseLine func([]byte) error) error {
	for _, line := range bytes.Split(body, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := parseLine(line); err != nil {
			return err
		}
	}
	return nil
}

// EvmArrowFinalizedStream streams EVM batches starting at q.FromBlock,
// advancing the cursor after every batch, until q.ToBlock is crossed, ctx is
// cancelled, or an unrecoverable error occurs. The returned channel is
// closed when the stream ends; an error item, if any, is always last.
func (c *Client) EvmArrowFinalizedStream(ctx context.Context, q evm.Query, cfg StreamConfig) <-chan StreamResult[*evm.Response] {
	q.ForceBlockNumberMask()
	out := make(chan StreamResult[*evm.Response], cfg.BufferSize)

	go runStream(
		ctx, out, cfg,
		func() bool { return q.ToBlock != nil && *q.ToBlock < q.FromBlock },
		func(ctx context.Context) (*evm.Response, bool, error) { return c.EvmArrowFinalizedQuery(ctx, &q) },
		func(r *evm.Response) (uint64, error) { return r.NextBlock() },
		func(next uint64) { q.FromBlock = next },
	)

	return out
}

// SvmArrowFinalizedStream streams SVM batches; see EvmArrowFinalizedStream.
func (c *Client) SvmArrowFinalizedStream(ctx context.Context, q svm.Query, cfg StreamConfig) <-chan StreamResult[*svm.Response] {
	q.ForceBlockNumberMask()
	out := make(chan StreamResult[*svm.Response], cfg.BufferSize)

	go runStream(
		ctx, out, cfg,
		func() bool { return q.ToBlock != nil && *q.ToBlock < q.FromBlock },
		func(ctx context.Context) (*svm.Response, bool, error) { return c.SvmArrowFinalizedQuery(ctx, &q) },
		func(r *svm.Response) (uint64, error) { return r.NextBlock() },
		func(next uint64) { q.FromBlock = next },
	)

	return out
}
