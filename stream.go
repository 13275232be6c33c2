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
	"context"
	"time"
)

// StreamResult is one item produced by a stream driver: either a decoded
// batch or a terminal error. An error item is always the last item sent.
type StreamResult[T any] struct {
	Value T
	Err   error
}

// runStream implements the chunked stream driver loop from spec §4.J.
// query executes one finalized-stream call; nextBlock derives the cursor
// advance from a batch; advance mutates the caller's query for the next
// iteration. Cancelling ctx is the cooperative equivalent of dropping the
// receiver: the producer returns no later than its next send attempt.
func runStream[T any](
	ctx context.Context,
	out chan<- StreamResult[T],
	cfg StreamConfig,
	atBound func() bool,
	query func(ctx context.Context) (T, bool, error),
	nextBlock func(T) (uint64, error),
	advance func(uint64),
) {
	defer close(out)

	for {
		if atBound() {
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		r, ok, err := query(ctx)
		if err != nil {
			sendResult(ctx, out, StreamResult[T]{Err: err})
			return
		}
		if !ok {
			if cfg.StopOnHead {
				return
			}
			select {
			case <-time.After(time.Duration(cfg.HeadPollIntervalMillis) * time.Millisecond):
			case <-ctx.Done():
				return
			}
			continue
		}

		next, err := nextBlock(r)
		if err != nil {
			sendResult(ctx, out, StreamResult[T]{Err: err})
			return
		}
		advance(next)

		if !sendResult(ctx, out, StreamResult[T]{Value: r}) {
			return
		}
	}
}

// sendResult blocks on out unless ctx is cancelled first, and reports
// whether the value was delivered.
func sendResult[T any](ctx context.Context, out chan<- StreamResult[T], v StreamResult[T]) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
