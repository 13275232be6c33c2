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
	"math/rand"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/erigontech/erigon-lib/log/v3"
)

// jitterBackOff implements the retry clock from spec §4.I: additive uniform
// jitter over [0, retryBackoffMs), with the base growing by retryBackoffMs
// every attempt and capped at retryCeilingMs.
type jitterBackOff struct {
	mu sync.Mutex

	baseMs     uint64
	backoffMs  uint64
	ceilingMs  uint64
	startBase  uint64
	rng        *rand.Rand
}

func newJitterBackOff(retryBaseMs, retryBackoffMs, retryCeilingMs uint64) *jitterBackOff {
	return &jitterBackOff{
		baseMs:    retryBaseMs,
		backoffMs: retryBackoffMs,
		ceilingMs: retryCeilingMs,
		startBase: retryBaseMs,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *jitterBackOff) NextBackOff() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	jitter := uint64(0)
	if b.backoffMs > 0 {
		jitter = uint64(b.rng.Int63n(int64(b.backoffMs)))
	}

	d := time.Duration(b.baseMs+jitter) * time.Millisecond

	next := b.baseMs + b.backoffMs
	if next > b.ceilingMs {
		next = b.ceilingMs
	}
	b.baseMs = next

	return d
}

func (b *jitterBackOff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.baseMs = b.startBase
}

// retry runs op, retrying up to maxNumRetries times on error using the
// additive-jitter backoff clock, logging each failed attempt.
func retry(op backoff.Operation, maxNumRetries, retryBaseMs, retryBackoffMs, retryCeilingMs uint64) error {
	bo := backoff.WithMaxRetries(
		newJitterBackOff(retryBaseMs, retryBackoffMs, retryCeilingMs),
		maxNumRetries,
	)

	return backoff.RetryNotify(op, bo, func(err error, d time.Duration) {
		log.Warn("portal request failed, retrying", "err", err, "sleep", d)
	})
}
