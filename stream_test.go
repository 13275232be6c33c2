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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunStreamAdvancesCursorUntilToBlock(t *testing.T) {
	from := uint64(0)
	to := uint64(2)

	out := make(chan StreamResult[uint64], 10)
	runStream(
		context.Background(), out, DefaultStreamConfig(),
		func() bool { return from > to },
		func(ctx context.Context) (uint64, bool, error) { return from, true, nil },
		func(v uint64) (uint64, error) { return v + 1, nil },
		func(next uint64) { from = next },
	)

	var got []uint64
	for r := range out {
		require.NoError(t, r.Err)
		got = append(got, r.Value)
	}
	require.Equal(t, []uint64{0, 1, 2}, got)
}

func TestRunStreamStopsOnHeadWhenConfigured(t *testing.T) {
	calls := 0
	out := make(chan StreamResult[uint64], 10)

	cfg := DefaultStreamConfig()
	cfg.StopOnHead = true

	runStream(
		context.Background(), out, cfg,
		func() bool { return false },
		func(ctx context.Context) (uint64, bool, error) {
			calls++
			if calls == 1 {
				return 5, true, nil
			}
			return 0, false, nil // 204
		},
		func(v uint64) (uint64, error) { return v + 1, nil },
		func(next uint64) {},
	)

	var got []uint64
	for r := range out {
		got = append(got, r.Value)
	}
	require.Equal(t, []uint64{5}, got)
	require.Equal(t, 2, calls)
}

func TestRunStreamSendsTerminalError(t *testing.T) {
	out := make(chan StreamResult[uint64], 10)
	wantErr := errors.New("boom")

	runStream(
		context.Background(), out, DefaultStreamConfig(),
		func() bool { return false },
		func(ctx context.Context) (uint64, bool, error) { return 0, false, wantErr },
		func(v uint64) (uint64, error) { return v + 1, nil },
		func(next uint64) {},
	)

	r, ok := <-out
	require.True(t, ok)
	require.ErrorIs(t, r.Err, wantErr)

	_, ok = <-out
	require.False(t, ok)
}

func TestRunStreamCancelContextStopsProducer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan StreamResult[uint64])

	done := make(chan struct{})
	go func() {
		runStream(
			ctx, out, DefaultStreamConfig(),
			func() bool { return false },
			func(ctx context.Context) (uint64, bool, error) { return 1, true, nil },
			func(v uint64) (uint64, error) { return v + 1, nil },
			func(next uint64) {},
		)
		close(done)
	}()

	<-out // consume exactly once, then walk away
	cancel()
	<-done
}
