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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJitterBackOffGrowsAndCaps(t *testing.T) {
	bo := newJitterBackOff(250, 1000, 2000)

	d1 := bo.NextBackOff()
	require.GreaterOrEqual(t, d1, 250*time.Millisecond)
	require.Less(t, d1, 1250*time.Millisecond)

	d2 := bo.NextBackOff()
	require.GreaterOrEqual(t, d2, 1250*time.Millisecond)
	require.Less(t, d2, 2250*time.Millisecond)

	// base is now capped at 2000, jitter window still 1000.
	d3 := bo.NextBackOff()
	require.GreaterOrEqual(t, d3, 2000*time.Millisecond)
	require.Less(t, d3, 3000*time.Millisecond)
}

func TestJitterBackOffReset(t *testing.T) {
	bo := newJitterBackOff(250, 1000, 2000)
	bo.NextBackOff()
	bo.Reset()
	require.Equal(t, uint64(250), bo.baseMs)
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := retry(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, 9, 1, 1, 2)

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestRetryExhaustsMaxRetries(t *testing.T) {
	attempts := 0
	err := retry(func() error {
		attempts++
		return errors.New("permanent")
	}, 2, 1, 1, 2)

	require.Error(t, err)
	require.Equal(t, 3, attempts) // first try + 2 retries
}
