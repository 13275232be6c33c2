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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steelcake/sqd-portal-client/evm"
)

func TestEvmArrowFinalizedQueryDecodesNDJSON(t *testing.T) {
	body := "{\"header\":{\"number\":1,\"hash\":\"0xaa\"}}\n{\"header\":{\"number\":2,\"hash\":\"0xbb\"}}\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := New(srv.URL, testConfig())
	q := evm.NewQuery()
	q.FromBlock = 1

	resp, ok, err := c.EvmArrowFinalizedQuery(context.Background(), &q)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 2, resp.Blocks.NumRows())

	next, err := resp.NextBlock()
	require.NoError(t, err)
	require.EqualValues(t, 3, next)
}

func TestEvmArrowFinalizedQuery204ReturnsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, testConfig())
	q := evm.NewQuery()

	resp, ok, err := c.EvmArrowFinalizedQuery(context.Background(), &q)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, resp)
}

func TestFinalizedHeightThroughClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("999"))
	}))
	defer srv.Close()

	c := New(srv.URL, testConfig())
	h, err := c.FinalizedHeight(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 999, h)
}
