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
)

func testConfig() ClientConfig {
	return ClientConfig{
		MaxNumRetries:        2,
		RetryBaseMs:          1,
		RetryBackoffMs:       1,
		RetryCeilingMs:       2,
		HTTPReqTimeoutMillis: 5000,
	}
}

func TestFinalizedQueryReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"header":{}}`))
	}))
	defer srv.Close()

	tr := newTransport(srv.URL, testConfig())
	body, atHead, err := tr.finalizedQuery(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	require.False(t, atHead)
	require.Equal(t, `{"header":{}}`, string(body))
}

func TestFinalizedQuery204IsAtHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tr := newTransport(srv.URL, testConfig())
	body, atHead, err := tr.finalizedQuery(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	require.True(t, atHead)
	require.Nil(t, body)
}

func TestFinalizedQueryNonOKFailsWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	tr := newTransport(srv.URL, testConfig())
	_, _, err := tr.finalizedQuery(context.Background(), []byte(`{}`))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNonOK)
	require.Contains(t, err.Error(), "boom")
}

func TestFinalizedHeightParsesDecimal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("12345"))
	}))
	defer srv.Close()

	tr := newTransport(srv.URL, testConfig())
	h, err := tr.finalizedHeight(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(12345), h)
}
