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

// ClientConfig controls the HTTP transport and retry behavior of a Client.
type ClientConfig struct {
	// MaxNumRetries is the number of retry attempts after the first try.
	MaxNumRetries uint64
	// RetryBaseMs is the starting sleep before the first retry.
	RetryBaseMs uint64
	// RetryBackoffMs is the additive-jitter window and the per-attempt growth
	// of the sleep base.
	RetryBackoffMs uint64
	// RetryCeilingMs caps how large the sleep base can grow.
	RetryCeilingMs uint64
	// HTTPReqTimeoutMillis bounds a single HTTP round trip.
	HTTPReqTimeoutMillis uint64
}

// DefaultClientConfig returns the spec-mandated defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxNumRetries:        9,
		RetryBaseMs:          250,
		RetryBackoffMs:       1000,
		RetryCeilingMs:       2000,
		HTTPReqTimeoutMillis: 40_000,
	}
}

// StreamConfig controls the chunked stream driver.
type StreamConfig struct {
	// StopOnHead ends the stream instead of polling once a 204 is observed.
	StopOnHead bool
	// HeadPollIntervalMillis is the sleep between polls while at head.
	HeadPollIntervalMillis uint64
	// BufferSize is the capacity of the channel the driver sends batches on.
	BufferSize int
}

// DefaultStreamConfig returns the spec-mandated defaults.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		StopOnHead:             false,
		HeadPollIntervalMillis: 1000,
		BufferSize:             10,
	}
}
