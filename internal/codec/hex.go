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

// Package codec holds the byte-level decoders shared by the evm and svm
// parsers: 0x-prefixed hex and base58.
package codec

import (
	"encoding/hex"
	"errors"

	"github.com/mr-tron/base58"
)

// ErrInvalidHexPrefix is returned by DecodeHex when the input is missing the
// "0x" prefix.
var ErrInvalidHexPrefix = errors.New("invalid hex prefix")

// DecodeHex decodes a "0x"-prefixed hex string into raw bytes. A single
// leading zero nibble is padded in when the remaining digit count is odd,
// so "0x1" decodes the same as "0x01".
func DecodeHex(s string) ([]byte, error) {
	if len(s) < 2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return nil, ErrInvalidHexPrefix
	}
	rest := s[2:]

	if len(rest)%2 != 0 {
		rest = "0" + rest
	}

	out := make([]byte, len(rest)/2)
	if _, err := hex.Decode(out, []byte(rest)); err != nil {
		return nil, err
	}

	return out, nil
}

// DecodeBase58 decodes a Bitcoin-alphabet base58 string into raw bytes.
func DecodeBase58(s string) ([]byte, error) {
	return base58.FastBase58Decoding(s)
}
