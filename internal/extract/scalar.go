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

// Package extract implements the typed, absent-aware field lookups the evm
// and svm parsers drive against a parsed fastjson tape. Every function
// returns (value, present, error): present is false when the key is missing
// or explicitly JSON null; error is set on a type mismatch, a hex/base58
// decode failure or an out-of-range value, and always names the offending
// field so callers can wrap it into a context chain.
package extract

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"
	"github.com/valyala/fastjson"

	"github.com/steelcake/sqd-portal-client/internal/codec"
)

func get(obj *fastjson.Value, name string) *fastjson.Value {
	v := obj.Get(name)
	if v == nil || v.Type() == fastjson.TypeNull {
		return nil
	}
	return v
}

// Bool reads an optional boolean field.
func Bool(obj *fastjson.Value, name string) (bool, bool, error) {
	v := get(obj, name)
	if v == nil {
		return false, false, nil
	}
	b, err := v.Bool()
	if err != nil {
		return false, false, fmt.Errorf("%s as bool: %w", name, err)
	}
	return b, true, nil
}

// String reads an optional string field, copied out of the tape.
func String(obj *fastjson.Value, name string) (string, bool, error) {
	v := get(obj, name)
	if v == nil {
		return "", false, nil
	}
	b, err := v.StringBytes()
	if err != nil {
		return "", false, fmt.Errorf("%s as str: %w", name, err)
	}
	return string(b), true, nil
}

// JSONString re-serializes the subtree at name into a compact JSON string,
// used for heterogeneous fields such as the SVM transaction `err`.
func JSONString(obj *fastjson.Value, name string) (string, bool, error) {
	v := get(obj, name)
	if v == nil {
		return "", false, nil
	}
	return v.String(), true, nil
}

// U8 reads an optional uint8 field.
func U8(obj *fastjson.Value, name string) (uint8, bool, error) {
	v := get(obj, name)
	if v == nil {
		return 0, false, nil
	}
	n, err := v.Uint64()
	if err != nil {
		return 0, false, fmt.Errorf("%s as u8: %w", name, err)
	}
	if n > math.MaxUint8 {
		return 0, false, fmt.Errorf("%s as u8: value %d out of range", name, n)
	}
	return uint8(n), true, nil
}

// U16 reads an optional uint16 field.
func U16(obj *fastjson.Value, name string) (uint16, bool, error) {
	v := get(obj, name)
	if v == nil {
		return 0, false, nil
	}
	n, err := v.Uint64()
	if err != nil {
		return 0, false, fmt.Errorf("%s as u16: %w", name, err)
	}
	if n > math.MaxUint16 {
		return 0, false, fmt.Errorf("%s as u16: value %d out of range", name, n)
	}
	return uint16(n), true, nil
}

// U32 reads an optional uint32 field.
func U32(obj *fastjson.Value, name string) (uint32, bool, error) {
	v := get(obj, name)
	if v == nil {
		return 0, false, nil
	}
	n, err := v.Uint64()
	if err != nil {
		return 0, false, fmt.Errorf("%s as u32: %w", name, err)
	}
	if n > math.MaxUint32 {
		return 0, false, fmt.Errorf("%s as u32: value %d out of range", name, n)
	}
	return uint32(n), true, nil
}

// U64 reads an optional uint64 field.
func U64(obj *fastjson.Value, name string) (uint64, bool, error) {
	v := get(obj, name)
	if v == nil {
		return 0, false, nil
	}
	n, err := v.Uint64()
	if err != nil {
		return 0, false, fmt.Errorf("%s as u64: %w", name, err)
	}
	return n, true, nil
}

// I64 reads an optional int64 field.
func I64(obj *fastjson.Value, name string) (int64, bool, error) {
	v := get(obj, name)
	if v == nil {
		return 0, false, nil
	}
	n, err := v.Int64()
	if err != nil {
		return 0, false, fmt.Errorf("%s as i64: %w", name, err)
	}
	return n, true, nil
}

// Hex reads an optional "0x"-prefixed hex string field and decodes it.
func Hex(obj *fastjson.Value, name string) ([]byte, bool, error) {
	s, ok, err := String(obj, name)
	if err != nil || !ok {
		return nil, ok, err
	}
	b, err := codec.DecodeHex(s)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s as hex: %w", name, err)
	}
	return b, true, nil
}

// U8Hex reads a "0x"-prefixed single-byte hex field and returns its value.
func U8Hex(obj *fastjson.Value, name string) (uint8, bool, error) {
	b, ok, err := Hex(obj, name)
	if err != nil || !ok {
		return 0, ok, err
	}
	if len(b) != 1 {
		return 0, false, fmt.Errorf("%s as u8_hex: expected 1 byte, got %d", name, len(b))
	}
	return b[0], true, nil
}

// Base58 reads an optional base58 string field and decodes it.
func Base58(obj *fastjson.Value, name string) ([]byte, bool, error) {
	s, ok, err := String(obj, name)
	if err != nil || !ok {
		return nil, ok, err
	}
	b, err := codec.DecodeBase58(s)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s as base58: %w", name, err)
	}
	return b, true, nil
}

// I256 reads a big-endian hex-encoded unsigned integer of at most 32 bytes
// and widens it into a uint256.Int. EVM 256-bit columns are always
// non-negative, so the unsigned representation is the signed one too.
func I256(obj *fastjson.Value, name string) (*uint256.Int, bool, error) {
	b, ok, err := Hex(obj, name)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(b) > 32 {
		return nil, false, fmt.Errorf("parse i256 from %s: data is bigger than 32 bytes", name)
	}
	return new(uint256.Int).SetBytes(b), true, nil
}

// Bigint reads a JSON string holding a base-10 integer (Solana encodes
// large integers as decimal strings rather than numbers) and parses it as
// a uint64.
func Bigint(obj *fastjson.Value, name string) (uint64, bool, error) {
	s, ok, err := String(obj, name)
	if err != nil || !ok {
		return 0, ok, err
	}
	var n uint64
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, false, fmt.Errorf("%s as bigint: %w", name, err)
	}
	return n, true, nil
}

// LegacyVersionSentinel is the stored value for the SVM transaction
// "legacy" version marker.
const LegacyVersionSentinel int8 = -1

// Version reads the SVM transaction version field: the literal string
// "legacy" maps to LegacyVersionSentinel, any other value must be a
// non-negative int8.
func Version(obj *fastjson.Value, name string) (int8, bool, error) {
	v := get(obj, name)
	if v == nil {
		return 0, false, nil
	}

	if v.Type() == fastjson.TypeString {
		s, err := v.StringBytes()
		if err != nil {
			return 0, false, fmt.Errorf("%s as str: %w", name, err)
		}
		if string(s) == "legacy" {
			return LegacyVersionSentinel, true, nil
		}
		return 0, false, fmt.Errorf("%s as version: unexpected string value %q", name, s)
	}

	n, err := v.Int64()
	if err != nil {
		return 0, false, fmt.Errorf("%s as i8 version: %w", name, err)
	}
	if n < 0 || n > math.MaxInt8 {
		return 0, false, fmt.Errorf("invalid version column %s value: %d", name, n)
	}
	return int8(n), true, nil
}
