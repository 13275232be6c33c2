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

package extract

import (
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/steelcake/sqd-portal-client/internal/codec"
)

// ArrayOfU32 reads an optional array of uint32.
func ArrayOfU32(obj *fastjson.Value, name string) ([]uint32, bool, error) {
	arr, ok, err := getArray(obj, name)
	if err != nil || !ok {
		return nil, ok, err
	}

	out := make([]uint32, 0, len(arr))
	for i, v := range arr {
		n, err := v.Uint64()
		if err != nil {
			return nil, false, fmt.Errorf("element %d of %s as u32: %w", i, name, err)
		}
		if n > 0xffffffff {
			return nil, false, fmt.Errorf("element %d of %s as u32: value %d out of range", i, name, n)
		}
		out = append(out, uint32(n))
	}
	return out, true, nil
}

// ArrayOfU64 reads an optional array of uint64.
func ArrayOfU64(obj *fastjson.Value, name string) ([]uint64, bool, error) {
	arr, ok, err := getArray(obj, name)
	if err != nil || !ok {
		return nil, ok, err
	}

	out := make([]uint64, 0, len(arr))
	for i, v := range arr {
		n, err := v.Uint64()
		if err != nil {
			return nil, false, fmt.Errorf("element %d of %s as u64: %w", i, name, err)
		}
		out = append(out, n)
	}
	return out, true, nil
}

// ArrayOfHex reads an optional array of "0x"-prefixed hex strings, decoding
// each element into raw bytes.
func ArrayOfHex(obj *fastjson.Value, name string) ([][]byte, bool, error) {
	arr, ok, err := getArray(obj, name)
	if err != nil || !ok {
		return nil, ok, err
	}

	out := make([][]byte, 0, len(arr))
	for i, v := range arr {
		s, err := v.StringBytes()
		if err != nil {
			return nil, false, fmt.Errorf("element %d of %s as str: %w", i, name, err)
		}
		b, err := codec.DecodeHex(string(s))
		if err != nil {
			return nil, false, fmt.Errorf("decode element %d of %s as hex: %w", i, name, err)
		}
		out = append(out, b)
	}
	return out, true, nil
}

// ArrayOfBase58 reads an optional array of base58 strings, decoding each
// element into raw bytes.
func ArrayOfBase58(obj *fastjson.Value, name string) ([][]byte, bool, error) {
	arr, ok, err := getArray(obj, name)
	if err != nil || !ok {
		return nil, ok, err
	}

	out := make([][]byte, 0, len(arr))
	for i, v := range arr {
		s, err := v.StringBytes()
		if err != nil {
			return nil, false, fmt.Errorf("element %d of %s as str: %w", i, name, err)
		}
		b, err := codec.DecodeBase58(string(s))
		if err != nil {
			return nil, false, fmt.Errorf("decode element %d of %s as base58: %w", i, name, err)
		}
		out = append(out, b)
	}
	return out, true, nil
}

func getArray(obj *fastjson.Value, name string) ([]*fastjson.Value, bool, error) {
	v := get(obj, name)
	if v == nil {
		return nil, false, nil
	}
	arr, err := v.Array()
	if err != nil {
		return nil, false, fmt.Errorf("%s as array: %w", name, err)
	}
	return arr, true, nil
}
