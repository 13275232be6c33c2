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

package svm

import (
	"testing"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/stretchr/testify/require"
)

const sampleBlock = `{
	"header": {
		"number": 42,
		"hash": "11111111111111111111111111111111",
		"parentNumber": 41,
		"parentHash": "11111111111111111111111111111111",
		"height": 42,
		"timestamp": 1000
	},
	"rewards": [
		{"pubkey": "11111111111111111111111111111111", "lamports": 5, "postBalance": 100}
	],
	"transactions": [
		{
			"transactionIndex": 0,
			"version": "legacy",
			"accountKeys": ["11111111111111111111111111111111"],
			"addressTableLookups": [
				{"accountKey": "11111111111111111111111111111111", "writableIndexes": [1, 2], "readonlyIndexes": [3]}
			],
			"fee": "5000",
			"computeUnitsConsumed": "100",
			"loadedAddresses": {
				"readonly": ["11111111111111111111111111111111"],
				"writable": ["11111111111111111111111111111111"]
			},
			"feePayer": "11111111111111111111111111111111"
		}
	],
	"instructions": [
		{
			"transactionIndex": 0,
			"instructionAddress": [0],
			"programId": "11111111111111111111111111111111",
			"accounts": ["11111111111111111111111111111111"],
			"data": "11111111111111111111111111111111",
			"d1": "0xaa"
		}
	]
}`

func TestParseBlockRowAlignment(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.ParseLine([]byte(sampleBlock)))
	resp := p.Finish()

	require.EqualValues(t, 1, resp.Blocks.NumRows())
	require.EqualValues(t, 1, resp.Rewards.NumRows())
	require.EqualValues(t, 1, resp.Transactions.NumRows())
	require.EqualValues(t, 1, resp.Instructions.NumRows())

	next, err := resp.NextBlock()
	require.NoError(t, err)
	require.EqualValues(t, 43, next)
}

func TestParseBlockAddressTableLookupsShape(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.ParseLine([]byte(sampleBlock)))
	resp := p.Finish()

	col := resp.Transactions.Column(indexOf(resp.Transactions, "address_table_lookups")).(*array.List)
	require.False(t, col.IsNull(0))
	require.EqualValues(t, 1, col.ListValues().Len())

	structArr := col.ListValues().(*array.Struct)
	accountKey := structArr.Field(0).(*array.Binary)
	require.False(t, accountKey.IsNull(0))
}

func TestParseBlockLoadedAddressesRequiredPair(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.ParseLine([]byte(sampleBlock)))
	resp := p.Finish()

	readonly := resp.Transactions.Column(indexOf(resp.Transactions, "loaded_readonly_addresses")).(*array.List)
	writable := resp.Transactions.Column(indexOf(resp.Transactions, "loaded_writable_addresses")).(*array.List)
	require.False(t, readonly.IsNull(0))
	require.False(t, writable.IsNull(0))

	p = NewParser()
	block := `{"header": {"number": 1, "hash": "11111111111111111111111111111111"}, "transactions": [{"loadedAddresses": {"readonly": []}}]}`
	require.Error(t, p.ParseLine([]byte(block)))
}

func TestParseBlockMissingLoadedAddressesIsNull(t *testing.T) {
	p := NewParser()
	block := `{"header": {"number": 1, "hash": "11111111111111111111111111111111"}, "transactions": [{"transactionIndex": 0}]}`
	require.NoError(t, p.ParseLine([]byte(block)))
	resp := p.Finish()

	readonly := resp.Transactions.Column(indexOf(resp.Transactions, "loaded_readonly_addresses")).(*array.List)
	require.True(t, readonly.IsNull(0))
}

func TestParseBlockInstructionPositionalAccounts(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.ParseLine([]byte(sampleBlock)))
	resp := p.Finish()

	a0 := resp.Instructions.Column(indexOf(resp.Instructions, "a0")).(*array.Binary)
	a1 := resp.Instructions.Column(indexOf(resp.Instructions, "a1")).(*array.Binary)
	require.False(t, a0.IsNull(0))
	require.True(t, a1.IsNull(0))
}

func TestNextBlockErrorsOnEmptyBatch(t *testing.T) {
	p := NewParser()
	resp := p.Finish()
	_, err := resp.NextBlock()
	require.Error(t, err)
}

func indexOf(rec arrow.Record, name string) int {
	idxs := rec.Schema().FieldIndices(name)
	if len(idxs) == 0 {
		panic("column not found: " + name)
	}
	return idxs[0]
}
