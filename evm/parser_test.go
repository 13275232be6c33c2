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

package evm

import (
	"testing"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/stretchr/testify/require"
)

const sampleBlock = `{
	"header": {
		"number": 100,
		"hash": "0xaa",
		"parentHash": "0xbb",
		"timestamp": 1700,
		"size": 123,
		"gasLimit": "0x1c9c380",
		"gasUsed": "0xa"
	},
	"transactions": [
		{
			"transactionIndex": 0,
			"hash": "0xcc",
			"from": "0xdd",
			"to": "0xee",
			"value": "0x0",
			"nonce": 5,
			"chainId": 56,
			"yParity": 1
		}
	],
	"logs": [
		{
			"logIndex": 0,
			"transactionIndex": 0,
			"address": "0xee",
			"data": "0x01",
			"topics": ["0xf0", "0xf1"]
		}
	],
	"traces": [
		{
			"transactionIndex": 0,
			"traceAddress": [0, 1],
			"type": "call",
			"subtraces": 0,
			"action": {"from": "0xdd", "to": "0xee", "value": "0x1"}
		}
	]
}`

func TestParseBlockRowAlignment(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.ParseLine([]byte(sampleBlock)))
	resp := p.Finish()

	require.EqualValues(t, 1, resp.Blocks.NumRows())
	require.EqualValues(t, 1, resp.Transactions.NumRows())
	require.EqualValues(t, 1, resp.Logs.NumRows())
	require.EqualValues(t, 1, resp.Traces.NumRows())

	next, err := resp.NextBlock()
	require.NoError(t, err)
	require.EqualValues(t, 101, next)
}

func TestParseBlockYParityMapping(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.ParseLine([]byte(sampleBlock)))
	resp := p.Finish()

	col := resp.Transactions.Column(indexOf(resp.Transactions, "y_parity")).(*array.Boolean)
	require.True(t, col.Value(0))
}

func TestParseBlockTopicTruncation(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.ParseLine([]byte(sampleBlock)))
	resp := p.Finish()

	topic0 := resp.Logs.Column(indexOf(resp.Logs, "topic0")).(*array.Binary)
	topic2 := resp.Logs.Column(indexOf(resp.Logs, "topic2")).(*array.Binary)
	require.False(t, topic0.IsNull(0))
	require.True(t, topic2.IsNull(0))

	p = NewParser()
	require.NoError(t, p.ParseLine([]byte(`{"header":{"number":1,"hash":"0xaa"},"logs":[{"topics":["0x01","0x02","0x03","0x04","0x05"]}]}`)))
	resp = p.Finish()

	require.EqualValues(t, 1, resp.Logs.NumRows())
	topic3 := resp.Logs.Column(indexOf(resp.Logs, "topic3")).(*array.Binary)
	require.Equal(t, []byte{0x04}, topic3.Value(0))
}

func TestParseBlockNumericU64ToI256Widening(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.ParseLine([]byte(sampleBlock)))
	resp := p.Finish()

	timestamp := resp.Blocks.Column(indexOf(resp.Blocks, "timestamp")).(*array.Decimal256)
	require.False(t, timestamp.IsNull(0))
	require.Equal(t, "1700", timestamp.Value(0).BigInt().String())

	size := resp.Blocks.Column(indexOf(resp.Blocks, "size")).(*array.Decimal256)
	require.False(t, size.IsNull(0))
	require.Equal(t, "123", size.Value(0).BigInt().String())

	nonce := resp.Transactions.Column(indexOf(resp.Transactions, "nonce")).(*array.Decimal256)
	require.False(t, nonce.IsNull(0))
	require.Equal(t, "5", nonce.Value(0).BigInt().String())

	chainID := resp.Transactions.Column(indexOf(resp.Transactions, "chain_id")).(*array.Decimal256)
	require.False(t, chainID.IsNull(0))
	require.Equal(t, "56", chainID.Value(0).BigInt().String())
}

func TestParseBlockUnknownColumnsAreNull(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.ParseLine([]byte(sampleBlock)))
	resp := p.Finish()

	uncles := resp.Blocks.Column(indexOf(resp.Blocks, "uncles")).(*array.List)
	require.True(t, uncles.IsNull(0))

	blobGasUsed := resp.Transactions.Column(indexOf(resp.Transactions, "blob_gas_used"))
	require.True(t, blobGasUsed.IsNull(0))
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
