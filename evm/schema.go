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
	"fmt"
	"math/big"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/decimal256"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/holiman/uint256"
)

var decimal256Type = &arrow.Decimal256Type{Precision: 76, Scale: 0}

func toDecimal256(v *uint256.Int) decimal256.Num {
	var bi big.Int
	v.ToBig(&bi)
	n, err := decimal256.FromBigInt(&bi)
	if err != nil {
		// ToBig of a uint256 always fits in a 76-digit decimal256.
		panic(fmt.Sprintf("decimal256 from uint256 overflowed: %v", err))
	}
	return n
}

// Response is the columnar result of one EVM finalized query: four
// row-aligned, join-able record batches.
type Response struct {
	Blocks       arrow.Record
	Transactions arrow.Record
	Logs         arrow.Record
	Traces       arrow.Record
}

// Release drops the underlying Arrow buffers. Call once the batches are no
// longer needed.
func (r *Response) Release() {
	for _, rec := range []arrow.Record{r.Blocks, r.Transactions, r.Logs, r.Traces} {
		if rec != nil {
			rec.Release()
		}
	}
}

// NextBlock returns the block number one past the last block in Blocks, the
// cursor the stream driver advances from_block to. Fails on an empty batch.
func (r *Response) NextBlock() (uint64, error) {
	if r.Blocks.NumRows() == 0 {
		return 0, fmt.Errorf("evm next_block: blocks batch is empty")
	}
	col := r.Blocks.Column(blockNumberColIdx).(*array.Uint64)
	last := col.Value(col.Len() - 1)
	return last + 1, nil
}

const blockNumberColIdx = 0

func blocksSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "number", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "parent_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "timestamp", Type: decimal256Type, Nullable: true},
		{Name: "transactions_root", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "receipts_root", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "state_root", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "logs_bloom", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "sha3_uncles", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "extra_data", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "miner", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "nonce", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "mix_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "size", Type: decimal256Type, Nullable: true},
		{Name: "gas_limit", Type: decimal256Type, Nullable: true},
		{Name: "gas_used", Type: decimal256Type, Nullable: true},
		{Name: "difficulty", Type: decimal256Type, Nullable: true},
		{Name: "total_difficulty", Type: decimal256Type, Nullable: true},
		{Name: "base_fee_per_gas", Type: decimal256Type, Nullable: true},
		{Name: "blob_gas_used", Type: decimal256Type, Nullable: true},
		{Name: "excess_blob_gas", Type: decimal256Type, Nullable: true},
		{Name: "l1_block_number", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "uncles", Type: arrow.ListOf(arrow.BinaryTypes.Binary), Nullable: true},
		{Name: "parent_beacon_block_root", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "withdrawals_root", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "withdrawals", Type: arrow.ListOf(arrow.BinaryTypes.Binary), Nullable: true},
		{Name: "send_count", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "send_root", Type: arrow.BinaryTypes.Binary, Nullable: true},
	}, nil)
}

type blocksBuilder struct {
	numberB               *array.Uint64Builder
	hash                  *array.BinaryBuilder
	parentHash            *array.BinaryBuilder
	timestamp             *array.Decimal256Builder
	transactionsRoot      *array.BinaryBuilder
	receiptsRoot          *array.BinaryBuilder
	stateRoot             *array.BinaryBuilder
	logsBloom             *array.BinaryBuilder
	sha3Uncles            *array.BinaryBuilder
	extraData             *array.BinaryBuilder
	miner                 *array.BinaryBuilder
	nonce                 *array.BinaryBuilder
	mixHash               *array.BinaryBuilder
	size                  *array.Decimal256Builder
	gasLimit              *array.Decimal256Builder
	gasUsed               *array.Decimal256Builder
	difficulty            *array.Decimal256Builder
	totalDifficulty       *array.Decimal256Builder
	baseFeePerGas         *array.Decimal256Builder
	blobGasUsed           *array.Decimal256Builder
	excessBlobGas         *array.Decimal256Builder
	l1BlockNumber         *array.Uint64Builder
	uncles                *array.ListBuilder
	parentBeaconBlockRoot *array.BinaryBuilder
	withdrawalsRoot       *array.BinaryBuilder
	withdrawals           *array.ListBuilder
	sendCount             *array.Uint64Builder
	sendRoot              *array.BinaryBuilder
}

func newBlocksBuilder(mem memory.Allocator) *blocksBuilder {
	return &blocksBuilder{
		numberB:               array.NewUint64Builder(mem),
		hash:                  array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		parentHash:            array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		timestamp:             array.NewDecimal256Builder(mem, decimal256Type),
		transactionsRoot:      array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		receiptsRoot:          array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		stateRoot:             array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		logsBloom:             array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		sha3Uncles:            array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		extraData:             array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		miner:                 array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		nonce:                 array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		mixHash:               array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		size:                  array.NewDecimal256Builder(mem, decimal256Type),
		gasLimit:              array.NewDecimal256Builder(mem, decimal256Type),
		gasUsed:               array.NewDecimal256Builder(mem, decimal256Type),
		difficulty:            array.NewDecimal256Builder(mem, decimal256Type),
		totalDifficulty:       array.NewDecimal256Builder(mem, decimal256Type),
		baseFeePerGas:         array.NewDecimal256Builder(mem, decimal256Type),
		blobGasUsed:           array.NewDecimal256Builder(mem, decimal256Type),
		excessBlobGas:         array.NewDecimal256Builder(mem, decimal256Type),
		l1BlockNumber:         array.NewUint64Builder(mem),
		uncles:                array.NewListBuilder(mem, arrow.BinaryTypes.Binary),
		parentBeaconBlockRoot: array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		withdrawalsRoot:       array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		withdrawals:           array.NewListBuilder(mem, arrow.BinaryTypes.Binary),
		sendCount:             array.NewUint64Builder(mem),
		sendRoot:              array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
	}
}

func (b *blocksBuilder) len() int { return b.numberB.Len() }

func (b *blocksBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.numberB.NewArray(), b.hash.NewArray(), b.parentHash.NewArray(),
		b.timestamp.NewArray(), b.transactionsRoot.NewArray(), b.receiptsRoot.NewArray(),
		b.stateRoot.NewArray(), b.logsBloom.NewArray(), b.sha3Uncles.NewArray(),
		b.extraData.NewArray(), b.miner.NewArray(), b.nonce.NewArray(),
		b.mixHash.NewArray(), b.size.NewArray(), b.gasLimit.NewArray(),
		b.gasUsed.NewArray(), b.difficulty.NewArray(), b.totalDifficulty.NewArray(),
		b.baseFeePerGas.NewArray(), b.blobGasUsed.NewArray(), b.excessBlobGas.NewArray(),
		b.l1BlockNumber.NewArray(), b.uncles.NewArray(), b.parentBeaconBlockRoot.NewArray(),
		b.withdrawalsRoot.NewArray(), b.withdrawals.NewArray(), b.sendCount.NewArray(),
		b.sendRoot.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(blocksSchema(), cols, int64(b.len()))
}

func transactionsSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "block_number", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "block_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "transaction_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "nonce", Type: decimal256Type, Nullable: true},
		{Name: "from", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "to", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "input", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "value", Type: decimal256Type, Nullable: true},
		{Name: "gas_price", Type: decimal256Type, Nullable: true},
		{Name: "gas", Type: decimal256Type, Nullable: true},
		{Name: "max_fee_per_gas", Type: decimal256Type, Nullable: true},
		{Name: "max_priority_fee_per_gas", Type: decimal256Type, Nullable: true},
		{Name: "v", Type: decimal256Type, Nullable: true},
		{Name: "r", Type: decimal256Type, Nullable: true},
		{Name: "s", Type: decimal256Type, Nullable: true},
		{Name: "y_parity", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		{Name: "chain_id", Type: decimal256Type, Nullable: true},
		{Name: "type", Type: arrow.PrimitiveTypes.Uint8, Nullable: true},
		{Name: "status", Type: arrow.PrimitiveTypes.Uint8, Nullable: true},
		{Name: "sighash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "contract_address", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "cumulative_gas_used", Type: decimal256Type, Nullable: true},
		{Name: "effective_gas_price", Type: decimal256Type, Nullable: true},
		{Name: "logs_bloom", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "root", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "access_list", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "gas_used_for_l1", Type: decimal256Type, Nullable: true},
		{Name: "deposit_nonce", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "blob_gas_price", Type: decimal256Type, Nullable: true},
		{Name: "deposit_receipt_version", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "blob_gas_used", Type: decimal256Type, Nullable: true},
		{Name: "l1_block_number", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "mint", Type: decimal256Type, Nullable: true},
		{Name: "source_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
	}, nil)
}

type transactionsBuilder struct {
	blockNumber           *array.Uint64Builder
	blockHash             *array.BinaryBuilder
	transactionIndex      *array.Uint32Builder
	hash                  *array.BinaryBuilder
	nonce                 *array.Decimal256Builder
	from                  *array.BinaryBuilder
	to                    *array.BinaryBuilder
	input                 *array.BinaryBuilder
	value                 *array.Decimal256Builder
	gasPrice              *array.Decimal256Builder
	gas                   *array.Decimal256Builder
	maxFeePerGas          *array.Decimal256Builder
	maxPriorityFeePerGas  *array.Decimal256Builder
	v                     *array.Decimal256Builder
	r                     *array.Decimal256Builder
	s                     *array.Decimal256Builder
	yParity               *array.BooleanBuilder
	chainId               *array.Decimal256Builder
	typ                   *array.Uint8Builder
	status                *array.Uint8Builder
	sighash               *array.BinaryBuilder
	contractAddress       *array.BinaryBuilder
	cumulativeGasUsed     *array.Decimal256Builder
	effectiveGasPrice     *array.Decimal256Builder
	logsBloom             *array.BinaryBuilder
	root                  *array.BinaryBuilder
	accessList            *array.BinaryBuilder
	gasUsedForL1          *array.Decimal256Builder
	depositNonce          *array.Uint64Builder
	blobGasPrice          *array.Decimal256Builder
	depositReceiptVersion *array.Uint64Builder
	blobGasUsed           *array.Decimal256Builder
	l1BlockNumber         *array.Uint64Builder
	mint                  *array.Decimal256Builder
	sourceHash            *array.BinaryBuilder
}

func newTransactionsBuilder(mem memory.Allocator) *transactionsBuilder {
	return &transactionsBuilder{
		blockNumber:           array.NewUint64Builder(mem),
		blockHash:             array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		transactionIndex:      array.NewUint32Builder(mem),
		hash:                  array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		nonce:                 array.NewDecimal256Builder(mem, decimal256Type),
		from:                  array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		to:                    array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		input:                 array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		value:                 array.NewDecimal256Builder(mem, decimal256Type),
		gasPrice:              array.NewDecimal256Builder(mem, decimal256Type),
		gas:                   array.NewDecimal256Builder(mem, decimal256Type),
		maxFeePerGas:          array.NewDecimal256Builder(mem, decimal256Type),
		maxPriorityFeePerGas:  array.NewDecimal256Builder(mem, decimal256Type),
		v:                     array.NewDecimal256Builder(mem, decimal256Type),
		r:                     array.NewDecimal256Builder(mem, decimal256Type),
		s:                     array.NewDecimal256Builder(mem, decimal256Type),
		yParity:               array.NewBooleanBuilder(mem),
		chainId:               array.NewDecimal256Builder(mem, decimal256Type),
		typ:                   array.NewUint8Builder(mem),
		status:                array.NewUint8Builder(mem),
		sighash:               array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		contractAddress:       array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		cumulativeGasUsed:     array.NewDecimal256Builder(mem, decimal256Type),
		effectiveGasPrice:     array.NewDecimal256Builder(mem, decimal256Type),
		logsBloom:             array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		root:                  array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		accessList:            array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		gasUsedForL1:          array.NewDecimal256Builder(mem, decimal256Type),
		depositNonce:          array.NewUint64Builder(mem),
		blobGasPrice:          array.NewDecimal256Builder(mem, decimal256Type),
		depositReceiptVersion: array.NewUint64Builder(mem),
		blobGasUsed:           array.NewDecimal256Builder(mem, decimal256Type),
		l1BlockNumber:         array.NewUint64Builder(mem),
		mint:                  array.NewDecimal256Builder(mem, decimal256Type),
		sourceHash:            array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
	}
}

func (b *transactionsBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.blockNumber.NewArray(), b.blockHash.NewArray(), b.transactionIndex.NewArray(),
		b.hash.NewArray(), b.nonce.NewArray(), b.from.NewArray(), b.to.NewArray(),
		b.input.NewArray(), b.value.NewArray(), b.gasPrice.NewArray(), b.gas.NewArray(),
		b.maxFeePerGas.NewArray(), b.maxPriorityFeePerGas.NewArray(), b.v.NewArray(),
		b.r.NewArray(), b.s.NewArray(), b.yParity.NewArray(), b.chainId.NewArray(),
		b.typ.NewArray(), b.status.NewArray(), b.sighash.NewArray(),
		b.contractAddress.NewArray(), b.cumulativeGasUsed.NewArray(),
		b.effectiveGasPrice.NewArray(), b.logsBloom.NewArray(), b.root.NewArray(),
		b.accessList.NewArray(), b.gasUsedForL1.NewArray(), b.depositNonce.NewArray(),
		b.blobGasPrice.NewArray(), b.depositReceiptVersion.NewArray(),
		b.blobGasUsed.NewArray(), b.l1BlockNumber.NewArray(), b.mint.NewArray(),
		b.sourceHash.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(transactionsSchema(), cols, int64(b.blockNumber.Len()))
}

func logsSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "block_number", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "block_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "log_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "transaction_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "address", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "data", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "topic0", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "topic1", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "topic2", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "topic3", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "removed", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	}, nil)
}

type logsBuilder struct {
	blockNumber      *array.Uint64Builder
	blockHash        *array.BinaryBuilder
	logIndex         *array.Uint32Builder
	transactionIndex *array.Uint32Builder
	address          *array.BinaryBuilder
	data             *array.BinaryBuilder
	topic0           *array.BinaryBuilder
	topic1           *array.BinaryBuilder
	topic2           *array.BinaryBuilder
	topic3           *array.BinaryBuilder
	removed          *array.BooleanBuilder
}

func newLogsBuilder(mem memory.Allocator) *logsBuilder {
	return &logsBuilder{
		blockNumber:      array.NewUint64Builder(mem),
		blockHash:        array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		logIndex:         array.NewUint32Builder(mem),
		transactionIndex: array.NewUint32Builder(mem),
		address:          array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		data:             array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		topic0:           array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		topic1:           array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		topic2:           array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		topic3:           array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		removed:          array.NewBooleanBuilder(mem),
	}
}

func (b *logsBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.blockNumber.NewArray(), b.blockHash.NewArray(), b.logIndex.NewArray(),
		b.transactionIndex.NewArray(), b.address.NewArray(), b.data.NewArray(),
		b.topic0.NewArray(), b.topic1.NewArray(), b.topic2.NewArray(), b.topic3.NewArray(),
		b.removed.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(logsSchema(), cols, int64(b.blockNumber.Len()))
}

func tracesSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "block_number", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "block_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "transaction_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "trace_address", Type: arrow.ListOf(arrow.PrimitiveTypes.Uint32), Nullable: true},
		{Name: "type", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "subtraces", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "error", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "action_from", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "action_to", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "action_value", Type: decimal256Type, Nullable: true},
		{Name: "action_gas", Type: decimal256Type, Nullable: true},
		{Name: "action_input", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "action_sighash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "action_type", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "action_init", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "action_refund_address", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "action_balance", Type: decimal256Type, Nullable: true},
		{Name: "action_reward_author", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "result_gas_used", Type: decimal256Type, Nullable: true},
		{Name: "result_code", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "result_address", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "result_output", Type: arrow.BinaryTypes.Binary, Nullable: true},
	}, nil)
}

type tracesBuilder struct {
	blockNumber        *array.Uint64Builder
	blockHash          *array.BinaryBuilder
	transactionIndex   *array.Uint32Builder
	traceAddress       *array.ListBuilder
	typ                *array.StringBuilder
	subtraces          *array.Uint32Builder
	errorCol           *array.StringBuilder
	actionFrom         *array.BinaryBuilder
	actionTo           *array.BinaryBuilder
	actionValue        *array.Decimal256Builder
	actionGas          *array.Decimal256Builder
	actionInput        *array.BinaryBuilder
	actionSighash      *array.BinaryBuilder
	actionType         *array.StringBuilder
	actionInit         *array.BinaryBuilder
	actionRefundAddr   *array.BinaryBuilder
	actionBalance      *array.Decimal256Builder
	actionRewardAuthor *array.BinaryBuilder
	resultGasUsed      *array.Decimal256Builder
	resultCode         *array.BinaryBuilder
	resultAddress      *array.BinaryBuilder
	resultOutput       *array.BinaryBuilder
}

func newTracesBuilder(mem memory.Allocator) *tracesBuilder {
	return &tracesBuilder{
		blockNumber:        array.NewUint64Builder(mem),
		blockHash:          array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		transactionIndex:   array.NewUint32Builder(mem),
		traceAddress:       array.NewListBuilder(mem, arrow.PrimitiveTypes.Uint32),
		typ:                array.NewStringBuilder(mem),
		subtraces:          array.NewUint32Builder(mem),
		errorCol:           array.NewStringBuilder(mem),
		actionFrom:         array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		actionTo:           array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		actionValue:        array.NewDecimal256Builder(mem, decimal256Type),
		actionGas:          array.NewDecimal256Builder(mem, decimal256Type),
		actionInput:        array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		actionSighash:      array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		actionType:         array.NewStringBuilder(mem),
		actionInit:         array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		actionRefundAddr:   array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		actionBalance:      array.NewDecimal256Builder(mem, decimal256Type),
		actionRewardAuthor: array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		resultGasUsed:      array.NewDecimal256Builder(mem, decimal256Type),
		resultCode:         array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		resultAddress:      array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		resultOutput:       array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
	}
}

func (b *tracesBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.blockNumber.NewArray(), b.blockHash.NewArray(), b.transactionIndex.NewArray(),
		b.traceAddress.NewArray(), b.typ.NewArray(), b.subtraces.NewArray(),
		b.errorCol.NewArray(), b.actionFrom.NewArray(), b.actionTo.NewArray(),
		b.actionValue.NewArray(), b.actionGas.NewArray(), b.actionInput.NewArray(),
		b.actionSighash.NewArray(), b.actionType.NewArray(), b.actionInit.NewArray(),
		b.actionRefundAddr.NewArray(), b.actionBalance.NewArray(),
		b.actionRewardAuthor.NewArray(), b.resultGasUsed.NewArray(),
		b.resultCode.NewArray(), b.resultAddress.NewArray(), b.resultOutput.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(tracesSchema(), cols, int64(b.blockNumber.Len()))
}
