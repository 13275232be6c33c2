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
	"fmt"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
)

var addressTableLookupType = arrow.StructOf(
	arrow.Field{Name: "accountKey", Type: arrow.BinaryTypes.Binary, Nullable: true},
	arrow.Field{Name: "writableIndexes", Type: arrow.ListOf(arrow.PrimitiveTypes.Uint64), Nullable: true},
	arrow.Field{Name: "readonlyIndexes", Type: arrow.ListOf(arrow.PrimitiveTypes.Uint64), Nullable: true},
)

// Response is the columnar result of one SVM finalized query: seven
// row-aligned, join-able record batches.
type Response struct {
	Instructions  arrow.Record
	Transactions  arrow.Record
	Logs          arrow.Record
	Balances      arrow.Record
	TokenBalances arrow.Record
	Rewards       arrow.Record
	Blocks        arrow.Record
}

// Release drops the underlying Arrow buffers.
func (r *Response) Release() {
	for _, rec := range []arrow.Record{
		r.Instructions, r.Transactions, r.Logs, r.Balances,
		r.TokenBalances, r.Rewards, r.Blocks,
	} {
		if rec != nil {
			rec.Release()
		}
	}
}

const blockSlotColIdx = 0

// NextBlock returns the slot one past the last slot in Blocks, the cursor
// the stream driver advances from_block to. Fails on an empty batch.
func (r *Response) NextBlock() (uint64, error) {
	if r.Blocks.NumRows() == 0 {
		return 0, fmt.Errorf("svm next_block: blocks batch is empty")
	}
	col := r.Blocks.Column(blockSlotColIdx).(*array.Uint64)
	last := col.Value(col.Len() - 1)
	return last + 1, nil
}

func blocksSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "slot", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "parent_slot", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "parent_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "height", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "timestamp", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)
}

type blocksBuilder struct {
	slot       *array.Uint64Builder
	hash       *array.BinaryBuilder
	parentSlot *array.Uint64Builder
	parentHash *array.BinaryBuilder
	height     *array.Uint64Builder
	timestamp  *array.Int64Builder
}

func newBlocksBuilder(mem memory.Allocator) *blocksBuilder {
	return &blocksBuilder{
		slot:       array.NewUint64Builder(mem),
		hash:       array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		parentSlot: array.NewUint64Builder(mem),
		parentHash: array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		height:     array.NewUint64Builder(mem),
		timestamp:  array.NewInt64Builder(mem),
	}
}

func (b *blocksBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.slot.NewArray(), b.hash.NewArray(), b.parentSlot.NewArray(),
		b.parentHash.NewArray(), b.height.NewArray(), b.timestamp.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(blocksSchema(), cols, int64(b.slot.Len()))
}

func transactionsSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "block_slot", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "block_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "transaction_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "version", Type: arrow.PrimitiveTypes.Int8, Nullable: true},
		{Name: "account_keys", Type: arrow.ListOf(arrow.BinaryTypes.Binary), Nullable: true},
		{Name: "address_table_lookups", Type: arrow.ListOf(addressTableLookupType), Nullable: true},
		{Name: "num_readonly_signed_accounts", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "num_readonly_unsigned_accounts", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "num_required_signatures", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "recent_blockhash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "signatures", Type: arrow.ListOf(arrow.BinaryTypes.Binary), Nullable: true},
		{Name: "err", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "fee", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "compute_units_consumed", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "loaded_readonly_addresses", Type: arrow.ListOf(arrow.BinaryTypes.Binary), Nullable: true},
		{Name: "loaded_writable_addresses", Type: arrow.ListOf(arrow.BinaryTypes.Binary), Nullable: true},
		{Name: "fee_payer", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "has_dropped_log_messages", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	}, nil)
}

type transactionsBuilder struct {
	blockSlot                  *array.Uint64Builder
	blockHash                  *array.BinaryBuilder
	transactionIndex           *array.Uint32Builder
	version                    *array.Int8Builder
	accountKeys                *array.ListBuilder
	addressTableLookups        *array.ListBuilder
	numReadonlySignedAccounts  *array.Uint32Builder
	numReadonlyUnsignedAccounts *array.Uint32Builder
	numRequiredSignatures      *array.Uint32Builder
	recentBlockhash            *array.BinaryBuilder
	signatures                 *array.ListBuilder
	err                        *array.StringBuilder
	fee                        *array.Uint64Builder
	computeUnitsConsumed       *array.Uint64Builder
	loadedReadonlyAddresses    *array.ListBuilder
	loadedWritableAddresses    *array.ListBuilder
	feePayer                   *array.BinaryBuilder
	hasDroppedLogMessages      *array.BooleanBuilder
}

func newTransactionsBuilder(mem memory.Allocator) *transactionsBuilder {
	return &transactionsBuilder{
		blockSlot:                   array.NewUint64Builder(mem),
		blockHash:                   array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		transactionIndex:            array.NewUint32Builder(mem),
		version:                     array.NewInt8Builder(mem),
		accountKeys:                 array.NewListBuilder(mem, arrow.BinaryTypes.Binary),
		addressTableLookups:         array.NewListBuilder(mem, addressTableLookupType),
		numReadonlySignedAccounts:   array.NewUint32Builder(mem),
		numReadonlyUnsignedAccounts: array.NewUint32Builder(mem),
		numRequiredSignatures:       array.NewUint32Builder(mem),
		recentBlockhash:             array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		signatures:                  array.NewListBuilder(mem, arrow.BinaryTypes.Binary),
		err:                         array.NewStringBuilder(mem),
		fee:                         array.NewUint64Builder(mem),
		computeUnitsConsumed:        array.NewUint64Builder(mem),
		loadedReadonlyAddresses:     array.NewListBuilder(mem, arrow.BinaryTypes.Binary),
		loadedWritableAddresses:     array.NewListBuilder(mem, arrow.BinaryTypes.Binary),
		feePayer:                    array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		hasDroppedLogMessages:       array.NewBooleanBuilder(mem),
	}
}

// addressTableLookupBuilder exposes the three field builders nested inside
// the address_table_lookups list-of-struct column.
type addressTableLookupBuilder struct {
	accountKey      *array.BinaryBuilder
	writableIndexes *array.ListBuilder
	readonlyIndexes *array.ListBuilder
}

func (b *transactionsBuilder) addressTableLookupFields() addressTableLookupBuilder {
	sb := b.addressTableLookups.ValueBuilder().(*array.StructBuilder)
	return addressTableLookupBuilder{
		accountKey:      sb.FieldBuilder(0).(*array.BinaryBuilder),
		writableIndexes: sb.FieldBuilder(1).(*array.ListBuilder),
		readonlyIndexes: sb.FieldBuilder(2).(*array.ListBuilder),
	}
}

func (b *transactionsBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.blockSlot.NewArray(), b.blockHash.NewArray(), b.transactionIndex.NewArray(),
		b.version.NewArray(), b.accountKeys.NewArray(), b.addressTableLookups.NewArray(),
		b.numReadonlySignedAccounts.NewArray(), b.numReadonlyUnsignedAccounts.NewArray(),
		b.numRequiredSignatures.NewArray(), b.recentBlockhash.NewArray(),
		b.signatures.NewArray(), b.err.NewArray(), b.fee.NewArray(),
		b.computeUnitsConsumed.NewArray(), b.loadedReadonlyAddresses.NewArray(),
		b.loadedWritableAddresses.NewArray(), b.feePayer.NewArray(),
		b.hasDroppedLogMessages.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(transactionsSchema(), cols, int64(b.blockSlot.Len()))
}

func logsSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "block_slot", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "block_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "transaction_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "log_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "instruction_address", Type: arrow.ListOf(arrow.PrimitiveTypes.Uint32), Nullable: true},
		{Name: "program_id", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "kind", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "message", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
}

type logsBuilder struct {
	blockSlot          *array.Uint64Builder
	blockHash          *array.BinaryBuilder
	transactionIndex   *array.Uint32Builder
	logIndex           *array.Uint32Builder
	instructionAddress *array.ListBuilder
	programId          *array.BinaryBuilder
	kind               *array.StringBuilder
	message            *array.StringBuilder
}

func newLogsBuilder(mem memory.Allocator) *logsBuilder {
	return &logsBuilder{
		blockSlot:          array.NewUint64Builder(mem),
		blockHash:          array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		transactionIndex:   array.NewUint32Builder(mem),
		logIndex:           array.NewUint32Builder(mem),
		instructionAddress: array.NewListBuilder(mem, arrow.PrimitiveTypes.Uint32),
		programId:          array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		kind:               array.NewStringBuilder(mem),
		message:            array.NewStringBuilder(mem),
	}
}

func (b *logsBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.blockSlot.NewArray(), b.blockHash.NewArray(), b.transactionIndex.NewArray(),
		b.logIndex.NewArray(), b.instructionAddress.NewArray(), b.programId.NewArray(),
		b.kind.NewArray(), b.message.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(logsSchema(), cols, int64(b.blockSlot.Len()))
}

func balancesSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "block_slot", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "block_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "transaction_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "account", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "pre", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "post", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
	}, nil)
}

type balancesBuilder struct {
	blockSlot        *array.Uint64Builder
	blockHash        *array.BinaryBuilder
	transactionIndex *array.Uint32Builder
	account          *array.BinaryBuilder
	pre              *array.Uint64Builder
	post             *array.Uint64Builder
}

func newBalancesBuilder(mem memory.Allocator) *balancesBuilder {
	return &balancesBuilder{
		blockSlot:        array.NewUint64Builder(mem),
		blockHash:        array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		transactionIndex: array.NewUint32Builder(mem),
		account:          array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		pre:              array.NewUint64Builder(mem),
		post:             array.NewUint64Builder(mem),
	}
}

func (b *balancesBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.blockSlot.NewArray(), b.blockHash.NewArray(), b.transactionIndex.NewArray(),
		b.account.NewArray(), b.pre.NewArray(), b.post.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(balancesSchema(), cols, int64(b.blockSlot.Len()))
}

func tokenBalancesSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "block_slot", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "block_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "transaction_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "account", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "pre_mint", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "post_mint", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "pre_decimals", Type: arrow.PrimitiveTypes.Uint8, Nullable: true},
		{Name: "post_decimals", Type: arrow.PrimitiveTypes.Uint8, Nullable: true},
		{Name: "pre_program_id", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "post_program_id", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "pre_owner", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "post_owner", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "pre_amount", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "post_amount", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
	}, nil)
}

type tokenBalancesBuilder struct {
	blockSlot        *array.Uint64Builder
	blockHash        *array.BinaryBuilder
	transactionIndex *array.Uint32Builder
	account          *array.BinaryBuilder
	preMint          *array.BinaryBuilder
	postMint         *array.BinaryBuilder
	preDecimals      *array.Uint8Builder
	postDecimals     *array.Uint8Builder
	preProgramId     *array.BinaryBuilder
	postProgramId    *array.BinaryBuilder
	preOwner         *array.BinaryBuilder
	postOwner        *array.BinaryBuilder
	preAmount        *array.Uint64Builder
	postAmount       *array.Uint64Builder
}

func newTokenBalancesBuilder(mem memory.Allocator) *tokenBalancesBuilder {
	return &tokenBalancesBuilder{
		blockSlot:        array.NewUint64Builder(mem),
		blockHash:        array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		transactionIndex: array.NewUint32Builder(mem),
		account:          array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		preMint:          array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		postMint:         array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		preDecimals:      array.NewUint8Builder(mem),
		postDecimals:     array.NewUint8Builder(mem),
		preProgramId:     array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		postProgramId:    array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		preOwner:         array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		postOwner:        array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		preAmount:        array.NewUint64Builder(mem),
		postAmount:       array.NewUint64Builder(mem),
	}
}

func (b *tokenBalancesBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.blockSlot.NewArray(), b.blockHash.NewArray(), b.transactionIndex.NewArray(),
		b.account.NewArray(), b.preMint.NewArray(), b.postMint.NewArray(),
		b.preDecimals.NewArray(), b.postDecimals.NewArray(), b.preProgramId.NewArray(),
		b.postProgramId.NewArray(), b.preOwner.NewArray(), b.postOwner.NewArray(),
		b.preAmount.NewArray(), b.postAmount.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(tokenBalancesSchema(), cols, int64(b.blockSlot.Len()))
}

func rewardsSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "block_slot", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "block_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "pubkey", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "lamports", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "post_balance", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "reward_type", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "commission", Type: arrow.PrimitiveTypes.Uint8, Nullable: true},
	}, nil)
}

type rewardsBuilder struct {
	blockSlot   *array.Uint64Builder
	blockHash   *array.BinaryBuilder
	pubkey      *array.BinaryBuilder
	lamports    *array.Int64Builder
	postBalance *array.Uint64Builder
	rewardType  *array.StringBuilder
	commission  *array.Uint8Builder
}

func newRewardsBuilder(mem memory.Allocator) *rewardsBuilder {
	return &rewardsBuilder{
		blockSlot:   array.NewUint64Builder(mem),
		blockHash:   array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		pubkey:      array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		lamports:    array.NewInt64Builder(mem),
		postBalance: array.NewUint64Builder(mem),
		rewardType:  array.NewStringBuilder(mem),
		commission:  array.NewUint8Builder(mem),
	}
}

func (b *rewardsBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.blockSlot.NewArray(), b.blockHash.NewArray(), b.pubkey.NewArray(),
		b.lamports.NewArray(), b.postBalance.NewArray(), b.rewardType.NewArray(),
		b.commission.NewArray(),
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(rewardsSchema(), cols, int64(b.blockSlot.Len()))
}

func instructionsSchema() *arrow.Schema {
	fields := []arrow.Field{
		{Name: "block_slot", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		{Name: "block_hash", Type: arrow.BinaryTypes.Binary, Nullable: true},
		{Name: "transaction_index", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		{Name: "instruction_address", Type: arrow.ListOf(arrow.PrimitiveTypes.Uint32), Nullable: true},
		{Name: "program_id", Type: arrow.BinaryTypes.Binary, Nullable: true},
	}
	for i := 0; i < numPositionalAccounts; i++ {
		fields = append(fields, arrow.Field{Name: fmt.Sprintf("a%d", i), Type: arrow.BinaryTypes.Binary, Nullable: true})
	}
	fields = append(fields,
		arrow.Field{Name: "rest_of_accounts", Type: arrow.ListOf(arrow.BinaryTypes.Binary), Nullable: true},
		arrow.Field{Name: "data", Type: arrow.BinaryTypes.Binary, Nullable: true},
		arrow.Field{Name: "d1", Type: arrow.BinaryTypes.Binary, Nullable: true},
		arrow.Field{Name: "d2", Type: arrow.BinaryTypes.Binary, Nullable: true},
		arrow.Field{Name: "d4", Type: arrow.BinaryTypes.Binary, Nullable: true},
		arrow.Field{Name: "d8", Type: arrow.BinaryTypes.Binary, Nullable: true},
		arrow.Field{Name: "error", Type: arrow.BinaryTypes.String, Nullable: true},
		arrow.Field{Name: "compute_units_consumed", Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		arrow.Field{Name: "is_committed", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		arrow.Field{Name: "has_dropped_log_messages", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	)
	return arrow.NewSchema(fields, nil)
}

// numPositionalAccounts is the number of leading account indices broken out
// into their own a0..a9 columns; anything beyond goes to rest_of_accounts.
const numPositionalAccounts = 10

type instructionsBuilder struct {
	blockSlot             *array.Uint64Builder
	blockHash             *array.BinaryBuilder
	transactionIndex      *array.Uint32Builder
	instructionAddress    *array.ListBuilder
	programId             *array.BinaryBuilder
	a                     [numPositionalAccounts]*array.BinaryBuilder
	restOfAccounts        *array.ListBuilder
	data                  *array.BinaryBuilder
	d1                    *array.BinaryBuilder
	d2                    *array.BinaryBuilder
	d4                    *array.BinaryBuilder
	d8                    *array.BinaryBuilder
	errorCol              *array.StringBuilder
	computeUnitsConsumed  *array.Uint64Builder
	isCommitted           *array.BooleanBuilder
	hasDroppedLogMessages *array.BooleanBuilder
}

func newInstructionsBuilder(mem memory.Allocator) *instructionsBuilder {
	b := &instructionsBuilder{
		blockSlot:             array.NewUint64Builder(mem),
		blockHash:             array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		transactionIndex:      array.NewUint32Builder(mem),
		instructionAddress:    array.NewListBuilder(mem, arrow.PrimitiveTypes.Uint32),
		programId:             array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		restOfAccounts:        array.NewListBuilder(mem, arrow.BinaryTypes.Binary),
		data:                  array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		d1:                    array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		d2:                    array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		d4:                    array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		d8:                    array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary),
		errorCol:              array.NewStringBuilder(mem),
		computeUnitsConsumed:  array.NewUint64Builder(mem),
		isCommitted:           array.NewBooleanBuilder(mem),
		hasDroppedLogMessages: array.NewBooleanBuilder(mem),
	}
	for i := range b.a {
		b.a[i] = array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	}
	return b
}

func (b *instructionsBuilder) finish() arrow.Record {
	cols := []arrow.Array{
		b.blockSlot.NewArray(), b.blockHash.NewArray(), b.transactionIndex.NewArray(),
		b.instructionAddress.NewArray(), b.programId.NewArray(),
	}
	for i := range b.a {
		cols = append(cols, b.a[i].NewArray())
	}
	cols = append(cols,
		b.restOfAccounts.NewArray(), b.data.NewArray(), b.d1.NewArray(), b.d2.NewArray(),
		b.d4.NewArray(), b.d8.NewArray(), b.errorCol.NewArray(),
		b.computeUnitsConsumed.NewArray(), b.isCommitted.NewArray(),
		b.hasDroppedLogMessages.NewArray(),
	)
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(instructionsSchema(), cols, int64(b.blockSlot.Len()))
}
