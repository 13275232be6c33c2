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

	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/valyala/fastjson"

	"github.com/steelcake/sqd-portal-client/internal/extract"
)

// Parser accumulates rows across one or more block (slot) objects of a
// single query response and finishes them into a Response.
type Parser struct {
	jp *fastjson.Parser

	instructions  *instructionsBuilder
	transactions  *transactionsBuilder
	logs          *logsBuilder
	balances      *balancesBuilder
	tokenBalances *tokenBalancesBuilder
	rewards       *rewardsBuilder
	blocks        *blocksBuilder
}

// NewParser returns a Parser ready to consume block objects.
func NewParser() *Parser {
	mem := memory.NewGoAllocator()
	return &Parser{
		jp:            &fastjson.Parser{},
		instructions:  newInstructionsBuilder(mem),
		transactions:  newTransactionsBuilder(mem),
		logs:          newLogsBuilder(mem),
		balances:      newBalancesBuilder(mem),
		tokenBalances: newTokenBalancesBuilder(mem),
		rewards:       newRewardsBuilder(mem),
		blocks:        newBlocksBuilder(mem),
	}
}

type blockInfo struct {
	slot uint64
	hash []byte
}

// ParseLine parses one NDJSON line (one block/slot object) and appends its
// rows to the parser's builders.
func (p *Parser) ParseLine(line []byte) error {
	v, err := p.jp.ParseBytes(line)
	if err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return p.parseBlock(v)
}

func (p *Parser) parseBlock(obj *fastjson.Value) error {
	header := obj.Get("header")
	if header == nil {
		return fmt.Errorf("get header")
	}

	info, err := p.parseHeader(header)
	if err != nil {
		return fmt.Errorf("parse block header: %w", err)
	}

	if err := p.parseRewards(info, obj); err != nil {
		return fmt.Errorf("parse rewards: %w", err)
	}
	if err := p.parseTokenBalances(info, obj); err != nil {
		return fmt.Errorf("parse token balances: %w", err)
	}
	if err := p.parseBalances(info, obj); err != nil {
		return fmt.Errorf("parse balances: %w", err)
	}
	if err := p.parseLogs(info, obj); err != nil {
		return fmt.Errorf("parse logs: %w", err)
	}
	if err := p.parseTransactions(info, obj); err != nil {
		return fmt.Errorf("parse transactions: %w", err)
	}
	if err := p.parseInstructions(info, obj); err != nil {
		return fmt.Errorf("parse instructions: %w", err)
	}

	return nil
}

func appendOptBinary(b *array.BinaryBuilder, v []byte, ok bool) {
	if ok {
		b.Append(v)
	} else {
		b.AppendNull()
	}
}

func appendOptString(b *array.StringBuilder, v string, ok bool) {
	if ok {
		b.Append(v)
	} else {
		b.AppendNull()
	}
}

func appendU32List(lb *array.ListBuilder, v []uint32, ok bool) {
	if !ok {
		lb.AppendNull()
		return
	}
	lb.Append(true)
	vb := lb.ValueBuilder().(*array.Uint32Builder)
	for _, x := range v {
		vb.Append(x)
	}
}

func appendU64List(lb *array.ListBuilder, v []uint64, ok bool) {
	if !ok {
		lb.AppendNull()
		return
	}
	lb.Append(true)
	vb := lb.ValueBuilder().(*array.Uint64Builder)
	for _, x := range v {
		vb.Append(x)
	}
}

func appendBinaryList(lb *array.ListBuilder, v [][]byte, ok bool) {
	if !ok {
		lb.AppendNull()
		return
	}
	lb.Append(true)
	vb := lb.ValueBuilder().(*array.BinaryBuilder)
	for _, x := range v {
		vb.Append(x)
	}
}

func (p *Parser) parseHeader(header *fastjson.Value) (blockInfo, error) {
	slot, _, err := extract.U64(header, "number")
	if err != nil {
		return blockInfo{}, err
	}
	hash, _, err := extract.Base58(header, "hash")
	if err != nil {
		return blockInfo{}, err
	}

	parentSlot, ok, err := extract.U64(header, "parentNumber")
	if err != nil {
		return blockInfo{}, err
	}
	if ok {
		p.blocks.parentSlot.Append(parentSlot)
	} else {
		p.blocks.parentSlot.AppendNull()
	}

	parentHash, ok, err := extract.Base58(header, "parentHash")
	if err != nil {
		return blockInfo{}, err
	}
	appendOptBinary(p.blocks.parentHash, parentHash, ok)

	height, ok, err := extract.U64(header, "height")
	if err != nil {
		return blockInfo{}, err
	}
	if ok {
		p.blocks.height.Append(height)
	} else {
		p.blocks.height.AppendNull()
	}

	timestamp, ok, err := extract.I64(header, "timestamp")
	if err != nil {
		return blockInfo{}, err
	}
	if ok {
		p.blocks.timestamp.Append(timestamp)
	} else {
		p.blocks.timestamp.AppendNull()
	}

	p.blocks.slot.Append(slot)
	p.blocks.hash.Append(hash)

	return blockInfo{slot: slot, hash: hash}, nil
}

func (p *Parser) parseRewards(info blockInfo, obj *fastjson.Value) error {
	arr := obj.Get("rewards")
	if arr == nil {
		return nil
	}
	items, err := arr.Array()
	if err != nil {
		return fmt.Errorf("rewards as array: %w", err)
	}

	for i, r := range items {
		b := p.rewards
		b.blockSlot.Append(info.slot)
		b.blockHash.Append(info.hash)

		pubkey, ok, err := extract.Base58(r, "pubkey")
		if err != nil {
			return fmt.Errorf("reward %d: %w", i, err)
		}
		appendOptBinary(b.pubkey, pubkey, ok)

		lamports, ok, err := extract.I64(r, "lamports")
		if err != nil {
			return fmt.Errorf("reward %d: %w", i, err)
		}
		if ok {
			b.lamports.Append(lamports)
		} else {
			b.lamports.AppendNull()
		}

		postBalance, ok, err := extract.U64(r, "postBalance")
		if err != nil {
			return fmt.Errorf("reward %d: %w", i, err)
		}
		if ok {
			b.postBalance.Append(postBalance)
		} else {
			b.postBalance.AppendNull()
		}

		rewardType, ok, err := extract.String(r, "rewardType")
		if err != nil {
			return fmt.Errorf("reward %d: %w", i, err)
		}
		appendOptString(b.rewardType, rewardType, ok)

		commission, ok, err := extract.U8(r, "commission")
		if err != nil {
			return fmt.Errorf("reward %d: %w", i, err)
		}
		if ok {
			b.commission.Append(commission)
		} else {
			b.commission.AppendNull()
		}
	}
	return nil
}

func (p *Parser) parseTokenBalances(info blockInfo, obj *fastjson.Value) error {
	arr := obj.Get("tokenBalances")
	if arr == nil {
		return nil
	}
	items, err := arr.Array()
	if err != nil {
		return fmt.Errorf("tokenBalances as array: %w", err)
	}

	for i, t := range items {
		b := p.tokenBalances
		b.blockSlot.Append(info.slot)
		b.blockHash.Append(info.hash)

		txIdx, ok, err := extract.U32(t, "transactionIndex")
		if err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		if ok {
			b.transactionIndex.Append(txIdx)
		} else {
			b.transactionIndex.AppendNull()
		}

		account, ok, err := extract.Base58(t, "account")
		if err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		appendOptBinary(b.account, account, ok)

		if err := appendBase58Field(b.preMint, t, "preMint"); err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		if err := appendBase58Field(b.postMint, t, "postMint"); err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}

		preDecimals, ok, err := extract.U8(t, "preDecimals")
		if err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		if ok {
			b.preDecimals.Append(preDecimals)
		} else {
			b.preDecimals.AppendNull()
		}

		postDecimals, ok, err := extract.U8(t, "postDecimals")
		if err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		if ok {
			b.postDecimals.Append(postDecimals)
		} else {
			b.postDecimals.AppendNull()
		}

		if err := appendBase58Field(b.preProgramId, t, "preProgramId"); err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		if err := appendBase58Field(b.postProgramId, t, "postProgramId"); err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		if err := appendBase58Field(b.preOwner, t, "preOwner"); err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		if err := appendBase58Field(b.postOwner, t, "postOwner"); err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}

		preAmount, ok, err := extract.Bigint(t, "preAmount")
		if err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		if ok {
			b.preAmount.Append(preAmount)
		} else {
			b.preAmount.AppendNull()
		}

		postAmount, ok, err := extract.Bigint(t, "postAmount")
		if err != nil {
			return fmt.Errorf("token balance %d: %w", i, err)
		}
		if ok {
			b.postAmount.Append(postAmount)
		} else {
			b.postAmount.AppendNull()
		}
	}
	return nil
}

func appendBase58Field(b *array.BinaryBuilder, obj *fastjson.Value, name string) error {
	v, ok, err := extract.Base58(obj, name)
	if err != nil {
		return err
	}
	appendOptBinary(b, v, ok)
	return nil
}

func (p *Parser) parseBalances(info blockInfo, obj *fastjson.Value) error {
	arr := obj.Get("balances")
	if arr == nil {
		return nil
	}
	items, err := arr.Array()
	if err != nil {
		return fmt.Errorf("balances as array: %w", err)
	}

	for i, bal := range items {
		b := p.balances
		b.blockSlot.Append(info.slot)
		b.blockHash.Append(info.hash)

		txIdx, ok, err := extract.U32(bal, "transactionIndex")
		if err != nil {
			return fmt.Errorf("balance %d: %w", i, err)
		}
		if ok {
			b.transactionIndex.Append(txIdx)
		} else {
			b.transactionIndex.AppendNull()
		}

		if err := appendBase58Field(b.account, bal, "account"); err != nil {
			return fmt.Errorf("balance %d: %w", i, err)
		}

		pre, ok, err := extract.U64(bal, "pre")
		if err != nil {
			return fmt.Errorf("balance %d: %w", i, err)
		}
		if ok {
			b.pre.Append(pre)
		} else {
			b.pre.AppendNull()
		}

		post, ok, err := extract.U64(bal, "post")
		if err != nil {
			return fmt.Errorf("balance %d: %w", i, err)
		}
		if ok {
			b.post.Append(post)
		} else {
			b.post.AppendNull()
		}
	}
	return nil
}

func (p *Parser) parseLogs(info blockInfo, obj *fastjson.Value) error {
	arr := obj.Get("logs")
	if arr == nil {
		return nil
	}
	items, err := arr.Array()
	if err != nil {
		return fmt.Errorf("logs as array: %w", err)
	}

	for i, log := range items {
		b := p.logs
		b.blockSlot.Append(info.slot)
		b.blockHash.Append(info.hash)

		txIdx, ok, err := extract.U32(log, "transactionIndex")
		if err != nil {
			return fmt.Errorf("log %d: %w", i, err)
		}
		if ok {
			b.transactionIndex.Append(txIdx)
		} else {
			b.transactionIndex.AppendNull()
		}

		logIdx, ok, err := extract.U32(log, "logIndex")
		if err != nil {
			return fmt.Errorf("log %d: %w", i, err)
		}
		if ok {
			b.logIndex.Append(logIdx)
		} else {
			b.logIndex.AppendNull()
		}

		instrAddr, ok, err := extract.ArrayOfU32(log, "instructionAddress")
		if err != nil {
			return fmt.Errorf("log %d: instructionAddress: %w", i, err)
		}
		appendU32List(b.instructionAddress, instrAddr, ok)

		if err := appendBase58Field(b.programId, log, "programId"); err != nil {
			return fmt.Errorf("log %d: %w", i, err)
		}

		kind, ok, err := extract.String(log, "kind")
		if err != nil {
			return fmt.Errorf("log %d: %w", i, err)
		}
		appendOptString(b.kind, kind, ok)

		message, ok, err := extract.String(log, "message")
		if err != nil {
			return fmt.Errorf("log %d: %w", i, err)
		}
		appendOptString(b.message, message, ok)
	}
	return nil
}

func (p *Parser) parseTransactions(info blockInfo, obj *fastjson.Value) error {
	arr := obj.Get("transactions")
	if arr == nil {
		return nil
	}
	items, err := arr.Array()
	if err != nil {
		return fmt.Errorf("transactions as array: %w", err)
	}

	for i, tx := range items {
		if err := p.parseTransaction(info, tx); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}

func (p *Parser) parseTransaction(info blockInfo, tx *fastjson.Value) error {
	b := p.transactions

	b.blockSlot.Append(info.slot)
	b.blockHash.Append(info.hash)

	txIdx, ok, err := extract.U32(tx, "transactionIndex")
	if err != nil {
		return err
	}
	if ok {
		b.transactionIndex.Append(txIdx)
	} else {
		b.transactionIndex.AppendNull()
	}

	version, ok, err := extract.Version(tx, "version")
	if err != nil {
		return err
	}
	if ok {
		b.version.Append(version)
	} else {
		b.version.AppendNull()
	}

	accountKeys, ok, err := extract.ArrayOfBase58(tx, "accountKeys")
	if err != nil {
		return fmt.Errorf("accountKeys: %w", err)
	}
	appendBinaryList(b.accountKeys, accountKeys, ok)

	if err := p.parseAddressTableLookups(tx); err != nil {
		return fmt.Errorf("addressTableLookups: %w", err)
	}

	numReadonlySigned, ok, err := extract.U32(tx, "numReadonlySignedAccounts")
	if err != nil {
		return err
	}
	if ok {
		b.numReadonlySignedAccounts.Append(numReadonlySigned)
	} else {
		b.numReadonlySignedAccounts.AppendNull()
	}

	numReadonlyUnsigned, ok, err := extract.U32(tx, "numReadonlyUnsignedAccounts")
	if err != nil {
		return err
	}
	if ok {
		b.numReadonlyUnsignedAccounts.Append(numReadonlyUnsigned)
	} else {
		b.numReadonlyUnsignedAccounts.AppendNull()
	}

	numRequired, ok, err := extract.U32(tx, "numRequiredSignatures")
	if err != nil {
		return err
	}
	if ok {
		b.numRequiredSignatures.Append(numRequired)
	} else {
		b.numRequiredSignatures.AppendNull()
	}

	if err := appendBase58Field(b.recentBlockhash, tx, "recentBlockhash"); err != nil {
		return err
	}

	signatures, ok, err := extract.ArrayOfBase58(tx, "signatures")
	if err != nil {
		return fmt.Errorf("signatures: %w", err)
	}
	appendBinaryList(b.signatures, signatures, ok)

	errStr, ok, err := extract.JSONString(tx, "err")
	if err != nil {
		return err
	}
	appendOptString(b.err, errStr, ok)

	fee, ok, err := extract.Bigint(tx, "fee")
	if err != nil {
		return err
	}
	if ok {
		b.fee.Append(fee)
	} else {
		b.fee.AppendNull()
	}

	computeUnits, ok, err := extract.Bigint(tx, "computeUnitsConsumed")
	if err != nil {
		return err
	}
	if ok {
		b.computeUnitsConsumed.Append(computeUnits)
	} else {
		b.computeUnitsConsumed.AppendNull()
	}

	if err := p.parseLoadedAddresses(tx); err != nil {
		return fmt.Errorf("loadedAddresses: %w", err)
	}

	if err := appendBase58Field(b.feePayer, tx, "feePayer"); err != nil {
		return err
	}

	hasDropped, ok, err := extract.Bool(tx, "hasDroppedLogMessages")
	if err != nil {
		return err
	}
	if ok {
		b.hasDroppedLogMessages.Append(hasDropped)
	} else {
		b.hasDroppedLogMessages.AppendNull()
	}

	return nil
}

func (p *Parser) parseLoadedAddresses(tx *fastjson.Value) error {
	b := p.transactions
	v := tx.Get("loadedAddresses")
	if v == nil || v.Type() == fastjson.TypeNull {
		b.loadedReadonlyAddresses.AppendNull()
		b.loadedWritableAddresses.AppendNull()
		return nil
	}

	readonly, ok, err := extract.ArrayOfBase58(v, "readonly")
	if err != nil {
		return fmt.Errorf("readonly: %w", err)
	}
	if !ok {
		return fmt.Errorf("readonly is required when loadedAddresses is present")
	}
	appendBinaryList(b.loadedReadonlyAddresses, readonly, true)

	writable, ok, err := extract.ArrayOfBase58(v, "writable")
	if err != nil {
		return fmt.Errorf("writable: %w", err)
	}
	if !ok {
		return fmt.Errorf("writable is required when loadedAddresses is present")
	}
	appendBinaryList(b.loadedWritableAddresses, writable, true)

	return nil
}

func (p *Parser) parseAddressTableLookups(tx *fastjson.Value) error {
	b := p.transactions
	v := tx.Get("addressTableLookups")
	if v == nil {
		b.addressTableLookups.AppendNull()
		return nil
	}

	items, err := v.Array()
	if err != nil {
		return fmt.Errorf("as array: %w", err)
	}

	fields := b.addressTableLookupFields()
	sb := b.addressTableLookups.ValueBuilder().(*array.StructBuilder)

	b.addressTableLookups.Append(true)

	for i, lookup := range items {
		sb.Append(true)

		accountKey, ok, err := extract.Base58(lookup, "accountKey")
		if err != nil {
			return fmt.Errorf("element %d: accountKey: %w", i, err)
		}
		appendOptBinary(fields.accountKey, accountKey, ok)

		writableIdx, ok, err := extract.ArrayOfU64(lookup, "writableIndexes")
		if err != nil {
			return fmt.Errorf("element %d: writableIndexes: %w", i, err)
		}
		appendU64List(fields.writableIndexes, writableIdx, ok)

		readonlyIdx, ok, err := extract.ArrayOfU64(lookup, "readonlyIndexes")
		if err != nil {
			return fmt.Errorf("element %d: readonlyIndexes: %w", i, err)
		}
		appendU64List(fields.readonlyIndexes, readonlyIdx, ok)
	}

	return nil
}

func (p *Parser) parseInstructions(info blockInfo, obj *fastjson.Value) error {
	arr := obj.Get("instructions")
	if arr == nil {
		return nil
	}
	items, err := arr.Array()
	if err != nil {
		return fmt.Errorf("instructions as array: %w", err)
	}

	for i, instr := range items {
		if err := p.parseInstruction(info, instr); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return nil
}

func (p *Parser) parseInstruction(info blockInfo, instr *fastjson.Value) error {
	b := p.instructions

	b.blockSlot.Append(info.slot)
	b.blockHash.Append(info.hash)

	txIdx, ok, err := extract.U32(instr, "transactionIndex")
	if err != nil {
		return err
	}
	if ok {
		b.transactionIndex.Append(txIdx)
	} else {
		b.transactionIndex.AppendNull()
	}

	instrAddr, ok, err := extract.ArrayOfU32(instr, "instructionAddress")
	if err != nil {
		return fmt.Errorf("instructionAddress: %w", err)
	}
	appendU32List(b.instructionAddress, instrAddr, ok)

	if err := appendBase58Field(b.programId, instr, "programId"); err != nil {
		return err
	}

	accounts, accountsOk, err := extract.ArrayOfBase58(instr, "accounts")
	if err != nil {
		return fmt.Errorf("accounts: %w", err)
	}
	for i := 0; i < numPositionalAccounts; i++ {
		if accountsOk && i < len(accounts) {
			b.a[i].Append(accounts[i])
		} else {
			b.a[i].AppendNull()
		}
	}
	if accountsOk && len(accounts) > numPositionalAccounts {
		appendBinaryList(b.restOfAccounts, accounts[numPositionalAccounts:], true)
	} else if accountsOk {
		appendBinaryList(b.restOfAccounts, nil, true)
	} else {
		b.restOfAccounts.AppendNull()
	}

	if err := appendBase58Field(b.data, instr, "data"); err != nil {
		return err
	}

	if err := appendHexField(b.d1, instr, "d1"); err != nil {
		return err
	}
	if err := appendHexField(b.d2, instr, "d2"); err != nil {
		return err
	}
	if err := appendHexField(b.d4, instr, "d4"); err != nil {
		return err
	}
	if err := appendHexField(b.d8, instr, "d8"); err != nil {
		return err
	}

	errStr, ok, err := extract.String(instr, "error")
	if err != nil {
		return err
	}
	appendOptString(b.errorCol, errStr, ok)

	computeUnits, ok, err := extract.U64(instr, "computeUnitsConsumed")
	if err != nil {
		return err
	}
	if ok {
		b.computeUnitsConsumed.Append(computeUnits)
	} else {
		b.computeUnitsConsumed.AppendNull()
	}

	isCommitted, ok, err := extract.Bool(instr, "isCommitted")
	if err != nil {
		return err
	}
	if ok {
		b.isCommitted.Append(isCommitted)
	} else {
		b.isCommitted.AppendNull()
	}

	hasDropped, ok, err := extract.Bool(instr, "hasDroppedLogMessages")
	if err != nil {
		return err
	}
	if ok {
		b.hasDroppedLogMessages.Append(hasDropped)
	} else {
		b.hasDroppedLogMessages.AppendNull()
	}

	return nil
}

func appendHexField(b *array.BinaryBuilder, obj *fastjson.Value, name string) error {
	v, ok, err := extract.Hex(obj, name)
	if err != nil {
		return err
	}
	appendOptBinary(b, v, ok)
	return nil
}

// Finish finalizes every builder into its record batch. The parser must not
// be reused afterwards.
func (p *Parser) Finish() *Response {
	return &Response{
		Instructions:  p.instructions.finish(),
		Transactions:  p.transactions.finish(),
		Logs:          p.logs.finish(),
		Balances:      p.balances.finish(),
		TokenBalances: p.tokenBalances.finish(),
		Rewards:       p.rewards.finish(),
		Blocks:        p.blocks.finish(),
	}
}
