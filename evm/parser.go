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

	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/holiman/uint256"
	"github.com/valyala/fastjson"

	"github.com/steelcake/sqd-portal-client/internal/extract"
)

// Parser accumulates rows across one or more block objects of a single
// query response and finishes them into a Response. It reuses one
// fastjson.Parser to avoid reallocating the tape between lines.
type Parser struct {
	jp *fastjson.Parser

	blocks       *blocksBuilder
	transactions *transactionsBuilder
	logs         *logsBuilder
	traces       *tracesBuilder
}

// NewParser returns a Parser ready to consume block objects.
func NewParser() *Parser {
	mem := memory.NewGoAllocator()
	return &Parser{
		jp:           &fastjson.Parser{},
		blocks:       newBlocksBuilder(mem),
		transactions: newTransactionsBuilder(mem),
		logs:         newLogsBuilder(mem),
		traces:       newTracesBuilder(mem),
	}
}

type blockInfo struct {
	number uint64
	hash   []byte
}

// ParseLine parses one NDJSON line (one block object) and appends its rows
// to the parser's builders.
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

	if err := p.parseTransactions(info, obj); err != nil {
		return fmt.Errorf("parse transactions: %w", err)
	}
	if err := p.parseLogs(info, obj); err != nil {
		return fmt.Errorf("parse logs: %w", err)
	}
	if err := p.parseTraces(info, obj); err != nil {
		return fmt.Errorf("parse traces: %w", err)
	}

	return nil
}

func appendOptBytes(b interface {
	Append([]byte)
	AppendNull()
}, v []byte, ok bool) {
	if ok {
		b.Append(v)
	} else {
		b.AppendNull()
	}
}

func (p *Parser) parseHeader(header *fastjson.Value) (blockInfo, error) {
	number, _, err := extract.U64(header, "number")
	if err != nil {
		return blockInfo{}, err
	}
	hash, _, err := extract.Hex(header, "hash")
	if err != nil {
		return blockInfo{}, err
	}
	parentHash, ok, err := extract.Hex(header, "parentHash")
	if err != nil {
		return blockInfo{}, err
	}
	appendOptBytes(p.blocks.parentHash, parentHash, ok)

	if err := appendU64I256Field(p.blocks.timestamp, header, "timestamp"); err != nil {
		return blockInfo{}, err
	}

	if err := appendHexField(p.blocks.transactionsRoot, header, "transactionsRoot"); err != nil {
		return blockInfo{}, err
	}
	if err := appendHexField(p.blocks.receiptsRoot, header, "receiptsRoot"); err != nil {
		return blockInfo{}, err
	}
	if err := appendHexField(p.blocks.stateRoot, header, "stateRoot"); err != nil {
		return blockInfo{}, err
	}
	if err := appendHexField(p.blocks.logsBloom, header, "logsBloom"); err != nil {
		return blockInfo{}, err
	}
	if err := appendHexField(p.blocks.sha3Uncles, header, "sha3Uncles"); err != nil {
		return blockInfo{}, err
	}
	if err := appendHexField(p.blocks.extraData, header, "extraData"); err != nil {
		return blockInfo{}, err
	}
	if err := appendHexField(p.blocks.miner, header, "miner"); err != nil {
		return blockInfo{}, err
	}
	if err := appendHexField(p.blocks.nonce, header, "nonce"); err != nil {
		return blockInfo{}, err
	}
	if err := appendHexField(p.blocks.mixHash, header, "mixHash"); err != nil {
		return blockInfo{}, err
	}

	if err := appendU64I256Field(p.blocks.size, header, "size"); err != nil {
		return blockInfo{}, err
	}
	if err := appendI256Field(p.blocks.gasLimit, header, "gasLimit"); err != nil {
		return blockInfo{}, err
	}
	if err := appendI256Field(p.blocks.gasUsed, header, "gasUsed"); err != nil {
		return blockInfo{}, err
	}
	if err := appendI256Field(p.blocks.difficulty, header, "difficulty"); err != nil {
		return blockInfo{}, err
	}
	if err := appendI256Field(p.blocks.totalDifficulty, header, "totalDifficulty"); err != nil {
		return blockInfo{}, err
	}
	if err := appendI256Field(p.blocks.baseFeePerGas, header, "baseFeePerGas"); err != nil {
		return blockInfo{}, err
	}
	if err := appendI256Field(p.blocks.blobGasUsed, header, "blobGasUsed"); err != nil {
		return blockInfo{}, err
	}
	if err := appendI256Field(p.blocks.excessBlobGas, header, "excessBlobGas"); err != nil {
		return blockInfo{}, err
	}

	l1BlockNumber, ok, err := extract.U64(header, "l1BlockNumber")
	if err != nil {
		return blockInfo{}, err
	}
	if ok {
		p.blocks.l1BlockNumber.Append(l1BlockNumber)
	} else {
		p.blocks.l1BlockNumber.AppendNull()
	}

	// Columns the server never populates: appended null to keep every row
	// the same width.
	p.blocks.uncles.AppendNull()
	p.blocks.parentBeaconBlockRoot.AppendNull()
	p.blocks.withdrawalsRoot.AppendNull()
	p.blocks.withdrawals.AppendNull()
	p.blocks.sendCount.AppendNull()
	p.blocks.sendRoot.AppendNull()

	p.blocks.numberB.Append(number)
	p.blocks.hash.Append(hash)

	return blockInfo{number: number, hash: hash}, nil
}

func appendHexField(b *array.BinaryBuilder, obj *fastjson.Value, name string) error {
	v, ok, err := extract.Hex(obj, name)
	if err != nil {
		return err
	}
	appendOptBytes(b, v, ok)
	return nil
}

func appendI256Field(b *array.Decimal256Builder, obj *fastjson.Value, name string) error {
	v, ok, err := extract.I256(obj, name)
	if err != nil {
		return err
	}
	if ok {
		b.Append(toDecimal256(v))
	} else {
		b.AppendNull()
	}
	return nil
}

// appendU64I256Field reads name as a JSON number and widens it into a
// decimal256 column, for the columns spec.md §4.F calls out as u64→i256
// rather than hex→i256 (size, timestamp, nonce, chain_id).
func appendU64I256Field(b *array.Decimal256Builder, obj *fastjson.Value, name string) error {
	n, ok, err := extract.U64(obj, name)
	if err != nil {
		return err
	}
	if ok {
		b.Append(toDecimal256(new(uint256.Int).SetUint64(n)))
	} else {
		b.AppendNull()
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

	b.blockNumber.Append(info.number)
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

	if err := appendHexField(b.hash, tx, "hash"); err != nil {
		return err
	}
	if err := appendU64I256Field(b.nonce, tx, "nonce"); err != nil {
		return err
	}
	if err := appendHexField(b.from, tx, "from"); err != nil {
		return err
	}
	if err := appendHexField(b.to, tx, "to"); err != nil {
		return err
	}
	if err := appendHexField(b.input, tx, "input"); err != nil {
		return err
	}
	if err := appendI256Field(b.value, tx, "value"); err != nil {
		return err
	}
	if err := appendI256Field(b.gasPrice, tx, "gasPrice"); err != nil {
		return err
	}
	if err := appendI256Field(b.gas, tx, "gas"); err != nil {
		return err
	}
	if err := appendI256Field(b.maxFeePerGas, tx, "maxFeePerGas"); err != nil {
		return err
	}
	if err := appendI256Field(b.maxPriorityFeePerGas, tx, "maxPriorityFeePerGas"); err != nil {
		return err
	}
	if err := appendI256Field(b.v, tx, "v"); err != nil {
		return err
	}
	if err := appendI256Field(b.r, tx, "r"); err != nil {
		return err
	}
	if err := appendI256Field(b.s, tx, "s"); err != nil {
		return err
	}

	yParity, ok, err := extract.U8(tx, "yParity")
	if err != nil {
		return err
	}
	if ok {
		switch yParity {
		case 0:
			b.yParity.Append(false)
		case 1:
			b.yParity.Append(true)
		default:
			return fmt.Errorf("yParity: unexpected value %d", yParity)
		}
	} else {
		b.yParity.AppendNull()
	}

	if err := appendU64I256Field(b.chainId, tx, "chainId"); err != nil {
		return err
	}

	typ, ok, err := extract.U8(tx, "type")
	if err != nil {
		return err
	}
	if ok {
		b.typ.Append(typ)
	} else {
		b.typ.AppendNull()
	}

	status, ok, err := extract.U8(tx, "status")
	if err != nil {
		return err
	}
	if ok {
		b.status.Append(status)
	} else {
		b.status.AppendNull()
	}

	if err := appendHexField(b.sighash, tx, "sighash"); err != nil {
		return err
	}
	if err := appendHexField(b.contractAddress, tx, "contractAddress"); err != nil {
		return err
	}
	if err := appendI256Field(b.cumulativeGasUsed, tx, "cumulativeGasUsed"); err != nil {
		return err
	}
	if err := appendI256Field(b.effectiveGasPrice, tx, "effectiveGasPrice"); err != nil {
		return err
	}

	// Columns the server does not populate for this dataset.
	b.logsBloom.AppendNull()
	b.root.AppendNull()
	b.accessList.AppendNull()
	b.gasUsedForL1.AppendNull()
	b.depositNonce.AppendNull()
	b.blobGasPrice.AppendNull()
	b.depositReceiptVersion.AppendNull()
	b.blobGasUsed.AppendNull()
	b.l1BlockNumber.AppendNull()
	b.mint.AppendNull()
	b.sourceHash.AppendNull()

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
		if err := p.parseLog(info, log); err != nil {
			return fmt.Errorf("log %d: %w", i, err)
		}
	}
	return nil
}

func (p *Parser) parseLog(info blockInfo, log *fastjson.Value) error {
	b := p.logs

	b.blockNumber.Append(info.number)
	b.blockHash.Append(info.hash)

	logIdx, ok, err := extract.U32(log, "logIndex")
	if err != nil {
		return err
	}
	if ok {
		b.logIndex.Append(logIdx)
	} else {
		b.logIndex.AppendNull()
	}

	txIdx, ok, err := extract.U32(log, "transactionIndex")
	if err != nil {
		return err
	}
	if ok {
		b.transactionIndex.Append(txIdx)
	} else {
		b.transactionIndex.AppendNull()
	}

	if err := appendHexField(b.address, log, "address"); err != nil {
		return err
	}
	if err := appendHexField(b.data, log, "data"); err != nil {
		return err
	}

	topics, ok, err := extract.ArrayOfHex(log, "topics")
	if err != nil {
		return fmt.Errorf("topics: %w", err)
	}
	topicCols := []*array.BinaryBuilder{b.topic0, b.topic1, b.topic2, b.topic3}
	for i, col := range topicCols {
		if ok && i < len(topics) {
			col.Append(topics[i])
		} else {
			col.AppendNull()
		}
	}

	b.removed.AppendNull()

	return nil
}

func (p *Parser) parseTraces(info blockInfo, obj *fastjson.Value) error {
	arr := obj.Get("traces")
	if arr == nil {
		return nil
	}
	items, err := arr.Array()
	if err != nil {
		return fmt.Errorf("traces as array: %w", err)
	}

	for i, tr := range items {
		if err := p.parseTrace(info, tr); err != nil {
			return fmt.Errorf("trace %d: %w", i, err)
		}
	}
	return nil
}

func (p *Parser) parseTrace(info blockInfo, tr *fastjson.Value) error {
	b := p.traces

	b.blockNumber.Append(info.number)
	b.blockHash.Append(info.hash)

	txIdx, ok, err := extract.U32(tr, "transactionIndex")
	if err != nil {
		return err
	}
	if ok {
		b.transactionIndex.Append(txIdx)
	} else {
		b.transactionIndex.AppendNull()
	}

	traceAddr, ok, err := extract.ArrayOfU32(tr, "traceAddress")
	if err != nil {
		return fmt.Errorf("traceAddress: %w", err)
	}
	if ok {
		b.traceAddress.Append(true)
		vb := b.traceAddress.ValueBuilder().(*array.Uint32Builder)
		for _, v := range traceAddr {
			vb.Append(v)
		}
	} else {
		b.traceAddress.AppendNull()
	}

	typ, ok, err := extract.String(tr, "type")
	if err != nil {
		return err
	}
	if ok {
		b.typ.Append(typ)
	} else {
		b.typ.AppendNull()
	}

	subtraces, ok, err := extract.U32(tr, "subtraces")
	if err != nil {
		return err
	}
	if ok {
		b.subtraces.Append(subtraces)
	} else {
		b.subtraces.AppendNull()
	}

	errStr, errOk, err := extract.String(tr, "error")
	if err != nil {
		return err
	}
	revertReason, revOk, err := extract.String(tr, "revertReason")
	if err != nil {
		return err
	}
	switch {
	case errOk:
		b.errorCol.Append(errStr)
	case revOk:
		b.errorCol.Append(revertReason)
	default:
		b.errorCol.AppendNull()
	}

	action := tr.Get("action")
	if action != nil && action.Type() != fastjson.TypeNull {
		if err := appendHexField(b.actionFrom, action, "from"); err != nil {
			return err
		}
		if err := appendHexField(b.actionTo, action, "to"); err != nil {
			return err
		}
		if err := appendI256Field(b.actionValue, action, "value"); err != nil {
			return err
		}
		if err := appendI256Field(b.actionGas, action, "gas"); err != nil {
			return err
		}
		if err := appendHexField(b.actionInput, action, "input"); err != nil {
			return err
		}
		if err := appendHexField(b.actionSighash, action, "sighash"); err != nil {
			return err
		}
		actionType, ok, err := extract.String(action, "type")
		if err != nil {
			return err
		}
		if ok {
			b.actionType.Append(actionType)
		} else {
			b.actionType.AppendNull()
		}
		if err := appendHexField(b.actionInit, action, "init"); err != nil {
			return err
		}
		if err := appendHexField(b.actionRefundAddr, action, "refundAddress"); err != nil {
			return err
		}
		if err := appendI256Field(b.actionBalance, action, "balance"); err != nil {
			return err
		}
		if err := appendHexField(b.actionRewardAuthor, action, "rewardAuthor"); err != nil {
			return err
		}
	} else {
		b.actionFrom.AppendNull()
		b.actionTo.AppendNull()
		b.actionValue.AppendNull()
		b.actionGas.AppendNull()
		b.actionInput.AppendNull()
		b.actionSighash.AppendNull()
		b.actionType.AppendNull()
		b.actionInit.AppendNull()
		b.actionRefundAddr.AppendNull()
		b.actionBalance.AppendNull()
		b.actionRewardAuthor.AppendNull()
	}

	result := tr.Get("result")
	if result != nil && result.Type() != fastjson.TypeNull {
		if err := appendI256Field(b.resultGasUsed, result, "gasUsed"); err != nil {
			return err
		}
		if err := appendHexField(b.resultCode, result, "code"); err != nil {
			return err
		}
		if err := appendHexField(b.resultAddress, result, "address"); err != nil {
			return err
		}
		if err := appendHexField(b.resultOutput, result, "output"); err != nil {
			return err
		}
	} else {
		b.resultGasUsed.AppendNull()
		b.resultCode.AppendNull()
		b.resultAddress.AppendNull()
		b.resultOutput.AppendNull()
	}

	return nil
}

// Finish finalizes every builder into its record batch. The parser must not
// be reused afterwards.
func (p *Parser) Finish() *Response {
	return &Response{
		Blocks:       p.blocks.finish(),
		Transactions: p.transactions.finish(),
		Logs:         p.logs.finish(),
		Traces:       p.traces.finish(),
	}
}
