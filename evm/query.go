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

// Package evm implements the EVM query dialect, parser and columnar
// response of the portal client.
package evm

import (
	json "github.com/goccy/go-json"
)

// QueryType is the fixed discriminator the portal uses to pick the EVM
// query dialect.
const QueryType = "evm"

// Query describes the EVM data to retrieve: a block range plus per-entity
// field selection and filter predicates.
type Query struct {
	Type              string             `json:"type"`
	FromBlock         uint64             `json:"fromBlock"`
	ToBlock           *uint64            `json:"toBlock,omitempty"`
	IncludeAllBlocks  bool               `json:"includeAllBlocks"`
	Fields            FieldSelection     `json:"fields"`
	Logs              []LogRequest       `json:"logs,omitempty"`
	Transactions      []TransactionRequest `json:"transactions,omitempty"`
	Traces            []TraceRequest     `json:"traces,omitempty"`
	StateDiffs        []StateDiffRequest `json:"stateDiffs,omitempty"`
}

// NewQuery returns a Query with the required discriminator set and every
// other field at its zero value.
func NewQuery() Query {
	return Query{Type: QueryType}
}

// Marshal serializes the query to its camelCase wire form. Predicate arrays
// are omitted when empty; field masks and scalars are always present.
func (q *Query) Marshal() ([]byte, error) {
	q.Type = QueryType
	return json.Marshal(q)
}

// LogRequest selects logs by address/topic membership, with cross-reference
// flags pulling in the owning transaction and its sibling traces/logs.
type LogRequest struct {
	Address           []string `json:"address,omitempty"`
	Topic0            []string `json:"topic0,omitempty"`
	Topic1            []string `json:"topic1,omitempty"`
	Topic2            []string `json:"topic2,omitempty"`
	Topic3            []string `json:"topic3,omitempty"`
	Transaction       bool     `json:"transaction"`
	TransactionTraces bool     `json:"transactionTraces"`
	TransactionLogs   bool     `json:"transactionLogs"`
}

// TransactionRequest selects transactions by from/to/sighash membership.
type TransactionRequest struct {
	From       []string `json:"from,omitempty"`
	To         []string `json:"to,omitempty"`
	Sighash    []string `json:"sighash,omitempty"`
	Logs       bool     `json:"logs"`
	Traces     bool     `json:"traces"`
	StateDiffs bool     `json:"stateDiffs"`
}

// TraceRequest selects call/create/suicide/reward traces.
type TraceRequest struct {
	Type                 []string `json:"type,omitempty"`
	CreateFrom           []string `json:"createFrom,omitempty"`
	CallFrom             []string `json:"callFrom,omitempty"`
	CallTo               []string `json:"callTo,omitempty"`
	CallSighash          []string `json:"callSighash,omitempty"`
	SuicideRefundAddress []string `json:"suicideRefundAddress,omitempty"`
	RewardAuthor         []string `json:"rewardAuthor,omitempty"`
	Transaction          bool     `json:"transaction"`
	TransactionLogs      bool     `json:"transactionLogs"`
	Subtraces            bool     `json:"subtraces"`
	Parents              bool     `json:"parents"`
}

// StateDiffRequest selects account state-diff entries.
type StateDiffRequest struct {
	Address     []string `json:"address,omitempty"`
	Key         []string `json:"key,omitempty"`
	Kind        []string `json:"kind,omitempty"`
	Transaction bool     `json:"transaction"`
}

// FieldSelection is the set of per-entity output column masks. It is
// always serialized in full; use AllFields for a mask selecting every
// leaf column.
type FieldSelection struct {
	Block       BlockFields       `json:"block"`
	Transaction TransactionFields `json:"transaction"`
	Log         LogFields         `json:"log"`
	Trace       TraceFields       `json:"trace"`
	StateDiff   StateDiffFields   `json:"stateDiff"`
}

// BlockFields selects the output columns of the blocks batch.
type BlockFields struct {
	Number                 bool `json:"number"`
	Hash                   bool `json:"hash"`
	ParentHash             bool `json:"parentHash"`
	Timestamp              bool `json:"timestamp"`
	TransactionsRoot       bool `json:"transactionsRoot"`
	ReceiptsRoot           bool `json:"receiptsRoot"`
	StateRoot              bool `json:"stateRoot"`
	LogsBloom              bool `json:"logsBloom"`
	Sha3Uncles             bool `json:"sha3Uncles"`
	ExtraData              bool `json:"extraData"`
	Miner                  bool `json:"miner"`
	Nonce                  bool `json:"nonce"`
	MixHash                bool `json:"mixHash"`
	Size                   bool `json:"size"`
	GasLimit               bool `json:"gasLimit"`
	GasUsed                bool `json:"gasUsed"`
	Difficulty             bool `json:"difficulty"`
	TotalDifficulty        bool `json:"totalDifficulty"`
	BaseFeePerGas          bool `json:"baseFeePerGas"`
	BlobGasUsed            bool `json:"blobGasUsed"`
	ExcessBlobGas          bool `json:"excessBlobGas"`
	L1BlockNumber          bool `json:"l1BlockNumber"`
}

// AllFields sets every BlockFields leaf to true.
func (BlockFields) AllFields() BlockFields {
	return BlockFields{
		Number: true, Hash: true, ParentHash: true, Timestamp: true,
		TransactionsRoot: true, ReceiptsRoot: true, StateRoot: true,
		LogsBloom: true, Sha3Uncles: true, ExtraData: true, Miner: true,
		Nonce: true, MixHash: true, Size: true, GasLimit: true,
		GasUsed: true, Difficulty: true, TotalDifficulty: true,
		BaseFeePerGas: true, BlobGasUsed: true, ExcessBlobGas: true,
		L1BlockNumber: true,
	}
}

// TransactionFields selects the output columns of the transactions batch.
type TransactionFields struct {
	TransactionIndex    bool `json:"transactionIndex"`
	Hash                bool `json:"hash"`
	Nonce               bool `json:"nonce"`
	From                bool `json:"from"`
	To                  bool `json:"to"`
	Input               bool `json:"input"`
	Value               bool `json:"value"`
	GasPrice            bool `json:"gasPrice"`
	Gas                 bool `json:"gas"`
	MaxFeePerGas        bool `json:"maxFeePerGas"`
	MaxPriorityFeePerGas bool `json:"maxPriorityFeePerGas"`
	V                   bool `json:"v"`
	R                   bool `json:"r"`
	S                   bool `json:"s"`
	YParity             bool `json:"yParity"`
	ChainId             bool `json:"chainId"`
	Type                bool `json:"type"`
	Status              bool `json:"status"`
	Sighash             bool `json:"sighash"`
	ContractAddress     bool `json:"contractAddress"`
	CumulativeGasUsed   bool `json:"cumulativeGasUsed"`
	EffectiveGasPrice   bool `json:"effectiveGasPrice"`
}

// AllFields sets every TransactionFields leaf to true.
func (TransactionFields) AllFields() TransactionFields {
	return TransactionFields{
		TransactionIndex: true, Hash: true, Nonce: true, From: true, To: true,
		Input: true, Value: true, GasPrice: true, Gas: true,
		MaxFeePerGas: true, MaxPriorityFeePerGas: true, V: true, R: true,
		S: true, YParity: true, ChainId: true, Type: true, Status: true,
		Sighash: true, ContractAddress: true, CumulativeGasUsed: true,
		EffectiveGasPrice: true,
	}
}

// LogFields selects the output columns of the logs batch.
type LogFields struct {
	LogIndex         bool `json:"logIndex"`
	TransactionIndex bool `json:"transactionIndex"`
	Address          bool `json:"address"`
	Data             bool `json:"data"`
	Topic0           bool `json:"topic0"`
	Topic1           bool `json:"topic1"`
	Topic2           bool `json:"topic2"`
	Topic3           bool `json:"topic3"`
	Removed          bool `json:"removed"`
}

// AllFields sets every LogFields leaf to true.
func (LogFields) AllFields() LogFields {
	return LogFields{
		LogIndex: true, TransactionIndex: true, Address: true, Data: true,
		Topic0: true, Topic1: true, Topic2: true, Topic3: true, Removed: true,
	}
}

// TraceFields selects the output columns of the traces batch.
type TraceFields struct {
	TransactionIndex bool `json:"transactionIndex"`
	TraceAddress     bool `json:"traceAddress"`
	Type             bool `json:"type"`
	Subtraces        bool `json:"subtraces"`
	Error            bool `json:"error"`
	ActionFrom       bool `json:"actionFrom"`
	ActionTo         bool `json:"actionTo"`
	ActionValue      bool `json:"actionValue"`
	ActionGas        bool `json:"actionGas"`
	ActionInput      bool `json:"actionInput"`
	ActionSighash    bool `json:"actionSighash"`
	ActionType       bool `json:"actionType"`
	ActionInit       bool `json:"actionInit"`
	ActionRefundAddress bool `json:"actionRefundAddress"`
	ActionBalance    bool `json:"actionBalance"`
	ActionRewardAuthor bool `json:"actionRewardAuthor"`
	ResultGasUsed    bool `json:"resultGasUsed"`
	ResultCode       bool `json:"resultCode"`
	ResultAddress    bool `json:"resultAddress"`
	ResultOutput     bool `json:"resultOutput"`
}

// AllFields sets every TraceFields leaf to true.
func (TraceFields) AllFields() TraceFields {
	return TraceFields{
		TransactionIndex: true, TraceAddress: true, Type: true, Subtraces: true,
		Error: true, ActionFrom: true, ActionTo: true, ActionValue: true,
		ActionGas: true, ActionInput: true, ActionSighash: true, ActionType: true,
		ActionInit: true, ActionRefundAddress: true, ActionBalance: true,
		ActionRewardAuthor: true, ResultGasUsed: true, ResultCode: true,
		ResultAddress: true, ResultOutput: true,
	}
}

// StateDiffFields selects the output columns of the state-diffs batch.
type StateDiffFields struct {
	TransactionIndex bool `json:"transactionIndex"`
	Address          bool `json:"address"`
	Key              bool `json:"key"`
	Kind             bool `json:"kind"`
	Prev             bool `json:"prev"`
	Next             bool `json:"next"`
}

// AllFields sets every StateDiffFields leaf to true.
func (StateDiffFields) AllFields() StateDiffFields {
	return StateDiffFields{
		TransactionIndex: true, Address: true, Key: true, Kind: true,
		Prev: true, Next: true,
	}
}

// AllFields returns a FieldSelection with every leaf column enabled across
// every entity.
func AllFields() FieldSelection {
	return FieldSelection{
		Block:       BlockFields{}.AllFields(),
		Transaction: TransactionFields{}.AllFields(),
		Log:         LogFields{}.AllFields(),
		Trace:       TraceFields{}.AllFields(),
		StateDiff:   StateDiffFields{}.AllFields(),
	}
}

// ForceBlockNumberMask turns on the block-number output column. The stream
// driver calls this before issuing its first request since it needs the
// column to advance from_block.
func (q *Query) ForceBlockNumberMask() {
	q.Fields.Block.Number = true
}
