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

// Package svm implements the Solana query dialect, parser and columnar
// response of the portal client.
package svm

import (
	json "github.com/goccy/go-json"
)

// QueryType is the fixed discriminator the portal uses to pick the SVM
// query dialect.
const QueryType = "solana"

// Query describes the Solana data to retrieve.
type Query struct {
	Type             string               `json:"type"`
	FromBlock        uint64               `json:"fromBlock"`
	ToBlock          *uint64              `json:"toBlock,omitempty"`
	IncludeAllBlocks bool                 `json:"includeAllBlocks"`
	Fields           FieldSelection       `json:"fields"`
	Instructions     []InstructionRequest `json:"instructions,omitempty"`
	Transactions     []TransactionRequest `json:"transactions,omitempty"`
	Logs             []LogRequest         `json:"logs,omitempty"`
	Balances         []BalanceRequest     `json:"balances,omitempty"`
	TokenBalances    []TokenBalanceRequest `json:"tokenBalances,omitempty"`
	Rewards          []RewardRequest      `json:"rewards,omitempty"`
}

// NewQuery returns a Query with the required discriminator set.
func NewQuery() Query {
	return Query{Type: QueryType}
}

// Marshal serializes the query to its camelCase wire form.
func (q *Query) Marshal() ([]byte, error) {
	q.Type = QueryType
	return json.Marshal(q)
}

// ForceBlockNumberMask turns on the block-number (slot) output column, as
// required by the stream driver to advance from_block.
func (q *Query) ForceBlockNumberMask() {
	q.Fields.Block.Number = true
}

// InstructionRequest selects instructions by program/account/discriminator
// membership.
type InstructionRequest struct {
	ProgramId              []string `json:"programId,omitempty"`
	D1                      []string `json:"d1,omitempty"`
	D2                      []string `json:"d2,omitempty"`
	D3                      []string `json:"d3,omitempty"`
	D4                      []string `json:"d4,omitempty"`
	D8                      []string `json:"d8,omitempty"`
	A0                      []string `json:"a0,omitempty"`
	A1                      []string `json:"a1,omitempty"`
	A2                      []string `json:"a2,omitempty"`
	A3                      []string `json:"a3,omitempty"`
	A4                      []string `json:"a4,omitempty"`
	A5                      []string `json:"a5,omitempty"`
	A6                      []string `json:"a6,omitempty"`
	A7                      []string `json:"a7,omitempty"`
	A8                      []string `json:"a8,omitempty"`
	A9                      []string `json:"a9,omitempty"`
	IsCommitted             bool     `json:"isCommitted"`
	Transaction             bool     `json:"transaction"`
	TransactionTokenBalances bool    `json:"transactionTokenBalances"`
	Logs                    bool     `json:"logs"`
	InnerInstructions       bool     `json:"innerInstructions"`
}

// TransactionRequest selects transactions by fee payer.
type TransactionRequest struct {
	FeePayer     []string `json:"feePayer,omitempty"`
	Instructions bool     `json:"instructions"`
	Logs         bool     `json:"logs"`
}

// LogRequest selects program logs.
type LogRequest struct {
	ProgramId   []string `json:"programId,omitempty"`
	Kind        []string `json:"kind,omitempty"`
	Transaction bool     `json:"transaction"`
	Instruction bool     `json:"instruction"`
}

// BalanceRequest selects native SOL balance changes by account.
type BalanceRequest struct {
	Account                []string `json:"account,omitempty"`
	Transaction             bool     `json:"transaction"`
	TransactionInstructions bool     `json:"transactionInstructions"`
}

// TokenBalanceRequest selects SPL token balance changes.
type TokenBalanceRequest struct {
	Account                 []string `json:"account,omitempty"`
	PreProgramId             []string `json:"preProgramId,omitempty"`
	PostProgramId            []string `json:"postProgramId,omitempty"`
	PreMint                  []string `json:"preMint,omitempty"`
	PostMint                 []string `json:"postMint,omitempty"`
	PreOwner                 []string `json:"preOwner,omitempty"`
	PostOwner                []string `json:"postOwner,omitempty"`
	Transaction              bool     `json:"transaction"`
	TransactionInstructions   bool     `json:"transactionInstructions"`
}

// RewardRequest selects validator/staker rewards by pubkey.
type RewardRequest struct {
	Pubkey []string `json:"pubkey,omitempty"`
}

// FieldSelection is the set of per-entity output column masks.
type FieldSelection struct {
	Instruction  InstructionFields  `json:"instruction"`
	Transaction  TransactionFields  `json:"transaction"`
	Log          LogFields          `json:"log"`
	Balance      BalanceFields      `json:"balance"`
	TokenBalance TokenBalanceFields `json:"tokenBalance"`
	Reward       RewardFields       `json:"reward"`
	Block        BlockFields        `json:"block"`
}

// AllFields returns a FieldSelection with every leaf column enabled.
func AllFields() FieldSelection {
	return FieldSelection{
		Instruction:  InstructionFields{}.AllFields(),
		Transaction:  TransactionFields{}.AllFields(),
		Log:          LogFields{}.AllFields(),
		Balance:      BalanceFields{}.AllFields(),
		TokenBalance: TokenBalanceFields{}.AllFields(),
		Reward:       RewardFields{}.AllFields(),
		Block:        BlockFields{}.AllFields(),
	}
}

// InstructionFields selects the output columns of the instructions batch.
type InstructionFields struct {
	TransactionIndex      bool `json:"transactionIndex"`
	InstructionAddress    bool `json:"instructionAddress"`
	ProgramId             bool `json:"programId"`
	Accounts              bool `json:"accounts"`
	Data                  bool `json:"data"`
	D1                    bool `json:"d1"`
	D2                    bool `json:"d2"`
	D4                    bool `json:"d4"`
	D8                    bool `json:"d8"`
	Error                 bool `json:"error"`
	ComputeUnitsConsumed  bool `json:"computeUnitsConsumed"`
	IsCommitted           bool `json:"isCommitted"`
	HasDroppedLogMessages bool `json:"hasDroppedLogMessages"`
}

// AllFields sets every InstructionFields leaf to true.
func (InstructionFields) AllFields() InstructionFields {
	return InstructionFields{
		TransactionIndex: true, InstructionAddress: true, ProgramId: true,
		Accounts: true, Data: true, D1: true, D2: true, D4: true, D8: true,
		Error: true, ComputeUnitsConsumed: true, IsCommitted: true,
		HasDroppedLogMessages: true,
	}
}

// TransactionFields selects the output columns of the transactions batch.
type TransactionFields struct {
	TransactionIndex            bool `json:"transactionIndex"`
	Version                     bool `json:"version"`
	AccountKeys                 bool `json:"accountKeys"`
	AddressTableLookups         bool `json:"addressTableLookups"`
	NumReadonlySignedAccounts   bool `json:"numReadonlySignedAccounts"`
	NumReadonlyUnsignedAccounts bool `json:"numReadonlyUnsignedAccounts"`
	NumRequiredSignatures       bool `json:"numRequiredSignatures"`
	RecentBlockhash             bool `json:"recentBlockhash"`
	Signatures                  bool `json:"signatures"`
	Err                         bool `json:"err"`
	Fee                         bool `json:"fee"`
	ComputeUnitsConsumed        bool `json:"computeUnitsConsumed"`
	LoadedAddresses              bool `json:"loadedAddresses"`
	FeePayer                    bool `json:"feePayer"`
	HasDroppedLogMessages        bool `json:"hasDroppedLogMessages"`
}

// AllFields sets every TransactionFields leaf to true.
func (TransactionFields) AllFields() TransactionFields {
	return TransactionFields{
		TransactionIndex: true, Version: true, AccountKeys: true,
		AddressTableLookups: true, NumReadonlySignedAccounts: true,
		NumReadonlyUnsignedAccounts: true, NumRequiredSignatures: true,
		RecentBlockhash: true, Signatures: true, Err: true, Fee: true,
		ComputeUnitsConsumed: true, LoadedAddresses: true, FeePayer: true,
		HasDroppedLogMessages: true,
	}
}

// LogFields selects the output columns of the logs batch.
type LogFields struct {
	TransactionIndex   bool `json:"transactionIndex"`
	LogIndex           bool `json:"logIndex"`
	InstructionAddress bool `json:"instructionAddress"`
	ProgramId          bool `json:"programId"`
	Kind               bool `json:"kind"`
	Message            bool `json:"message"`
}

// AllFields sets every LogFields leaf to true.
func (LogFields) AllFields() LogFields {
	return LogFields{
		TransactionIndex: true, LogIndex: true, InstructionAddress: true,
		ProgramId: true, Kind: true, Message: true,
	}
}

// BalanceFields selects the output columns of the balances batch.
type BalanceFields struct {
	TransactionIndex bool `json:"transactionIndex"`
	Account          bool `json:"account"`
	Pre              bool `json:"pre"`
	Post             bool `json:"post"`
}

// AllFields sets every BalanceFields leaf to true.
func (BalanceFields) AllFields() BalanceFields {
	return BalanceFields{TransactionIndex: true, Account: true, Pre: true, Post: true}
}

// TokenBalanceFields selects the output columns of the token_balances batch.
type TokenBalanceFields struct {
	TransactionIndex bool `json:"transactionIndex"`
	Account          bool `json:"account"`
	PreMint          bool `json:"preMint"`
	PostMint         bool `json:"postMint"`
	PreDecimals      bool `json:"preDecimals"`
	PostDecimals     bool `json:"postDecimals"`
	PreProgramId     bool `json:"preProgramId"`
	PostProgramId    bool `json:"postProgramId"`
	PreOwner         bool `json:"preOwner"`
	PostOwner        bool `json:"postOwner"`
	PreAmount        bool `json:"preAmount"`
	PostAmount       bool `json:"postAmount"`
}

// AllFields sets every TokenBalanceFields leaf to true.
func (TokenBalanceFields) AllFields() TokenBalanceFields {
	return TokenBalanceFields{
		TransactionIndex: true, Account: true, PreMint: true, PostMint: true,
		PreDecimals: true, PostDecimals: true, PreProgramId: true,
		PostProgramId: true, PreOwner: true, PostOwner: true, PreAmount: true,
		PostAmount: true,
	}
}

// RewardFields selects the output columns of the rewards batch.
type RewardFields struct {
	Pubkey     bool `json:"pubkey"`
	Lamports   bool `json:"lamports"`
	PostBalance bool `json:"postBalance"`
	RewardType bool `json:"rewardType"`
	Commission bool `json:"commission"`
}

// AllFields sets every RewardFields leaf to true.
func (RewardFields) AllFields() RewardFields {
	return RewardFields{
		Pubkey: true, Lamports: true, PostBalance: true, RewardType: true,
		Commission: true,
	}
}

// BlockFields selects the output columns of the blocks batch.
type BlockFields struct {
	Number     bool `json:"number"`
	Hash       bool `json:"hash"`
	ParentNumber bool `json:"parentNumber"`
	ParentHash bool `json:"parentHash"`
	Height     bool `json:"height"`
	Timestamp  bool `json:"timestamp"`
}

// AllFields sets every BlockFields leaf to true.
func (BlockFields) AllFields() BlockFields {
	return BlockFields{
		Number: true, Hash: true, ParentNumber: true, ParentHash: true,
		Height: true, Timestamp: true,
	}
}
