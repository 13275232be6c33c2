package svm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryOmitsEmptyPredicateArrays(t *testing.T) {
	q := NewQuery()
	q.FromBlock = 5

	body, err := q.Marshal()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))

	require.NotContains(t, raw, "instructions")
	require.NotContains(t, raw, "transactions")
	require.NotContains(t, raw, "logs")
	require.NotContains(t, raw, "balances")
	require.NotContains(t, raw, "tokenBalances")
	require.NotContains(t, raw, "rewards")
}

func TestInstructionRequestFieldSet(t *testing.T) {
	q := NewQuery()
	q.Instructions = []InstructionRequest{{
		ProgramId: []string{"11111111111111111111111111111111"},
		D3:        []string{"0xaa"},
		A0:        []string{"22222222222222222222222222222222"},
	}}

	body, err := q.Marshal()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))

	instrs := raw["instructions"].([]interface{})
	require.Len(t, instrs, 1)

	instr := instrs[0].(map[string]interface{})
	require.Contains(t, instr, "d3")
	require.Contains(t, instr, "a0")
	require.NotContains(t, instr, "a1")
}

func TestAllFieldsSetsEveryLeaf(t *testing.T) {
	f := AllFields()
	require.True(t, f.Instruction.D8)
	require.True(t, f.Transaction.AddressTableLookups)
	require.True(t, f.Log.InstructionAddress)
	require.True(t, f.Balance.Post)
	require.True(t, f.TokenBalance.PostAmount)
	require.True(t, f.Reward.Commission)
	require.True(t, f.Block.Height)
}

func TestForceBlockNumberMask(t *testing.T) {
	q := NewQuery()
	require.False(t, q.Fields.Block.Number)
	q.ForceBlockNumberMask()
	require.True(t, q.Fields.Block.Number)
}
