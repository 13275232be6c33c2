package evm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryOmitsEmptyPredicateArrays(t *testing.T) {
	q := NewQuery()
	q.FromBlock = 100

	body, err := q.Marshal()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))

	require.NotContains(t, raw, "logs")
	require.NotContains(t, raw, "transactions")
	require.NotContains(t, raw, "traces")
	require.NotContains(t, raw, "stateDiffs")

	require.Contains(t, raw, "fields")
	require.Contains(t, raw, "includeAllBlocks")
}

func TestQueryKeepsNonEmptyPredicateArrays(t *testing.T) {
	q := NewQuery()
	q.Logs = []LogRequest{{Address: []string{"0xaa"}}}

	body, err := q.Marshal()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &raw))
	require.Contains(t, raw, "logs")
}

func TestQueryRoundTrip(t *testing.T) {
	to := uint64(200)
	q := Query{
		Type:             QueryType,
		FromBlock:        100,
		ToBlock:          &to,
		IncludeAllBlocks: true,
		Fields:           AllFields(),
	}

	body, err := q.Marshal()
	require.NoError(t, err)

	var got Query
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, q, got)
}

func TestAllFieldsSetsEveryLeaf(t *testing.T) {
	f := AllFields()
	require.True(t, f.Block.Number)
	require.True(t, f.Transaction.YParity)
	require.True(t, f.Log.Topic3)
	require.True(t, f.Trace.ActionRewardAuthor)
	require.True(t, f.StateDiff.Next)
}

func TestForceBlockNumberMask(t *testing.T) {
	q := NewQuery()
	require.False(t, q.Fields.Block.Number)
	q.ForceBlockNumberMask()
	require.True(t, q.Fields.Block.Number)
}
