package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func parse(t *testing.T, s string) *fastjson.Value {
	t.Helper()
	var p fastjson.Parser
	v, err := p.Parse(s)
	require.NoError(t, err)
	return v
}

func TestAbsentVsNullParity(t *testing.T) {
	withNull := parse(t, `{"a": null}`)
	withoutKey := parse(t, `{}`)

	for _, obj := range []*fastjson.Value{withNull, withoutKey} {
		_, ok, err := U64(obj, "a")
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestU64Present(t *testing.T) {
	obj := parse(t, `{"a": 42}`)
	v, ok, err := U64(obj, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(42), v)
}

func TestU64TypeMismatch(t *testing.T) {
	obj := parse(t, `{"a": "not a number"}`)
	_, _, err := U64(obj, "a")
	require.Error(t, err)
}

func TestBoolTrue(t *testing.T) {
	obj := parse(t, `{"a": true}`)
	v, ok, err := Bool(obj, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, v)
}

func TestI256HexWidening(t *testing.T) {
	obj := parse(t, `{"v": "0x1"}`)
	v, ok, err := I256(obj, "v")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(1), v.Uint64())
}

func TestI256TooLong(t *testing.T) {
	digits := ""
	for i := 0; i < 66; i++ {
		digits += "f"
	}
	obj := parse(t, `{"v": "0x`+digits+`"}`)
	_, _, err := I256(obj, "v")
	require.Error(t, err)
}

func TestBigint(t *testing.T) {
	obj := parse(t, `{"fee": "123456789012345"}`)
	v, ok, err := Bigint(obj, "fee")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(123456789012345), v)
}

func TestVersionLegacy(t *testing.T) {
	obj := parse(t, `{"version": "legacy"}`)
	v, ok, err := Version(obj, "version")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, LegacyVersionSentinel, v)
}

func TestVersionNumeric(t *testing.T) {
	obj := parse(t, `{"version": 0}`)
	v, ok, err := Version(obj, "version")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int8(0), v)
}

func TestVersionNegativeIsError(t *testing.T) {
	obj := parse(t, `{"version": -1}`)
	_, _, err := Version(obj, "version")
	require.Error(t, err)
}

func TestArrayOfHexTruncationIsCallerResponsibility(t *testing.T) {
	obj := parse(t, `{"topics": ["0x01","0x02","0x03","0x04","0x05"]}`)
	v, ok, err := ArrayOfHex(obj, "topics")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, v, 5)
}

func TestArrayOfBase58(t *testing.T) {
	obj := parse(t, `{"keys": ["11"]}`)
	v, ok, err := ArrayOfBase58(obj, "keys")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, [][]byte{{0x00, 0x00}}, v)
}

func TestJSONString(t *testing.T) {
	obj := parse(t, `{"err": {"InstructionError": [0, "Custom"]}}`)
	s, ok, err := JSONString(obj, "err")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, s, "InstructionError")
}
