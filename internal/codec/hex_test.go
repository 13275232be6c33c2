package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHexRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"0xaabb", []byte{0xaa, 0xbb}},
		{"0x1", []byte{0x01}},
		{"0x0", []byte{0x00}},
		{"0xabc", []byte{0x0a, 0xbc}},
		{"0x", []byte{}},
	}

	for _, c := range cases {
		got, err := DecodeHex(c.in)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestDecodeHexMissingPrefix(t *testing.T) {
	_, err := DecodeHex("aabb")
	require.ErrorIs(t, err, ErrInvalidHexPrefix)
}

func TestDecodeBase58(t *testing.T) {
	got, err := DecodeBase58("11")
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00}, got)
}

func TestDecodeBase58Invalid(t *testing.T) {
	_, err := DecodeBase58("0OIl")
	require.Error(t, err)
}
