package sh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	testCases := []struct {
		typ    string
		args   []string
		expect []byte
	}{
		{"float", []string{"3.14"}, []byte{0xc3, 0xf5, 0x48, 0x40}},
		{"int", []string{"42"}, []byte{42, 0, 0, 0}},
		{"i", []string{"0x10"}, []byte{0x10, 0, 0, 0}},
		{"str", []string{"Hello", "WCAN"}, []byte{10, 'H', 'e', 'l', 'l', 'o', ' ', 'W', 'C', 'A', 'N'}},
		{"hex", []string{"0102", "ff"}, []byte{1, 2, 0xff}},
	}
	for _, tc := range testCases {
		t.Run(tc.typ, func(t *testing.T) {
			payload, err := ParsePayload(tc.typ, tc.args)
			require.NoError(t, err)
			require.Equal(t, tc.expect, payload)
		})
	}

	_, err := ParsePayload("bool", []string{"true"})
	require.Error(t, err)
	_, err = ParsePayload("int", []string{"abc"})
	require.Error(t, err)
}

func TestFormatIDs(t *testing.T) {
	require.Equal(t, "[0123 0456]", formatIDs([]uint16{0x123, 0x456}))
	require.Equal(t, "[]", formatIDs(nil))
}
