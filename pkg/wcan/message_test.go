package wcan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testAddrA = Address{0x02, 0, 0, 0, 0, 0x0a}
	testAddrB = Address{0x02, 0, 0, 0, 0, 0x0b}
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		name   string
		msg    Message
		expect []byte
	}{
		{"float", Message{ID: 0x123, Payload: []byte{0xc3, 0xf5, 0x48, 0x40}}, []byte{0x23, 0x01, 0xc3, 0xf5, 0x48, 0x40}},
		{"no payload", Message{ID: 0x456}, []byte{0x56, 0x04}},
		{"ack", *NewAck(testAddrA, 0x456), []byte{0x00, 0xf8, 0x56, 0x04}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frame, err := Encode(&tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.expect, frame)
			msg, err := Decode(testAddrA, frame)
			require.NoError(t, err)
			require.Equal(t, testAddrA, msg.Addr)
			require.Equal(t, tc.msg.ID, msg.ID)
			require.Equal(t, len(tc.msg.Payload), len(msg.Payload))
		})
	}
}

func TestEncodeSizeLimit(t *testing.T) {
	frame, err := Encode(&Message{ID: 1, Payload: make([]byte, MaxPayloadSize)})
	require.NoError(t, err)
	require.Len(t, frame, MaxFrameSize)
	_, err = Encode(&Message{ID: 1, Payload: make([]byte, MaxPayloadSize+1)})
	require.Equal(t, ErrPayloadTooLarge, err)
}

func TestDecodeTooShort(t *testing.T) {
	for _, frame := range [][]byte{nil, {0x23}} {
		_, err := Decode(testAddrA, frame)
		require.Equal(t, ErrFrameTooShort, err)
	}
}

func TestDecodeCopiesPayload(t *testing.T) {
	frame := []byte{0x23, 0x01, 1, 2}
	msg, err := Decode(testAddrA, frame)
	require.NoError(t, err)
	frame[2] = 9
	require.Equal(t, []byte{1, 2}, msg.Payload)
}

func TestAck(t *testing.T) {
	ack := NewAck(testAddrB, 0x789)
	require.True(t, ack.IsAck())
	require.Equal(t, testAddrB, ack.Addr)
	id, ok := ack.AckedID()
	require.True(t, ok)
	require.Equal(t, uint16(0x789), id)

	_, ok = (&Message{ID: AckID, Payload: []byte{1}}).AckedID()
	require.False(t, ok)
	_, ok = (&Message{ID: 0x789, Payload: []byte{1, 2}}).AckedID()
	require.False(t, ok)
}

func TestValidate(t *testing.T) {
	require.NoError(t, (&Message{ID: 0x123}).Validate())
	require.Equal(t, ErrReservedID, (&Message{ID: AckID}).Validate())
	require.Equal(t, ErrPayloadTooLarge, (&Message{ID: 1, Payload: make([]byte, MaxPayloadSize+1)}).Validate())
}

func TestAddress(t *testing.T) {
	addr, err := ParseAddress("02:00:00:00:00:0a")
	require.NoError(t, err)
	require.Equal(t, testAddrA, addr)
	require.Equal(t, "02:00:00:00:00:0a", addr.String())
	require.Equal(t, "ff:ff:ff:ff:ff:ff", Broadcast.String())
	require.True(t, Address{}.IsZero())
	require.False(t, Broadcast.IsZero())

	for _, s := range []string{"", "02:00:00:00:00", "02:00:00:00:00:0g", "02:00:00:00:00:100"} {
		_, err := ParseAddress(s)
		require.Errorf(t, err, "%q", s)
	}

	addr, err = AddressFrom([]byte{0x02, 0, 0, 0, 0, 0x0b})
	require.NoError(t, err)
	require.Equal(t, testAddrB, addr)
	_, err = AddressFrom([]byte{1, 2})
	require.Error(t, err)
}

func TestDump(t *testing.T) {
	require.Equal(t, "", Dump(nil))
	require.Equal(t, "00 f8 56 04", Dump([]byte{0x00, 0xf8, 0x56, 0x04}))
}
