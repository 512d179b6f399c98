package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wcan/pkg/wcan"
)

var (
	addrA = wcan.Address{0x02, 0, 0, 0, 0, 0x0a}
	addrB = wcan.Address{0x02, 0, 0, 0, 0, 0x0b}
	addrC = wcan.Address{0x02, 0, 0, 0, 0, 0x0c}
)

type received struct {
	src   wcan.Address
	frame []byte
}

func join(air *Air, addr wcan.Address) (*Station, *[]received) {
	var frames []received
	s := air.Join(addr)
	s.SetReceiveHandler(wcan.HandleFrameFunc(func(src wcan.Address, frame []byte) {
		frames = append(frames, received{src: src, frame: frame})
	}))
	return s, &frames
}

func TestAirBroadcast(t *testing.T) {
	air := NewAir()
	a, recvA := join(air, addrA)
	_, recvB := join(air, addrB)
	_, recvC := join(air, addrC)

	frame := []byte{0x23, 0x01}
	require.Equal(t, wcan.ErrUnknownPeer, a.Transmit(wcan.Broadcast, frame))
	require.NoError(t, a.AddPeer(wcan.Broadcast))
	require.NoError(t, a.Transmit(wcan.Broadcast, frame))
	frame[0] = 0

	require.Empty(t, *recvA)
	require.Equal(t, []received{{addrA, []byte{0x23, 0x01}}}, *recvB)
	require.Equal(t, []received{{addrA, []byte{0x23, 0x01}}}, *recvC)
}

func TestAirUnicast(t *testing.T) {
	air := NewAir()
	a, _ := join(air, addrA)
	b, recvB := join(air, addrB)
	_, recvC := join(air, addrC)

	require.NoError(t, a.AddPeer(addrB))
	require.NoError(t, a.Transmit(addrB, []byte{0x00, 0xf8, 0x23, 0x01}))
	require.Len(t, *recvB, 1)
	require.Empty(t, *recvC)

	require.NoError(t, b.Close())
	require.NoError(t, a.Transmit(addrB, []byte{0x00, 0xf8, 0x23, 0x01}))
	require.Len(t, *recvB, 1)
}

func TestAirDropAndTap(t *testing.T) {
	air := NewAir()
	var tapped int
	air.Tap = func(src, dst wcan.Address, frame []byte) { tapped++ }
	air.Drop = func(src, dst wcan.Address, frame []byte) bool { return dst == addrB }
	a, _ := join(air, addrA)
	_, recvB := join(air, addrB)
	_, recvC := join(air, addrC)

	require.NoError(t, a.AddPeer(wcan.Broadcast))
	require.NoError(t, a.Transmit(wcan.Broadcast, []byte{0x56, 0x04}))
	require.Equal(t, 1, tapped)
	require.Empty(t, *recvB)
	require.Len(t, *recvC, 1)
}
