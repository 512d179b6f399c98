package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wcan/pkg/radio/sim"
	"github.com/robotalks/wcan/pkg/wcan"
)

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("123, 0x456,789,")
	require.NoError(t, err)
	require.Equal(t, []uint16{0x123, 0x456, 0x789}, ids)

	ids, err = ParseIDs("")
	require.NoError(t, err)
	require.Empty(t, ids)

	_, err = ParseIDs("12345")
	require.Error(t, err)
	_, err = ParseIDs("xyz")
	require.Error(t, err)
}

func TestAddressFromID(t *testing.T) {
	addr := AddressFromID([]byte{0xff, 1, 2, 3, 4, 5, 6, 7})
	require.Equal(t, wcan.Address{0xfe, 1, 2, 3, 4, 5}, addr)
	addr = AddressFromID([]byte{0x00, 1})
	require.Equal(t, wcan.Address{0x02, 1, 0, 0, 0, 0}, addr)
}

func TestLocalAddress(t *testing.T) {
	conf := NewConfig()
	conf.Address = "02:00:00:00:00:0a"
	addr, err := conf.LocalAddress()
	require.NoError(t, err)
	require.Equal(t, wcan.Address{0x02, 0, 0, 0, 0, 0x0a}, addr)

	for _, s := range []string{"", "ff:ff:ff:ff:ff:ff", "00:00:00:00:00:00", "bad"} {
		conf.Address = s
		_, err = conf.LocalAddress()
		require.Errorf(t, err, "%q", s)
	}
}

func TestNewDriver(t *testing.T) {
	conf := NewConfig()
	conf.Address = "02:00:00:00:00:0a"
	conf.RadioURL = "sim://"
	drv, err := conf.NewDriver()
	require.NoError(t, err)
	station, ok := drv.(*sim.Station)
	require.True(t, ok)
	require.Equal(t, wcan.Address{0x02, 0, 0, 0, 0, 0x0a}, station.LocalAddress())
	require.NoError(t, station.Close())

	conf.RadioURL = "foo://bar"
	_, err = conf.NewDriver()
	require.Error(t, err)
}

var noop = wcan.HandleMessageFunc(func(context.Context, *wcan.Message) {})

func TestNewNode(t *testing.T) {
	conf := NewConfig()
	conf.Address = "02:00:00:00:00:0b"
	conf.RadioURL = "sim://"
	conf.Allow = "123,456"
	conf.Node.FilterEnabled = true
	node, err := conf.NewNode(noop)
	require.NoError(t, err)
	require.True(t, node.Receiver.Filter.Enabled())
	require.Equal(t, []uint16{0x123, 0x456}, node.Receiver.Filter.IDs())

	conf.Allow = "f800"
	_, err = conf.NewNode(noop)
	require.Equal(t, wcan.ErrReservedID, err)
}
