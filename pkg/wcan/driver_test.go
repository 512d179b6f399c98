package wcan

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type txFrame struct {
	dst   Address
	frame []byte
}

type fakeDriver struct {
	txCh chan txFrame

	lock    sync.Mutex
	peers   map[Address]bool
	txErr   error
	handler ReceiveHandler
}

func newFakeDriver(peers ...Address) *fakeDriver {
	d := &fakeDriver{txCh: make(chan txFrame, 64), peers: make(map[Address]bool)}
	for _, addr := range peers {
		d.peers[addr] = true
	}
	return d
}

func (d *fakeDriver) Transmit(dst Address, frame []byte) error {
	d.lock.Lock()
	known, err := d.peers[dst], d.txErr
	d.lock.Unlock()
	if !known {
		return ErrUnknownPeer
	}
	d.txCh <- txFrame{dst: dst, frame: append([]byte(nil), frame...)}
	return err
}

func (d *fakeDriver) AddPeer(addr Address) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.peers[addr] {
		return ErrPeerExists
	}
	d.peers[addr] = true
	return nil
}

func (d *fakeDriver) RemovePeer(addr Address) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if !d.peers[addr] {
		return ErrPeerNotFound
	}
	delete(d.peers, addr)
	return nil
}

func (d *fakeDriver) SetReceiveHandler(h ReceiveHandler) {
	d.lock.Lock()
	d.handler = h
	d.lock.Unlock()
}

func (d *fakeDriver) hasPeer(addr Address) bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.peers[addr]
}

func (d *fakeDriver) setTxErr(err error) {
	d.lock.Lock()
	d.txErr = err
	d.lock.Unlock()
}

func (d *fakeDriver) expectFrame(t *testing.T, dst Address, frame ...byte) {
	select {
	case tx := <-d.txCh:
		require.Equal(t, dst, tx.dst)
		require.Equal(t, frame, tx.frame)
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for frame % x", frame)
	}
}

func (d *fakeDriver) expectNoFrame(t *testing.T, wait time.Duration) {
	select {
	case tx := <-d.txCh:
		t.Fatalf("unexpected frame % x to %s", tx.frame, tx.dst)
	case <-time.After(wait):
	}
}
