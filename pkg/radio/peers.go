// Package radio provides building blocks shared by radio drivers.
package radio

import (
	"sync"

	"github.com/robotalks/wcan/pkg/wcan"
)

// MaxPeers is the default capacity of PeerTable, same as ESP-NOW.
const MaxPeers = 20

// PeerTable is the peer list kept by a driver.
// A driver only transmits to registered peers.
type PeerTable struct {
	Capacity int

	peers map[wcan.Address]struct{}
	lock  sync.RWMutex
}

// NewPeerTable creates a PeerTable with capacity MaxPeers.
func NewPeerTable() *PeerTable {
	return &PeerTable{Capacity: MaxPeers}
}

// AddPeer implements wcan.PeerDriver.
func (t *PeerTable) AddPeer(addr wcan.Address) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.peers == nil {
		t.peers = make(map[wcan.Address]struct{})
	}
	if _, ok := t.peers[addr]; ok {
		return wcan.ErrPeerExists
	}
	if t.Capacity > 0 && len(t.peers) >= t.Capacity {
		return wcan.ErrPeerTableFull
	}
	t.peers[addr] = struct{}{}
	return nil
}

// RemovePeer implements wcan.PeerDriver.
func (t *PeerTable) RemovePeer(addr wcan.Address) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if _, ok := t.peers[addr]; !ok {
		return wcan.ErrPeerNotFound
	}
	delete(t.peers, addr)
	return nil
}

// Has checks if addr is registered.
func (t *PeerTable) Has(addr wcan.Address) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	_, ok := t.peers[addr]
	return ok
}

// Len returns the number of registered peers.
func (t *PeerTable) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.peers)
}

// Check returns wcan.ErrUnknownPeer if dst is not registered.
func (t *PeerTable) Check(dst wcan.Address) error {
	if !t.Has(dst) {
		return wcan.ErrUnknownPeer
	}
	return nil
}
