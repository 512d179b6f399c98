package wcan

import (
	"errors"

	"github.com/golang/glog"
)

// PeerRegistry wraps the peer driver.
type PeerRegistry struct {
	Driver PeerDriver
}

// NewPeerRegistry creates a PeerRegistry.
func NewPeerRegistry(drv PeerDriver) *PeerRegistry {
	return &PeerRegistry{Driver: drv}
}

// Add registers a peer.
func (r *PeerRegistry) Add(addr Address) error {
	if err := r.Driver.AddPeer(addr); err != nil {
		return &PeerError{Op: "add", Addr: addr, Err: err}
	}
	glog.V(2).Infof("peer added: %s", addr)
	return nil
}

// Remove unregisters a peer.
func (r *PeerRegistry) Remove(addr Address) error {
	if err := r.Driver.RemovePeer(addr); err != nil {
		return &PeerError{Op: "remove", Addr: addr, Err: err}
	}
	glog.V(2).Infof("peer removed: %s", addr)
	return nil
}

// WithPeer registers addr only for the duration of fn.
// If addr is already registered it's left in place afterwards.
// Failing to remove the peer is logged only.
func (r *PeerRegistry) WithPeer(addr Address, fn func() error) error {
	added := true
	if err := r.Add(addr); err != nil {
		if !errors.Is(err, ErrPeerExists) {
			return err
		}
		added = false
	}
	err := fn()
	if added {
		if rmErr := r.Remove(addr); rmErr != nil {
			glog.Errorf("%v", rmErr)
		}
	}
	return err
}
