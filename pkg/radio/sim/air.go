// Package sim provides an in-process broadcast medium.
package sim

import (
	"sync"

	"github.com/robotalks/wcan/pkg/radio"
	"github.com/robotalks/wcan/pkg/wcan"
)

// Air connects Stations on the same channel.
// Frames are delivered synchronously to the receive handlers.
type Air struct {
	// Drop decides whether a frame is lost on the way to dst.
	Drop func(src, dst wcan.Address, frame []byte) bool
	// Tap observes every transmitted frame.
	Tap func(src, dst wcan.Address, frame []byte)

	stations map[wcan.Address]*Station
	lock     sync.RWMutex
}

// NewAir creates an Air.
func NewAir() *Air {
	return &Air{stations: make(map[wcan.Address]*Station)}
}

// Join creates a Station with addr.
func (a *Air) Join(addr wcan.Address) *Station {
	s := &Station{PeerTable: radio.NewPeerTable(), air: a, addr: addr}
	a.lock.Lock()
	a.stations[addr] = s
	a.lock.Unlock()
	return s
}

// Leave removes the Station with addr.
func (a *Air) Leave(addr wcan.Address) {
	a.lock.Lock()
	delete(a.stations, addr)
	a.lock.Unlock()
}

func (a *Air) transmit(src, dst wcan.Address, frame []byte) {
	if tap := a.Tap; tap != nil {
		tap(src, dst, frame)
	}
	var receivers []*Station
	a.lock.RLock()
	if dst == wcan.Broadcast {
		receivers = make([]*Station, 0, len(a.stations))
		for addr, s := range a.stations {
			if addr != src {
				receivers = append(receivers, s)
			}
		}
	} else if s := a.stations[dst]; s != nil {
		receivers = append(receivers, s)
	}
	a.lock.RUnlock()

	for _, s := range receivers {
		if drop := a.Drop; drop != nil && drop(src, s.addr, frame) {
			continue
		}
		s.notify(src, append([]byte(nil), frame...))
	}
}

// Station is a radio driver attached to an Air.
type Station struct {
	*radio.PeerTable

	air     *Air
	addr    wcan.Address
	handler wcan.ReceiveHandler
	lock    sync.RWMutex
}

// LocalAddress returns the address of the station.
func (s *Station) LocalAddress() wcan.Address {
	return s.addr
}

// SetReceiveHandler implements wcan.Notifier.
func (s *Station) SetReceiveHandler(h wcan.ReceiveHandler) {
	s.lock.Lock()
	s.handler = h
	s.lock.Unlock()
}

// Transmit implements wcan.Transmitter.
func (s *Station) Transmit(dst wcan.Address, frame []byte) error {
	if err := s.Check(dst); err != nil {
		return err
	}
	s.air.transmit(s.addr, dst, frame)
	return nil
}

func (s *Station) notify(src wcan.Address, frame []byte) {
	s.lock.RLock()
	h := s.handler
	s.lock.RUnlock()
	if h != nil {
		h.HandleFrame(src, frame)
	}
}

// Close leaves the Air unless another Station took over the address.
func (s *Station) Close() error {
	s.air.lock.Lock()
	if s.air.stations[s.addr] == s {
		delete(s.air.stations, s.addr)
	}
	s.air.lock.Unlock()
	return nil
}
