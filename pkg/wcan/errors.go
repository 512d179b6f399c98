package wcan

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameTooShort indicates a received frame can't hold an identifier.
	ErrFrameTooShort = errors.New("frame too short")
	// ErrPayloadTooLarge indicates the encoded frame exceeds MaxFrameSize.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrReservedID indicates an application message uses AckID.
	ErrReservedID = errors.New("reserved identifier")
	// ErrQueueFull indicates the message can't be queued in time.
	ErrQueueFull = errors.New("queue full")
	// ErrRetryExhausted indicates no acknowledgment after all retries.
	ErrRetryExhausted = errors.New("retry exhausted")
	// ErrNoHandler indicates no application handler is registered.
	ErrNoHandler = errors.New("no message handler")
	// ErrNoSender indicates the driver reported a frame without sender.
	ErrNoSender = errors.New("no sender address")

	// ErrPeerExists indicates the peer is already registered.
	ErrPeerExists = errors.New("peer exists")
	// ErrPeerNotFound indicates the peer is not registered.
	ErrPeerNotFound = errors.New("peer not found")
	// ErrPeerTableFull indicates the driver can't register more peers.
	ErrPeerTableFull = errors.New("peer table full")
	// ErrUnknownPeer indicates a transmission to an unregistered peer.
	ErrUnknownPeer = errors.New("unknown peer")
)

// PeerError wraps errors from the peer driver.
type PeerError struct {
	Op   string
	Addr Address
	Err  error
}

// Error implements error.
func (e *PeerError) Error() string {
	return fmt.Sprintf("%s peer %s: %v", e.Op, e.Addr, e.Err)
}

// Unwrap returns the driver error.
func (e *PeerError) Unwrap() error {
	return e.Err
}

// TransmitError wraps errors from the radio driver.
type TransmitError struct {
	Dst Address
	Err error
}

// Error implements error.
func (e *TransmitError) Error() string {
	return fmt.Sprintf("transmit to %s: %v", e.Dst, e.Err)
}

// Unwrap returns the driver error.
func (e *TransmitError) Unwrap() error {
	return e.Err
}
