package wcan

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// AckID is the identifier reserved for acknowledgment frames.
const AckID uint16 = 0xF800

// Frame size limits.
const (
	// HeaderSize is the size of the identifier prefix.
	HeaderSize = 2
	// MaxFrameSize is the largest frame the radio link carries.
	MaxFrameSize = 250
	// MaxPayloadSize is the largest payload of a single message.
	MaxPayloadSize = MaxFrameSize - HeaderSize
)

// AddressLen is the length of a link-layer address.
const AddressLen = 6

// Address is a link-layer (MAC) address.
type Address [AddressLen]byte

// Broadcast reaches every node on the channel.
var Broadcast = Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// AddressFrom converts bytes to Address.
func AddressFrom(b []byte) (addr Address, err error) {
	if len(b) != AddressLen {
		return addr, fmt.Errorf("invalid address length %d", len(b))
	}
	copy(addr[:], b)
	return addr, nil
}

// ParseAddress parses the form aa:bb:cc:dd:ee:ff.
func ParseAddress(s string) (addr Address, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != AddressLen {
		return addr, fmt.Errorf("invalid address %q", s)
	}
	for n, part := range parts {
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return addr, fmt.Errorf("invalid address %q", s)
		}
		addr[n] = byte(v)
	}
	return addr, nil
}

// IsZero indicates the address is absent.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Message is the unit of application data.
// Addr is the destination of an outbound message and the source
// of an inbound one.
type Message struct {
	Addr    Address
	ID      uint16
	Payload []byte
	Attempt int
}

// NewAck creates the acknowledgment for message id sent by dst.
func NewAck(dst Address, id uint16) *Message {
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, id)
	return &Message{Addr: dst, ID: AckID, Payload: payload}
}

// IsAck indicates the message is an acknowledgment.
func (m *Message) IsAck() bool {
	return m.ID == AckID
}

// AckedID returns the acknowledged identifier carried by an acknowledgment.
func (m *Message) AckedID() (uint16, bool) {
	if !m.IsAck() || len(m.Payload) < 2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(m.Payload), true
}

// Validate checks an application message before it's queued.
func (m *Message) Validate() error {
	if m.ID == AckID {
		return ErrReservedID
	}
	if len(m.Payload) > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	return nil
}

// String implements fmt.Stringer.
func (m *Message) String() string {
	return fmt.Sprintf("%04x@%s[%d]", m.ID, m.Addr, len(m.Payload))
}

// Encode encodes the message into a wire frame.
func Encode(m *Message) ([]byte, error) {
	if len(m.Payload) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	b := make([]byte, HeaderSize+len(m.Payload))
	binary.LittleEndian.PutUint16(b, m.ID)
	copy(b[HeaderSize:], m.Payload)
	return b, nil
}

// Decode decodes a wire frame received from src.
// The returned message doesn't alias frame.
func Decode(src Address, frame []byte) (*Message, error) {
	if len(frame) < HeaderSize {
		return nil, ErrFrameTooShort
	}
	m := &Message{
		Addr:    src,
		ID:      binary.LittleEndian.Uint16(frame),
		Payload: make([]byte, len(frame)-HeaderSize),
	}
	copy(m.Payload, frame[HeaderSize:])
	return m, nil
}

// Dump formats bytes in hex for logging.
func Dump(b []byte) string {
	var sb strings.Builder
	for n, c := range b {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String()
}
