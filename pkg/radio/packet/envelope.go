package packet

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/wcan/pkg/wcan"
)

// Envelope carries a radio frame with its link-layer addresses.
//
//	message Envelope {
//	  bytes src = 1;
//	  bytes dst = 2;
//	  bytes data = 3;
//	}
type Envelope struct {
	Src  []byte `protobuf:"bytes,1,opt,name=src,proto3" json:"src,omitempty"`
	Dst  []byte `protobuf:"bytes,2,opt,name=dst,proto3" json:"dst,omitempty"`
	Data []byte `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
}

// Reset implements proto.Message.
func (m *Envelope) Reset() { *m = Envelope{} }

// String implements proto.Message.
func (m *Envelope) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Envelope) ProtoMessage() {}

// NewEnvelope creates an Envelope.
func NewEnvelope(src, dst wcan.Address, frame []byte) *Envelope {
	return &Envelope{Src: src[:], Dst: dst[:], Data: frame}
}

// Encode encodes the envelope.
func (m *Envelope) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Addresses returns the parsed source and destination.
func (m *Envelope) Addresses() (src, dst wcan.Address, err error) {
	if src, err = wcan.AddressFrom(m.Src); err != nil {
		return
	}
	dst, err = wcan.AddressFrom(m.Dst)
	return
}

// DecodeEnvelope decodes bytes into Envelope.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := proto.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
