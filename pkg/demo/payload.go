// Package demo implements the sample sensor application carried over WCAN.
//
// Each ID has a fixed payload type, encoded little-endian:
//   - 0x123: float32
//   - 0x456: int32
//   - 0x789: string, prefixed with a 1-byte length
package demo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/robotalks/wcan/pkg/wcan"
)

// Demo IDs.
const (
	FloatID  uint16 = 0x123
	IntID    uint16 = 0x456
	StringID uint16 = 0x789
)

// IDs lists the demo IDs in publishing order.
var IDs = []uint16{FloatID, IntID, StringID}

// Errors
var (
	ErrUnknownID      = errors.New("unknown demo id")
	ErrBadPayload     = errors.New("malformed payload")
	ErrStringTooLarge = errors.New("string too large")
)

// EncodeFloat encodes a float32 reading.
func EncodeFloat(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}

// DecodeFloat decodes a float32 reading.
func DecodeFloat(b []byte) (float32, error) {
	if len(b) < 4 {
		return 0, ErrBadPayload
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// EncodeInt encodes an int32 reading.
func EncodeInt(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

// DecodeInt decodes an int32 reading.
func DecodeInt(b []byte) (int32, error) {
	if len(b) < 4 {
		return 0, ErrBadPayload
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// EncodeString encodes a string reading.
func EncodeString(s string) ([]byte, error) {
	if len(s) > math.MaxUint8 || len(s)+1 > wcan.MaxPayloadSize {
		return nil, ErrStringTooLarge
	}
	b := make([]byte, len(s)+1)
	b[0] = byte(len(s))
	copy(b[1:], s)
	return b, nil
}

// DecodeString decodes a string reading.
func DecodeString(b []byte) (string, error) {
	if len(b) < 1 || int(b[0]) > len(b)-1 {
		return "", ErrBadPayload
	}
	return string(b[1 : 1+int(b[0])]), nil
}

// Encode encodes a reading for id. val must match the type of id.
func Encode(id uint16, val interface{}) ([]byte, error) {
	switch id {
	case FloatID:
		if v, ok := val.(float32); ok {
			return EncodeFloat(v), nil
		}
	case IntID:
		if v, ok := val.(int32); ok {
			return EncodeInt(v), nil
		}
	case StringID:
		if v, ok := val.(string); ok {
			return EncodeString(v)
		}
	default:
		return nil, fmt.Errorf("%w: %04x", ErrUnknownID, id)
	}
	return nil, fmt.Errorf("invalid value %T for %04x", val, id)
}

// Decode decodes the payload of id.
func Decode(id uint16, payload []byte) (interface{}, error) {
	switch id {
	case FloatID:
		return DecodeFloat(payload)
	case IntID:
		return DecodeInt(payload)
	case StringID:
		return DecodeString(payload)
	}
	return nil, fmt.Errorf("%w: %04x", ErrUnknownID, id)
}

// Format renders the payload for display. Unknown IDs and
// malformed payloads are shown as hex.
func Format(id uint16, payload []byte) string {
	val, err := Decode(id, payload)
	if err != nil {
		return "[" + wcan.Dump(payload) + "]"
	}
	switch v := val.(type) {
	case float32:
		return fmt.Sprintf("float %f", v)
	case int32:
		return fmt.Sprintf("int %d", v)
	case string:
		return fmt.Sprintf("string %q", v)
	}
	return fmt.Sprint(val)
}
