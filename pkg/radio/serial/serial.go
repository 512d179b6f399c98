// Package serial connects to an ESP-NOW dongle over a serial port.
// The dongle forwards length-prefixed Envelopes between the port and the air.
package serial

import (
	"fmt"
	"net/url"
	"strconv"

	"go.bug.st/serial"

	"github.com/robotalks/wcan/pkg/radio/packet/stream"
)

// DefaultBaudRate is used when the URL doesn't specify baud.
const DefaultBaudRate = 115200

// Open opens the serial port and frames packets over it.
func Open(portName string, baudRate int) (*stream.ReadWriter, error) {
	if portName == "" {
		return nil, fmt.Errorf("serial port is empty")
	}
	if baudRate <= 0 {
		return nil, fmt.Errorf("invalid serial baud rate: %d", baudRate)
	}
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", portName, err)
	}
	return stream.New(port), nil
}

// ParseURL parses serial:///dev/ttyUSB0?baud=115200.
func ParseURL(u *url.URL) (portName string, baudRate int, err error) {
	portName, baudRate = u.Path, DefaultBaudRate
	if portName == "" {
		portName = u.Opaque
	}
	if val := u.Query().Get("baud"); val != "" {
		if baudRate, err = strconv.Atoi(val); err != nil {
			return "", 0, fmt.Errorf("invalid baud %q", val)
		}
	}
	return
}

// OpenURL opens the port specified by URL.
func OpenURL(u *url.URL) (*stream.ReadWriter, error) {
	portName, baudRate, err := ParseURL(u)
	if err != nil {
		return nil, err
	}
	return Open(portName, baudRate)
}
