package wcan

import "context"

// Transmitter sends a frame over the radio link. It's fire-and-forget:
// a nil error means the frame was handed to the radio, not delivered.
type Transmitter interface {
	Transmit(dst Address, frame []byte) error
}

// PeerDriver manages the peer list of the radio.
type PeerDriver interface {
	AddPeer(Address) error
	RemovePeer(Address) error
}

// ReceiveHandler is notified for each frame received by the radio.
// It must not block.
type ReceiveHandler interface {
	HandleFrame(src Address, frame []byte)
}

// HandleFrameFunc is func form of ReceiveHandler.
type HandleFrameFunc func(src Address, frame []byte)

// HandleFrame implements ReceiveHandler.
func (f HandleFrameFunc) HandleFrame(src Address, frame []byte) {
	f(src, frame)
}

// Notifier registers the receive notification.
type Notifier interface {
	SetReceiveHandler(ReceiveHandler)
}

// Driver is the radio consumed by a Node.
type Driver interface {
	Transmitter
	PeerDriver
	Notifier
}

// MessageHandler is the application callback for accepted messages.
type MessageHandler interface {
	HandleMessage(context.Context, *Message)
}

// HandleMessageFunc is func form of MessageHandler.
type HandleMessageFunc func(context.Context, *Message)

// HandleMessage implements MessageHandler.
func (f HandleMessageFunc) HandleMessage(ctx context.Context, msg *Message) {
	f(ctx, msg)
}

// Result is the terminal outcome of a sent message.
// Err is nil if the message was acknowledged.
type Result struct {
	Message  *Message
	Attempts int
	Err      error
}

// ResultHandler is notified when a sent message is acknowledged or abandoned.
type ResultHandler interface {
	HandleResult(Result)
}

// HandleResultFunc is func form of ResultHandler.
type HandleResultFunc func(Result)

// HandleResult implements ResultHandler.
func (f HandleResultFunc) HandleResult(r Result) {
	f(r)
}

// Acknowledger consumes acknowledgments received by the Receiver.
type Acknowledger interface {
	Acknowledge(id uint16) bool
}
