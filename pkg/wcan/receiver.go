package wcan

import (
	"context"

	"github.com/golang/glog"
)

// DefaultRecvQueueSize is the default capacity of the receive queue.
const DefaultRecvQueueSize = 10

// Receiver is the receive pipeline. HandleFrame is the radio notification
// path and never blocks; Run acknowledges queued messages and delivers them
// to Handler in order.
type Receiver struct {
	Transmitter Transmitter
	Peers       *PeerRegistry
	Filter      *Filter
	Handler     MessageHandler
	Acks        Acknowledger
	Stats       *Stats

	queue chan *Message
}

// NewReceiver creates a Receiver. handler is required.
func NewReceiver(tx Transmitter, peers *PeerRegistry, handler MessageHandler, queueSize int) (*Receiver, error) {
	if handler == nil {
		return nil, ErrNoHandler
	}
	if queueSize <= 0 {
		queueSize = DefaultRecvQueueSize
	}
	return &Receiver{
		Transmitter: tx,
		Peers:       peers,
		Handler:     handler,
		Stats:       &Stats{},
		queue:       make(chan *Message, queueSize),
	}, nil
}

// HandleFrame implements ReceiveHandler.
func (r *Receiver) HandleFrame(src Address, frame []byte) {
	if src.IsZero() {
		glog.Errorf("RX: %v", ErrNoSender)
		return
	}
	msg, err := Decode(src, frame)
	if err != nil {
		glog.Errorf("RX from %s: %v", src, err)
		return
	}
	if glog.V(2) {
		glog.Infof("RX %s: %s", msg, Dump(frame))
	}

	if msg.IsAck() {
		id, ok := msg.AckedID()
		if !ok {
			glog.Errorf("RX from %s: malformed ack", src)
			return
		}
		if acks := r.Acks; acks != nil {
			acks.Acknowledge(id)
		}
		return
	}

	if !r.Filter.Allows(msg.ID) {
		r.Stats.Filtered.Add(1)
		glog.V(1).Infof("RX %s: filtered", msg)
		return
	}

	select {
	case r.queue <- msg:
	default:
		r.Stats.Dropped.Add(1)
		glog.Warningf("RX %s: queue full, dropped", msg)
	}
}

// Run implements Runnable.
func (r *Receiver) Run(ctx context.Context) error {
	if r.Handler == nil {
		glog.Errorf("receiver stopped: %v", ErrNoHandler)
		return ErrNoHandler
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-r.queue:
			r.process(ctx, msg)
		}
	}
}

func (r *Receiver) process(ctx context.Context, msg *Message) {
	// the message is accepted even if the ack fails; the sender will retry.
	if err := r.ack(msg); err != nil {
		r.Stats.AckFailures.Add(1)
		glog.Errorf("ack %s: %v", msg, err)
	}
	r.Stats.Received.Add(1)
	r.Handler.HandleMessage(ctx, msg)
}

func (r *Receiver) ack(msg *Message) error {
	ack := NewAck(msg.Addr, msg.ID)
	frame, err := Encode(ack)
	if err != nil {
		return err
	}
	return r.Peers.WithPeer(ack.Addr, func() error {
		if err := r.Transmitter.Transmit(ack.Addr, frame); err != nil {
			return &TransmitError{Dst: ack.Addr, Err: err}
		}
		glog.V(2).Infof("ACK %04x to %s", msg.ID, ack.Addr)
		return nil
	})
}
