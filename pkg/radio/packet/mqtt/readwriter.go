package mqtt

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"
)

// DefaultTopic is the topic shared by all nodes on the same channel.
const DefaultTopic = "air"

// ReadWriter implements packet.PacketReadWriter. All nodes publish to
// and subscribe from the same topic, like a broadcast channel.
type ReadWriter struct {
	Queue       *Queue
	Topic       string
	PubTimeout  time.Duration
	ConnTimeout time.Duration

	packetCh chan []byte
	doneCh   chan struct{}
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:       q,
		Topic:       DefaultTopic,
		PubTimeout:  time.Second,
		ConnTimeout: 5 * time.Second,
		packetCh:    make(chan []byte, 16),
		doneCh:      make(chan struct{}),
	}
}

// Dial creates a ReadWriter from broker URL.
func Dial(brokerURL string) (*ReadWriter, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewPacketReadWriter(q), nil
}

// WithTopic specifies the topic.
func (p *ReadWriter) WithTopic(topic string) *ReadWriter {
	p.Topic = topic
	return p
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.doneCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.Topic, pkt)
	if !token.WaitTimeout(p.PubTimeout) {
		return context.DeadlineExceeded
	}
	return token.Error()
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	defer close(p.doneCh)
	token := p.Queue.Connect()
	if !token.WaitTimeout(p.ConnTimeout) {
		return context.DeadlineExceeded
	}
	if err := token.Error(); err != nil {
		return err
	}
	defer p.Queue.Close()
	sub := p.Queue.Sub(p.Topic, Handler(p.handleMsg))
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.doneCh:
	default:
		glog.Warningf("mqtt %s: reader busy, packet dropped", p.Topic)
	}
}
