package packet

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/wcan/pkg/framework"
	"github.com/robotalks/wcan/pkg/radio"
	"github.com/robotalks/wcan/pkg/wcan"
)

// Link is a wcan.Driver exchanging Envelopes over a PacketReadWriter.
// All nodes on the transport share it like a radio channel.
type Link struct {
	*radio.PeerTable
	ReadWriter PacketReadWriter

	addr     wcan.Address
	handler  wcan.ReceiveHandler
	lock     sync.RWMutex
	sendLock sync.Mutex
}

// NewLink creates a Link for the node with addr.
func NewLink(rw PacketReadWriter, addr wcan.Address) *Link {
	return &Link{PeerTable: radio.NewPeerTable(), ReadWriter: rw, addr: addr}
}

// LocalAddress returns the address of this node.
func (l *Link) LocalAddress() wcan.Address {
	return l.addr
}

// SetReceiveHandler implements wcan.Notifier.
func (l *Link) SetReceiveHandler(h wcan.ReceiveHandler) {
	l.lock.Lock()
	l.handler = h
	l.lock.Unlock()
}

// Transmit implements wcan.Transmitter.
func (l *Link) Transmit(dst wcan.Address, frame []byte) error {
	if err := l.Check(dst); err != nil {
		return err
	}
	pkt, err := NewEnvelope(l.addr, dst, frame).Encode()
	if err != nil {
		return err
	}
	l.sendLock.Lock()
	defer l.sendLock.Unlock()
	return l.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. It reads packets until ctx is done or
// the transport fails. If ReadWriter is Runnable, it's run as well.
func (l *Link) Run(ctx context.Context) error {
	runner := fx.NewRunnerWith(ctx).CancelOnExit()
	if r, ok := l.ReadWriter.(fx.Runnable); ok {
		runner.Go(fx.NamedRun("transport", r))
	}
	runner.Go(fx.NamedRun("link", fx.RunFunc(l.readLoop)))
	return runner.Wait()
}

func (l *Link) readLoop(ctx context.Context) error {
	fn := func() error {
		for {
			pkt, err := l.ReadWriter.ReadPacket()
			if err != nil {
				return err
			}
			l.dispatch(pkt)
		}
	}
	if closer, ok := l.ReadWriter.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, fn)
	}
	return fx.RunWithContext(ctx, fn)
}

func (l *Link) dispatch(pkt []byte) {
	env, err := DecodeEnvelope(pkt)
	if err != nil {
		glog.Warningf("bad envelope: %v", err)
		return
	}
	src, dst, err := env.Addresses()
	if err != nil {
		glog.Warningf("bad envelope %s: %v", env, err)
		return
	}
	if src == l.addr || (dst != wcan.Broadcast && dst != l.addr) {
		return
	}
	l.lock.RLock()
	h := l.handler
	l.lock.RUnlock()
	if h != nil {
		h.HandleFrame(src, env.Data)
	}
}

// Close closes the transport if it's an io.Closer.
func (l *Link) Close() error {
	if closer, ok := l.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
