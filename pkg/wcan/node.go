package wcan

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/wcan/pkg/framework"
)

// Config provides the options of a Node.
type Config struct {
	FilterEnabled bool
	AllowedIDs    []uint16

	QueueSize     int
	RecvQueueSize int
	RetryPeriod   time.Duration
	MaxRetry      int
	SubmitTimeout time.Duration
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize:     DefaultQueueSize,
		RecvQueueSize: DefaultRecvQueueSize,
		RetryPeriod:   DefaultRetryPeriod,
		MaxRetry:      DefaultMaxRetry,
		SubmitTimeout: DefaultSubmitTimeout,
	}
}

// Node composes the pipelines over a radio driver.
type Node struct {
	Config   Config
	Driver   Driver
	Peers    *PeerRegistry
	Sender   *Sender
	Receiver *Receiver
	Stats    *Stats
}

// NewNode creates a Node, registers the broadcast peer and
// the receive notification with the driver.
func NewNode(conf Config, drv Driver, handler MessageHandler) (*Node, error) {
	filter, err := NewFilter(conf.FilterEnabled, conf.AllowedIDs...)
	if err != nil {
		return nil, err
	}
	n := &Node{
		Config: conf,
		Driver: drv,
		Peers:  NewPeerRegistry(drv),
		Stats:  &Stats{},
	}
	if n.Receiver, err = NewReceiver(drv, n.Peers, handler, conf.RecvQueueSize); err != nil {
		return nil, err
	}
	n.Sender = NewSender(drv, conf.QueueSize)
	if conf.RetryPeriod > 0 {
		n.Sender.RetryPeriod = conf.RetryPeriod
	}
	if conf.MaxRetry >= 0 {
		n.Sender.MaxRetry = conf.MaxRetry
	}
	n.Sender.SubmitTimeout = conf.SubmitTimeout
	n.Sender.Stats = n.Stats
	n.Receiver.Stats = n.Stats
	n.Receiver.Filter = filter
	n.Receiver.Acks = n.Sender

	if err = n.Peers.Add(Broadcast); err != nil {
		return nil, err
	}
	drv.SetReceiveHandler(n.Receiver)
	glog.Infof("node ready, filter=%v allowed=%v", filter.Enabled(), conf.AllowedIDs)
	return n, nil
}

// Submit queues a message for broadcast.
func (n *Node) Submit(ctx context.Context, id uint16, payload []byte) error {
	return n.Sender.Submit(ctx, id, payload)
}

// OnResult sets the handler of send results.
func (n *Node) OnResult(h ResultHandler) *Node {
	n.Sender.Results = h
	return n
}

// LocalAddress returns the address of the radio if known.
func (n *Node) LocalAddress() (Address, bool) {
	if a, ok := n.Driver.(interface{ LocalAddress() Address }); ok {
		return a.LocalAddress(), true
	}
	return Address{}, false
}

// Run implements Runnable. It runs the pipelines, and the driver if
// it's Runnable, until ctx is done or any of them fails.
func (n *Node) Run(ctx context.Context) error {
	runner := fx.NewRunnerWith(ctx).CancelOnExit()
	if r, ok := n.Driver.(fx.Runnable); ok {
		runner.Go(fx.NamedRun("radio", r))
	}
	runner.Go(
		fx.NamedRun("sender", n.Sender),
		fx.NamedRun("receiver", n.Receiver),
	)
	return runner.Wait()
}

// AddToLoop implements LoopAdder.
func (n *Node) AddToLoop(l *fx.Loop) {
	l.AddRunnable(n)
}
