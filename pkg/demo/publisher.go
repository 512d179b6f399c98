package demo

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/wcan/pkg/framework"
	"github.com/robotalks/wcan/pkg/wcan"
)

// DefaultPublishInterval is the delay between two readings.
const DefaultPublishInterval = 2 * time.Second

// Submitter accepts messages to broadcast, e.g. wcan.Node.
type Submitter interface {
	Submit(ctx context.Context, id uint16, payload []byte) error
}

// Readings returns the value of the sensor with id.
type Readings func(id uint16) interface{}

// FixedReadings are the constant values of the demo sensors.
func FixedReadings(id uint16) interface{} {
	switch id {
	case FloatID:
		return float32(3.14)
	case IntID:
		return int32(42)
	case StringID:
		return "Hello"
	}
	return nil
}

// Publisher submits one reading per interval, cycling through IDs.
type Publisher struct {
	Submitter Submitter
	Interval  time.Duration
	IDs       []uint16
	Readings  Readings

	next int
	last time.Time
}

// NewPublisher creates a Publisher with the demo sensors.
func NewPublisher(s Submitter) *Publisher {
	return &Publisher{
		Submitter: s,
		Interval:  DefaultPublishInterval,
		IDs:       IDs,
		Readings:  FixedReadings,
	}
}

// AddToLoop implements LoopAdder.
func (p *Publisher) AddToLoop(l *fx.Loop) {
	l.AddController(p)
}

// Control implements Controller.
func (p *Publisher) Control(ctx context.Context, now time.Time) error {
	if len(p.IDs) == 0 || (!p.last.IsZero() && now.Sub(p.last) < p.Interval) {
		return nil
	}
	p.last = now
	id := p.IDs[p.next%len(p.IDs)]
	p.next++
	val := p.Readings(id)
	payload, err := Encode(id, val)
	if err != nil {
		return err
	}
	glog.Infof("reading %04x: %v", id, val)
	return p.Submitter.Submit(ctx, id, payload)
}

// LogHandler logs received readings.
type LogHandler struct{}

// HandleMessage implements wcan.MessageHandler.
func (LogHandler) HandleMessage(_ context.Context, msg *wcan.Message) {
	glog.Infof("received %04x from %s: %s", msg.ID, msg.Addr, Format(msg.ID, msg.Payload))
}

// HandleResult implements wcan.ResultHandler.
func (LogHandler) HandleResult(r wcan.Result) {
	if r.Err != nil {
		glog.Warningf("send %s failed after %d attempts: %v", r.Message, r.Attempts, r.Err)
		return
	}
	glog.V(1).Infof("send %s acked after %d attempts", r.Message, r.Attempts)
}
