package wcan

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Sender defaults.
const (
	DefaultQueueSize     = 10
	DefaultRetryPeriod   = 500 * time.Millisecond
	DefaultMaxRetry      = 3
	DefaultSubmitTimeout = 500 * time.Millisecond
)

// Sender is the send pipeline. It transmits queued messages one at a time
// and retransmits the outstanding one until it's acknowledged or MaxRetry
// retransmissions are done.
type Sender struct {
	Transmitter   Transmitter
	RetryPeriod   time.Duration
	MaxRetry      int
	SubmitTimeout time.Duration
	Results       ResultHandler
	Stats         *Stats

	queue     chan *Message
	admission chan struct{}

	lock    sync.Mutex
	current *outstanding
}

// outstanding is the message waiting for acknowledgment.
// It's only accessed with Sender.lock held.
type outstanding struct {
	msg        *Message
	retryCount int
	done       chan struct{}
}

// NewSender creates a Sender with a queue of queueSize messages.
func NewSender(tx Transmitter, queueSize int) *Sender {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Sender{
		Transmitter:   tx,
		RetryPeriod:   DefaultRetryPeriod,
		MaxRetry:      DefaultMaxRetry,
		SubmitTimeout: DefaultSubmitTimeout,
		Stats:         &Stats{},
		queue:         make(chan *Message, queueSize),
		admission:     make(chan struct{}, 1),
	}
}

// Submit queues a message for broadcast. The payload is copied.
// It waits at most SubmitTimeout for space in the queue.
func (s *Sender) Submit(ctx context.Context, id uint16, payload []byte) error {
	msg := &Message{Addr: Broadcast, ID: id, Payload: append([]byte(nil), payload...)}
	if err := msg.Validate(); err != nil {
		return err
	}
	if s.SubmitTimeout <= 0 {
		select {
		case s.queue <- msg:
		default:
			return ErrQueueFull
		}
	} else {
		timer := time.NewTimer(s.SubmitTimeout)
		defer timer.Stop()
		select {
		case s.queue <- msg:
		case <-timer.C:
			return ErrQueueFull
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.Stats.Submitted.Add(1)
	return nil
}

// Pending returns the number of queued messages, excluding the outstanding one.
func (s *Sender) Pending() int {
	return len(s.queue)
}

// InFlight indicates a message is waiting for acknowledgment.
func (s *Sender) InFlight() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.current != nil
}

// Run implements Runnable.
func (s *Sender) Run(ctx context.Context) error {
	defer s.abort(ctx)
	for {
		var msg *Message
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg = <-s.queue:
		}
		select {
		case s.admission <- struct{}{}:
		case <-ctx.Done():
			s.report(Result{Message: msg, Err: ctx.Err()})
			return ctx.Err()
		}
		s.start(ctx, msg)
	}
}

// Acknowledge completes the outstanding message if it has identifier id.
func (s *Sender) Acknowledge(id uint16) bool {
	s.lock.Lock()
	f := s.current
	if f == nil {
		s.lock.Unlock()
		glog.Warningf("ack %04x: nothing in flight", id)
		return false
	}
	if f.msg.ID != id {
		s.lock.Unlock()
		glog.Warningf("ack %04x: in flight is %04x", id, f.msg.ID)
		return false
	}
	res := s.finish(f, nil)
	s.lock.Unlock()
	s.Stats.Acked.Add(1)
	glog.V(2).Infof("ack %04x after %d attempts", id, res.Attempts)
	s.report(res)
	return true
}

func (s *Sender) start(ctx context.Context, msg *Message) {
	f := &outstanding{msg: msg, done: make(chan struct{})}
	s.lock.Lock()
	s.current = f
	err := s.transmit(f)
	s.lock.Unlock()
	if err != nil {
		// retransmissions may still get through.
		glog.Errorf("send %s: %v", msg, err)
	}
	go s.retryLoop(ctx, f)
}

func (s *Sender) retryLoop(ctx context.Context, f *outstanding) {
	ticker := time.NewTicker(s.RetryPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-f.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.retry(f) {
				return
			}
		}
	}
}

// retry is called on each tick and returns false once f is complete.
func (s *Sender) retry(f *outstanding) bool {
	s.lock.Lock()
	if s.current != f {
		s.lock.Unlock()
		return false
	}
	if f.retryCount < s.MaxRetry {
		f.retryCount++
		glog.Warningf("resend %04x, attempt %d of %d", f.msg.ID, f.retryCount, s.MaxRetry)
		err := s.transmit(f)
		s.lock.Unlock()
		s.Stats.Retransmitted.Add(1)
		if err != nil {
			glog.Errorf("resend %s: %v", f.msg, err)
		}
		return true
	}
	res := s.finish(f, ErrRetryExhausted)
	s.lock.Unlock()
	s.Stats.Exhausted.Add(1)
	glog.Errorf("send %s: %v", f.msg, ErrRetryExhausted)
	s.report(res)
	return false
}

// transmit must be called with lock held.
func (s *Sender) transmit(f *outstanding) error {
	f.msg.Attempt = f.retryCount + 1
	frame, err := Encode(f.msg)
	if err != nil {
		return err
	}
	if glog.V(2) {
		glog.Infof("TX %s #%d: %s", f.msg, f.msg.Attempt, Dump(frame))
	}
	s.Stats.Transmitted.Add(1)
	if err := s.Transmitter.Transmit(f.msg.Addr, frame); err != nil {
		return &TransmitError{Dst: f.msg.Addr, Err: err}
	}
	return nil
}

// finish must be called with lock held and f == s.current.
// It's the only place releasing admission.
func (s *Sender) finish(f *outstanding, err error) Result {
	s.current = nil
	close(f.done)
	<-s.admission
	return Result{Message: f.msg, Attempts: f.retryCount + 1, Err: err}
}

func (s *Sender) abort(ctx context.Context) {
	s.lock.Lock()
	f := s.current
	if f == nil {
		s.lock.Unlock()
		return
	}
	res := s.finish(f, ctx.Err())
	s.lock.Unlock()
	s.report(res)
}

func (s *Sender) report(res Result) {
	if h := s.Results; h != nil {
		h.HandleResult(res)
	}
}
