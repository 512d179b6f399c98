package wcan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type chanAcknowledger chan uint16

func (a chanAcknowledger) Acknowledge(id uint16) bool {
	a <- id
	return true
}

type receiverTestEnv struct {
	t        *testing.T
	drv      *fakeDriver
	receiver *Receiver
	msgCh    chan *Message
	ackCh    chanAcknowledger
}

func newReceiverTestEnv(t *testing.T, queueSize int) *receiverTestEnv {
	env := &receiverTestEnv{
		t:     t,
		drv:   newFakeDriver(Broadcast),
		msgCh: make(chan *Message, 16),
		ackCh: make(chanAcknowledger, 16),
	}
	r, err := NewReceiver(env.drv, NewPeerRegistry(env.drv), HandleMessageFunc(func(_ context.Context, msg *Message) {
		env.msgCh <- msg
	}), queueSize)
	require.NoError(t, err)
	r.Filter, err = NewFilter(true, 0x123, 0x456)
	require.NoError(t, err)
	r.Acks = env.ackCh
	env.receiver = r
	return env
}

func (e *receiverTestEnv) run() func() {
	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan struct{})
	go func() {
		e.receiver.Run(ctx)
		close(doneCh)
	}()
	return func() {
		cancel()
		<-doneCh
	}
}

func (e *receiverTestEnv) expectMessage(src Address, id uint16, payload ...byte) {
	select {
	case msg := <-e.msgCh:
		require.Equal(e.t, src, msg.Addr)
		require.Equal(e.t, id, msg.ID)
		if len(payload) == 0 {
			require.Empty(e.t, msg.Payload)
		} else {
			require.Equal(e.t, payload, msg.Payload)
		}
	case <-time.After(time.Second):
		e.t.Fatalf("timeout waiting for message %04x", id)
	}
}

func TestReceiverAcceptsAndAcks(t *testing.T) {
	env := newReceiverTestEnv(t, 4)
	defer env.run()()

	env.receiver.HandleFrame(testAddrA, []byte{0x23, 0x01, 0xc3, 0xf5, 0x48, 0x40})
	env.drv.expectFrame(t, testAddrA, 0x00, 0xf8, 0x23, 0x01)
	env.expectMessage(testAddrA, 0x123, 0xc3, 0xf5, 0x48, 0x40)
	require.False(t, env.drv.hasPeer(testAddrA))
	require.True(t, env.drv.hasPeer(Broadcast))
	require.Equal(t, uint64(1), env.receiver.Stats.Snapshot().Received)
}

func TestReceiverKeepsRegisteredPeer(t *testing.T) {
	env := newReceiverTestEnv(t, 4)
	require.NoError(t, env.drv.AddPeer(testAddrB))
	defer env.run()()

	env.receiver.HandleFrame(testAddrB, []byte{0x56, 0x04, 42, 0, 0, 0})
	env.drv.expectFrame(t, testAddrB, 0x00, 0xf8, 0x56, 0x04)
	env.expectMessage(testAddrB, 0x456, 42, 0, 0, 0)
	require.True(t, env.drv.hasPeer(testAddrB))
}

func TestReceiverFilters(t *testing.T) {
	env := newReceiverTestEnv(t, 4)
	defer env.run()()

	env.receiver.HandleFrame(testAddrA, []byte{0x89, 0x07, 5, 'H', 'e', 'l', 'l', 'o'})
	env.receiver.HandleFrame(testAddrA, []byte{0x23, 0x01})
	env.drv.expectFrame(t, testAddrA, 0x00, 0xf8, 0x23, 0x01)
	env.expectMessage(testAddrA, 0x123)
	env.drv.expectNoFrame(t, 20*time.Millisecond)
	require.Equal(t, uint64(1), env.receiver.Stats.Snapshot().Filtered)
}

func TestReceiverNoFilter(t *testing.T) {
	env := newReceiverTestEnv(t, 4)
	env.receiver.Filter = nil
	defer env.run()()

	env.receiver.HandleFrame(testAddrA, []byte{0x89, 0x07, 1, 'x'})
	env.drv.expectFrame(t, testAddrA, 0x00, 0xf8, 0x89, 0x07)
	env.expectMessage(testAddrA, 0x789, 1, 'x')
}

func TestReceiverRoutesAcks(t *testing.T) {
	env := newReceiverTestEnv(t, 4)
	defer env.run()()

	env.receiver.HandleFrame(testAddrA, []byte{0x00, 0xf8, 0x56, 0x04})
	select {
	case id := <-env.ackCh:
		require.Equal(t, uint16(0x456), id)
	case <-time.After(time.Second):
		t.Fatal("ack not routed")
	}
	// malformed ack
	env.receiver.HandleFrame(testAddrA, []byte{0x00, 0xf8, 0x56})
	env.receiver.HandleFrame(testAddrA, []byte{0x23, 0x01})
	env.expectMessage(testAddrA, 0x123)
	require.Empty(t, env.ackCh)
	env.drv.expectFrame(t, testAddrA, 0x00, 0xf8, 0x23, 0x01)
	env.drv.expectNoFrame(t, 20*time.Millisecond)
}

func TestReceiverRejectsBadFrames(t *testing.T) {
	env := newReceiverTestEnv(t, 4)
	defer env.run()()

	env.receiver.HandleFrame(testAddrA, []byte{0x23})
	env.receiver.HandleFrame(testAddrA, nil)
	env.receiver.HandleFrame(Address{}, []byte{0x23, 0x01})
	env.receiver.HandleFrame(testAddrB, []byte{0x56, 0x04})
	env.expectMessage(testAddrB, 0x456)
	env.drv.expectFrame(t, testAddrB, 0x00, 0xf8, 0x56, 0x04)
	env.drv.expectNoFrame(t, 20*time.Millisecond)
}

func TestReceiverQueueFull(t *testing.T) {
	env := newReceiverTestEnv(t, 2)
	for n := 0; n < 3; n++ {
		env.receiver.HandleFrame(testAddrA, []byte{0x23, 0x01, byte(n)})
	}
	require.Equal(t, uint64(1), env.receiver.Stats.Snapshot().Dropped)

	defer env.run()()
	env.expectMessage(testAddrA, 0x123, 0)
	env.expectMessage(testAddrA, 0x123, 1)
}

func TestReceiverAckFailure(t *testing.T) {
	env := newReceiverTestEnv(t, 4)
	env.drv.setTxErr(errors.New("radio busy"))
	defer env.run()()

	env.receiver.HandleFrame(testAddrA, []byte{0x23, 0x01})
	env.drv.expectFrame(t, testAddrA, 0x00, 0xf8, 0x23, 0x01)
	env.expectMessage(testAddrA, 0x123)
	require.False(t, env.drv.hasPeer(testAddrA))
	require.Equal(t, uint64(1), env.receiver.Stats.Snapshot().AckFailures)
	require.Equal(t, uint64(1), env.receiver.Stats.Snapshot().Received)
}

func TestReceiverRequiresHandler(t *testing.T) {
	drv := newFakeDriver()
	_, err := NewReceiver(drv, NewPeerRegistry(drv), nil, 0)
	require.Equal(t, ErrNoHandler, err)

	r := &Receiver{}
	require.Equal(t, ErrNoHandler, r.Run(context.Background()))
}
