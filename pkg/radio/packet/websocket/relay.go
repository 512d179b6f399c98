package websocket

import (
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// Relay forwards every message from one connection to all others,
// emulating a broadcast channel for WebSocket links.
type Relay struct {
	clients map[*client]struct{}
	lock    sync.RWMutex
}

type client struct {
	conn     *websocket.Conn
	sendLock sync.Mutex
}

// NewRelay creates a Relay.
func NewRelay() *Relay {
	return &Relay{clients: make(map[*client]struct{})}
}

// Handler returns the http.Handler accepting links.
func (r *Relay) Handler() http.Handler {
	return websocket.Handler(r.serve)
}

// Len returns the number of connected links.
func (r *Relay) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.clients)
}

func (r *Relay) serve(conn *websocket.Conn) {
	c := &client{conn: conn}
	r.lock.Lock()
	r.clients[c] = struct{}{}
	r.lock.Unlock()
	glog.Infof("relay: %s joined", conn.Request().RemoteAddr)

	defer func() {
		r.lock.Lock()
		delete(r.clients, c)
		r.lock.Unlock()
		conn.Close()
		glog.Infof("relay: %s left", conn.Request().RemoteAddr)
	}()

	for {
		var pkt []byte
		if err := websocket.Message.Receive(conn, &pkt); err != nil {
			return
		}
		r.forward(c, pkt)
	}
}

func (r *Relay) forward(from *client, pkt []byte) {
	r.lock.RLock()
	peers := make([]*client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			peers = append(peers, c)
		}
	}
	r.lock.RUnlock()
	for _, c := range peers {
		c.sendLock.Lock()
		err := websocket.Message.Send(c.conn, pkt)
		c.sendLock.Unlock()
		if err != nil {
			glog.Warningf("relay: send to %s: %v", c.conn.Request().RemoteAddr, err)
		}
	}
}
