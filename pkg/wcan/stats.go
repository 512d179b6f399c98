package wcan

import "sync/atomic"

// Stats counts protocol events of a node.
type Stats struct {
	Submitted     atomic.Uint64
	Transmitted   atomic.Uint64
	Retransmitted atomic.Uint64
	Acked         atomic.Uint64
	Exhausted     atomic.Uint64
	Received      atomic.Uint64
	Filtered      atomic.Uint64
	Dropped       atomic.Uint64
	AckFailures   atomic.Uint64
}

// StatsSnapshot is a copy of Stats.
type StatsSnapshot struct {
	Submitted     uint64 `json:"submitted"`
	Transmitted   uint64 `json:"transmitted"`
	Retransmitted uint64 `json:"retransmitted"`
	Acked         uint64 `json:"acked"`
	Exhausted     uint64 `json:"exhausted"`
	Received      uint64 `json:"received"`
	Filtered      uint64 `json:"filtered"`
	Dropped       uint64 `json:"dropped"`
	AckFailures   uint64 `json:"ack_failures"`
}

// Snapshot copies current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Submitted:     s.Submitted.Load(),
		Transmitted:   s.Transmitted.Load(),
		Retransmitted: s.Retransmitted.Load(),
		Acked:         s.Acked.Load(),
		Exhausted:     s.Exhausted.Load(),
		Received:      s.Received.Load(),
		Filtered:      s.Filtered.Load(),
		Dropped:       s.Dropped.Load(),
		AckFailures:   s.AckFailures.Load(),
	}
}
