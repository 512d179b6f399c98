package wcan

import "sort"

// Filter is the allow-list applied to received data messages.
// It's immutable once created.
type Filter struct {
	enabled bool
	allowed map[uint16]struct{}
}

// NewFilter creates a Filter. When enabled, only ids are accepted.
func NewFilter(enabled bool, ids ...uint16) (*Filter, error) {
	f := &Filter{enabled: enabled, allowed: make(map[uint16]struct{}, len(ids))}
	for _, id := range ids {
		if id == AckID {
			return nil, ErrReservedID
		}
		f.allowed[id] = struct{}{}
	}
	return f, nil
}

// Enabled indicates filtering is active.
func (f *Filter) Enabled() bool {
	return f != nil && f.enabled
}

// Allows checks if a message with id is accepted.
func (f *Filter) Allows(id uint16) bool {
	if !f.Enabled() {
		return true
	}
	_, ok := f.allowed[id]
	return ok
}

// IDs returns the allowed identifiers in ascending order.
func (f *Filter) IDs() []uint16 {
	if f == nil {
		return nil
	}
	ids := make([]uint16, 0, len(f.allowed))
	for id := range f.allowed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
