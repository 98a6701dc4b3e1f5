// Package notifier implements the single-channel stateChanged broadcaster
// (C6). It fans an opaque signal out to in-process subscribers and, via a
// gorilla/websocket registry, to connected browser clients. Broadcasting
// is best-effort and always happens after the transaction that triggered it
// has committed — it must never sit on the transactional path.
package notifier

import "sync"

// Hub fans stateChanged out to registered subscriber channels. Subscribers
// attach and detach independently; a subscriber that is not ready to
// receive simply misses that tick (buffered, size-1 channel, non-blocking
// send).
type Hub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a new channel and returns it along with an unsubscribe
// func the caller must invoke when done listening.
func (h *Hub) Subscribe() (ch chan struct{}, unsubscribe func()) {
	ch = make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
}

// Broadcast publishes stateChanged to every current subscriber. Sends never
// block: a full channel (subscriber hasn't drained the previous signal) is
// skipped rather than waited on.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
