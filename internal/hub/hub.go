// Package hub fans document writes out to the subscribers of each family
// namespace. Writers get their own writes back; there is no self-echo
// suppression.
package hub

import (
	"sync"

	"github.com/ecofamily/famsync/internal/types"
)

// subscriberBuffer bounds how many undelivered pushes a slow subscriber can
// hold before older ones are dropped. The protocol is last-write-wins at
// whole-document granularity, so dropping superseded documents is safe as
// long as the newest one is kept.
const subscriberBuffer = 16

// Hub tracks subscribers per family code and broadcasts full documents.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscriber]struct{}
}

// Subscriber is one standing subscription to a family namespace.
type Subscriber struct {
	hub  *Hub
	code string
	ch   chan types.SharedData
	once sync.Once
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subs: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber for the given family code.
func (h *Hub) Subscribe(code string) *Subscriber {
	s := &Subscriber{
		hub:  h,
		code: code,
		ch:   make(chan types.SharedData, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[code] == nil {
		h.subs[code] = make(map[*Subscriber]struct{})
	}
	h.subs[code][s] = struct{}{}
	return s
}

// C returns the channel documents are delivered on. It is closed when the
// subscriber is closed.
func (s *Subscriber) C() <-chan types.SharedData {
	return s.ch
}

// Close unsubscribes and closes the delivery channel. Safe to call more than
// once.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if set, ok := h.subs[s.code]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.code)
			}
		}
		h.mu.Unlock()
		close(s.ch)
	})
}

// Publish delivers the document to every subscriber of the code, including
// the one whose write triggered it. A full subscriber buffer sheds its oldest
// entry so the newest document always lands. Returns the number of
// subscribers reached.
func (h *Hub) Publish(code string, doc types.SharedData) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.subs[code]
	for s := range set {
		for {
			select {
			case s.ch <- doc:
			default:
				select {
				case <-s.ch:
				default:
				}
				continue
			}
			break
		}
	}
	return len(set)
}

// SubscriberCount returns the number of active subscribers for a code.
func (h *Hub) SubscriberCount(code string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[code])
}

// TotalSubscribers returns the number of active subscribers across all codes.
func (h *Hub) TotalSubscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for _, set := range h.subs {
		total += len(set)
	}
	return total
}
