package famclient

import (
	"context"
	"sync"

	"github.com/ecofamily/famsync/internal/types"
)

// MemoryGateway is an in-process Gateway. It backs tests and offline demo
// runs, and reproduces the remote push contract exactly: every write fans out
// to every subscriber of the namespace, the writer's own subscription
// included.
type MemoryGateway struct {
	mu       sync.Mutex
	docs     map[string]types.SharedData
	subs     map[string]map[*memorySubscription]struct{}
	failNext error
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		docs: make(map[string]types.SharedData),
		subs: make(map[string]map[*memorySubscription]struct{}),
	}
}

// FailNextWrite makes the next WriteDocument call return err. Used by tests
// to exercise the no-rollback write path.
func (g *MemoryGateway) FailNextWrite(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failNext = err
}

func (g *MemoryGateway) Exists(ctx context.Context, code string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.docs[code]
	return ok, nil
}

func (g *MemoryGateway) CreateFamily(ctx context.Context, code string, data types.SharedData) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.docs[code]; ok {
		return ErrConflict
	}
	g.docs[code] = data.Clone()
	return nil
}

func (g *MemoryGateway) ReadDocument(ctx context.Context, code string) (*types.SharedData, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, ok := g.docs[code]
	if !ok {
		return nil, ErrNotFound
	}
	out := doc.Clone()
	return &out, nil
}

func (g *MemoryGateway) WriteDocument(ctx context.Context, code string, data types.SharedData) error {
	g.mu.Lock()
	if g.failNext != nil {
		err := g.failNext
		g.failNext = nil
		g.mu.Unlock()
		return err
	}
	if _, ok := g.docs[code]; !ok {
		g.mu.Unlock()
		return ErrNotFound
	}
	g.docs[code] = data.Clone()
	subs := make([]*memorySubscription, 0, len(g.subs[code]))
	for sub := range g.subs[code] {
		subs = append(subs, sub)
	}
	g.mu.Unlock()

	// Delivery is asynchronous, like a network push. Callers may hold their
	// own locks across WriteDocument.
	for _, sub := range subs {
		sub.deliver(data.Clone())
	}
	return nil
}

func (g *MemoryGateway) Subscribe(ctx context.Context, code string, onChange func(types.SharedData)) (Subscription, error) {
	g.mu.Lock()
	doc, ok := g.docs[code]
	if !ok {
		g.mu.Unlock()
		return nil, ErrNotFound
	}
	sub := &memorySubscription{
		gw:   g,
		code: code,
		ch:   make(chan types.SharedData, 16),
		done: make(chan struct{}),
	}
	if g.subs[code] == nil {
		g.subs[code] = make(map[*memorySubscription]struct{})
	}
	g.subs[code][sub] = struct{}{}
	// The initial snapshot is enqueued before the lock is released so a
	// racing write cannot slip its push in ahead of it. The channel is
	// fresh and buffered, the send cannot block.
	sub.ch <- doc.Clone()
	g.mu.Unlock()

	go sub.pump(onChange)
	return sub, nil
}

type memorySubscription struct {
	gw   *MemoryGateway
	code string
	ch   chan types.SharedData
	done chan struct{}
	once sync.Once
}

func (s *memorySubscription) deliver(doc types.SharedData) {
	select {
	case s.ch <- doc:
	case <-s.done:
	}
}

func (s *memorySubscription) pump(onChange func(types.SharedData)) {
	for {
		select {
		case doc := <-s.ch:
			onChange(doc)
		case <-s.done:
			return
		}
	}
}

func (s *memorySubscription) Unsubscribe() {
	s.once.Do(func() {
		s.gw.mu.Lock()
		delete(s.gw.subs[s.code], s)
		s.gw.mu.Unlock()
		close(s.done)
	})
}
