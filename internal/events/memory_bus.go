package events

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryBus fans events out to in-process subscribers. Slow subscribers
// drop events rather than block publishers.
type MemoryBus struct {
	mu   sync.RWMutex
	subs map[*memorySubscription]struct{}
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[*memorySubscription]struct{})}
}

func (b *MemoryBus) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs {
		select {
		case s.out <- payload:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context) (Subscription, error) {
	s := &memorySubscription{bus: b, out: make(chan []byte, 16)}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s, nil
}

type memorySubscription struct {
	bus  *MemoryBus
	out  chan []byte
	once sync.Once
}

func (s *memorySubscription) Messages() <-chan []byte { return s.out }

func (s *memorySubscription) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.out)
	})
	return nil
}
