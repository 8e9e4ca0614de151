// Package follows keeps the viewer-relative follow status of other users so
// every place that renders a follow button reads the same value.
package follows

import (
	"context"
	"sync"
)

// Change is published whenever a viewer's follow status for target changes.
type Change struct {
	Viewer    string `json:"viewer"`
	Target    string `json:"target"`
	Following bool   `json:"following"`
}

// Store is the shared follow-status cache.
type Store interface {
	// Get reports the cached status; known is false when nothing is cached.
	Get(ctx context.Context, viewer, target string) (following, known bool, err error)
	Set(ctx context.Context, viewer, target string, following bool) error
	// Subscribe streams changes for viewer until the returned func is called
	// or ctx is done.
	Subscribe(ctx context.Context, viewer string) (<-chan Change, func())
}

const subscriberBuffer = 16

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	status map[string]map[string]bool
	subs   map[string]map[chan Change]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		status: make(map[string]map[string]bool),
		subs:   make(map[string]map[chan Change]struct{}),
	}
}

func (m *Memory) Get(_ context.Context, viewer, target string) (bool, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	following, ok := m.status[viewer][target]
	return following, ok, nil
}

func (m *Memory) Set(_ context.Context, viewer, target string, following bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status[viewer] == nil {
		m.status[viewer] = make(map[string]bool)
	}
	prev, known := m.status[viewer][target]
	m.status[viewer][target] = following
	if known && prev == following {
		return nil
	}
	ch := Change{Viewer: viewer, Target: target, Following: following}
	for sub := range m.subs[viewer] {
		select {
		case sub <- ch:
		default:
			// slow subscriber, drop
		}
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, viewer string) (<-chan Change, func()) {
	ch := make(chan Change, subscriberBuffer)
	m.mu.Lock()
	if m.subs[viewer] == nil {
		m.subs[viewer] = make(map[chan Change]struct{})
	}
	m.subs[viewer][ch] = struct{}{}
	m.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	var once sync.Once
	remove := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[viewer], ch)
			if len(m.subs[viewer]) == 0 {
				delete(m.subs, viewer)
			}
			m.mu.Unlock()
			close(ch)
		})
	}
	stop := func() {
		cancel()
		remove()
	}
	go func() {
		<-ctx.Done()
		remove()
	}()
	return ch, stop
}
