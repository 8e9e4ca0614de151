// Package listing implements paginated list loading with retry caps,
// de-duplication by id and cancellation of stale requests.
package listing

import (
	"context"
	"errors"
	"sync"

	"devlink/client/cancel"
)

const (
	// MaxAttempts is the number of consecutive failures after which a loader
	// stops paginating until Reset.
	MaxAttempts = 3
	// DefaultLimit is the page size used when none is given.
	DefaultLimit = 10
	// DefaultPrefetchMargin is how many items before the end Visible starts
	// loading the next page.
	DefaultPrefetchMargin = 3
)

var (
	ErrExhausted = errors.New("listing: too many failed attempts")
	// ErrStale is returned when a newer request superseded this one and the
	// result was discarded.
	ErrStale = errors.New("listing: stale result discarded")
)

// Fetch loads one page. Pages start at 1.
type Fetch[T any] func(ctx context.Context, page, limit int) ([]T, error)

// Loader accumulates pages of T.
type Loader[T any] struct {
	PrefetchMargin int

	id    func(T) string
	limit int

	mu       sync.Mutex
	fetch    Fetch[T]
	items    []T
	seen     map[string]int
	page     int
	hasMore  bool
	attempts int
	loading  bool
	src      cancel.Source
}

// New returns a loader that identifies items with id.
func New[T any](fetch Fetch[T], id func(T) string, limit int) *Loader[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Loader[T]{
		PrefetchMargin: DefaultPrefetchMargin,
		id:             id,
		limit:          limit,
		fetch:          fetch,
		seen:           make(map[string]int),
		page:           1,
		hasMore:        true,
	}
}

// LoadMore fetches the next page. It is a no-op while a page is loading or
// when the list has no more items.
func (l *Loader[T]) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.attempts >= MaxAttempts {
		l.mu.Unlock()
		return ErrExhausted
	}
	if l.loading || !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	l.loading = true
	tok := l.src.Next(ctx)
	page, fetch := l.page, l.fetch
	l.mu.Unlock()

	got, err := fetch(tok.Context(), page, l.limit)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !tok.Current() {
		return ErrStale
	}
	l.loading = false
	if err != nil {
		if cancel.IsAbort(err) {
			return err
		}
		l.attempts++
		return err
	}
	l.attempts = 0
	l.merge(got)
	l.hasMore = len(got) >= l.limit
	l.page++
	return nil
}

// merge appends items not seen before and replaces ones already present.
func (l *Loader[T]) merge(got []T) {
	for _, it := range got {
		k := l.id(it)
		if i, ok := l.seen[k]; ok {
			l.items[i] = it
			continue
		}
		l.seen[k] = len(l.items)
		l.items = append(l.items, it)
	}
}

// Reset discards all state, cancels any in-flight request and loads the
// first page. A non-nil fetch replaces the current one, e.g. after a filter
// change.
func (l *Loader[T]) Reset(ctx context.Context, fetch Fetch[T]) error {
	l.mu.Lock()
	l.src.Stop()
	if fetch != nil {
		l.fetch = fetch
	}
	l.items = nil
	l.seen = make(map[string]int)
	l.page = 1
	l.hasMore = true
	l.attempts = 0
	l.loading = false
	l.mu.Unlock()
	return l.LoadMore(ctx)
}

// Visible is called when the item at index is shown. It loads the next page
// when index is within PrefetchMargin of the end and reports whether it did.
func (l *Loader[T]) Visible(ctx context.Context, index int) (bool, error) {
	l.mu.Lock()
	trigger := index >= len(l.items)-1-l.PrefetchMargin &&
		l.hasMore && !l.loading && l.attempts < MaxAttempts
	l.mu.Unlock()
	if !trigger {
		return false, nil
	}
	return true, l.LoadMore(ctx)
}

// Items returns a copy of the loaded items.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

func (l *Loader[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// Exhausted reports whether the failure cap was reached.
func (l *Loader[T]) Exhausted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts >= MaxAttempts
}

// Loading reports whether a page request is in flight.
func (l *Loader[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}
