package interaction

import (
	"context"

	"github.com/google/uuid"

	"devlink/client/optimistic"
)

// TempPrefix marks ids of entities that exist only locally.
const TempPrefix = "temp-"

// Thread is an optimistic list of comments or replies, newest first.
type Thread[T any] struct {
	Label string

	m     *optimistic.Machine[[]T]
	id    func(T) string
	setID func(T, string) T
	toast Toaster
}

func NewThread[T any](label string, items []T, id func(T) string, setID func(T, string) T, toast Toaster) *Thread[T] {
	if toast == nil {
		toast = NoToast
	}
	return &Thread[T]{
		Label: label,
		m:     optimistic.New(append([]T(nil), items...)),
		id:    id,
		setID: setID,
		toast: toast,
	}
}

func (t *Thread[T]) Items() []T {
	s, _ := t.m.State()
	return append([]T(nil), s...)
}

// Machine exposes the underlying state machine, e.g. to observe changes.
func (t *Thread[T]) Machine() *optimistic.Machine[[]T] {
	return t.m
}

// Add shows draft at the top under a temporary id and swaps it for the
// server's entity once created. Adds may overlap; each one only touches its
// own temporary entry.
func (t *Thread[T]) Add(ctx context.Context, draft T, create func(context.Context) (*T, error)) ([]T, error) {
	tempID := TempPrefix + uuid.NewString()
	temp := t.setID(draft, tempID)
	s, err := optimistic.RunPatch(ctx, t.m, optimistic.Patch[[]T, *T]{
		Apply: func(items []T) []T {
			return append([]T{temp}, items...)
		},
		Send: create,
		Confirm: func(items []T, created *T) ([]T, bool) {
			if created == nil {
				return items, false
			}
			return t.replace(items, tempID, func(T) T { return *created }), true
		},
		Revert: func(items []T) []T {
			return t.without(items, tempID)
		},
	})
	fail(t.toast, err, "Failed to add "+t.Label)
	return s, err
}

// Edit applies patch to the entity with id and replaces it with the server's
// version once saved.
func (t *Thread[T]) Edit(ctx context.Context, id string, patch func(T) T, update func(context.Context) (*T, error)) ([]T, error) {
	var (
		orig  T
		found bool
	)
	s, err := optimistic.RunPatch(ctx, t.m, optimistic.Patch[[]T, *T]{
		Apply: func(items []T) []T {
			orig, found = t.find(items, id)
			return t.replace(items, id, patch)
		},
		Send: update,
		Confirm: func(items []T, updated *T) ([]T, bool) {
			if updated == nil {
				return items, false
			}
			return t.replace(items, id, func(T) T { return *updated }), true
		},
		Revert: func(items []T) []T {
			if !found {
				return items
			}
			return t.replace(items, id, func(T) T { return orig })
		},
	})
	fail(t.toast, err, "Failed to update "+t.Label)
	return s, err
}

// Delete hides the entity with id and puts it back where it was if the
// server refuses.
func (t *Thread[T]) Delete(ctx context.Context, id string, del func(context.Context) error) ([]T, error) {
	var (
		orig  T
		index = -1
	)
	s, err := optimistic.RunPatch(ctx, t.m, optimistic.Patch[[]T, struct{}]{
		Apply: func(items []T) []T {
			for i, it := range items {
				if t.id(it) == id {
					orig, index = it, i
					break
				}
			}
			return t.without(items, id)
		},
		Send: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, del(ctx)
		},
		Confirm: func(items []T, _ struct{}) ([]T, bool) {
			return items, true
		},
		Revert: func(items []T) []T {
			if index < 0 {
				return items
			}
			if _, ok := t.find(items, id); ok {
				return items
			}
			at := min(index, len(items))
			out := make([]T, 0, len(items)+1)
			out = append(out, items[:at]...)
			out = append(out, orig)
			return append(out, items[at:]...)
		},
	})
	fail(t.toast, err, "Failed to delete "+t.Label)
	return s, err
}

func (t *Thread[T]) find(items []T, id string) (T, bool) {
	for _, it := range items {
		if t.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (t *Thread[T]) replace(items []T, id string, fn func(T) T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if t.id(it) == id {
			it = fn(it)
		}
		out[i] = it
	}
	return out
}

func (t *Thread[T]) without(items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if t.id(it) != id {
			out = append(out, it)
		}
	}
	return out
}
