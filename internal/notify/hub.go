package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"devlink/client/backend"
	"devlink/internal/follows"
	"devlink/internal/logging"
	"devlink/internal/metrics"
)

const subscriberBuffer = 32

// Hub fans notifications out to the live streams of their recipient.
type Hub struct {
	mu      sync.Mutex
	subs    map[string]map[chan backend.Notification]struct{}
	inbox   *Inbox
	follows follows.Store
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewHub returns a hub. A nil inbox drops notifications for offline users.
func NewHub(inbox *Inbox, log logrus.FieldLogger, m *metrics.Metrics) *Hub {
	if m == nil {
		m = metrics.Discard()
	}
	if log == nil {
		log = logging.Logger()
	}
	return &Hub{
		subs:    make(map[string]map[chan backend.Notification]struct{}),
		inbox:   inbox,
		log:     log,
		metrics: m,
	}
}

// SetFollowStore makes streams also carry the viewer's follow changes.
func (h *Hub) SetFollowStore(st follows.Store) {
	h.follows = st
}

// Subscribe registers a live stream for userID.
func (h *Hub) Subscribe(userID string) (<-chan backend.Notification, func()) {
	ch := make(chan backend.Notification, subscriberBuffer)
	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan backend.Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
		})
	}
}

// Online reports whether userID has a live stream.
func (h *Hub) Online(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID]) > 0
}

// Publish delivers n to every live stream of its recipient, or stores it
// in the inbox when there is none.
func (h *Hub) Publish(ctx context.Context, n backend.Notification) error {
	h.mu.Lock()
	delivered := 0
	for ch := range h.subs[n.RecipientID] {
		select {
		case ch <- n:
			delivered++
		default:
			h.log.WithField("user_id", n.RecipientID).Warn("Notification stream full, dropping")
		}
	}
	h.mu.Unlock()

	if delivered > 0 {
		h.metrics.NotificationsSent.WithLabelValues("live").Inc()
		return nil
	}
	if h.inbox == nil {
		h.metrics.NotificationsSent.WithLabelValues("dropped").Inc()
		return nil
	}
	if err := h.inbox.Store(ctx, n); err != nil {
		return err
	}
	h.metrics.NotificationsSent.WithLabelValues("stored").Inc()
	return nil
}

// Pending drains the inbox for userID.
func (h *Hub) Pending(ctx context.Context, userID string) ([]backend.Notification, error) {
	if h.inbox == nil {
		return nil, nil
	}
	return h.inbox.Drain(ctx, userID)
}
