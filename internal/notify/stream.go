package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"devlink/client/backend"
	"devlink/internal/follows"
	"devlink/internal/logging"
	"devlink/internal/session"
)

// SSE event names.
const (
	EventName   = "notifications"
	FollowEvent = "follows"
)

// HeartbeatInterval keeps idle streams alive through proxies.
var HeartbeatInterval = 25 * time.Second

// Message is the payload of one notifications event.
type Message struct {
	backend.Notification
	Link string `json:"link"`
	Text string `json:"text"`
}

// NewMessage attaches the link and text to n.
func NewMessage(n backend.Notification) Message {
	return Message{Notification: n, Link: Link(n), Text: Text(n)}
}

// ServeStream streams the signed-in user's notifications as server-sent
// events, starting with any that arrived while they were offline.
func (h *Hub) ServeStream(w http.ResponseWriter, r *http.Request) {
	log := logging.FromRequest(h.log, r)
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	userID := sess.User.ID
	ch, stop := h.Subscribe(userID)
	defer stop()

	var changes <-chan follows.Change
	if h.follows != nil {
		var stopFollows func()
		changes, stopFollows = h.follows.Subscribe(r.Context(), userID)
		defer stopFollows()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	backlog, err := h.Pending(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("Failed to read notification inbox")
	}
	for _, n := range backlog {
		if err := writeEvent(w, n); err != nil {
			return
		}
	}
	flusher.Flush()

	heartbeat := time.NewTicker(HeartbeatInterval)
	defer heartbeat.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case n := <-ch:
			if err := writeEvent(w, n); err != nil {
				log.WithError(err).Debug("Notification stream closed")
				return
			}
			flusher.Flush()
		case c, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if err := writeData(w, FollowEvent, c); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, n backend.Notification) error {
	return writeData(w, EventName, NewMessage(n))
}

func writeData(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
