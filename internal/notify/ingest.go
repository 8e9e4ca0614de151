package notify

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"devlink/client/backend"
	"devlink/internal/logging"
)

// PushTokenHeader carries the shared secret on backend pushes.
const PushTokenHeader = "X-Push-Token"

// PushHandler accepts notifications pushed by the backend. An empty token
// disables the endpoint.
func (h *Hub) PushHandler(token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromRequest(h.log, r)
		got := r.Header.Get(PushTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			log.Warn("Rejected notification push with bad token")
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
			return
		}

		var n backend.Notification
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid notification payload"})
			return
		}
		if n.RecipientID == "" || !ValidType(n.Type) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "recipientId and a valid type are required"})
			return
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now().UTC()
		}

		if err := h.Publish(r.Context(), n); err != nil {
			log.WithError(err).Error("Failed to deliver notification")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Failed to deliver notification"})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"success": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
