package web

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"devlink/internal/logging"
)

// FlashCookie is the cookie holding pending toasts.
const FlashCookie = "devlink_flash"

const (
	ToastError   = "error"
	ToastSuccess = "success"
)

type Toast struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func init() {
	gob.Register(Toast{})
}

// Toasts keeps one-shot messages in a signed and encrypted cookie until the
// client collects them.
type Toasts struct {
	store *sessions.CookieStore
}

func NewToasts(authKey, encKey []byte, secure bool) *Toasts {
	store := sessions.NewCookieStore(authKey, encKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Toasts{store: store}
}

func (t *Toasts) Add(w http.ResponseWriter, r *http.Request, kind, message string) error {
	sess, err := t.store.Get(r, FlashCookie)
	if err != nil && sess == nil {
		return err
	}
	sess.AddFlash(Toast{Kind: kind, Message: message})
	return sess.Save(r, w)
}

// Drain returns and clears the pending toasts.
func (t *Toasts) Drain(w http.ResponseWriter, r *http.Request) ([]Toast, error) {
	sess, err := t.store.Get(r, FlashCookie)
	if err != nil && sess == nil {
		return nil, err
	}
	out := []Toast{}
	for _, f := range sess.Flashes() {
		if toast, ok := f.(Toast); ok {
			out = append(out, toast)
		}
	}
	return out, sess.Save(r, w)
}

func (api *API) ToastsHandler(w http.ResponseWriter, r *http.Request) {
	toasts, err := api.Toasts.Drain(w, r)
	if err != nil {
		logging.FromRequest(api.log, r).WithError(err).Warn("Failed to read toasts")
	}
	writeJSON(w, http.StatusOK, map[string]any{"toasts": toasts})
}
