package web

import (
	"net/http"
	"strings"

	"devlink/client/backend"
	"devlink/internal/actions"
	"devlink/internal/logging"
	"devlink/internal/session"
)

func (api *API) SignInHandler(w http.ResponseWriter, r *http.Request) {
	var in backend.SignInRequest
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.SignIn(w, r, in))
	}
}

func (api *API) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var in backend.SignUpRequest
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.SignUp(w, r, in))
	}
}

func (api *API) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.SignOut(w, r))
}

func (api *API) SendOTPHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.SendOTP(w, r))
}

func (api *API) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	var in actions.OTPInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.VerifyEmail(w, r, in))
	}
}

func (api *API) ResetRequestHandler(w http.ResponseWriter, r *http.Request) {
	var in actions.ResetRequestInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.RequestPasswordReset(w, r, in))
	}
}

func (api *API) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var in actions.ResetPasswordInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.ResetPassword(w, r, in))
	}
}

// SessionHandler returns the signed-in user. The access token never leaves
// the server.
func (api *API) SessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": sess.User})
}

// OAuthCallbackHandler finishes a provider login: the backend redirects here
// with the access token and user fields in the query.
func (api *API) OAuthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	log := logging.FromRequest(api.log, r)
	q := r.URL.Query()

	var missing []string
	for _, p := range []string{"accessToken", "userId", "email"} {
		if q.Get(p) == "" {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		log.WithField("missing", strings.Join(missing, ",")).Error("OAuth callback is missing required parameters")
		writeJSON(w, http.StatusBadRequest, actions.Result{Message: "Sign-in failed: incomplete provider response"})
		return
	}

	user := session.UserInfo{
		ID:            q.Get("userId"),
		Email:         q.Get("email"),
		Username:      q.Get("username"),
		Name:          q.Get("displayName"),
		Image:         q.Get("image"),
		Role:          q.Get("role"),
		OAuthID:       q.Get("oauthId"),
		EmailVerified: true,
	}
	if user.Role == "" {
		user.Role = "USER"
	}
	if _, err := api.Sessions.Create(w, session.Payload{User: user, AccessToken: q.Get("accessToken")}); err != nil {
		log.WithError(err).Error("Failed to create session from OAuth callback")
		writeJSON(w, http.StatusInternalServerError, actions.Result{Message: actions.MsgSomethingWrong})
		return
	}
	log.WithField("user_id", user.ID).Info("OAuth sign-in completed")
	http.Redirect(w, r, "/", http.StatusFound)
}
