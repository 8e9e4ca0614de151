package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"devlink/client/backend"
)

func (api *API) FollowHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.Follow(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) UnfollowHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.Unfollow(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) FollowStatusHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.FollowStatus(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) ListFollowersHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.ListFollowers(r.Context(), mux.Vars(r)["id"], pageQuery(r)))
}

func (api *API) ListFollowingHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.ListFollowing(r.Context(), mux.Vars(r)["id"], pageQuery(r)))
}

func (api *API) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.GetProfile(r.Context(), mux.Vars(r)["username"]))
}

func (api *API) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var in backend.ProfileInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.UpdateProfile(w, r, in))
	}
}

func (api *API) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.ListNotifications(r.Context(), pageQuery(r)))
}

func (api *API) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.MarkNotificationRead(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.MarkAllNotificationsRead(r.Context()))
}
