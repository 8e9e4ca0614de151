package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devlink/internal/guard"
	"devlink/internal/logging"
)

// NewRouter wires every route. Requests pass request-id, logging and the
// route guard, in that order.
func NewRouter(api *API, g *guard.Guard, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Use(logging.RequestID, logging.Requests(api.log), g.Middleware)

	r.HandleFunc("/health", api.HealthHandler).Methods("GET")
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	r.HandleFunc("/auth/callback", api.OAuthCallbackHandler).Methods("GET")
	r.HandleFunc("/internal/notifications", api.Hub.PushHandler(api.PushToken)).Methods("POST")

	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/session", api.SessionHandler).Methods("GET")
	a.HandleFunc("/toasts", api.ToastsHandler).Methods("GET")

	auth := a.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signin", api.SignInHandler).Methods("POST")
	auth.HandleFunc("/signup", api.SignUpHandler).Methods("POST")
	auth.HandleFunc("/signout", api.SignOutHandler).Methods("POST")
	auth.HandleFunc("/send-otp", api.SendOTPHandler).Methods("POST")
	auth.HandleFunc("/verify-email", api.VerifyEmailHandler).Methods("POST")
	auth.HandleFunc("/reset-password-request", api.ResetRequestHandler).Methods("POST")
	auth.HandleFunc("/reset-password", api.ResetPasswordHandler).Methods("POST")

	a.HandleFunc("/posts", api.ListPostsHandler).Methods("GET")
	a.HandleFunc("/posts/{id}", api.GetPostHandler).Methods("GET")
	a.HandleFunc("/posts/{id}/comments", api.ListCommentsHandler).Methods("GET")
	a.HandleFunc("/comments/{id}/replies", api.ListRepliesHandler).Methods("GET")
	a.HandleFunc("/users/{username}", api.GetProfileHandler).Methods("GET")
	a.HandleFunc("/users/{id}/followers", api.ListFollowersHandler).Methods("GET")
	a.HandleFunc("/users/{id}/following", api.ListFollowingHandler).Methods("GET")
	a.HandleFunc("/projects", api.ListProjectsHandler).Methods("GET")
	a.HandleFunc("/projects/{id}", api.GetProjectHandler).Methods("GET")
	a.HandleFunc("/skills", api.ListSkillsHandler).Methods("GET")
	a.HandleFunc("/categories", api.ListCategoriesHandler).Methods("GET")
	a.HandleFunc("/tags", api.ListTagsHandler).Methods("GET")

	u := a.PathPrefix("/user").Subrouter()
	u.HandleFunc("/posts", api.CreatePostHandler).Methods("POST")
	u.HandleFunc("/posts/{id}", api.UpdatePostHandler).Methods("PUT")
	u.HandleFunc("/posts/{id}", api.DeletePostHandler).Methods("DELETE")
	u.HandleFunc("/posts/{id}/like", api.LikePostHandler).Methods("POST")
	u.HandleFunc("/posts/{id}/comments", api.CreateCommentHandler).Methods("POST")
	u.HandleFunc("/comments/{id}", api.UpdateCommentHandler).Methods("PUT")
	u.HandleFunc("/comments/{id}", api.DeleteCommentHandler).Methods("DELETE")
	u.HandleFunc("/comments/{id}/like", api.LikeCommentHandler).Methods("POST")
	u.HandleFunc("/comments/{id}/replies", api.CreateReplyHandler).Methods("POST")
	u.HandleFunc("/replies/{id}", api.UpdateReplyHandler).Methods("PUT")
	u.HandleFunc("/replies/{id}", api.DeleteReplyHandler).Methods("DELETE")
	u.HandleFunc("/replies/{id}/like", api.LikeReplyHandler).Methods("POST")
	u.HandleFunc("/follows/{id}", api.FollowHandler).Methods("POST")
	u.HandleFunc("/follows/{id}", api.UnfollowHandler).Methods("DELETE")
	u.HandleFunc("/follows/{id}/status", api.FollowStatusHandler).Methods("GET")
	u.HandleFunc("/profile", api.UpdateProfileHandler).Methods("PUT")
	u.HandleFunc("/notifications", api.ListNotificationsHandler).Methods("GET")
	u.HandleFunc("/notifications/stream", api.Hub.ServeStream).Methods("GET")
	u.HandleFunc("/notifications/read-all", api.MarkAllNotificationsReadHandler).Methods("PATCH")
	u.HandleFunc("/notifications/{id}/read", api.MarkNotificationReadHandler).Methods("PATCH")
	u.HandleFunc("/projects", api.CreateProjectHandler).Methods("POST")
	u.HandleFunc("/projects/{id}", api.UpdateProjectHandler).Methods("PUT")
	u.HandleFunc("/projects/{id}", api.DeleteProjectHandler).Methods("DELETE")

	a.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Not found"})
	})
	r.PathPrefix("/").Handler(api.Pages)
	return r
}
