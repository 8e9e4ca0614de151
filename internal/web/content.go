package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"devlink/client/backend"
	"devlink/internal/actions"
)

func (api *API) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	q := backend.PostQuery{
		PageQuery: pageQuery(r),
		Tag:       r.URL.Query().Get("tag"),
		Search:    r.URL.Query().Get("search"),
	}
	api.respond(w, r, api.Actions.ListPosts(r.Context(), q))
}

func (api *API) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.GetPost(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	var in backend.PostInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.CreatePost(r.Context(), in))
	}
}

func (api *API) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	var in backend.PostInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.UpdatePost(r.Context(), mux.Vars(r)["id"], in))
	}
}

func (api *API) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.DeletePost(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) LikePostHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.LikePost(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.ListComments(r.Context(), mux.Vars(r)["id"], pageQuery(r)))
}

func (api *API) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	var in actions.CommentInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.CreateComment(r.Context(), mux.Vars(r)["id"], in))
	}
}

func (api *API) UpdateCommentHandler(w http.ResponseWriter, r *http.Request) {
	var in actions.CommentInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.UpdateComment(r.Context(), mux.Vars(r)["id"], in))
	}
}

func (api *API) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.DeleteComment(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) LikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.LikeComment(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) ListRepliesHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.ListReplies(r.Context(), mux.Vars(r)["id"], pageQuery(r)))
}

func (api *API) CreateReplyHandler(w http.ResponseWriter, r *http.Request) {
	var in actions.CommentInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.CreateReply(r.Context(), mux.Vars(r)["id"], in))
	}
}

func (api *API) UpdateReplyHandler(w http.ResponseWriter, r *http.Request) {
	var in actions.CommentInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.UpdateReply(r.Context(), mux.Vars(r)["id"], in))
	}
}

func (api *API) DeleteReplyHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.DeleteReply(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) LikeReplyHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.LikeReply(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	api.respond(w, r, api.Actions.ListProjects(r.Context(), backend.ProjectQuery{
		PageQuery: pageQuery(r),
		Category:  q.Get("category"),
		Skill:     q.Get("skill"),
		Owner:     q.Get("owner"),
	}))
}

func (api *API) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.GetProject(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var in backend.ProjectInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.CreateProject(r.Context(), in))
	}
}

func (api *API) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var in backend.ProjectInput
	if decode(w, r, &in) {
		api.respond(w, r, api.Actions.UpdateProject(r.Context(), mux.Vars(r)["id"], in))
	}
}

func (api *API) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.DeleteProject(r.Context(), mux.Vars(r)["id"]))
}

func (api *API) ListSkillsHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.ListSkills(r.Context()))
}

func (api *API) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.ListCategories(r.Context()))
}

func (api *API) ListTagsHandler(w http.ResponseWriter, r *http.Request) {
	api.respond(w, r, api.Actions.ListTags(r.Context()))
}
