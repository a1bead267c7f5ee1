package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gibber-dev/gibber/internal/domain"
	"github.com/gibber-dev/gibber/internal/service"
	"github.com/gibber-dev/gibber/internal/utils"
)

type stagedUploadBody struct {
	Key       string `validate:"required" json:"key"`
	Extension string `validate:"required" json:"extension"`
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	type bodyJson struct {
		ProfileId   int64              `validate:"required" json:"profileId"`
		Content     *string            `json:"content"`
		InReplyToId *int64             `json:"inReplyToId"`
		ReblogId    *int64             `json:"reblogId"`
		Files       []stagedUploadBody `json:"files"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	caller, err := callerFromContext(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	files := make([]domain.StagedUpload, 0, len(body.Files))
	for _, f := range body.Files {
		files = append(files, domain.StagedUpload{Key: f.Key, Extension: f.Extension})
	}

	post, err := h.post.Create(r.Context(), caller, service.CreatePostInput{
		ProfileId:   body.ProfileId,
		Content:     body.Content,
		InReplyToId: body.InReplyToId,
		ReblogId:    body.ReblogId,
		Files:       files,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, post)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIntParam(mux.Vars(r)["post"], "post id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	viewer, err := viewerFromQuery(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.GetById(r.Context(), viewer, postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, post)
}

func (h *Handler) GetReplies(w http.ResponseWriter, r *http.Request) {
	postId, err := parseIntParam(mux.Vars(r)["post"], "post id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	viewer, err := viewerFromQuery(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	replies, err := h.post.GetReplies(r.Context(), viewer, postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, replies)
}

func (h *Handler) GetProfilePosts(w http.ResponseWriter, r *http.Request) {
	profileId, err := parseIntParam(mux.Vars(r)["profile"], "profile id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	viewer, err := viewerFromQuery(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	filter := domain.ProfilePostsFilter(r.URL.Query().Get("filter"))

	posts, err := h.post.GetByProfile(r.Context(), viewer, profileId, filter)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, posts)
}

func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	profileId, err := parseIntParam(mux.Vars(r)["profile"], "profile id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	caller, err := callerFromContext(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	feed, err := h.post.GetFeed(r.Context(), caller, profileId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, feed)
}

func (h *Handler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerFromQuery(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	query := r.URL.Query()

	posts, err := h.post.Search(r.Context(), viewer, query.Get("content"), query.Get("username"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, posts)
}
