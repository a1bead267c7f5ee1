package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gibber-dev/gibber/internal/domain"
	"github.com/gibber-dev/gibber/internal/utils"
)

type actingProfileBody struct {
	ProfileId int64 `validate:"required" json:"profileId"`
}

// interactionTarget parses the acting profile from the body and the target
// id from the route, shared by the four favorite/follow handlers.
func (h *Handler) interactionTarget(r *http.Request, targetVar, targetName string) (domain.Caller, domain.ProfileId, int64, error) {
	target, err := parseIntParam(mux.Vars(r)[targetVar], targetName)
	if err != nil {
		return domain.Caller{}, 0, 0, err
	}
	var body actingProfileBody
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		return domain.Caller{}, 0, 0, err
	}
	caller, err := callerFromContext(r)
	if err != nil {
		return domain.Caller{}, 0, 0, err
	}
	return caller, body.ProfileId, target, nil
}

func (h *Handler) Favorite(w http.ResponseWriter, r *http.Request) {
	caller, profileId, postId, err := h.interactionTarget(r, "post", "post id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.interaction.Favorite(r.Context(), caller, profileId, postId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	caller, profileId, postId, err := h.interactionTarget(r, "post", "post id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.interaction.Unfavorite(r.Context(), caller, profileId, postId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	caller, followerId, followedId, err := h.interactionTarget(r, "profile", "profile id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.interaction.Follow(r.Context(), caller, followerId, followedId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	caller, followerId, followedId, err := h.interactionTarget(r, "profile", "profile id")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.interaction.Unfollow(r.Context(), caller, followerId, followedId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
