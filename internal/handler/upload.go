package handler

import (
	"net/http"

	"github.com/gibber-dev/gibber/internal/utils"
)

// CreatePresignedUploads allocates staging slots for a later post.create.
func (h *Handler) CreatePresignedUploads(w http.ResponseWriter, r *http.Request) {
	type bodyJson struct {
		Count int `validate:"required" json:"count"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	uploads, err := h.post.PresignUploads(r.Context(), body.Count)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, uploads)
}
