package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"assetverse/models"
	"assetverse/repository"
	"assetverse/utils"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, mux.Vars(r)["email"])
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.serverError(w, r, "Failed to fetch profile", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /profile/update/{email}. An email in the body is
// ignored; UserPatch has no such field.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		validationError(w, err)
		return
	}

	set := patch.Fields()
	if len(set) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "No changes applied"})
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	res, err := h.Users.Update(ctx, mux.Vars(r)["email"], set)
	if err != nil {
		h.serverError(w, r, "Failed to update profile", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "No changes applied"})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile updated successfully!",
	})
}
