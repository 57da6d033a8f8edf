package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"assetverse/models"
	"assetverse/repository"
	"assetverse/utils"
)

// GetUserByEmail handles GET /users/email/{email}.
func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, mux.Vars(r)["email"])
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.serverError(w, r, "Failed to fetch user", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /users. Emails are unique.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeBody(w, r, &user) {
		return
	}
	if err := user.Validate(); err != nil {
		validationError(w, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	_, err := h.Users.FindByEmail(ctx, user.Email)
	switch {
	case err == nil:
		utils.RespondWithError(w, http.StatusBadRequest, "User already exists")
		return
	case !errors.Is(err, repository.ErrNotFound):
		h.serverError(w, r, "Server Error", err)
		return
	}

	user.ID = primitive.NilObjectID
	user.CreatedAt = h.now()
	user.UpdatedAt = nil

	id, err := h.Users.Insert(ctx, &user)
	if mongo.IsDuplicateKeyError(err) {
		utils.RespondWithError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		h.serverError(w, r, "Server Error", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"userId":  id,
	})
}

// UpdateUser handles PATCH /users/{email}. The email itself is never changed.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		validationError(w, err)
		return
	}

	set := patch.Fields()
	set["updatedAt"] = h.now()

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	res, err := h.Users.Update(ctx, mux.Vars(r)["email"], set)
	if err != nil {
		h.serverError(w, r, "Server Error", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User Updated Successfully",
		"result":  updateSummary(res),
	})
}
