package handlers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"assetverse/models"
	"assetverse/repository"
	"assetverse/utils"
)

// ListAssets handles GET /assets?page=&limit=[&hrEmail=], newest first.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := models.ParsePage(q.Get("page"), q.Get("limit"))

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	assets, total, err := h.Assets.Page(ctx, q.Get("hrEmail"), page)
	if err != nil {
		h.serverError(w, r, "Failed to fetch assets", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.NewAssetPage(assets, total, page))
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	asset, err := h.Assets.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Asset not found")
		return
	}
	if err != nil {
		h.serverError(w, r, "Failed to fetch asset", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if !decodeBody(w, r, &asset) {
		return
	}
	if err := asset.Validate(); err != nil {
		validationError(w, err)
		return
	}
	asset.ID = primitive.NilObjectID
	asset.ApplyDefaults(h.now())

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	id, err := h.Assets.Insert(ctx, &asset)
	if err != nil {
		h.serverError(w, r, "Server error", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Asset added successfully",
		"insertedId": id,
	})
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}

	var patch models.AssetPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		validationError(w, err)
		return
	}
	set := patch.Fields()
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	res, err := h.Assets.Update(ctx, id, set)
	if err != nil {
		h.serverError(w, r, "Failed to update asset", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Asset not found or no changes applied")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"modifiedCount": res.ModifiedCount,
	})
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	deleted, err := h.Assets.Delete(ctx, id)
	if err != nil {
		h.serverError(w, r, "Failed to delete asset", err)
		return
	}
	if deleted == 0 {
		utils.RespondWithJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Asset not found"})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Asset deleted successfully",
	})
}
