package handlers

import (
	"net/http"

	"assetverse/models"
	"assetverse/utils"
)

// AssetTypes handles GET /analytics/asset-types[?hrEmail=].
func (h *Handler) AssetTypes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	counts, err := h.Assets.CountByType(ctx, r.URL.Query().Get("hrEmail"))
	if err != nil {
		h.serverError(w, r, "Failed to fetch asset types", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.TypeBreakdown(counts))
}

// TopAssets handles GET /analytics/top-assets: the five most requested asset names.
func (h *Handler) TopAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	top, err := h.Requests.TopAssets(ctx, models.TopAssetsLimit)
	if err != nil {
		h.serverError(w, r, "Failed to fetch top assets", err)
		return
	}
	top = models.RankAssets(top, models.TopAssetsLimit)
	if top == nil {
		top = []models.AssetPopularity{}
	}
	utils.RespondWithJSON(w, http.StatusOK, top)
}
