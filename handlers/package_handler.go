package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"assetverse/cache"
	"assetverse/models"
)

const packagesTTL = 10 * time.Minute

// ListPackages handles GET /packages. The catalog is read-only, so the
// rendered list is cached.
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if body, ok := h.Cache.Get(ctx, cache.PackagesKey); ok {
		writeRaw(w, body)
		return
	}

	pkgs, err := h.Packages.List(ctx)
	if err != nil {
		h.serverError(w, r, "Failed to fetch packages", err)
		return
	}
	if pkgs == nil {
		pkgs = []models.Package{}
	}

	body, err := json.Marshal(pkgs)
	if err != nil {
		h.serverError(w, r, "Failed to fetch packages", err)
		return
	}
	h.Cache.Set(ctx, cache.PackagesKey, body, packagesTTL)
	writeRaw(w, body)
}

func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
