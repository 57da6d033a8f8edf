package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"assetverse/events"
	"assetverse/models"
	"assetverse/utils"
)

func (h *Handler) ListAssignedAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	assets, err := h.AssignedAssets.ListByEmployee(ctx, mux.Vars(r)["email"])
	if err != nil {
		h.serverError(w, r, "Failed to fetch assigned assets", err)
		return
	}
	if assets == nil {
		assets = []models.AssignedAsset{}
	}
	utils.RespondWithJSON(w, http.StatusOK, assets)
}

// AssignAsset handles POST /assigned-assets. It records the assignment,
// joins the employee to the HR's team and, when the assignment answers a
// request, marks that request approved.
func (h *Handler) AssignAsset(w http.ResponseWriter, r *http.Request) {
	var a models.AssignedAsset
	if !decodeBody(w, r, &a) {
		return
	}
	if err := a.Validate(); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	var requestID primitive.ObjectID
	if a.RequestID != "" {
		id, err := primitive.ObjectIDFromHex(a.RequestID)
		if err != nil {
			utils.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "invalid request id"})
			return
		}
		requestID = id
	}

	now := h.now()
	a.ID = primitive.NilObjectID
	a.Status = models.AssignmentAssigned
	a.AssignmentDate = now
	a.ReturnDate = nil
	affiliation := a.Affiliation(now)

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	// the request write goes last so a partial failure can be replayed
	err := h.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		a.ID = primitive.NilObjectID
		if _, err := h.AssignedAssets.Assign(ctx, &a); err != nil {
			return err
		}
		affiliation.ID = primitive.NilObjectID
		if _, err := h.Affiliations.EnsureActive(ctx, a.AffiliationKey(), &affiliation); err != nil {
			return err
		}
		if requestID.IsZero() {
			return nil
		}
		_, err := h.Requests.MarkAssigned(ctx, requestID, a.HREmail, now)
		return err
	})
	if err != nil {
		h.log.Error("asset assignment failed", zap.String("employee", a.EmployeeEmail), zap.Error(err))
		utils.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Server error",
			"error":   err.Error(),
		})
		return
	}

	h.publish(ctx, events.AssetAssigned, a, a.EmployeeEmail, a.HREmail)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Asset assigned and affiliation updated",
	})
}

// ReturnAsset handles PATCH /assigned-assets/return/{id}. Only assigned,
// Returnable assets can be returned.
func (h *Handler) ReturnAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "assigned asset")
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	res, err := h.AssignedAssets.Return(ctx, id, h.now())
	if err != nil {
		h.serverError(w, r, "Failed to return asset", err)
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Asset not found or not returnable")
		return
	}

	if a, err := h.AssignedAssets.FindByID(ctx, id); err == nil {
		h.publish(ctx, events.AssetReturned, a, a.EmployeeEmail, a.HREmail)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Asset returned successfully"})
}
