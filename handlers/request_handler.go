package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"assetverse/events"
	"assetverse/models"
	"assetverse/repository"
	"assetverse/utils"
)

// errStaleRequest means the request left pending between read and write.
var errStaleRequest = errors.New("request was processed concurrently")

// CreateRequest handles POST /requests. A missing assetImage is taken from
// the referenced asset.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req models.AssetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		validationError(w, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if req.AssetImage == "" {
		asset, err := h.lookupAsset(ctx, req.AssetID)
		if err != nil {
			h.serverError(w, r, "Failed to create request", err)
			return
		}
		req.ResolveImage(asset)
	}

	req.ID = primitive.NilObjectID
	req.RequestStatus = models.RequestPending
	req.RequestDate = h.now()
	req.ApprovedAt, req.ApprovalDate, req.RejectedDate, req.ProcessedBy = nil, nil, nil, ""

	id, err := h.Requests.Insert(ctx, &req)
	if err != nil {
		h.serverError(w, r, "Failed to create request", err)
		return
	}

	h.publish(ctx, events.RequestCreated, req, req.HREmail, req.RequesterEmail)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"message":   "Request created successfully",
		"requestId": id,
	})
}

// lookupAsset returns nil, nil when assetID is malformed or unknown.
func (h *Handler) lookupAsset(ctx context.Context, assetID string) (*models.Asset, error) {
	id, err := primitive.ObjectIDFromHex(assetID)
	if err != nil {
		return nil, nil
	}
	asset, err := h.Assets.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return asset, err
}

// ListRequests handles GET /requests[?hrEmail=&requesterEmail=], newest first.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	reqs, err := h.Requests.List(ctx, models.RequestFilter{
		HREmail:        q.Get("hrEmail"),
		RequesterEmail: q.Get("requesterEmail"),
	})
	if err != nil {
		h.serverError(w, r, "Failed to fetch requests", err)
		return
	}
	if reqs == nil {
		reqs = []models.AssetRequest{}
	}
	utils.RespondWithJSON(w, http.StatusOK, reqs)
}

// ApproveRequest handles PATCH /requests/approve/{id}. The requester joins the
// HR's team; approving again is harmless.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "request")
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	req, err := h.Requests.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Request not found")
		return
	}
	if err != nil {
		h.serverError(w, r, "Failed to approve request", err)
		return
	}
	if req.RequestStatus == models.RequestRejected {
		utils.RespondWithError(w, http.StatusBadRequest, "Request already rejected")
		return
	}

	now := h.now()
	affiliation := req.Affiliation(now)
	pending := req.RequestStatus == models.RequestPending

	// the status write goes last so a failed join can be retried
	err = h.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		affiliation.ID = primitive.NilObjectID
		if _, err := h.Affiliations.EnsureActive(ctx, affiliation.Key(), &affiliation); err != nil {
			return err
		}
		if !pending {
			return nil
		}
		res, err := h.Requests.Approve(ctx, id, now)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return errStaleRequest
		}
		return nil
	})
	if errors.Is(err, errStaleRequest) {
		utils.RespondWithError(w, http.StatusConflict, "Request is no longer pending")
		return
	}
	if err != nil {
		h.serverError(w, r, "Failed to approve request", err)
		return
	}

	if pending {
		req.RequestStatus = models.RequestApproved
		req.ApprovedAt = &now
		h.publish(ctx, events.RequestApproved, req, req.RequesterEmail, req.HREmail)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         "Request approved and employee added to team",
		"affiliationData": affiliation,
	})
}

// RejectRequest handles PATCH /requests/reject/{id}.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "request")
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	req, err := h.Requests.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Request not found")
		return
	}
	if err != nil {
		h.serverError(w, r, "Failed to reject request", err)
		return
	}
	if req.RequestStatus == models.RequestApproved {
		utils.RespondWithError(w, http.StatusBadRequest, "Request already approved")
		return
	}

	res, err := h.Requests.Reject(ctx, id, h.now())
	if err != nil {
		h.serverError(w, r, "Failed to reject request", err)
		return
	}
	if req.RequestStatus == models.RequestPending {
		if res.MatchedCount == 0 {
			utils.RespondWithError(w, http.StatusConflict, "Request is no longer pending")
			return
		}
		h.publish(ctx, events.RequestRejected, req, req.RequesterEmail)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Request Rejected",
		"result":  updateSummary(res),
	})
}
