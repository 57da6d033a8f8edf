package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"assetverse/events"
	"assetverse/models"
	"assetverse/payment"
	"assetverse/utils"
)

// CreatePaymentSession handles POST /create-payment-session and returns the
// hosted checkout URL.
func (h *Handler) CreatePaymentSession(w http.ResponseWriter, r *http.Request) {
	if h.Gateway == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Payment provider not configured")
		return
	}

	var req models.CheckoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		validationError(w, err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	session, err := h.Gateway.CreateSession(ctx, payment.CheckoutRequest{
		Email:         req.Email,
		PackageName:   req.PackageName,
		Price:         req.Price,
		EmployeeLimit: int(req.EmployeeLimit),
	})
	if err != nil {
		h.serverError(w, r, "Payment session error", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"url": session.URL})
}

// VerifyPayment handles GET /verify-payment?session_id=. A transaction is
// recorded at most once; repeats return the stored payment.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if h.Gateway == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Payment provider not configured")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	session, err := h.Gateway.GetSession(ctx, sessionID)
	if err != nil {
		h.log.Error("payment session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		utils.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Payment verification failed",
			"error":   err.Error(),
		})
		return
	}

	record := paymentFromSession(session, h.now())
	stored, created, err := h.Payments.RecordOnce(ctx, record)
	if err != nil {
		h.log.Error("payment record failed", zap.String("transaction_id", record.TransactionID), zap.Error(err))
		utils.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to record payment",
			"error":   err.Error(),
		})
		return
	}

	if !created {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"payment": stored,
			"message": "Payment already recorded!",
		})
		return
	}

	h.publish(ctx, events.PaymentRecorded, stored, stored.HREmail)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"payment": stored,
	})
}

// paymentFromSession builds the payment document for a checkout session.
// Sessions without a transaction yet are keyed on the session id.
func paymentFromSession(s *payment.Session, now time.Time) *models.Payment {
	txID := s.TransactionID
	if txID == "" {
		txID = s.ID
	}
	return &models.Payment{
		HREmail:       s.CustomerEmail,
		PackageName:   s.PackageName(),
		EmployeeLimit: models.Quantity(s.EmployeeLimit()),
		Amount:        float64(s.AmountTotal),
		TransactionID: txID,
		PaymentDate:   now,
		Status:        s.PaymentStatus,
	}
}

// AddPayment handles POST /payments/add. It always inserts.
func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var p models.Payment
	if !decodeBody(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	p.ID = primitive.NilObjectID
	p.PaymentDate = h.now()

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if _, err := h.Payments.Insert(ctx, &p); err != nil {
		h.log.Error("manual payment insert failed", zap.Error(err))
		utils.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to record payment",
			"error":   err.Error(),
		})
		return
	}

	h.publish(ctx, events.PaymentRecorded, p, p.HREmail)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment recorded successfully",
	})
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	payments, err := h.Payments.ListByHR(ctx, mux.Vars(r)["hrEmail"])
	if err != nil {
		h.serverError(w, r, "Failed to fetch payments", err)
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	utils.RespondWithJSON(w, http.StatusOK, payments)
}
