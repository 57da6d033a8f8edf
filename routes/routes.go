package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"assetverse/handlers"
	"assetverse/middleware"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsPatchOnly  = []string{"PATCH", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

const (
	PathRoot    = "/"
	PathHealth  = "/health"
	PathMetrics = "/metrics"
	PathSocket  = "/ws"
)

// RegisterRoutes mounts every endpoint on r. gate wraps the routes that need
// a verified identity; socket serves the realtime upgrade and may be nil.
func RegisterRoutes(r *mux.Router, h *handlers.Handler, gate func(http.Handler) http.Handler, socket http.Handler) {
	// ====================
	// OPEN ROUTES
	// ====================
	r.HandleFunc(PathRoot, h.Root).Methods(MethodsGetOnly...)
	r.HandleFunc(PathHealth, h.HealthCheck).Methods(MethodsGetOnly...)
	r.Handle(PathMetrics, promhttp.Handler()).Methods(MethodsGetOnly...)
	if socket != nil {
		r.Handle(PathSocket, socket).Methods(http.MethodGet)
	}

	r.HandleFunc("/users/email/{email}", h.GetUserByEmail).Methods(MethodsGetOnly...)
	r.HandleFunc("/packages", h.ListPackages).Methods(MethodsGetOnly...)
	r.HandleFunc("/create-payment-session", h.CreatePaymentSession).Methods(MethodsPostOnly...)
	r.HandleFunc("/verify-payment", h.VerifyPayment).Methods(MethodsGetOnly...)
	r.HandleFunc("/requests", h.CreateRequest).Methods(MethodsPostOnly...)

	// ====================
	// PROTECTED ROUTES (bearer token required)
	// ====================
	api := r.NewRoute().Subrouter()
	api.Use(mux.MiddlewareFunc(gate))

	// USERS & PROFILE
	api.HandleFunc("/users", h.CreateUser).Methods(MethodsPostOnly...)
	api.HandleFunc("/users/{email}", h.UpdateUser).Methods(MethodsPatchOnly...)
	api.HandleFunc("/profile/{email}", h.GetProfile).Methods(MethodsGetOnly...)
	api.HandleFunc("/profile/update/{email}", h.UpdateProfile).Methods(MethodsPutOnly...)

	// ASSETS
	api.HandleFunc("/assets", h.ListAssets).Methods(MethodsGetOnly...)
	api.HandleFunc("/assets", h.CreateAsset).Methods(MethodsPostOnly...)
	api.HandleFunc("/assets/{id}", h.GetAsset).Methods(MethodsGetOnly...)
	api.HandleFunc("/assets/{id}", h.UpdateAsset).Methods(MethodsPatchOnly...)
	api.HandleFunc("/assets/{id}", h.DeleteAsset).Methods(MethodsDeleteOnly...)

	// REQUESTS
	api.HandleFunc("/requests", h.ListRequests).Methods(MethodsGetOnly...)
	api.HandleFunc("/requests/approve/{id}", h.ApproveRequest).Methods(MethodsPatchOnly...)
	api.HandleFunc("/requests/reject/{id}", h.RejectRequest).Methods(MethodsPatchOnly...)

	// TEAM
	api.HandleFunc("/hr/employees/{email}", h.ListEmployees).Methods(MethodsGetOnly...)
	api.HandleFunc("/hr/remove-employee/{employeeId}", h.RemoveEmployee).Methods(MethodsPatchOnly...)

	// ASSIGNMENTS
	api.HandleFunc("/assigned-assets/{email}", h.ListAssignedAssets).Methods(MethodsGetOnly...)
	api.HandleFunc("/assigned-assets", h.AssignAsset).Methods(MethodsPostOnly...)
	api.HandleFunc("/assigned-assets/return/{id}", h.ReturnAsset).Methods(MethodsPatchOnly...)

	// PAYMENTS
	api.HandleFunc("/payments/add", h.AddPayment).Methods(MethodsPostOnly...)
	api.HandleFunc("/payments/{hrEmail}", h.ListPayments).Methods(MethodsGetOnly...)

	// ANALYTICS
	api.HandleFunc("/analytics/asset-types", h.AssetTypes).Methods(MethodsGetOnly...)
	api.HandleFunc("/analytics/top-assets", h.TopAssets).Methods(MethodsGetOnly...)
}

// Wrap installs the global middlewares on r and puts CORS in front of it.
func Wrap(r *mux.Router, logger *zap.Logger, origins []string) http.Handler {
	// Global middlewares (order matters!)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)

	return middleware.NewCORS(origins)(r)
}
