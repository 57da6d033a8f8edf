package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"assetverse/cache"
	"assetverse/payment"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	t       *testing.T
	h       *Handler
	router  *mux.Router
	users   *fakeUsers
	assets  *fakeAssets
	reqs    *fakeRequests
	pkgs    *fakePackages
	pays    *fakePayments
	affs    *fakeAffiliations
	granted *fakeAssigned
	gateway *fakeGateway
	events  *recordedEvents
}

func newTestEnv(t *testing.T) *testEnv {
	e := &testEnv{
		t:       t,
		users:   &fakeUsers{},
		assets:  &fakeAssets{},
		reqs:    &fakeRequests{},
		pkgs:    &fakePackages{},
		pays:    &fakePayments{},
		affs:    &fakeAffiliations{},
		granted: &fakeAssigned{},
		gateway: &fakeGateway{sessions: map[string]*payment.Session{}},
		events:  &recordedEvents{},
	}
	e.h = New(Deps{
		Users:          e.users,
		Assets:         e.assets,
		Requests:       e.reqs,
		Packages:       e.pkgs,
		Payments:       e.pays,
		Affiliations:   e.affs,
		AssignedAssets: e.granted,
		Gateway:        e.gateway,
		Events:         e.events,
		Cache:          cache.NewMemory(),
		Health:         fakePinger{},
		Logger:         zaptest.NewLogger(t),
		Now:            func() time.Time { return fixedNow },
	})

	r := mux.NewRouter()
	r.HandleFunc("/", e.h.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", e.h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/users/email/{email}", e.h.GetUserByEmail).Methods(http.MethodGet)
	r.HandleFunc("/users", e.h.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{email}", e.h.UpdateUser).Methods(http.MethodPatch)
	r.HandleFunc("/assets", e.h.ListAssets).Methods(http.MethodGet)
	r.HandleFunc("/assets", e.h.CreateAsset).Methods(http.MethodPost)
	r.HandleFunc("/assets/{id}", e.h.GetAsset).Methods(http.MethodGet)
	r.HandleFunc("/assets/{id}", e.h.UpdateAsset).Methods(http.MethodPatch)
	r.HandleFunc("/assets/{id}", e.h.DeleteAsset).Methods(http.MethodDelete)
	r.HandleFunc("/packages", e.h.ListPackages).Methods(http.MethodGet)
	r.HandleFunc("/create-payment-session", e.h.CreatePaymentSession).Methods(http.MethodPost)
	r.HandleFunc("/verify-payment", e.h.VerifyPayment).Methods(http.MethodGet)
	r.HandleFunc("/requests", e.h.CreateRequest).Methods(http.MethodPost)
	r.HandleFunc("/requests", e.h.ListRequests).Methods(http.MethodGet)
	r.HandleFunc("/requests/approve/{id}", e.h.ApproveRequest).Methods(http.MethodPatch)
	r.HandleFunc("/requests/reject/{id}", e.h.RejectRequest).Methods(http.MethodPatch)
	r.HandleFunc("/hr/employees/{email}", e.h.ListEmployees).Methods(http.MethodGet)
	r.HandleFunc("/hr/remove-employee/{employeeId}", e.h.RemoveEmployee).Methods(http.MethodPatch)
	r.HandleFunc("/assigned-assets/{email}", e.h.ListAssignedAssets).Methods(http.MethodGet)
	r.HandleFunc("/assigned-assets", e.h.AssignAsset).Methods(http.MethodPost)
	r.HandleFunc("/assigned-assets/return/{id}", e.h.ReturnAsset).Methods(http.MethodPatch)
	r.HandleFunc("/payments/add", e.h.AddPayment).Methods(http.MethodPost)
	r.HandleFunc("/payments/{hrEmail}", e.h.ListPayments).Methods(http.MethodGet)
	r.HandleFunc("/profile/{email}", e.h.GetProfile).Methods(http.MethodGet)
	r.HandleFunc("/profile/update/{email}", e.h.UpdateProfile).Methods(http.MethodPut)
	r.HandleFunc("/analytics/asset-types", e.h.AssetTypes).Methods(http.MethodGet)
	r.HandleFunc("/analytics/top-assets", e.h.TopAssets).Methods(http.MethodGet)
	e.router = r
	return e
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(e.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	decodeJSON(t, rec, &m)
	return m
}

func laptop() map[string]interface{} {
	return map[string]interface{}{
		"productName":     "Laptop",
		"productImage":    "x",
		"productType":     "Returnable",
		"productQuantity": 5,
		"hrEmail":         "hr@x.com",
		"companyName":     "Acme",
	}
}
