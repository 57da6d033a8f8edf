package middleware

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type stubVerifier struct {
	email string
	err   error
}

func (s stubVerifier) Verify(_ context.Context, _ string) (string, error) {
	return s.email, s.err
}

func echoEmail(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(EmailFromContext(r.Context())))
}

func TestGate(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tests := []struct {
		name     string
		header   string
		verifier stubVerifier
		status   int
		body     string
	}{
		{"missing header", "", stubVerifier{}, http.StatusUnauthorized, `{"message":"Unauthorized Access!"}`},
		{"not bearer", "Basic abc", stubVerifier{}, http.StatusUnauthorized, `{"message":"Unauthorized Access!"}`},
		{"bad token", "Bearer abc", stubVerifier{err: errors.New("token expired")}, http.StatusUnauthorized, `{"message":"Unauthorized Access!","error":"token expired"}`},
		{"valid", "Bearer abc", stubVerifier{email: "hr@x.com"}, http.StatusOK, "hr@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Gate(tt.verifier, logger)(http.HandlerFunc(echoEmail))
			req := httptest.NewRequest(http.MethodGet, "/assets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestLoggingUsesRouteTemplate(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	r := mux.NewRouter()
	r.Use(Logging(zap.New(core)))
	r.HandleFunc("/assets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/assets/abc", nil))

	entries := recorded.FilterMessage("request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/assets/{id}", fields["route"])
		assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := NewCORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/assets", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

// hijackRecorder is a recorder that can also give up its connection.
type hijackRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestWrappersKeepHijacker(t *testing.T) {
	logger := zaptest.NewLogger(t)
	chains := map[string]func(http.Handler) http.Handler{
		"metrics": Metrics,
		"logging": Logging(logger),
	}

	for name, wrap := range chains {
		for _, upgrade := range []string{"", "websocket"} {
			rec := &hijackRecorder{ResponseRecorder: httptest.NewRecorder()}
			h := wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hj, ok := w.(http.Hijacker)
				if assert.True(t, ok, "%s upgrade=%q", name, upgrade) {
					_, _, err := hj.Hijack()
					assert.NoError(t, err)
				}
			}))

			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if upgrade != "" {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", upgrade)
			}
			h.ServeHTTP(rec, req)
			assert.True(t, rec.hijacked, "%s upgrade=%q", name, upgrade)
		}
	}
}

func TestHijackWithoutSupport(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, _, err := rw.Hijack()
	assert.Error(t, err)
}
