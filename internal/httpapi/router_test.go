package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tourbooking/internal/booking"
	"tourbooking/internal/catalog"
	"tourbooking/internal/favorite"
	"tourbooking/internal/identity"
	"tourbooking/internal/review"
	"tourbooking/pkg/config"
)

type tokenAuth map[string]*identity.Actor

func (t tokenAuth) Authenticate(_ context.Context, token string) (*identity.Actor, error) {
	if a, ok := t[token]; ok {
		return a, nil
	}
	return nil, errors.New("invalid token")
}

// The stores are nil: every request below must be refused before reaching one.
func testRouter() http.Handler {
	packages := catalog.NewService(nil)
	return newRouter(
		config.Config{AllowedOrigins: []string{"http://localhost:5173"}, PaymentWebhookSecret: "whsec"},
		tokenAuth{"user-token": {UserID: "6f1c2a1e-8d4b-4c39-9a53-2b1f0c4de001"}},
		services{
			packages:  packages,
			favorites: favorite.NewService(nil),
			reviews:   review.NewService(nil),
			bookings:  booking.NewService(nil, packages),
		},
	)
}

func TestRouter_AuthBoundaries(t *testing.T) {
	h := testRouter()
	pkg := "/v1/packages/6f1c2a1e-8d4b-4c39-9a53-2b1f0c4de002"

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"bad token", http.MethodGet, "/v1/me", "nope", "", http.StatusUnauthorized},
		{"me anonymous", http.MethodGet, "/v1/me", "", "", http.StatusUnauthorized},
		{"me", http.MethodGet, "/v1/me", "user-token", "", http.StatusOK},
		{"toggle anonymous", http.MethodPost, pkg + "/favorite", "", "", http.StatusUnauthorized},
		{"book anonymous", http.MethodPost, pkg + "/bookings", "", "{}", http.StatusUnauthorized},
		{"review anonymous", http.MethodPost, pkg + "/reviews", "", `{"rating":5,"comment":"x"}`, http.StatusUnauthorized},
		{"review out of range", http.MethodPost, pkg + "/reviews", "user-token", `{"rating":0,"comment":"x"}`, http.StatusBadRequest},
		{"create package as user", http.MethodPost, "/v1/packages", "user-token", "{}", http.StatusForbidden},
		{"delete package as user", http.MethodDelete, pkg, "user-token", "", http.StatusForbidden},
		{"admin list as user", http.MethodGet, "/v1/admin/bookings", "user-token", "", http.StatusForbidden},
		{"set status as user", http.MethodPatch, "/v1/admin/bookings/6f1c2a1e-8d4b-4c39-9a53-2b1f0c4de003/status", "user-token", `{"status":"confirmed"}`, http.StatusForbidden},
		{"audit as user", http.MethodGet, "/v1/admin/audit", "user-token", "", http.StatusForbidden},
		{"bad id", http.MethodGet, "/v1/packages/not-a-uuid", "", "", http.StatusBadRequest},
		{"unsigned webhook", http.MethodPost, "/v1/webhooks/payments", "", `{}`, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}
