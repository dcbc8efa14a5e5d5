package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/health":        "/health",
		"/metrics":       "/metrics",
		"/network":       "/network",
		"/generate-proof": "/generate-proof",
		"/verify-proof":   "/verify-proof",
		"/balance-proof/generate": "/balance-proof/generate",
		"/balance-proof/4f3c2a10-9a51-4d7e-b1db-0f8a6f2d9c11":                  "/balance-proof/{shareId}",
		"/balance-proof/wallet/0xdac17f958d2ee523a2206206994597c13d831ec7":     "/balance-proof/wallet/{address}",
	}

	for in, want := range cases {
		assert.Equal(t, want, normalizePath(in), "path %s", in)
	}
}

func TestDisabledMetricsAreInert(t *testing.T) {
	// The package default is disabled; record calls must be no-ops and the
	// handler must answer 404.
	assert.False(t, Enabled())
	RecordProofIssue("ok")
	RecordProofVerify("valid")
	RecordBalanceProof("error")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware_DisabledPassesThrough(t *testing.T) {
	called := false
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/network", nil))
	assert.True(t, called)
}
