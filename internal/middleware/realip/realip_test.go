package realip

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clientIPThrough(cfg Config, remoteAddr string, headers map[string]string) string {
	var got string
	handler := Middleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClientIP(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestMiddleware_NoProxyTrust(t *testing.T) {
	ip := clientIPThrough(Config{}, "203.0.113.7:1234", map[string]string{
		"X-Forwarded-For": "198.51.100.1",
	})
	assert.Equal(t, "203.0.113.7", ip)
}

func TestMiddleware_TrustedProxyUsesXFF(t *testing.T) {
	cfg := Config{TrustProxy: true, TrustedProxies: []string{"10.0.0.0/8"}}

	ip := clientIPThrough(cfg, "10.0.0.5:1234", map[string]string{
		"X-Forwarded-For": "198.51.100.1",
	})
	assert.Equal(t, "198.51.100.1", ip)
}

func TestMiddleware_UntrustedPeerIgnoresXFF(t *testing.T) {
	cfg := Config{TrustProxy: true, TrustedProxies: []string{"10.0.0.0/8"}}

	ip := clientIPThrough(cfg, "203.0.113.7:1234", map[string]string{
		"X-Forwarded-For": "198.51.100.1",
	})
	assert.Equal(t, "203.0.113.7", ip)
}

func TestMiddleware_ChainSkipsTrustedHops(t *testing.T) {
	cfg := Config{TrustProxy: true, TrustedProxies: []string{"10.0.0.0/8"}}

	ip := clientIPThrough(cfg, "10.0.0.5:1234", map[string]string{
		"X-Forwarded-For": "198.51.100.1, 10.0.0.9",
	})
	assert.Equal(t, "198.51.100.1", ip)
}

func TestMiddleware_XRealIPFallback(t *testing.T) {
	cfg := Config{TrustProxy: true, TrustedProxies: []string{"10.0.0.0/8"}}

	ip := clientIPThrough(cfg, "10.0.0.5:1234", map[string]string{
		"X-Real-IP": "198.51.100.2",
	})
	assert.Equal(t, "198.51.100.2", ip)
}

func TestMiddleware_BareIPAsTrustedProxy(t *testing.T) {
	cfg := Config{TrustProxy: true, TrustedProxies: []string{"10.0.0.5"}}

	ip := clientIPThrough(cfg, "10.0.0.5:1234", map[string]string{
		"X-Forwarded-For": "198.51.100.1",
	})
	assert.Equal(t, "198.51.100.1", ip)
}

func TestGetClientIP_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	assert.Equal(t, "203.0.113.7", GetClientIP(req))
}
