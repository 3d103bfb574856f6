package metadata

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"parichay/pkg/requestcontext"

	"github.com/stretchr/testify/assert"
)

func capture(m *Middleware, remoteAddr string, headers map[string]string) (ip, ua string) {
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		ua = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return ip, ua
}

func TestMetadataMiddleware(t *testing.T) {
	t.Run("uses remote addr when no proxies trusted", func(t *testing.T) {
		m := NewMiddleware(nil)
		ip, _ := capture(m, "203.0.113.7:1234", map[string]string{
			"X-Forwarded-For": "10.0.0.1",
		})
		assert.Equal(t, "203.0.113.7", ip)
	})

	t.Run("trusts XFF from trusted proxy", func(t *testing.T) {
		m := NewMiddleware(&Config{
			TrustedProxies: []netip.Prefix{netip.MustParsePrefix("203.0.113.0/24")},
		})
		ip, _ := capture(m, "203.0.113.7:1234", map[string]string{
			"X-Forwarded-For": "198.51.100.9, 203.0.113.7",
		})
		assert.Equal(t, "198.51.100.9", ip)
	})

	t.Run("falls back to remote addr on garbage XFF", func(t *testing.T) {
		m := NewMiddleware(&Config{
			TrustedProxies: []netip.Prefix{netip.MustParsePrefix("203.0.113.0/24")},
		})
		ip, _ := capture(m, "203.0.113.7:1234", map[string]string{
			"X-Forwarded-For": "not-an-ip",
		})
		assert.Equal(t, "203.0.113.7", ip)
	})

	t.Run("captures user agent", func(t *testing.T) {
		m := NewMiddleware(nil)
		_, ua := capture(m, "203.0.113.7:1234", map[string]string{
			"User-Agent": "scanner-app/2.1",
		})
		assert.Equal(t, "scanner-app/2.1", ua)
	})

	t.Run("handles IPv6 remote addr", func(t *testing.T) {
		m := NewMiddleware(nil)
		ip, _ := capture(m, "[2001:db8::1]:443", nil)
		assert.Equal(t, "2001:db8::1", ip)
	})
}
