package admin

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	hash, err := HashToken("super-secret")
	require.NoError(t, err)

	serve := func(tokenHash, token string) *httptest.ResponseRecorder {
		handler := RequireToken(tokenHash, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/v1/scans", nil)
		if token != "" {
			req.Header.Set(HeaderName, token)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("accepts the correct token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(hash, "super-secret").Code)
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(hash, "wrong").Code)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(hash, "").Code)
	})

	t.Run("disabled surface rejects everything", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve("", "super-secret").Code)
	})
}

func TestHashToken(t *testing.T) {
	t.Run("rejects empty token", func(t *testing.T) {
		_, err := HashToken("")
		assert.Error(t, err)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		h1, err := HashToken("tok")
		require.NoError(t, err)
		h2, err := HashToken("tok")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})
}
