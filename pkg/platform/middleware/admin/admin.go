// Package admin gates operator-only routes (scan listing, purge) behind a
// shared admin token. Only a bcrypt hash of the token is held in memory.
package admin

import (
	"errors"
	"log/slog"
	"net/http"

	dErrors "parichay/pkg/domain-errors"
	"parichay/pkg/platform/httputil"
	"parichay/pkg/requestcontext"

	"golang.org/x/crypto/bcrypt"
)

// HeaderName carries the shared admin token.
const HeaderName = "X-Admin-Token"

// HashToken produces a bcrypt hash of a token for configuration storage.
func HashToken(token string) (string, error) {
	if token == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "token cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// RequireToken enforces the admin token on the wrapped routes.
// An empty configured hash disables the admin surface entirely (403 on all
// requests) rather than leaving it open.
func RequireToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if tokenHash == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin endpoints disabled"))
				return
			}

			token := r.Header.Get(HeaderName)
			if token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing admin token"))
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
					logger.ErrorContext(ctx, "admin token comparison failed",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
				}
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid admin token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
