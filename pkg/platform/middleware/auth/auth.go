// Package auth provides optional bearer-token authentication for the decode
// API. Tokens are HS256-signed JWTs issued out of band to scanner clients;
// when no signing key is configured the middleware is a pass-through.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	dErrors "parichay/pkg/domain-errors"
	"parichay/pkg/platform/httputil"
	"parichay/pkg/requestcontext"

	"github.com/golang-jwt/jwt/v5"
)

type clientIDKey struct{}

// ClientID returns the authenticated API client ID from context, or "".
func ClientID(ctx context.Context) string {
	v, _ := ctx.Value(clientIDKey{}).(string)
	return v
}

// Claims are the JWT claims expected on scanner client tokens.
type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	signingKey []byte
}

// NewVerifier creates a token verifier. An empty key disables verification
// entirely (RequireToken becomes a no-op), which is the development default.
func NewVerifier(signingKey string) *Verifier {
	if signingKey == "" {
		return &Verifier{}
	}
	return &Verifier{signingKey: []byte(signingKey)}
}

// Enabled reports whether token verification is configured.
func (v *Verifier) Enabled() bool {
	return len(v.signingKey) > 0
}

// ValidateToken parses and verifies a token string, returning its claims.
func (v *Verifier) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid or expired token")
	}
	if !token.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// IssueToken mints a client token. Used by operators and tests; the server
// itself never issues tokens on an endpoint.
func (v *Verifier) IssueToken(clientID string, ttl time.Duration) (string, error) {
	if !v.Enabled() {
		return "", dErrors.New(dErrors.CodeInternal, "token signing not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return token.SignedString(v.signingKey)
}

// RequireToken enforces a valid bearer token on the wrapped routes.
// When the verifier is disabled the request passes through unauthenticated.
func RequireToken(v *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !v.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := v.ValidateToken(tokenString)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}

			ctx = context.WithValue(ctx, clientIDKey{}, claims.ClientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
