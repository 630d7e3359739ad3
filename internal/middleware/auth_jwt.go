package middleware

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims of a Supabase Auth access token.
type TokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type userKey string

const (
	userIDKey userKey = "user_id"
)

// SignJWT issues an HS256 token for claims. Production tokens come from
// Supabase; this is used by pawsctl and tests.
func SignJWT(secret string, claims TokenClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// KeySource resolves the public key for an asymmetrically signed token.
type KeySource interface {
	Key(ctx context.Context, kid string) (crypto.PublicKey, error)
}

// VerifyJWT validates signature, algorithm and expiry of an HS256 token and
// returns the claims.
func VerifyJWT(secret, token string) (*TokenClaims, error) {
	return verifyJWT(context.Background(), secret, nil, token)
}

func verifyJWT(ctx context.Context, secret string, keys KeySource, token string) (*TokenClaims, error) {
	methods := []string{jwt.SigningMethodHS256.Alg()}
	if keys != nil {
		methods = append(methods, jwt.SigningMethodRS256.Alg(), jwt.SigningMethodES256.Alg())
	}
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); ok {
			if secret == "" {
				return nil, errors.New("symmetric tokens are disabled")
			}
			return []byte(secret), nil
		}
		kid, _ := t.Header["kid"].(string)
		return keys.Key(ctx, kid)
	},
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// AuthJWT requires a valid bearer token and stores its subject as the user id.
func AuthJWT(secret string) func(http.Handler) http.Handler {
	return AuthJWTWithKeys(secret, nil)
}

// AuthJWTWithKeys also accepts RS256 and ES256 tokens whose keys come from
// keys. A nil source limits verification to HS256.
func AuthJWTWithKeys(secret string, keys KeySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Missing authorization")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "Invalid authorization")
				return
			}
			claims, err := verifyJWT(r.Context(), secret, keys, strings.TrimSpace(parts[1]))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), claims.Subject)))
		})
	}
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}
