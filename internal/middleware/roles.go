package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pawsconnect/internal/domain"
)

const roleCacheTTL = 10 * time.Minute

// RoleSource loads a user's role from the database.
type RoleSource interface {
	Role(ctx context.Context, userID string) (domain.UserRole, error)
}

// RoleCache fronts a RoleSource with Redis. A nil client disables caching;
// Redis failures fall through to the source.
type RoleCache struct {
	source RoleSource
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewRoleCache(source RoleSource, rdb *redis.Client, logger zerolog.Logger) *RoleCache {
	return &RoleCache{source: source, rdb: rdb, ttl: roleCacheTTL, logger: logger}
}

func roleCacheKey(userID string) string {
	return "pawsconnect:role:" + userID
}

func (c *RoleCache) Role(ctx context.Context, userID string) (domain.UserRole, error) {
	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, roleCacheKey(userID)).Result()
		if err == nil && cached != "" {
			return domain.UserRole(cached), nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("user_id", userID).Msg("role cache get failed")
		}
	}

	role, err := c.source.Role(ctx, userID)
	if err != nil {
		return "", err
	}
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, roleCacheKey(userID), string(role), c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("user_id", userID).Msg("role cache set failed")
		}
	}
	return role, nil
}

// Invalidate drops the cached role of a user.
func (c *RoleCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, roleCacheKey(userID)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Msg("role cache invalidate failed")
	}
}

// IsAdmin reports whether userID holds the admin role. Unknown users are not
// admins.
func IsAdmin(ctx context.Context, roles RoleSource, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	role, err := roles.Role(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return role == domain.UserRoleAdmin, nil
}

// RequireAdmin admits only authenticated admins. It must run after AuthJWT.
func RequireAdmin(roles RoleSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			ok, err := IsAdmin(r.Context(), roles, userID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to resolve role")
				return
			}
			if !ok {
				writeError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
