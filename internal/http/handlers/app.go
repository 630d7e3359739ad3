package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/middleware"
	"pawsconnect/internal/providers/vision"
	"pawsconnect/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RoleInvalidator drops cached roles after a profile changes.
type RoleInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type App struct {
	Campaigns     domain.CampaignRepository
	Donations     domain.DonationRepository
	Adoptions     domain.AdoptionRepository
	Profiles      domain.ProfileRepository
	Chat          domain.ChatRepository
	Notifications domain.NotificationRepository

	Roles     middleware.RoleSource
	RoleCache RoleInvalidator
	Storage   storage.Store
	Receipts  vision.ReceiptExtractor
	Logger    zerolog.Logger
	UploadMax int64
	// Checks are run by Health, keyed by dependency name.
	Checks map[string]HealthCheck
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

// internalError logs err and reports a bare 500.
func (a *App) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	a.logFailure(r, msg, err)
	a.error(w, http.StatusInternalServerError, msg)
}

// failure reports a 500 along with the underlying store message. Only the
// donation deletion route exposes that message.
func (a *App) failure(w http.ResponseWriter, r *http.Request, msg string, err error) {
	a.logFailure(r, msg, err)
	a.json(w, http.StatusInternalServerError, map[string]string{"error": msg, "message": err.Error()})
}

func (a *App) logFailure(r *http.Request, msg string, err error) {
	a.Logger.Error().Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg(strings.ToLower(msg))
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) isAdmin(r *http.Request) (bool, error) {
	if a.Roles == nil {
		return false, nil
	}
	return middleware.IsAdmin(r.Context(), a.Roles, a.currentUserID(r))
}

func (a *App) decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses a positive integer route parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pageParams(r *http.Request) (limit, offset int, ok bool) {
	limit, offset = defaultPageSize, 0
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		limit = min(n, maxPageSize)
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
