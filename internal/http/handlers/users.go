package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pawsconnect/internal/domain"
)

func (a *App) UsersSemiVerify(w http.ResponseWriter, r *http.Request) {
	a.setVerification(w, r, domain.VerificationSemiVerified, "")
}

func (a *App) UsersVerify(w http.ResponseWriter, r *http.Request) {
	a.setVerification(w, r, domain.VerificationVerified, "")
}

func (a *App) UsersReject(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	a.setVerification(w, r, domain.VerificationRejected, strings.TrimSpace(req.Reason))
}

func (a *App) setVerification(w http.ResponseWriter, r *http.Request, status domain.VerificationStatus, reason string) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	profile, err := a.Profiles.SetVerification(r.Context(), userID.String(), status, reason)
	if isNotFound(err) {
		a.error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		a.internalError(w, r, "Failed to update user", err)
		return
	}
	if status == domain.VerificationRejected && a.RoleCache != nil {
		a.RoleCache.Invalidate(r.Context(), profile.ID)
	}
	a.json(w, http.StatusOK, profile)
}
