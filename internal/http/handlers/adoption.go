package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pawsconnect/internal/domain"
)

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (a *App) AdoptionReject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid adoption ID")
		return
	}
	var req reasonRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	adoption, err := a.Adoptions.Reject(r.Context(), id, strings.TrimSpace(req.Reason))
	if a.adoptionError(w, r, err) {
		return
	}
	a.json(w, http.StatusOK, adoption)
}

// AdoptionApprove approves one application and rejects the others pending
// for the same pet.
func (a *App) AdoptionApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid adoption ID")
		return
	}
	decision, err := a.Adoptions.Approve(r.Context(), id)
	if a.adoptionError(w, r, err) {
		return
	}
	a.json(w, http.StatusOK, decision)
}

func (a *App) adoptionError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return false
	case isNotFound(err):
		a.error(w, http.StatusNotFound, "Adoption not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusConflict, "Adoption is not pending")
	default:
		a.internalError(w, r, "Failed to update adoption", err)
	}
	return true
}
