package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pawsconnect/internal/domain"
)

type campaignRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Images       []string        `json:"images"`
	EndDate      *time.Time      `json:"end_date"`
}

type campaignStatusRequest struct {
	Status string `json:"status"`
}

func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "Title is required")
		return
	}
	if !req.TargetAmount.IsPositive() {
		a.error(w, http.StatusBadRequest, "Target amount must be greater than zero")
		return
	}

	campaign, err := a.Campaigns.Create(r.Context(), domain.NewCampaign{
		Title:        req.Title,
		Description:  strings.TrimSpace(req.Description),
		TargetAmount: req.TargetAmount,
		Images:       req.Images,
		EndDate:      req.EndDate,
		CreatedBy:    a.currentUserID(r),
	})
	if err != nil {
		a.internalError(w, r, "Failed to create campaign", err)
		return
	}
	a.json(w, http.StatusCreated, campaign)
}

func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid pagination")
		return
	}
	filter := domain.CampaignFilter{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseCampaignStatus(raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = status
	}

	items, err := a.Campaigns.List(r.Context(), filter)
	if err != nil {
		a.internalError(w, r, "Failed to load campaigns", err)
		return
	}
	if items == nil {
		items = []domain.Campaign{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) CampaignsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	campaign, err := a.Campaigns.GetByID(r.Context(), id)
	if isNotFound(err) {
		a.error(w, http.StatusNotFound, "Campaign not found")
		return
	}
	if err != nil {
		a.internalError(w, r, "Failed to load campaign", err)
		return
	}
	a.json(w, http.StatusOK, campaign)
}

func (a *App) CampaignsUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	var req campaignStatusRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	next, err := domain.ParseCampaignStatus(req.Status)
	if err != nil {
		a.error(w, http.StatusBadRequest, "Invalid status")
		return
	}

	campaign, err := a.Campaigns.UpdateStatus(r.Context(), id, next)
	switch {
	case isNotFound(err):
		a.error(w, http.StatusNotFound, "Campaign not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusConflict, err.Error())
	case err != nil:
		a.internalError(w, r, "Failed to update campaign", err)
	default:
		a.json(w, http.StatusOK, campaign)
	}
}

// CampaignsReconcile recomputes a campaign's raised total from its donations.
func (a *App) CampaignsReconcile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	campaign, err := a.Campaigns.Reconcile(r.Context(), id)
	if isNotFound(err) {
		a.error(w, http.StatusNotFound, "Campaign not found")
		return
	}
	if err != nil {
		a.internalError(w, r, "Failed to reconcile campaign", err)
		return
	}
	a.json(w, http.StatusOK, campaign)
}
