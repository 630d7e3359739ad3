package handlers

import (
	"errors"
	"net/http"

	"pawsconnect/internal/domain"
)

// OCRDonationReceipt reads amount and reference number from a receipt image
// so the app can prefill the donation form.
func (a *App) OCRDonationReceipt(w http.ResponseWriter, r *http.Request) {
	img, status, msg := a.readImage(w, r)
	if img == nil {
		a.error(w, status, msg)
		return
	}

	receipt, err := a.Receipts.ExtractReceipt(r.Context(), img.data, img.contentType)
	switch {
	case errors.Is(err, domain.ErrProviderUnavailable):
		a.error(w, http.StatusServiceUnavailable, "Receipt scanning is not configured")
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		a.error(w, http.StatusUnsupportedMediaType, "Unsupported file type")
	case errors.Is(err, domain.ErrProviderFailure):
		a.Logger.Warn().Err(err).Str("user_id", a.currentUserID(r)).Msg("receipt ocr failed")
		a.error(w, http.StatusBadGateway, "Could not read receipt")
	case err != nil:
		a.internalError(w, r, "Failed to read receipt", err)
	default:
		a.json(w, http.StatusOK, receipt)
	}
}
