package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/middleware"
	"pawsconnect/internal/providers/vision"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func multipartRequest(t *testing.T, target, field string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "receipt.bin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(middleware.ContextWithUserID(req.Context(), donorID))
}

func TestUploadDonationScreenshot(t *testing.T) {
	app := newTestApp()
	store := app.Storage.(*fakeStore)

	rec := httptest.NewRecorder()
	app.UploadDonationScreenshot(rec, multipartRequest(t, "/api/v1/uploads/donation-screenshot", "file", pngHeader))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	key := store.keys[0]
	prefix := fmt.Sprintf("donations/%s/", donorID)
	if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, ".png") {
		t.Fatalf("key = %s", key)
	}
	if store.types[0] != "image/png" {
		t.Fatalf("content type = %s", store.types[0])
	}
	body := decodeMap(t, rec.Body.String())
	if body["key"] != key || body["url"] != "https://cdn.test/"+key {
		t.Fatalf("body = %v", body)
	}
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name  string
		field string
		data  []byte
		max   int64
		want  int
	}{
		{"plain text", "file", []byte("hello there, not an image"), 0, http.StatusUnsupportedMediaType},
		{"wrong field", "image", pngHeader, 0, http.StatusBadRequest},
		{"too large", "file", append(append([]byte{}, pngHeader...), make([]byte, 64)...), 16, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp()
			app.UploadMax = tc.max
			rec := httptest.NewRecorder()
			app.UploadDonationScreenshot(rec, multipartRequest(t, "/api/v1/uploads/donation-screenshot", tc.field, tc.data))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
			if n := len(app.Storage.(*fakeStore).keys); n != 0 {
				t.Fatalf("stored %d files", n)
			}
		})
	}
}

func TestOCRDonationReceipt(t *testing.T) {
	amount := decimal.RequireFromString("500")
	tests := []struct {
		name     string
		receipts vision.ReceiptExtractor
		want     int
	}{
		{"not configured", fakeReceipts{err: fmt.Errorf("receipt ocr: %w", domain.ErrProviderUnavailable)}, http.StatusServiceUnavailable},
		{"model output unreadable", fakeReceipts{err: fmt.Errorf("%w: bad json", domain.ErrProviderFailure)}, http.StatusBadGateway},
		{"unexpected failure", fakeReceipts{err: errors.New("boom")}, http.StatusInternalServerError},
		{"read", fakeReceipts{receipt: &vision.Receipt{Amount: &amount, ReferenceNumber: "1009 234 5566", Confidence: 0.9}}, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp()
			app.Receipts = tc.receipts
			rec := httptest.NewRecorder()
			app.OCRDonationReceipt(rec, multipartRequest(t, "/api/v1/ocr/donation-receipt", "file", pngHeader))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusOK && !strings.Contains(rec.Body.String(), `"reference_number":"1009 234 5566"`) {
				t.Fatalf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestOpenAPIDocument(t *testing.T) {
	app := newTestApp()
	rec := httptest.NewRecorder()
	app.OpenAPIJSON(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	body := decodeMap(t, rec.Body.String())
	paths, ok := body["paths"].(map[string]any)
	if !ok {
		t.Fatalf("paths missing")
	}
	if _, ok := paths["/api/v1/fundraising/{id}/donations/{donationId}"]; !ok {
		t.Fatalf("donation deletion not documented")
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("ETag missing")
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	app.OpenAPIJSON(rec, req)
	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Fatalf("revalidation status = %d, body %d bytes", rec.Code, rec.Body.Len())
	}

	rec = httptest.NewRecorder()
	app.OpenAPIDocs(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	if !strings.Contains(rec.Body.String(), "PawsConnect API Docs") {
		t.Fatalf("docs title missing")
	}
}
