package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"pawsconnect/internal/providers/vision"
)

const defaultUploadMax = 5 << 20

var errUploadTooLarge = errors.New("file too large")

type uploadedImage struct {
	data        []byte
	contentType string
	ext         string
}

// readImage reads the multipart "file" field, sniffing its content type
// rather than trusting the client header.
func (a *App) readImage(w http.ResponseWriter, r *http.Request) (*uploadedImage, int, string) {
	limit := a.UploadMax
	if limit <= 0 {
		limit = defaultUploadMax
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, "File too large"
		}
		return nil, http.StatusBadRequest, "Invalid multipart form"
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, http.StatusBadRequest, "File is required"
	}
	defer file.Close()

	data, err := readLimited(file, limit)
	if errors.Is(err, errUploadTooLarge) {
		return nil, http.StatusRequestEntityTooLarge, "File too large"
	}
	if err != nil {
		return nil, http.StatusBadRequest, "Failed to read file"
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, "File is empty"
	}

	contentType := http.DetectContentType(data)
	ext, ok := vision.SupportedMediaType(contentType)
	if !ok {
		return nil, http.StatusUnsupportedMediaType, "Unsupported file type"
	}
	return &uploadedImage{data: data, contentType: contentType, ext: ext}, 0, ""
}

func readLimited(rd io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(rd, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errUploadTooLarge
	}
	return data, nil
}

// UploadDonationScreenshot stores a proof-of-payment image for a donation.
func (a *App) UploadDonationScreenshot(w http.ResponseWriter, r *http.Request) {
	img, status, msg := a.readImage(w, r)
	if img == nil {
		a.error(w, status, msg)
		return
	}
	key := fmt.Sprintf("donations/%s/%s.%s", a.currentUserID(r), uuid.NewString(), img.ext)
	url, err := a.Storage.Put(r.Context(), key, img.contentType, img.data)
	if err != nil {
		a.internalError(w, r, "Failed to store file", err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"key": key, "url": url})
}
