package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"pawsconnect/internal/domain"
)

const defaultModel = "gemini-2.5-flash"

const receiptPrompt = `You read screenshots of Philippine e-wallet and bank transfer receipts (GCash, Maya, InstaPay, PESONet).
Return one JSON object with exactly these fields:
  "amount": the transferred amount as a number without currency symbols, or null,
  "reference_number": the transaction reference number as a string, or "",
  "donated_at": the transaction date and time in RFC 3339 (assume Asia/Manila, +08:00), or "",
  "sender_name": the sender's name as printed, or "",
  "confidence": a number from 0 to 1 for how sure you are that this is a valid receipt.
Do not add any other text.`

// Receipt is what could be read from a donation receipt image.
type Receipt struct {
	Amount          *decimal.Decimal `json:"amount"`
	ReferenceNumber string           `json:"reference_number"`
	DonatedAt       *time.Time       `json:"donated_at"`
	SenderName      string           `json:"sender_name"`
	Confidence      float64          `json:"confidence"`
}

// ReceiptExtractor reads donation receipts.
type ReceiptExtractor interface {
	ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*Receipt, error)
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini extracts receipts with a Gemini vision model.
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini builds an extractor. Without an API key it returns an extractor
// that reports domain.ErrProviderUnavailable.
func NewGemini(ctx context.Context, apiKey, model string) (ReceiptExtractor, error) {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if strings.TrimSpace(apiKey) == "" {
		return unavailable{}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("vision: create gemini client: %w", err)
	}
	return &Gemini{models: client.Models, model: model}, nil
}

// SupportedMediaType reports whether mimeType is an accepted image type and
// returns its file extension.
func SupportedMediaType(mimeType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png":
		return "png", true
	case "image/jpeg", "image/jpg":
		return "jpg", true
	case "image/webp":
		return "webp", true
	}
	return "", false
}

func (g *Gemini) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*Receipt, error) {
	if _, ok := SupportedMediaType(mimeType); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMediaType, mimeType)
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(receiptPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", domain.ErrProviderFailure, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: gemini returned no response", domain.ErrProviderFailure)
	}
	return parseReceipt(resp.Text())
}

type rawReceipt struct {
	Amount          json.RawMessage `json:"amount"`
	ReferenceNumber string          `json:"reference_number"`
	DonatedAt       string          `json:"donated_at"`
	SenderName      string          `json:"sender_name"`
	Confidence      float64         `json:"confidence"`
}

var manila = time.FixedZone("Asia/Manila", 8*60*60)

func parseReceipt(text string) (*Receipt, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw rawReceipt
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: unparseable model output: %v", domain.ErrProviderFailure, err)
	}

	out := &Receipt{
		ReferenceNumber: strings.ReplaceAll(strings.TrimSpace(raw.ReferenceNumber), " ", ""),
		SenderName:      strings.TrimSpace(raw.SenderName),
		Confidence:      clamp01(raw.Confidence),
	}
	if amount, ok := parseAmount(raw.Amount); ok {
		out.Amount = &amount
	}
	if raw.DonatedAt != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.ParseInLocation(layout, raw.DonatedAt, manila); err == nil {
				out.DonatedAt = &t
				break
			}
		}
	}
	return out, nil
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Decimal{}, false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		s = str
	}
	s = strings.NewReplacer("PHP", "", "₱", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d.Round(2), true
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

type unavailable struct{}

func (unavailable) ExtractReceipt(context.Context, []byte, string) (*Receipt, error) {
	return nil, fmt.Errorf("receipt ocr: %w", domain.ErrProviderUnavailable)
}

// IsUnavailable reports whether err means no extractor is configured.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrProviderUnavailable)
}
