package notify

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"pawsconnect/internal/domain"
)

// Message is the rendered text of one notification.
type Message struct {
	Title string
	Body  string
	HTML  string
}

type template struct {
	title string
	body  string
	// args lists the params read, in order, for body.
	args []string
}

var templates = map[language.Tag]map[domain.EventKind]template{
	language.English: {
		domain.EventAdoptionRejected:  {"Adoption application update", "Your application to adopt %s was not approved. Reason: %s", []string{"pet", "reason"}},
		domain.EventAdoptionApproved:  {"Adoption approved!", "Your application to adopt %s has been approved. We will contact you about the next steps.", []string{"pet"}},
		domain.EventUserSemiVerified:  {"Account semi-verified", "Hi %s, your account is semi-verified. You can now join the community forums.", []string{"name"}},
		domain.EventUserVerified:      {"Account verified", "Hi %s, your account is now fully verified.", []string{"name"}},
		domain.EventUserRejected:      {"Verification not approved", "Hi %s, your verification was not approved. Reason: %s", []string{"name", "reason"}},
		domain.EventDonationReceived:  {"New donation", "%s received a donation of %v.", []string{"campaign", "amount"}},
		domain.EventCampaignCompleted: {"Campaign goal reached", "%s has reached its goal with %v raised.", []string{"campaign", "amount"}},
	},
	language.Filipino: {
		domain.EventAdoptionRejected:  {"Update sa iyong aplikasyon", "Hindi naaprubahan ang iyong aplikasyon na ampunin si %s. Dahilan: %s", []string{"pet", "reason"}},
		domain.EventAdoptionApproved:  {"Naaprubahan ang pag-ampon!", "Naaprubahan ang iyong aplikasyon na ampunin si %s. Makikipag-ugnayan kami para sa susunod na hakbang.", []string{"pet"}},
		domain.EventUserSemiVerified:  {"Semi-verified na ang account", "Hi %s, semi-verified na ang iyong account. Maaari ka nang sumali sa mga forum ng komunidad.", []string{"name"}},
		domain.EventUserVerified:      {"Verified na ang account", "Hi %s, ganap nang verified ang iyong account.", []string{"name"}},
		domain.EventUserRejected:      {"Hindi naaprubahan ang verification", "Hi %s, hindi naaprubahan ang iyong verification. Dahilan: %s", []string{"name", "reason"}},
		domain.EventDonationReceived:  {"Bagong donasyon", "Nakatanggap ang %s ng donasyong %v.", []string{"campaign", "amount"}},
		domain.EventCampaignCompleted: {"Naabot ang layunin ng kampanya", "Naabot ng %s ang layunin nito na may %v na nalikom.", []string{"campaign", "amount"}},
	},
}

// SupportedLocales lists the languages notifications are written in. The
// first entry is the fallback.
var SupportedLocales = []language.Tag{language.English, language.Filipino}

// Donation amounts are always in Philippine pesos.
var php = currency.MustParseISO("PHP")

// Renderer turns outbox events into localized text.
type Renderer struct {
	catalog  catalog.Catalog
	matcher  language.Matcher
	fallback language.Tag
}

// NewRenderer builds the message catalog. defaultLocale applies to users
// without a usable locale.
func NewRenderer(defaultLocale string) *Renderer {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, kinds := range templates {
		for kind, t := range kinds {
			_ = b.SetString(tag, titleKey(kind), t.title)
			_ = b.SetString(tag, bodyKey(kind), t.body)
		}
	}
	r := &Renderer{catalog: b, matcher: language.NewMatcher(SupportedLocales), fallback: language.English}
	if tag, ok := r.match(defaultLocale); ok {
		r.fallback = tag
	}
	return r
}

func titleKey(kind domain.EventKind) string { return string(kind) + ".title" }
func bodyKey(kind domain.EventKind) string  { return string(kind) + ".body" }

func (r *Renderer) match(locale string) (language.Tag, bool) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.Und, false
	}
	requested, err := language.Parse(locale)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := r.matcher.Match(requested)
	if conf == language.No {
		return language.Und, false
	}
	return SupportedLocales[idx], true
}

// Render produces the text for kind in locale using params as stored on the
// outbox job.
func (r *Renderer) Render(kind domain.EventKind, locale string, params json.RawMessage) (Message, error) {
	tag, ok := r.match(locale)
	if !ok {
		tag = r.fallback
	}
	t, ok := templates[tag][kind]
	if !ok {
		return Message{}, fmt.Errorf("no template for %s", kind)
	}

	values := map[string]any{}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &values); err != nil {
			return Message{}, fmt.Errorf("decode %s params: %w", kind, err)
		}
	}

	p := message.NewPrinter(tag, message.Catalog(r.catalog))
	args := make([]any, 0, len(t.args))
	for _, name := range t.args {
		args = append(args, r.param(name, values[name]))
	}

	msg := Message{
		Title: p.Sprintf(titleKey(kind)),
		Body:  p.Sprintf(bodyKey(kind), args...),
	}
	msg.HTML = "<h2>" + html.EscapeString(msg.Title) + "</h2>\n<p>" + html.EscapeString(msg.Body) + "</p>"
	return msg, nil
}

func (r *Renderer) param(name string, v any) any {
	s := ""
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		s = decimal.NewFromFloat(val).String()
	case nil:
	default:
		s = fmt.Sprint(val)
	}
	if name == "amount" {
		if d, err := decimal.NewFromString(s); err == nil {
			return currency.Symbol(php.Amount(d.InexactFloat64()))
		}
	}
	if s == "" {
		return "-"
	}
	return s
}
