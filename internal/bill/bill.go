// Package bill defines the contract shared by the bill-extraction providers: the image payload,
// the extracted fields, the error taxonomy and the parsing of free-text model replies.
package bill

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

var (
	ErrNotConfigured     = errors.New("extraction provider not configured")
	ErrProvider          = errors.New("extraction provider request failed")
	ErrEmptyResponse     = errors.New("extraction provider returned no content")
	ErrMalformedResponse = errors.New("could not parse JSON from extraction reply")
	ErrUnsupportedImage  = errors.New("unsupported image type")
)

// Placeholder is the value sample env files ship with; it counts as unset.
const Placeholder = "YOUR_API_KEY"

// Configured reports whether every credential is set to something other than the placeholder.
func Configured(values ...string) bool {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || v == Placeholder {
			return false
		}
	}

	return true
}

// Image is a photographed bill.
type Image struct {
	Data     []byte
	MIMEType string
}

// Normalize fills in MIMEType by sniffing Data and rejects non-image payloads.
func (img Image) Normalize() (Image, error) {
	if len(img.Data) == 0 {
		return img, fmt.Errorf("%w: empty payload", ErrUnsupportedImage)
	}

	if img.MIMEType == "" {
		img.MIMEType = mimetype.Detect(img.Data).String()
	}

	mt, _, _ := strings.Cut(img.MIMEType, ";")
	img.MIMEType = strings.TrimSpace(mt)

	if !strings.HasPrefix(img.MIMEType, "image/") {
		return img, fmt.Errorf("%w: %s", ErrUnsupportedImage, img.MIMEType)
	}

	return img, nil
}

// Base64 returns the payload as standard base64 text.
func (img Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURL returns the payload as a data: URL.
func (img Image) DataURL() string {
	return "data:" + img.MIMEType + ";base64," + img.Base64()
}

// Fields are the untrusted values a provider read off a bill, after coercion.
type Fields struct {
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// FormData turns the fields into a submission form for the expense Service.
func (f Fields) FormData() expense.FormData {
	return expense.FormData{
		Title:       f.Title,
		Amount:      f.Amount,
		Description: f.Description,
		Category:    f.Category,
	}
}

// Prompt is the instruction sent alongside every bill image.
var Prompt = buildPrompt()

func buildPrompt() string {
	names := make([]string, len(expense.Categories))
	for i, c := range expense.Categories {
		names[i] = string(c)
	}

	vocabulary := strings.Join(names, ", ")

	return `Analyze this bill/receipt image and extract the following information. Respond with ONLY a valid JSON object in this exact format:
{
  "title": "Brief title of the expense (e.g., restaurant name, store name, service type)",
  "amount": "Total amount as a number without currency symbols (extract only the final total)",
  "description": "Brief description of items purchased or services rendered",
  "category": "Choose exactly one from: ` + vocabulary + `"
}

Important:
- Return ONLY the JSON object, no additional text
- For amount, extract only numbers (e.g., "125.50" not "₹125.50")
- Choose the most appropriate category from the list provided
- If you cannot read certain details clearly, use reasonable defaults based on what you can see`
}
