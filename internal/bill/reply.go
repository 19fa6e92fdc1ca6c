package bill

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

// DefaultTitle is used when the reply carries no title.
const DefaultTitle = "Expense"

// ParseReply pulls the first JSON object out of a model's free-text reply and coerces it.
func ParseReply(content string) (Fields, error) {
	raw, err := extractObject(content)
	if err != nil {
		return Fields{}, err
	}

	// Numbers stay as their literal text so long amounts keep every digit.
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return Fields{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Fields{}, fmt.Errorf("%w: trailing data after object", ErrMalformedResponse)
	}

	return Coerce(values), nil
}

// extractObject strips markdown fences and returns the span from the first '{' to the last '}'.
func extractObject(content string) (string, error) {
	cleaned := stripFences(strings.TrimSpace(content))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")

	if start < 0 || end < start {
		return "", ErrMalformedResponse
	}

	return cleaned[start : end+1], nil
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// Coerce applies the field defaults every provider shares.
func Coerce(values map[string]any) Fields {
	title := strings.TrimSpace(stringValue(values["title"]))
	if title == "" {
		title = DefaultTitle
	}

	return Fields{
		Title:       title,
		Amount:      CoerceAmount(stringValue(values["amount"])),
		Description: stringValue(values["description"]),
		Category:    string(expense.ParseCategory(stringValue(values["category"]))),
	}
}

// CoerceAmount keeps only digits, '.' and '-', falling back to "0" when nothing numeric remains.
func CoerceAmount(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}

		return -1
	}, s)

	if _, err := decimal.NewFromString(cleaned); err != nil {
		return "0"
	}

	return cleaned
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
