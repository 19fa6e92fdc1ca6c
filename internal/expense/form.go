package expense

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FormData is what the submission form hands to the Service.
type FormData struct {
	Title       string `json:"title" validate:"required"`
	Amount      string `json:"amount" validate:"required,numeric"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	// Date is set by imports only; the zero value means "now".
	Date time.Time `json:"-"`
}

// Update carries the fields to merge into an existing expense. Nil fields are left untouched.
type Update struct {
	Title       *string
	Amount      *decimal.Decimal
	Description *string
	Category    *Category
	Date        *time.Time
	ImageURL    *string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate enforces the submission contract: a non-blank title and a numeric amount.
func (f FormData) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Amount = strings.TrimSpace(f.Amount)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating form: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "numeric":
			msgs = append(msgs, fe.Field()+" must be a number")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}

	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, ", "))
}
