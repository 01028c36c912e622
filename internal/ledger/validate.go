package ledger

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/telecomsupply/internal/models"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("invalid invoice")

// ValidationError lists the draft fields that failed validation, by their
// JSON names. No write is attempted when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

// Is makes errors.Is(err, ErrValidation) work.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Draft holds the editable fields of an invoice form.
type Draft struct {
	Concept  string          `json:"concept" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	DueDate  models.Date     `json:"due_date" validate:"required"`
	Category string          `json:"category"`

	// ClientName is the denormalized owner name. Filled from the owning
	// client when empty.
	ClientName string `json:"client_name" validate:"required"`

	// Status and PaidDate are only honoured by UpdateInvoice. An empty
	// Status keeps the stored one.
	Status   models.Status `json:"status" validate:"omitempty,oneof=pagado por_vencer vencido"`
	PaidDate *models.Date  `json:"paid_date"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d := field.Interface().(decimal.Decimal)
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(models.Date).String()
	}, models.Date{})

	return v
}

// Validate trims the draft's text fields and checks it.
func (d *Draft) Validate() error {
	d.Concept = strings.TrimSpace(d.Concept)
	d.ClientName = strings.TrimSpace(d.ClientName)
	d.Category = strings.TrimSpace(d.Category)

	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, fe.Field())
	}
	return out
}
