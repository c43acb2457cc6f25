package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
)

var (
	phoneTag            = "phone"
	studentStatusTag    = "student_status"
	employmentStatusTag = "employment_status"
	withinBalanceTag    = "within_balance"

	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// FieldError is one translated validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports client side validation failures. No network call is
// made when a payload fails validation.
type ValidationError struct {
	Fields []FieldError
	Cause  error
}

// Unwrap exposes the sentinel behind upload failures.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.UserMessage()
}

// UserMessage returns the first failure, which is what the forms display.
func (e *ValidationError) UserMessage() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	return e.Fields[0].Message
}

// FieldMap indexes the failures by field name.
func (e *ValidationError) FieldMap() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, field := range e.Fields {
		if _, exists := out[field.Field]; !exists {
			out[field.Field] = field.Message
		}
	}
	return out
}

// Validation validates form payloads and translates failures into English.
type Validation struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidation builds the validator with the console's custom tags.
func NewValidation() *Validation {
	validate := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation(studentStatusTag, func(fl validator.FieldLevel) bool {
		_, ok := models.ParseStudentStatus(fl.Field().String())
		return ok
	})
	_ = validate.RegisterValidation(employmentStatusTag, func(fl validator.FieldLevel) bool {
		for _, status := range models.EmploymentStatuses {
			if string(status) == fl.Field().String() {
				return true
			}
		}
		return false
	})
	validate.RegisterStructValidation(paymentStructValidation, dto.PaymentForm{})

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{phoneTag, studentStatusTag, employmentStatusTag, withinBalanceTag} {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}

	return &Validation{validate: validate, translator: translator}
}

// Struct validates payload and returns a *ValidationError on failure.
func (v *Validation) Struct(payload interface{}) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	result := &ValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		result.Fields = append(result.Fields, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fe.Translate(v.translator),
		})
	}
	return result
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case phoneTag:
		return fe.Field() + " must be a valid phone number"
	case studentStatusTag:
		return fe.Field() + " must be a valid student status"
	case employmentStatusTag:
		return fe.Field() + " must be a valid employment status"
	case withinBalanceTag:
		return "amount cannot exceed the remaining balance"
	default:
		return fe.Error()
	}
}

func paymentStructValidation(sl validator.StructLevel) {
	payment, ok := sl.Current().Interface().(dto.PaymentForm)
	if !ok {
		return
	}
	if payment.Amount > 0 && payment.Amount > payment.Remaining {
		sl.ReportError(payment.Amount, "amount", "Amount", withinBalanceTag, "")
	}
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.IndexByte(namespace, '.'); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
