package app

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"booking_relay/internal/domain"
	"booking_relay/internal/i18n"
)

const maxNameRunes = 100

// Reason is a failed field check. Its text is the English message; Key
// selects the translation.
type Reason struct{ Key string }

func (r *Reason) Error() string { return i18n.T(i18n.LangEN, r.Key) }

func reason(key string) error { return &Reason{Key: key} }

// nameScripts are the scripts used by the site's locales (en, ru, hy).
var nameScripts = []*unicode.RangeTable{unicode.Latin, unicode.Cyrillic, unicode.Armenian}

func isNameRune(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	return unicode.IsLetter(r) && unicode.In(r, nameScripts...)
}

// ValidateName accepts letters of the Latin, Cyrillic and Armenian scripts
// and spaces. Digits and symbols are rejected.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return reason(i18n.NameRequired)
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		return reason(i18n.NameTooLong)
	}
	for _, r := range name {
		if !isNameRune(r) {
			return reason(i18n.NameInvalid)
		}
	}
	return nil
}

func isPhoneRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == ' ', r == '+', r == '-', r == '(', r == ')':
		return true
	}
	return false
}

// ValidatePhone accepts digits, spaces and + - ( ).
func ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return reason(i18n.PhoneRequired)
	}
	for _, r := range phone {
		if !isPhoneRune(r) {
			return reason(i18n.PhoneInvalid)
		}
	}
	return nil
}

func ValidateActionType(s string) error {
	if s == "" {
		return reason(i18n.ActionRequired)
	}
	if _, ok := domain.ParseActionType(s); !ok {
		return reason(i18n.ActionInvalid)
	}
	return nil
}

func isCatalogID(s string) bool {
	if s == "" {
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

var isoLayouts = []string{"2006-01-02", time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func isISODate(s string) bool {
	for _, l := range isoLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}

// Validator checks a whole BookingRequest and reports one error per field.
type Validator struct{ v *validator.Validate }

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if ref, ok := f.Interface().(domain.ItemRef); ok {
			return ref.String()
		}
		return nil
	}, domain.ItemRef{})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("personname", func(fl validator.FieldLevel) bool { return ValidateName(fl.Field().String()) == nil })
	must("phone", func(fl validator.FieldLevel) bool { return ValidatePhone(fl.Field().String()) == nil })
	must("actiontype", func(fl validator.FieldLevel) bool { return ValidateActionType(fl.Field().String()) == nil })
	must("catalogid", func(fl validator.FieldLevel) bool { return isCatalogID(fl.Field().String()) })
	must("isodate", func(fl validator.FieldLevel) bool { return isISODate(fl.Field().String()) })

	return &Validator{v: v}
}

// Validate returns nil when req is acceptable. Messages are rendered in lang.
func (val *Validator) Validate(req domain.BookingRequest, lang string) domain.ValidationErrors {
	err := val.v.Struct(req)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return domain.ValidationErrors{{Field: "body", Message: i18n.T(lang, i18n.BodyInvalid)}}
	}
	out := make(domain.ValidationErrors, 0, len(fes))
	for _, fe := range fes {
		out = append(out, domain.FieldError{
			Field:   fe.Field(),
			Message: i18n.T(lang, reasonKey(req, fe)),
		})
	}
	return out
}

func reasonKey(req domain.BookingRequest, fe validator.FieldError) string {
	var r *Reason
	switch fe.Field() {
	case "fullName":
		if errors.As(ValidateName(req.FullName), &r) {
			return r.Key
		}
		return i18n.NameRequired
	case "phoneNumber":
		if errors.As(ValidatePhone(req.PhoneNumber), &r) {
			return r.Key
		}
		return i18n.PhoneRequired
	case "selectedActionType":
		if errors.As(ValidateActionType(req.ActionType), &r) {
			return r.Key
		}
		return i18n.ActionRequired
	case "selectedRentItem", "selectedSaleItem":
		return i18n.ItemIDInvalid
	case "productName":
		return i18n.ProductNameTooLong
	case "rentalStartDate", "rentalEndDate":
		return i18n.DateInvalid
	}
	return i18n.BodyInvalid
}
