// Package validation gates request payloads before they reach a
// repository. Every check returns a Result: either the normalized value
// or the list of field violations.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"petcare-store/internal/apperr"
	"petcare-store/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PasswordSpecials are the symbols a password must draw at least one from
const PasswordSpecials = "@$!%*?&"

// MaxAmountDigits is the most significant digits a stored amount can carry
const MaxAmountDigits = 34

var (
	postalCodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	indexPattern      = regexp.MustCompile(`\[\d+\]`)

	engineOnce sync.Once
	engine     *validator.Validate
)

// Result is the outcome of a validation: Value when Violations is empty
type Result[T any] struct {
	Value      T
	Violations []apperr.Violation
}

// Valid reports whether no rule failed
func (r Result[T]) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns nil for a valid result and an apperr validation error otherwise
func (r Result[T]) Err() error {
	if r.Valid() {
		return nil
	}
	return apperr.Validation(r.Violations...)
}

// Messages maps an index-free field path to its violation message
type Messages map[string]string

func (m Messages) lookup(path string, fe validator.FieldError) string {
	if msg, ok := m[indexPattern.ReplaceAllString(path, "")]; ok {
		return msg
	}
	if fe != nil {
		return fmt.Sprintf("%s failed the %s rule", path, fe.Tag())
	}
	return fmt.Sprintf("Invalid value for %s", path)
}

func validate() *validator.Validate {
	engineOnce.Do(func() {
		engine = newEngine()
	})
	return engine
}

func newEngine() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Decimal fields are compared as floats by min/max/gte.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "objectid", func(fl validator.FieldLevel) bool {
		return models.IsValidID(fl.Field().String())
	})
	mustRegister(v, "postalcode", func(fl validator.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "paymentmethod", func(fl validator.FieldLevel) bool {
		return models.PaymentMethod(fl.Field().String()).Valid()
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	mustRegister(v, "password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// StrongPassword reports whether s has an ASCII lowercase letter, an
// ASCII uppercase letter, an ASCII digit and one of PasswordSpecials.
// Length is checked apart.
func StrongPassword(s string) bool {
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}

func check[T any](value T, messages Messages) Result[T] {
	err := validate().Struct(value)
	if err == nil {
		return Result[T]{Value: value}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Result[T]{Value: value, Violations: []apperr.Violation{
			apperr.FieldViolation("", err.Error()),
		}}
	}

	violations := make([]apperr.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fieldPath(fe.Namespace())
		violations = append(violations, apperr.FieldViolation(path, messages.lookup(path, fe)))
	}
	return Result[T]{Value: value, Violations: violations}
}

// amounts collects violations for decimals too precise to store. Decimal
// rules see a float64, so this runs after the struct rules.
type amounts struct {
	violations []apperr.Violation
}

func (a *amounts) check(path string, d *decimal.Decimal) {
	if d == nil || significantDigits(*d) <= MaxAmountDigits {
		return
	}
	a.violations = append(a.violations, apperr.FieldViolation(path,
		fmt.Sprintf("Amount must have at most %d significant digits", MaxAmountDigits)))
}

func significantDigits(d decimal.Decimal) int {
	digits := strings.TrimRight(new(big.Int).Abs(d.Coefficient()).String(), "0")
	if digits == "" {
		return 1
	}
	return len(digits)
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// ObjectID checks a path or query identifier
func ObjectID(path, id, message string) error {
	if models.IsValidID(id) {
		return nil
	}
	return apperr.Validation(apperr.FieldViolation(path, message))
}

// DecodeError turns a JSON body decoding failure into a validation error
func DecodeError(err error, messages Messages) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.Is(err, io.EOF):
		return apperr.Validation(apperr.FieldViolation("", "Request body is required"))
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperr.Validation(apperr.FieldViolation(typeErr.Field, messages.lookup(typeErr.Field, nil)))
	case errors.As(err, &syntaxErr):
		return apperr.Validation(apperr.FieldViolation("", "Malformed JSON body"))
	default:
		return apperr.Validation(apperr.FieldViolation("", fmt.Sprintf("Invalid request body: %v", err)))
	}
}
