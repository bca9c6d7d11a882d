package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"finance-app/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("category_type", validateCategoryType)
	_ = v.RegisterValidation("keyword", validateKeyword)
	_ = v.RegisterValidation("currency_code", validateCurrencyCode)
	_ = v.RegisterValidation("direction", validateDirection)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct using the registered rules
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Custom validation functions

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// validateCategoryType accepts income and expense
func validateCategoryType(fl validator.FieldLevel) bool {
	return models.IsValidCategoryType(fl.Field().String())
}

// validateKeyword checks trimmed length, 1 to 100 characters
func validateKeyword(fl validator.FieldLevel) bool {
	return models.ValidateKeyword(fl.Field().String()) == nil
}

// validateCurrencyCode validates a three letter ISO 4217 style code
// Empty values pass so the field can be optional; combine with required otherwise
func validateCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true
	}
	return currencyPattern.MatchString(code)
}

// validateDirection accepts the mapped transaction directions
func validateDirection(fl validator.FieldLevel) bool {
	return models.IsValidDirection(fl.Field().String())
}
