package validation

import (
	"reflect"
	"strings"

	"koinsave/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

// singleton instance of the validator
var instance *Validator

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	if instance == nil {
		instance = NewValidator()
	}
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("transaction_amount", validateTransactionAmount)
	_ = v.RegisterValidation("transaction_category", validateTransactionCategory)
	_ = v.RegisterValidation("period", validatePeriod)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Custom validation functions

// validateTransactionType validates that transaction type is one of the allowed types
func validateTransactionType(fl validator.FieldLevel) bool {
	txType := strings.ToLower(fl.Field().String())
	validTypes := map[string]bool{
		models.TransactionTypeSend:    true,
		models.TransactionTypeReceive: true,
		models.TransactionTypeBills:   true,
		models.TransactionTypeSavings: true,
	}
	return validTypes[txType]
}

// validateTransactionAmount validates that an amount string parses as a
// positive decimal no larger than the maximum, with at most 2 decimal places
func validateTransactionAmount(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return false
	}
	if !amount.GreaterThan(decimal.Zero) {
		return false
	}
	if amount.GreaterThan(models.MaxTransactionAmount) {
		return false
	}
	return amount.Exponent() >= -2
}

// validateTransactionCategory validates against the fixed category set
func validateTransactionCategory(fl validator.FieldLevel) bool {
	return models.IsValidCategory(strings.ToLower(fl.Field().String()))
}

// validatePeriod validates a summary period query parameter
func validatePeriod(fl validator.FieldLevel) bool {
	_, err := models.ParsePeriod(fl.Field().String())
	return err == nil
}
