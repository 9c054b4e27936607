package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type transactionInput struct {
	Type     string `json:"type" validate:"required,transaction_type"`
	Amount   string `json:"amount" validate:"required,transaction_amount"`
	Category string `json:"category" validate:"required,transaction_category"`
}

type periodInput struct {
	Period string `json:"period" validate:"period"`
}

func TestTransactionValidationTags(t *testing.T) {
	v := GetValidator().GetValidate()

	valid := transactionInput{Type: "send", Amount: "25.50", Category: "food"}
	assert.NoError(t, v.Struct(valid))

	tests := []struct {
		name   string
		mutate func(*transactionInput)
	}{
		{"unknown type", func(in *transactionInput) { in.Type = "wire" }},
		{"zero amount", func(in *transactionInput) { in.Amount = "0" }},
		{"negative amount", func(in *transactionInput) { in.Amount = "-5" }},
		{"non-numeric amount", func(in *transactionInput) { in.Amount = "lots" }},
		{"too many decimal places", func(in *transactionInput) { in.Amount = "9.999" }},
		{"amount over maximum", func(in *transactionInput) { in.Amount = "1000000.01" }},
		{"unknown category", func(in *transactionInput) { in.Category = "gadgets" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			assert.Error(t, v.Struct(input))
		})
	}
}

func TestTransactionValidationTags_CaseInsensitive(t *testing.T) {
	v := GetValidator().GetValidate()

	input := transactionInput{Type: "SEND", Amount: "10", Category: "Food"}
	assert.NoError(t, v.Struct(input))
}

func TestPeriodValidationTag(t *testing.T) {
	v := GetValidator().GetValidate()

	for _, valid := range []string{"week", "month", "year", ""} {
		assert.NoError(t, v.Struct(periodInput{Period: valid}), valid)
	}
	assert.Error(t, v.Struct(periodInput{Period: "quarter"}))
}

func TestGetValidatorReturnsSingleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
