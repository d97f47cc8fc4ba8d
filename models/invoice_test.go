package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		valid bool
	}{
		{"number", `1180`, "1180.00", true},
		{"decimal number", `1234.5`, "1234.50", true},
		{"numeric string", `"999.99"`, "999.99", true},
		{"padded string", `" 42 "`, "42.00", true},
		{"malformed string", `"12abc"`, "NaN", false},
		{"null", `null`, "NaN", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tt.input), &a))
			assert.Equal(t, tt.valid, a.Valid)
			assert.Equal(t, tt.want, a.Fixed(2))
		})
	}
}

func TestAmount_MarshalKeepsMalformedInput(t *testing.T) {
	data, err := json.Marshal(ParseAmount("12abc"))
	require.NoError(t, err)
	assert.Equal(t, `"12abc"`, string(data))

	data, err = json.Marshal(NewAmount(1180))
	require.NoError(t, err)
	assert.Equal(t, `1180`, string(data))
}

func TestInvoiceData_CurrencyCode(t *testing.T) {
	assert.Equal(t, "INR", (&InvoiceData{}).CurrencyCode())
	assert.Equal(t, "USD", (&InvoiceData{Currency: " usd "}).CurrencyCode())
}

func TestInvoiceData_TotalsConsistent(t *testing.T) {
	subtotal, tax := NewAmount(1000), NewAmount(180)

	assert.True(t, (&InvoiceData{Amount: NewAmount(1180), Subtotal: &subtotal, TaxAmount: &tax}).TotalsConsistent())
	assert.False(t, (&InvoiceData{Amount: NewAmount(1200), Subtotal: &subtotal, TaxAmount: &tax}).TotalsConsistent())
	assert.True(t, (&InvoiceData{Amount: NewAmount(1200)}).TotalsConsistent())
	assert.False(t, (&InvoiceData{Amount: ParseAmount("x"), Subtotal: &subtotal, TaxAmount: &tax}).TotalsConsistent())
}

func TestInvoiceData_Validate(t *testing.T) {
	valid := func() InvoiceData {
		return InvoiceData{
			InvoiceNumber: "INV-2024-0042",
			Duration:      12,
			DurationType:  DurationMonths,
			Status:        SubscriptionActive,
			StartDate:     "2024-03-15",
			EndDate:       "2025-03-14",
		}
	}

	tests := []struct {
		name    string
		mutate  func(d *InvoiceData)
		wantErr string
	}{
		{"valid", func(d *InvoiceData) {}, ""},
		{"missing invoice number", func(d *InvoiceData) { d.InvoiceNumber = " " }, "invoiceNumber is required"},
		{"negative duration", func(d *InvoiceData) { d.Duration = -1 }, "duration must not be negative"},
		{"unknown unit", func(d *InvoiceData) { d.DurationType = "fortnights" }, `unsupported durationType "fortnights"`},
		{"unknown status", func(d *InvoiceData) { d.Status = "paused" }, `unsupported status "paused"`},
		{"inverted dates", func(d *InvoiceData) { d.StartDate, d.EndDate = d.EndDate, d.StartDate }, "startDate must not be after endDate"},
		{"unparseable dates are not compared", func(d *InvoiceData) { d.StartDate = "soon" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestParseDate(t *testing.T) {
	for _, value := range []string{"2024-03-15", "2024-03-15T10:30:00", "2024-03-15T10:30:00Z", "2024-03-15T10:30:00.123+05:30"} {
		parsed, ok := ParseDate(value)
		assert.True(t, ok, value)
		assert.Equal(t, 2024, parsed.Year())
	}

	_, ok := ParseDate("15/03/2024")
	assert.False(t, ok)
}
