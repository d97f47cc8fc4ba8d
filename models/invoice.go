package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type SubscriptionStatus string

// Constants for subscription status
const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionPending   SubscriptionStatus = "pending"
)

type DurationUnit string

const (
	DurationDays   DurationUnit = "days"
	DurationWeeks  DurationUnit = "weeks"
	DurationMonths DurationUnit = "months"
	DurationYears  DurationUnit = "years"
)

// DefaultCurrency is used for display when an invoice carries no currency code.
const DefaultCurrency = "INR"

// InvoiceData is one subscription invoice snapshot taken at generation time.
// Vendor and plan fields are copies, not live references.
type InvoiceData struct {
	InvoiceNumber  string `json:"invoiceNumber"`
	SubscriptionID int64  `json:"subscriptionId"`

	InvoiceDate      string `json:"invoiceDate"`
	SubscriptionDate string `json:"subscriptionDate"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`

	VendorName    string `json:"vendorName"`
	VendorEmail   string `json:"vendorEmail,omitempty"`
	VendorPhone   string `json:"vendorPhone,omitempty"`
	VendorAddress string `json:"vendorAddress,omitempty"`
	VendorCity    string `json:"vendorCity,omitempty"`
	VendorState   string `json:"vendorState,omitempty"`
	VendorPincode string `json:"vendorPincode,omitempty"`
	VendorGST     string `json:"vendorGst,omitempty"`

	PlanName        string       `json:"planName"`
	PlanDescription string       `json:"planDescription,omitempty"`
	Duration        int          `json:"duration"`
	DurationType    DurationUnit `json:"durationType"`
	Features        []string     `json:"features"`

	Amount    Amount   `json:"amount"`
	Subtotal  *Amount  `json:"subtotal,omitempty"`
	TaxRate   *float64 `json:"taxRate,omitempty"`
	TaxAmount *Amount  `json:"taxAmount,omitempty"`

	PaymentID     string             `json:"paymentId"`
	OrderID       string             `json:"orderId,omitempty"`
	PaymentMethod string             `json:"paymentMethod"`
	Status        SubscriptionStatus `json:"status"`
	AutoRenew     bool               `json:"autoRenew"`

	Currency string `json:"currency,omitempty"`
}

// CurrencyCode returns the ISO code to display, falling back to INR.
func (d *InvoiceData) CurrencyCode() string {
	code := strings.ToUpper(strings.TrimSpace(d.Currency))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// TotalsConsistent reports whether amount == subtotal + taxAmount. Invoices
// without a subtotal or tax amount are considered consistent.
func (d *InvoiceData) TotalsConsistent() bool {
	if d.Subtotal == nil || d.TaxAmount == nil {
		return true
	}
	if !d.Amount.Valid || !d.Subtotal.Valid || !d.TaxAmount.Valid {
		return false
	}
	return d.Subtotal.Value.Add(d.TaxAmount.Value).Equal(d.Amount.Value)
}

// Validate checks the structural rules a caller must guarantee before an
// invoice is rendered from request input.
func (d *InvoiceData) Validate() error {
	if strings.TrimSpace(d.InvoiceNumber) == "" {
		return errors.New("invoiceNumber is required")
	}
	if d.Duration < 0 {
		return errors.New("duration must not be negative")
	}
	switch d.DurationType {
	case "", DurationDays, DurationWeeks, DurationMonths, DurationYears:
	default:
		return fmt.Errorf("unsupported durationType %q", d.DurationType)
	}
	switch d.Status {
	case "", SubscriptionActive, SubscriptionExpired, SubscriptionCancelled, SubscriptionPending:
	default:
		return fmt.Errorf("unsupported status %q", d.Status)
	}
	start, okStart := ParseDate(d.StartDate)
	end, okEnd := ParseDate(d.EndDate)
	if okStart && okEnd && start.After(end) {
		return errors.New("startDate must not be after endDate")
	}
	return nil
}

// InvoiceSnapshot is the stored copy of the first rendering of an invoice.
type InvoiceSnapshot struct {
	ID             string    `json:"id"`
	InvoiceNumber  string    `json:"invoice_number"`
	SubscriptionID int64     `json:"subscription_id"`
	Payload        []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate accepts the ISO date forms the backend emits.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
