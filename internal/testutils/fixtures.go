package testutils

import (
	"fmt"

	"vendorhub/models"
)

func CreateTestInvoice() *models.InvoiceData {
	subtotal := models.NewAmount(1000)
	taxAmount := models.NewAmount(180)
	taxRate := 18.0

	return &models.InvoiceData{
		InvoiceNumber:    "INV-2024-0042",
		SubscriptionID:   42,
		InvoiceDate:      "2024-03-15T10:30:00.000Z",
		SubscriptionDate: "2024-03-15",
		StartDate:        "2024-03-15",
		EndDate:          "2024-04-15",
		VendorName:       "Raipur Handlooms",
		VendorEmail:      "sales@raipurhandlooms.in",
		VendorPhone:      "+91 98260 12345",
		VendorAddress:    "12 Station Road, Pandri",
		VendorCity:       "Raipur",
		VendorState:      "Chhattisgarh",
		VendorPincode:    "492001",
		VendorGST:        "22AAAAA0000A1Z5",
		PlanName:         "Gold Seller",
		PlanDescription:  "Priority listing and analytics for growing marketplace sellers",
		Duration:         1,
		DurationType:     models.DurationMonths,
		Features:         []string{"Unlimited products", "Priority support", "Sales analytics"},
		Amount:           models.NewAmount(1180),
		Subtotal:         &subtotal,
		TaxRate:          &taxRate,
		TaxAmount:        &taxAmount,
		PaymentID:        "pay_N8x2kQ",
		OrderID:          "order_N8x1zP",
		PaymentMethod:    "upi",
		Status:           models.SubscriptionActive,
		AutoRenew:        true,
		Currency:         "INR",
	}
}

// CreateMinimalInvoice has every optional field empty.
func CreateMinimalInvoice() *models.InvoiceData {
	return &models.InvoiceData{
		InvoiceNumber:    "INV-2024-0007",
		SubscriptionID:   7,
		InvoiceDate:      "2024-01-01",
		SubscriptionDate: "2024-01-01",
		StartDate:        "2024-01-01",
		EndDate:          "2024-12-31",
		VendorName:       "Bastar Crafts",
		PlanName:         "Basic",
		Duration:         1,
		DurationType:     models.DurationYears,
		Features:         []string{},
		Amount:           models.ParseAmount("1234.5"),
		PaymentID:        "pay_basic",
		PaymentMethod:    "card",
		Status:           models.SubscriptionPending,
	}
}

// CreateLongInvoice produces an invoice whose sections do not fit on one page.
func CreateLongInvoice(features int) *models.InvoiceData {
	invoice := CreateTestInvoice()
	invoice.PlanDescription = ""
	for i := 0; i < 12; i++ {
		invoice.PlanDescription += "Includes storefront customisation, bulk catalogue upload and regional promotions. "
	}
	invoice.Features = nil
	for i := 1; i <= features; i++ {
		invoice.Features = append(invoice.Features, fmt.Sprintf("Feature number %d with a reasonably descriptive label", i))
	}
	return invoice
}
