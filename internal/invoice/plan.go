package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"vendorhub/models"
)

type SectionKind string

const (
	SectionDetails  SectionKind = "details"
	SectionVendor   SectionKind = "vendor"
	SectionPlan     SectionKind = "plan"
	SectionFeatures SectionKind = "features"
	SectionPayment  SectionKind = "payment"
	SectionTotal    SectionKind = "total"
	SectionFooter   SectionKind = "footer"
)

// Row is one label/value line of a section. Rows with an empty Label are
// rendered as a single value line.
type Row struct {
	Label    string
	Value    string
	Raw      string // machine-readable value for money rows
	Emphasis bool
	Wrap     bool
	Bullet   bool
	Money    bool
}

type Section struct {
	Kind  SectionKind
	Title string
	Rows  []Row
}

// Plan is the ordered, renderer-independent description of an invoice. Both
// the PDF layout engine and the HTML view are driven by it, so the rules for
// which optional fields appear live only in BuildPlan.
type Plan struct {
	Brand         string
	Subtitle      string
	InvoiceNumber string
	Currency      string
	Sections      []Section
}

// Formatter supplies renderer-specific value formatting.
type Formatter interface {
	Currency(amount models.Amount, code string) string
	Date(value string) string
}

// Branding carries the fixed texts of the header and footer.
type Branding struct {
	Name         string
	Subtitle     string
	SupportEmail string
	Color        string
}

func (b Branding) withDefaults() Branding {
	if b.Name == "" {
		b.Name = "VendorHub Marketplace"
	}
	if b.Subtitle == "" {
		b.Subtitle = "Subscription Invoice"
	}
	if b.SupportEmail == "" {
		b.SupportEmail = "support@vendorhub.in"
	}
	if b.Color == "" {
		b.Color = "#4F46E5"
	}
	return b
}

// BuildPlan lays out the sections of an invoice in display order.
func BuildPlan(d *models.InvoiceData, brand Branding, f Formatter) Plan {
	brand = brand.withDefaults()
	code := d.CurrencyCode()

	plan := Plan{
		Brand:         brand.Name,
		Subtitle:      brand.Subtitle,
		InvoiceNumber: d.InvoiceNumber,
		Currency:      code,
	}

	plan.Sections = append(plan.Sections, Section{
		Kind:  SectionDetails,
		Title: "Invoice Details",
		Rows: []Row{
			{Label: "Invoice Date", Value: f.Date(d.InvoiceDate)},
			{Label: "Subscription ID", Value: "#" + strconv.FormatInt(d.SubscriptionID, 10)},
			{Label: "Subscription Date", Value: f.Date(d.SubscriptionDate)},
			{Label: "Status", Value: Capitalize(string(d.Status))},
		},
	})

	vendor := Section{Kind: SectionVendor, Title: "Billed To"}
	vendor.Rows = append(vendor.Rows, Row{Value: d.VendorName, Emphasis: true})
	vendor.Rows = appendIf(vendor.Rows, "Email", d.VendorEmail, false)
	vendor.Rows = appendIf(vendor.Rows, "Phone", d.VendorPhone, false)
	vendor.Rows = appendIf(vendor.Rows, "Address", d.VendorAddress, true)
	vendor.Rows = appendIf(vendor.Rows, "City", cityLine(d), false)
	vendor.Rows = appendIf(vendor.Rows, "GSTIN", d.VendorGST, false)
	plan.Sections = append(plan.Sections, vendor)

	sub := Section{Kind: SectionPlan, Title: "Subscription Details"}
	sub.Rows = append(sub.Rows, Row{Label: "Plan", Value: d.PlanName, Wrap: true})
	sub.Rows = appendIf(sub.Rows, "Description", d.PlanDescription, true)
	sub.Rows = appendIf(sub.Rows, "Duration", durationText(d), false)
	sub.Rows = append(sub.Rows,
		Row{Label: "Start Date", Value: f.Date(d.StartDate)},
		Row{Label: "End Date", Value: f.Date(d.EndDate)},
		Row{Label: "Auto Renew", Value: yesNo(d.AutoRenew)},
	)
	plan.Sections = append(plan.Sections, sub)

	if features := nonEmpty(d.Features); len(features) > 0 {
		section := Section{Kind: SectionFeatures, Title: "Plan Features"}
		for _, feature := range features {
			section.Rows = append(section.Rows, Row{Value: feature, Bullet: true, Wrap: true})
		}
		plan.Sections = append(plan.Sections, section)
	}

	payment := Section{Kind: SectionPayment, Title: "Payment Information"}
	payment.Rows = append(payment.Rows,
		Row{Label: "Payment Method", Value: Capitalize(d.PaymentMethod)},
		Row{Label: "Payment ID", Value: d.PaymentID},
	)
	payment.Rows = appendIf(payment.Rows, "Order ID", d.OrderID, false)
	plan.Sections = append(plan.Sections, payment)

	total := Section{Kind: SectionTotal}
	if d.Subtotal != nil {
		total.Rows = append(total.Rows, moneyRow("Subtotal", *d.Subtotal, code, f, false))
	}
	if d.TaxAmount != nil {
		label := "Tax"
		if d.TaxRate != nil {
			label = fmt.Sprintf("GST (%s%%)", strconv.FormatFloat(*d.TaxRate, 'f', -1, 64))
		}
		total.Rows = append(total.Rows, moneyRow(label, *d.TaxAmount, code, f, false))
	}
	total.Rows = append(total.Rows, moneyRow("Total Amount", d.Amount, code, f, true))
	plan.Sections = append(plan.Sections, total)

	plan.Sections = append(plan.Sections, Section{
		Kind: SectionFooter,
		Rows: []Row{
			{Value: "Thank you for your business!"},
			{Value: "For any queries, contact " + brand.SupportEmail},
		},
	})

	return plan
}

// Section returns the first section of the given kind.
func (p Plan) Section(kind SectionKind) (Section, bool) {
	for _, s := range p.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

func moneyRow(label string, amount models.Amount, code string, f Formatter, emphasis bool) Row {
	return Row{
		Label:    label,
		Value:    f.Currency(amount, code),
		Raw:      amount.Fixed(2),
		Money:    true,
		Emphasis: emphasis,
	}
}

func appendIf(rows []Row, label, value string, wrap bool) []Row {
	if strings.TrimSpace(value) == "" {
		return rows
	}
	return append(rows, Row{Label: label, Value: value, Wrap: wrap})
}

func cityLine(d *models.InvoiceData) string {
	var parts []string
	if d.VendorCity != "" {
		parts = append(parts, d.VendorCity)
	}
	if d.VendorState != "" {
		parts = append(parts, d.VendorState)
	}
	line := strings.Join(parts, ", ")
	if d.VendorPincode != "" {
		if line != "" {
			line += " - "
		}
		line += d.VendorPincode
	}
	return line
}

func durationText(d *models.InvoiceData) string {
	if d.Duration <= 0 {
		return ""
	}
	unit := string(d.DurationType)
	if unit == "" {
		unit = string(models.DurationMonths)
	}
	if d.Duration == 1 {
		unit = strings.TrimSuffix(unit, "s")
	}
	return fmt.Sprintf("%d %s", d.Duration, unit)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
