package invoice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"vendorhub/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// ViewActions are the optional preview and download links shown on the view.
// Empty URLs hide the corresponding button.
type ViewActions struct {
	PreviewURL  string
	DownloadURL string
	PrintURL    string
}

// viewFormatter always formats money with locale conventions.
type viewFormatter struct{}

func (viewFormatter) Currency(amount models.Amount, code string) string {
	return FormatCurrencyLocale(amount, code)
}

func (viewFormatter) Date(value string) string {
	return FormatDate(value)
}

// View renders invoices as a standalone HTML document.
type View struct {
	brand    Branding
	template *template.Template
}

func NewView(brand Branding) (*View, error) {
	brand = brand.withDefaults()
	funcMap := template.FuncMap{
		"lower": strings.ToLower,
		"isKind": func(s Section, kind string) bool {
			return string(s.Kind) == kind
		},
	}
	tmpl, err := template.New("invoice.html").Funcs(funcMap).ParseFS(templateFS, "templates/invoice.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &View{brand: brand, template: tmpl}, nil
}

type viewData struct {
	Plan    Plan
	Accent  string
	Actions ViewActions
}

// Render writes the HTML view of d to w.
func (v *View) Render(w io.Writer, d *models.InvoiceData, actions ViewActions) error {
	data := viewData{
		Plan:    BuildPlan(d, v.brand, viewFormatter{}),
		Accent:  v.brand.Color,
		Actions: actions,
	}
	return v.template.Execute(w, data)
}

// RenderString is Render into a string, used by the print pathway.
func (v *View) RenderString(d *models.InvoiceData, actions ViewActions) (string, error) {
	var buf bytes.Buffer
	if err := v.Render(&buf, d, actions); err != nil {
		return "", err
	}
	return buf.String(), nil
}
