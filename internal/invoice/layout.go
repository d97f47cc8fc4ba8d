package invoice

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"vendorhub/models"
)

// Page metrics in millimetres.
const (
	marginX       = 20.0
	marginTop     = 20.0
	marginBottom  = 20.0
	headerHeight  = 45.0
	contentTop    = 55.0
	titleHeight   = 7.0
	lineHeight    = 5.0
	emphasisLine  = 7.0
	sectionGap    = 4.0
	labelColumn   = 45.0
	totalRowLine  = 10.0
	separatorLine = 4.0
	bulletIndent  = 6.0
)

var (
	textDark  = RGB{31, 41, 55}
	textMuted = RGB{107, 114, 128}
	ruleColor = RGB{229, 231, 235}
)

// Document is a generated invoice PDF.
type Document struct {
	Filename string
	Pages    int
	data     []byte
}

func (d *Document) Bytes() []byte {
	return d.data
}

func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.data)
	return int64(n), err
}

// DefaultFilename is the download name used when the caller supplies none.
func DefaultFilename(subscriptionID int64) string {
	return fmt.Sprintf("subscription-invoice-%d.pdf", subscriptionID)
}

// pdfFormatter keeps money in plain ASCII for the core PDF fonts.
type pdfFormatter struct{}

func (pdfFormatter) Currency(amount models.Amount, code string) string {
	return FormatCurrency(amount, code)
}

func (pdfFormatter) Date(value string) string {
	return FormatDate(value)
}

// FormatDate renders an ISO date in long form ("2 January 2006"). Values that
// do not parse are shown unchanged.
func FormatDate(value string) string {
	t, ok := models.ParseDate(value)
	if !ok {
		return value
	}
	return t.Format("2 January 2006")
}

// LayoutEngine lays out invoices onto fixed-size pages. Each Generate call
// works on its own canvas, so an engine can be shared between requests.
type LayoutEngine struct {
	brand     Branding
	newCanvas func(title string) Canvas
}

func NewLayoutEngine(brand Branding) *LayoutEngine {
	return NewLayoutEngineWithCanvas(brand, func(title string) Canvas {
		return NewFPDFCanvas(title)
	})
}

func NewLayoutEngineWithCanvas(brand Branding, newCanvas func(title string) Canvas) *LayoutEngine {
	return &LayoutEngine{brand: brand.withDefaults(), newCanvas: newCanvas}
}

// layoutState is the cursor bookkeeping of one generation.
type layoutState struct {
	c      Canvas
	y      float64
	width  float64
	height float64
	accent RGB
}

func (s *layoutState) limit() float64 {
	return s.height - marginBottom
}

// ensureSpace starts a new page when a block of height h would cross the
// bottom margin. A block taller than a whole page still overflows.
func (s *layoutState) ensureSpace(h float64) {
	if s.y+h > s.limit() && s.y > marginTop {
		s.c.AddPage()
		s.y = marginTop
	}
}

func (e *LayoutEngine) Generate(d *models.InvoiceData) (*Document, error) {
	if !d.TotalsConsistent() {
		log.Printf("Invoice %s: amount does not equal subtotal plus tax", d.InvoiceNumber)
	}

	plan := BuildPlan(d, e.brand, pdfFormatter{})
	c := e.newCanvas(fmt.Sprintf("%s %s", plan.Subtitle, plan.InvoiceNumber))
	c.AddPage()

	width, height := c.PageSize()
	s := &layoutState{c: c, width: width, height: height, accent: HexToRGB(e.brand.Color)}

	s.drawHeader(plan)
	for _, section := range plan.Sections {
		s.ensureSpace(s.measure(section))
		s.drawSection(section)
	}

	var buf bytes.Buffer
	if err := c.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write invoice %s: %w", d.InvoiceNumber, err)
	}

	return &Document{
		Filename: DefaultFilename(d.SubscriptionID),
		Pages:    c.PageNo(),
		data:     buf.Bytes(),
	}, nil
}

func (s *layoutState) drawHeader(plan Plan) {
	c := s.c
	c.SetFillColor(s.accent)
	c.Rect(0, 0, s.width, headerHeight, "F")

	c.SetTextColor(White)
	c.SetFont("Helvetica", "B", 22)
	c.Text(marginX, 24, plan.Brand)
	c.SetFont("Helvetica", "", 12)
	c.Text(marginX, 33, plan.Subtitle)

	const boxWidth, boxHeight = 60.0, 20.0
	boxX := s.width - marginX - boxWidth
	c.SetFillColor(White)
	c.Rect(boxX, 12, boxWidth, boxHeight, "F")
	c.SetTextColor(textMuted)
	c.SetFont("Helvetica", "", 8)
	c.Text(boxX+4, 20, "INVOICE NUMBER")
	c.SetTextColor(s.accent)
	c.SetFont("Helvetica", "B", 11)
	c.Text(boxX+4, 27, plan.InvoiceNumber)

	s.y = contentTop
}

func (s *layoutState) valueWidth() float64 {
	return s.width - 2*marginX - labelColumn
}

func (s *layoutState) bulletWidth() float64 {
	return s.width - 2*marginX - bulletIndent
}

// rowHeight measures a row with the font it will be drawn in.
func (s *layoutState) rowHeight(row Row, kind SectionKind) float64 {
	switch {
	case kind == SectionTotal && row.Emphasis:
		return totalRowLine
	case row.Emphasis:
		return emphasisLine
	case row.Bullet:
		s.c.SetFont("Helvetica", "", 10)
		return float64(len(wrapText(s.c, row.Value, s.bulletWidth()))) * lineHeight
	case row.Wrap:
		s.c.SetFont("Helvetica", "", 10)
		return float64(len(wrapText(s.c, row.Value, s.valueWidth()))) * lineHeight
	default:
		return lineHeight
	}
}

func (s *layoutState) measure(section Section) float64 {
	h := sectionGap
	if section.Title != "" {
		h += titleHeight
	}
	if section.Kind == SectionTotal {
		h += separatorLine
	}
	for _, row := range section.Rows {
		h += s.rowHeight(row, section.Kind)
	}
	return h
}

func (s *layoutState) drawSection(section Section) {
	c := s.c
	if section.Title != "" {
		c.SetTextColor(s.accent)
		c.SetFont("Helvetica", "B", 12)
		c.Text(marginX, s.y+5, section.Title)
		s.y += titleHeight
	}

	switch section.Kind {
	case SectionTotal:
		s.drawTotals(section)
	case SectionFooter:
		s.drawFooter(section)
	default:
		for _, row := range section.Rows {
			s.drawRow(row)
		}
	}
	s.y += sectionGap
}

func (s *layoutState) drawRow(row Row) {
	c := s.c
	switch {
	case row.Emphasis && row.Label == "":
		c.SetTextColor(textDark)
		c.SetFont("Helvetica", "B", 13)
		c.Text(marginX, s.y+5, row.Value)
		s.y += emphasisLine
	case row.Bullet:
		c.SetFillColor(s.accent)
		c.Rect(marginX+1, s.y+1.8, 1.6, 1.6, "F")
		c.SetTextColor(textDark)
		c.SetFont("Helvetica", "", 10)
		for _, line := range wrapText(c, row.Value, s.bulletWidth()) {
			c.Text(marginX+bulletIndent, s.y+3.8, line)
			s.y += lineHeight
		}
	case row.Label == "":
		c.SetTextColor(textDark)
		c.SetFont("Helvetica", "", 10)
		c.Text(marginX, s.y+3.8, row.Value)
		s.y += lineHeight
	default:
		c.SetTextColor(textMuted)
		c.SetFont("Helvetica", "B", 10)
		c.Text(marginX, s.y+3.8, row.Label+":")
		c.SetTextColor(textDark)
		c.SetFont("Helvetica", "", 10)
		lines := []string{row.Value}
		if row.Wrap {
			lines = wrapText(c, row.Value, s.valueWidth())
		}
		for _, line := range lines {
			c.Text(marginX+labelColumn, s.y+3.8, line)
			s.y += lineHeight
		}
	}
}

func (s *layoutState) drawTotals(section Section) {
	c := s.c
	right := s.width - marginX

	c.SetDrawColor(ruleColor)
	c.Line(marginX, s.y+1, right, s.y+1)
	s.y += separatorLine

	for _, row := range section.Rows {
		if row.Emphasis {
			c.SetTextColor(textDark)
			c.SetFont("Helvetica", "B", 12)
			c.Text(marginX, s.y+7, row.Label)
			c.SetTextColor(s.accent)
			c.SetFont("Helvetica", "B", 16)
			c.Text(right-c.StringWidth(row.Value), s.y+7, row.Value)
			s.y += totalRowLine
			continue
		}
		c.SetTextColor(textMuted)
		c.SetFont("Helvetica", "", 10)
		c.Text(marginX, s.y+3.8, row.Label)
		c.SetTextColor(textDark)
		c.Text(right-c.StringWidth(row.Value), s.y+3.8, row.Value)
		s.y += lineHeight
	}
}

func (s *layoutState) drawFooter(section Section) {
	c := s.c
	c.SetDrawColor(ruleColor)
	c.Line(marginX, s.y, s.width-marginX, s.y)
	c.SetTextColor(textMuted)
	c.SetFont("Helvetica", "I", 9)
	for _, row := range section.Rows {
		x := (s.width - c.StringWidth(row.Value)) / 2
		c.Text(x, s.y+3.8, row.Value)
		s.y += lineHeight
	}
}
