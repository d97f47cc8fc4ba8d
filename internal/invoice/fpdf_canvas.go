package invoice

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// FPDFCanvas draws onto an A4 portrait document using the core PDF fonts.
type FPDFCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func NewFPDFCanvas(title string) *FPDFCanvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Page breaks are decided by the layout engine, never by fpdf.
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("vendorhub", true)

	return &FPDFCanvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *FPDFCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *FPDFCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *FPDFCanvas) PageNo() int {
	return c.pdf.PageNo()
}

func (c *FPDFCanvas) SetFont(family, style string, size float64) {
	c.pdf.SetFont(family, style, size)
}

func (c *FPDFCanvas) SetTextColor(rgb RGB) {
	c.pdf.SetTextColor(rgb.R, rgb.G, rgb.B)
}

func (c *FPDFCanvas) SetFillColor(rgb RGB) {
	c.pdf.SetFillColor(rgb.R, rgb.G, rgb.B)
}

func (c *FPDFCanvas) SetDrawColor(rgb RGB) {
	c.pdf.SetDrawColor(rgb.R, rgb.G, rgb.B)
}

func (c *FPDFCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

func (c *FPDFCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *FPDFCanvas) Rect(x, y, w, h float64, style string) {
	c.pdf.Rect(x, y, w, h, style)
}

func (c *FPDFCanvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *FPDFCanvas) Output(w io.Writer) error {
	if err := c.pdf.Error(); err != nil {
		return err
	}
	return c.pdf.Output(w)
}
