package invoice

import (
	"io"
	"strings"
)

// Canvas is the paginated drawing surface the layout engine writes to.
// Coordinates are in millimetres from the top-left corner of the page; Text
// places its baseline at y.
type Canvas interface {
	PageSize() (width, height float64)
	AddPage()
	PageNo() int
	SetFont(family, style string, size float64)
	SetTextColor(c RGB)
	SetFillColor(c RGB)
	SetDrawColor(c RGB)
	Text(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64, style string)
	StringWidth(s string) float64
	Output(w io.Writer) error
}

// wrapText splits s into lines no wider than width using the canvas' current
// font. Words longer than width are placed on a line of their own.
func wrapText(c Canvas, s string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if c.StringWidth(candidate) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
