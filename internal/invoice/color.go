package invoice

import (
	"strconv"
	"strings"
)

// RGB is a drawing colour with 0-255 channels.
type RGB struct {
	R, G, B int
}

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// HexToRGB converts "#RRGGBB" or "#RGB" (leading # optional) to RGB.
// Malformed input yields black.
func HexToRGB(hex string) RGB {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Black
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Black
	}
	return RGB{
		R: int(value >> 16 & 0xFF),
		G: int(value >> 8 & 0xFF),
		B: int(value & 0xFF),
	}
}
