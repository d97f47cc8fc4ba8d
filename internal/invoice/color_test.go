package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#4F46E5", RGB{79, 70, 229}},
		{"4f46e5", RGB{79, 70, 229}},
		{"#fff", RGB{255, 255, 255}},
		{"#000000", Black},
		{"", Black},
		{"#12345", Black},
		{"#zzzzzz", Black},
		{"not a colour", Black},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, HexToRGB(tt.in))
		})
	}
}
