package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maplabs/warehouse-mapper/internal/table"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		name string
		cell table.Cell
		want [3]uint8
	}{
		{"six digit", table.Text("#FF8800"), [3]uint8{255, 136, 0}},
		{"three digit expands", table.Text("#f80"), [3]uint8{255, 136, 0}},
		{"no hash", table.Text("ff8800"), [3]uint8{255, 136, 0}},
		{"surrounding whitespace", table.Text("  #ff8800  "), [3]uint8{255, 136, 0}},
		{"numeric cell", table.Number(123), [3]uint8{51, 136, 255}},
		{"missing cell", table.Missing(), [3]uint8{51, 136, 255}},
		{"non-hex digits", table.Text("#zzzzzz"), [3]uint8{51, 136, 255}},
		{"wrong length", table.Text("#abcde"), [3]uint8{51, 136, 255}},
		{"empty string", table.Text(""), [3]uint8{51, 136, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HexToRGB(tt.cell))
		})
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short form kept", "#f80", "#f80"},
		{"long form kept", "#FF8800", "#FF8800"},
		{"whitespace trimmed", "  #f80  ", "#f80"},
		{"length check only, bad digits pass", "#zzz", "#zzz"},
		{"missing hash", "f80", DefaultColor},
		{"wrong length", "#abcde", DefaultColor},
		{"word", "red", DefaultColor},
		{"empty", "", DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeColor(tt.in))
		})
	}
}
