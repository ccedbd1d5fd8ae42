package geo

import (
	"strconv"
	"strings"

	"github.com/maplabs/warehouse-mapper/internal/table"
)

// DefaultColor is the hex string injected for rows without a color value.
const DefaultColor = "#3388ff"

// defaultRGB is the decode fallback. It is not the decoded DefaultColor; the
// two defaults are historical and kept independent.
var defaultRGB = [3]uint8{51, 136, 255}

// HexToRGB decodes a cell's hex color into an RGB triple. Non-text cells and
// anything that does not reduce to six hex digits fall back to the default
// triple. It never fails; bad colors render as the default instead of erroring.
func HexToRGB(c table.Cell) [3]uint8 {
	s, ok := c.TextValue()
	if !ok {
		return defaultRGB
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		var b strings.Builder
		for _, ch := range s {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		s = b.String()
	}
	if len(s) != 6 {
		return defaultRGB
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return defaultRGB
		}
		rgb[i] = uint8(v)
	}
	return rgb
}

// NormalizeColor sanitizes a free-text color edit. The value is kept as-is
// only when it starts with "#" and is 4 or 7 characters long ("#abc" or
// "#aabbcc"); everything else becomes DefaultColor. The characters after the
// "#" are not checked for hex validity; an undecodable value falls back to
// the default RGB at render time instead.
func NormalizeColor(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") && (len(s) == 4 || len(s) == 7) {
		return s
	}
	return DefaultColor
}
