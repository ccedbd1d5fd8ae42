package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/maplabs/warehouse-mapper/internal/table"
)

// ColorColumn is the name of the per-row color column.
const ColorColumn = "color"

// ErrNoValidRows is returned when coercion leaves zero rows. The caller
// reports it and waits for different columns or a new upload; it is never
// retried internally.
var ErrNoValidRows = errors.New("no valid latitude/longitude values found after parsing")

// Coerce reinterprets the two selected columns as numbers, drops every row
// where either value does not parse to a finite float, and guarantees a color
// column (injecting DefaultColor when absent). Survivor order matches the
// input. Parse failures are not errors; they just cost the row.
func Coerce(t *table.Table, latCol, lonCol string) (*table.Table, error) {
	latCells, ok := t.Column(latCol)
	if !ok {
		return nil, fmt.Errorf("unknown latitude column %q", latCol)
	}
	lonCells, ok := t.Column(lonCol)
	if !ok {
		return nil, fmt.Errorf("unknown longitude column %q", lonCol)
	}

	lat := toNumbers(latCells)
	lon := toNumbers(lonCells)

	out := t.WithColumn(latCol, lat).WithColumn(lonCol, lon)
	out = out.Filter(func(row int) bool {
		return !lat[row].IsMissing() && !lon[row].IsMissing()
	})

	if !out.HasColumn(ColorColumn) {
		colors := make([]table.Cell, out.Len())
		for i := range colors {
			colors[i] = table.Text(DefaultColor)
		}
		out = out.WithColumn(ColorColumn, colors)
	}

	if out.Len() == 0 {
		return nil, ErrNoValidRows
	}
	return out, nil
}

// Points materializes a coerced table into map points. The selected columns
// must already hold numeric cells (see Coerce). overrides maps row index to a
// user-edited color string and wins over the row's color cell.
func Points(t *table.Table, latCol, lonCol string, overrides map[int]string) []Point {
	points := make([]Point, 0, t.Len())
	for row := 0; row < t.Len(); row++ {
		latCell, _ := t.Cell(latCol, row)
		lonCell, _ := t.Cell(lonCol, row)
		lat, ok := latCell.NumberValue()
		if !ok {
			continue
		}
		lon, ok := lonCell.NumberValue()
		if !ok {
			continue
		}

		colorCell, _ := t.Cell(ColorColumn, row)
		if edited, ok := overrides[row]; ok {
			colorCell = table.Text(edited)
		}
		color, ok := colorCell.TextValue()
		if !ok {
			color = DefaultColor
		}

		points = append(points, Point{
			Lat:   lat,
			Lon:   lon,
			Color: color,
			RGB:   HexToRGB(colorCell),
		})
	}
	return points
}

// toNumbers reinterprets cells as finite numbers, mapping anything else to
// missing. Text values tolerate surrounding whitespace and an optional sign.
func toNumbers(cells []table.Cell) []table.Cell {
	out := make([]table.Cell, len(cells))
	for i, c := range cells {
		out[i] = toNumber(c)
	}
	return out
}

func toNumber(c table.Cell) table.Cell {
	switch c.Kind() {
	case table.KindNumber:
		v, _ := c.NumberValue()
		if !isFinite(v) {
			return table.Missing()
		}
		return c
	case table.KindText:
		s, _ := c.TextValue()
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || !isFinite(v) {
			return table.Missing()
		}
		return table.Number(v)
	default:
		return table.Missing()
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
