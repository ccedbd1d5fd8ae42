package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplabs/warehouse-mapper/internal/table"
)

func TestCoerce(t *testing.T) {
	t.Run("drops unparseable rows and keeps order", func(t *testing.T) {
		tbl, err := table.Load([]byte("lat,lon\n34.05,-118.24\nnope,-1\n 40.71 ,-74.00\n,\n"))
		require.NoError(t, err)

		out, err := Coerce(tbl, "lat", "lon")

		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())
		first, _ := out.Cell("lat", 0)
		v, _ := first.NumberValue()
		assert.Equal(t, 34.05, v)
		second, _ := out.Cell("lat", 1)
		v, _ = second.NumberValue()
		assert.Equal(t, 40.71, v)
	})

	t.Run("injects default color column", func(t *testing.T) {
		tbl, err := table.Load([]byte("lat,lon\n1,2\n"))
		require.NoError(t, err)

		out, err := Coerce(tbl, "lat", "lon")

		require.NoError(t, err)
		require.True(t, out.HasColumn(ColorColumn))
		cell, _ := out.Cell(ColorColumn, 0)
		color, _ := cell.TextValue()
		assert.Equal(t, DefaultColor, color)
	})

	t.Run("keeps an existing color column", func(t *testing.T) {
		tbl, err := table.Load([]byte("lat,lon,color\n1,2,#FF8800\n"))
		require.NoError(t, err)

		out, err := Coerce(tbl, "lat", "lon")

		require.NoError(t, err)
		cell, _ := out.Cell(ColorColumn, 0)
		color, _ := cell.TextValue()
		assert.Equal(t, "#FF8800", color)
	})

	t.Run("non-finite values are dropped", func(t *testing.T) {
		tbl, err := table.Load([]byte("lat,lon\nNaN,1\nInf,2\n-Inf,3\n1e400,4\n5,6\n"))
		require.NoError(t, err)

		out, err := Coerce(tbl, "lat", "lon")

		require.NoError(t, err)
		require.Equal(t, 1, out.Len())
		cell, _ := out.Cell("lat", 0)
		v, _ := cell.NumberValue()
		assert.Equal(t, 5.0, v)
	})

	t.Run("unknown column", func(t *testing.T) {
		tbl, err := table.Load([]byte("lat,lon\n1,2\n"))
		require.NoError(t, err)

		_, err = Coerce(tbl, "latitude", "lon")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "latitude")
	})

	t.Run("no valid rows", func(t *testing.T) {
		tbl, err := table.Load([]byte("lat,lon\na,b\nc,d\n"))
		require.NoError(t, err)

		_, err = Coerce(tbl, "lat", "lon")
		assert.ErrorIs(t, err, ErrNoValidRows)
	})

	t.Run("empty table", func(t *testing.T) {
		tbl, err := table.Load([]byte("lat,lon\n"))
		require.NoError(t, err)

		_, err = Coerce(tbl, "lat", "lon")
		assert.ErrorIs(t, err, ErrNoValidRows)
	})

	t.Run("headerless upload end to end", func(t *testing.T) {
		tbl, err := table.Load([]byte("34.05,-118.24\n40.71,-74.00\n"))
		require.NoError(t, err)

		out, err := Coerce(tbl, "0", "1")
		require.NoError(t, err)

		points := Points(out, "0", "1", nil)
		require.Len(t, points, 2)
		assert.Equal(t, 34.05, points[0].Lat)
		assert.Equal(t, -118.24, points[0].Lon)
		assert.Equal(t, DefaultColor, points[0].Color)
	})
}

func TestPoints(t *testing.T) {
	base := func(t *testing.T) *table.Table {
		tbl, err := table.Load([]byte("lat,lon,color\n34.05,-118.24,#f80\n40.71,-74.00,#3388ff\n"))
		require.NoError(t, err)
		out, err := Coerce(tbl, "lat", "lon")
		require.NoError(t, err)
		return out
	}

	t.Run("colors decode per row", func(t *testing.T) {
		points := Points(base(t), "lat", "lon", nil)

		require.Len(t, points, 2)
		assert.Equal(t, "#f80", points[0].Color)
		assert.Equal(t, [3]uint8{255, 136, 0}, points[0].RGB)
		assert.Equal(t, "#3388ff", points[1].Color)
		assert.Equal(t, [3]uint8{51, 136, 255}, points[1].RGB)
	})

	t.Run("overrides win over the color cell", func(t *testing.T) {
		points := Points(base(t), "lat", "lon", map[int]string{1: "#00ff00"})

		assert.Equal(t, "#f80", points[0].Color)
		assert.Equal(t, "#00ff00", points[1].Color)
		assert.Equal(t, [3]uint8{0, 255, 0}, points[1].RGB)
	})

	t.Run("undecodable color still reports its string", func(t *testing.T) {
		points := Points(base(t), "lat", "lon", map[int]string{0: "#zzz"})

		assert.Equal(t, "#zzz", points[0].Color)
		assert.Equal(t, [3]uint8{51, 136, 255}, points[0].RGB)
	})
}
