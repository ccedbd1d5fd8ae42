package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("headered CSV", func(t *testing.T) {
		tbl, err := Load([]byte("latitude,longitude\n34.0522,-118.2437\n40.7128,-74.0060\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"latitude", "longitude"}, tbl.Columns())
		assert.Equal(t, 2, tbl.Len())

		cell, ok := tbl.Cell("latitude", 0)
		require.True(t, ok)
		text, ok := cell.TextValue()
		require.True(t, ok)
		assert.Equal(t, "34.0522", text)
	})

	t.Run("headerless numeric CSV synthesizes positional names", func(t *testing.T) {
		tbl, err := Load([]byte("34.05,-118.24\n40.71,-74.00\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1"}, tbl.Columns())
		assert.Equal(t, 2, tbl.Len())

		cell, _ := tbl.Cell("1", 1)
		text, _ := cell.TextValue()
		assert.Equal(t, "-74.00", text)
	})

	t.Run("empty input", func(t *testing.T) {
		tbl, err := Load(nil)

		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Len())
		assert.Empty(t, tbl.Columns())
	})

	t.Run("header only", func(t *testing.T) {
		tbl, err := Load([]byte("a,b\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tbl.Columns())
		assert.Equal(t, 0, tbl.Len())
	})

	t.Run("ragged rows truncate and pad to header width", func(t *testing.T) {
		tbl, err := Load([]byte("a,b\n1,2,3\n4\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tbl.Columns())
		require.Equal(t, 2, tbl.Len())

		// Wide row loses the overflow field.
		cell, _ := tbl.Cell("b", 0)
		text, _ := cell.TextValue()
		assert.Equal(t, "2", text)

		// Narrow row gets a missing cell.
		cell, _ = tbl.Cell("b", 1)
		assert.True(t, cell.IsMissing())
	})

	t.Run("duplicate and blank header names made unique", func(t *testing.T) {
		tbl, err := Load([]byte("x,,x\n1,2,3\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"x", "1", "x_2"}, tbl.Columns())
	})

	t.Run("structural failure falls back to headerless", func(t *testing.T) {
		// The stray quote kills the strict parse; the tolerant pass keeps
		// every line as data, including the would-be header.
		tbl, err := Load([]byte("a,b\n1,\"un\"closed\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1"}, tbl.Columns())
		assert.Equal(t, 2, tbl.Len())
	})

	t.Run("idempotent", func(t *testing.T) {
		data := []byte("name,lat,lon\nLA,34.05,-118.24\nNYC,40.71,-74.00\n")

		first, err := Load(data)
		require.NoError(t, err)
		second, err := Load(data)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("selected columns in order", func(t *testing.T) {
		tbl, err := Load([]byte("lon,lat,color\n-118.24,34.05,#f80\n"))
		require.NoError(t, err)

		out, err := WriteCSV(tbl, []string{"lat", "lon", "color"})

		require.NoError(t, err)
		assert.Equal(t, "lat,lon,color\n34.05,-118.24,#f80\n", string(out))
	})

	t.Run("numeric cells render in plain decimal", func(t *testing.T) {
		tbl := New([]string{"lat"}, [][]Cell{{Number(34.0522)}})

		out, err := WriteCSV(tbl, []string{"lat"})

		require.NoError(t, err)
		assert.Equal(t, "lat\n34.0522\n", string(out))
	})

	t.Run("fields with commas are quoted", func(t *testing.T) {
		tbl := New([]string{"note"}, [][]Cell{{Text("a,b")}})

		out, err := WriteCSV(tbl, []string{"note"})

		require.NoError(t, err)
		assert.Equal(t, "note\n\"a,b\"\n", string(out))
	})

	t.Run("unknown column", func(t *testing.T) {
		tbl, err := Load([]byte("a\n1\n"))
		require.NoError(t, err)

		_, err = WriteCSV(tbl, []string{"missing"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
	})
}

func TestTableImmutability(t *testing.T) {
	tbl, err := Load([]byte("a,b\n1,2\n3,4\n"))
	require.NoError(t, err)

	withCol := tbl.WithColumn("c", []Cell{Text("x"), Text("y")})
	filtered := tbl.Filter(func(row int) bool { return row == 0 })

	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"a", "b", "c"}, withCol.Columns())
	assert.Equal(t, 1, filtered.Len())

	// Replacing an existing column leaves the original untouched.
	replaced := tbl.WithColumn("a", []Cell{Number(9), Number(8)})
	orig, _ := tbl.Cell("a", 0)
	text, _ := orig.TextValue()
	assert.Equal(t, "1", text)
	repl, _ := replaced.Cell("a", 0)
	num, _ := repl.NumberValue()
	assert.Equal(t, 9.0, num)
}
