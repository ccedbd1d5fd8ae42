package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenter(t *testing.T) {
	t.Run("no points uses USA centroid", func(t *testing.T) {
		view := Center(nil)

		assert.Equal(t, 39.8283, view.Lat)
		assert.Equal(t, -98.5795, view.Lon)
		assert.Equal(t, 3, view.Zoom)
	})

	t.Run("mean of coordinates", func(t *testing.T) {
		view := Center([]Point{
			{Lat: 34.0522, Lon: -118.2437},
			{Lat: 40.7128, Lon: -74.0060},
		})

		assert.InDelta(t, 37.3825, view.Lat, 1e-4)
		assert.InDelta(t, -96.1249, view.Lon, 1e-4)
		assert.Equal(t, 4, view.Zoom)
	})

	t.Run("single point centers on it", func(t *testing.T) {
		view := Center([]Point{{Lat: 41.8781, Lon: -87.6298}})

		assert.Equal(t, 41.8781, view.Lat)
		assert.Equal(t, -87.6298, view.Lon)
		assert.Equal(t, 4, view.Zoom)
	})
}
