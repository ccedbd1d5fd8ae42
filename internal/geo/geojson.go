package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSONContentType is the MIME type for exported GeoJSON documents.
const GeoJSONContentType = "application/geo+json"

// ToGeoJSON serializes points as a UTF-8 GeoJSON FeatureCollection. Each
// point becomes one Feature with a Point geometry in [lon, lat] order and a
// "color" property holding the point's hex string.
func ToGeoJSON(points []Point) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
		f.Properties["color"] = p.Color
		fc.Append(f)
	}
	return fc.MarshalJSON()
}
