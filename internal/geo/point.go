// Package geo turns tabular data into colored map points, computes the map
// view for a point set, and serializes points to GeoJSON.
package geo

// Point is one validated map location. Lat and Lon are always finite; Color
// is the hex string carried for the row and RGB its decoded triple.
type Point struct {
	Lat   float64  `json:"lat" doc:"Latitude in degrees" example:"34.0522"`
	Lon   float64  `json:"lon" doc:"Longitude in degrees" example:"-118.2437"`
	Color string   `json:"color" doc:"Hex color for the point" example:"#3388ff"`
	RGB   [3]uint8 `json:"rgb" doc:"Decoded RGB triple"`
}

// ViewState is the initial map camera: center coordinates plus zoom level.
type ViewState struct {
	Lat  float64 `json:"lat" doc:"Center latitude" example:"39.8283"`
	Lon  float64 `json:"lon" doc:"Center longitude" example:"-98.5795"`
	Zoom int     `json:"zoom" doc:"Zoom level" example:"4"`
}
