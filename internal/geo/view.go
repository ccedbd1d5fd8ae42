package geo

// Default view when there are no points to frame: the continental-USA
// centroid at a country-level zoom.
const (
	DefaultCenterLat = 39.8283
	DefaultCenterLon = -98.5795
	DefaultZoom      = 3
	PointsZoom       = 4
)

// Center computes the map view for a point set: the unweighted mean of the
// latitudes and longitudes at a fixed zoom. No outlier handling and no
// projection correction; a plain centroid is the intended behavior.
func Center(points []Point) ViewState {
	if len(points) == 0 {
		return ViewState{Lat: DefaultCenterLat, Lon: DefaultCenterLon, Zoom: DefaultZoom}
	}

	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return ViewState{Lat: lat / n, Lon: lon / n, Zoom: PointsZoom}
}
