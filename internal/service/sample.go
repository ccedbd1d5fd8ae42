package service

// SampleCSV returns the downloadable template CSV showing the expected
// upload shape.
func SampleCSV() []byte {
	return []byte("latitude,longitude\n" +
		"34.0522,-118.2437\n" +
		"40.7128,-74.006\n" +
		"41.8781,-87.6298\n")
}
