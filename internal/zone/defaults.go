package zone

// DefaultSet is the display set used before the user persists their own:
// a spread of civil zones plus the Perseverance landing site. Coordinates
// feed the weather collaborator.
func DefaultSet() []Zone {
	return []Zone{
		{ID: "UTC", Name: "UTC"},
		{ID: "America/New_York", Name: "New York", Country: "US", Latitude: 40.7128, Longitude: -74.0060, HasCoords: true},
		{ID: "Europe/London", Name: "London", Country: "GB", Latitude: 51.5072, Longitude: -0.1276, HasCoords: true},
		{ID: "Asia/Tokyo", Name: "Tokyo", Country: "JP", Latitude: 35.6762, Longitude: 139.6503, HasCoords: true},
		{ID: "mars/perseverance"},
	}
}
