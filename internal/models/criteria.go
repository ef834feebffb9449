package models

// Criteria captures the normalized search inputs used by providers.
type Criteria struct {
	ZipCode      string
	Latitude     float64
	Longitude    float64
	Country      string
	Make         string
	Model        string
	MaxMiles     int
	ItemsPerPage int
	Window       Window
	FetchDetails bool
}
