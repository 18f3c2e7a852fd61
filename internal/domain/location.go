package domain

// Coordinates is a WGS84 point. Items that can be pinned on the map carry an
// optional *Coordinates; nil means "not geocoded".
type Coordinates struct {
	Latitude  float64
	Longitude float64
}
