package domain

// Project is metadata embedded in a Document. It has no identity of its own
// outside the document.
type Project struct {
	ID          string
	Name        string
	Client      string
	Contractor  string
	Description string
	Location    *Location
}

// Location describes where a project is.
type Location struct {
	Name    string
	Country string

	// CRS is the coordinate reference system of local project coordinates.
	CRS string

	// Coordinates is an optional WGS84 position.
	Coordinates *LonLat
}

// LonLat is a WGS84 longitude/latitude pair in degrees.
type LonLat struct {
	Lon float64
	Lat float64
}

// NewProject creates a project.
func NewProject(id, name string) *Project {
	return &Project{ID: id, Name: name}
}
