package domain

import "time"

// CatalogEntry describes one document held in the local catalog.
type CatalogEntry struct {
	// ID is the document identifier.
	ID string

	// Name is the document display name.
	Name string

	// Author is copied from the document.
	Author string

	// SchemaVersion is the declared schema version.
	SchemaVersion SchemaVersion

	// ModelCount and MaterialCount summarise the document.
	ModelCount    int
	MaterialCount int

	// Checksum is the hex SHA-256 of the stored canonical text.
	Checksum string

	// Size is the stored payload length in bytes.
	Size int

	// StoredAt is when the entry was last written.
	StoredAt time.Time
}
