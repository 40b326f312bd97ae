package driving

import (
	"context"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// Set updates one setting by dotted key, e.g. "output.format".
	Set(key, value string) error

	// SetOutputFormat updates the default conversion target.
	SetOutputFormat(format domain.OutputFormat) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Keys returns every supported setting key.
	Keys() []string
}

// CatalogService manages the local document catalog.
type CatalogService interface {
	// Put validates and stores doc, replacing any entry with the same ID.
	Put(ctx context.Context, doc *domain.Document) (*domain.CatalogEntry, error)

	// Get loads a stored document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all catalog entries.
	List(ctx context.Context) ([]domain.CatalogEntry, error)

	// Delete removes a stored document.
	Delete(ctx context.Context, id string) error
}
