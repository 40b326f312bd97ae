package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyOutputFormat     = "output.format"
	keyDocumentAuthor   = "document.author"
	keyDocumentSoftware = "document.software"
	keyValidationStrict = "validation.strict"
	keyLogVerbose       = "log.verbose"
	keyCatalogDir       = "catalog.dir"
)

var settingKeys = []string{
	keyOutputFormat,
	keyDocumentAuthor,
	keyDocumentSoftware,
	keyValidationStrict,
	keyLogVerbose,
	keyCatalogDir,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	return &domain.Settings{
		Output: domain.OutputSettings{
			Format: s.getOutputFormat(defaults.Output.Format),
		},
		Document: domain.DocumentSettings{
			Author:   s.getString(keyDocumentAuthor, defaults.Document.Author),
			Software: s.getString(keyDocumentSoftware, defaults.Document.Software),
		},
		Validation: domain.ValidationSettings{
			Strict: s.getBool(keyValidationStrict, defaults.Validation.Strict),
		},
		Log: domain.LogSettings{
			Verbose: s.getBool(keyLogVerbose, defaults.Log.Verbose),
		},
		Catalog: domain.CatalogSettings{
			Dir: s.configStore.GetString(keyCatalogDir),
		},
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if !settings.Output.Format.IsValid() {
		return fmt.Errorf("%w: output format %q", domain.ErrInvalidInput, settings.Output.Format)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyOutputFormat, settings.Output.Format.String()},
		{keyDocumentAuthor, settings.Document.Author},
		{keyDocumentSoftware, settings.Document.Software},
		{keyValidationStrict, settings.Validation.Strict},
		{keyLogVerbose, settings.Log.Verbose},
		{keyCatalogDir, settings.Catalog.Dir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return s.configStore.Save()
}

// Set updates one setting by dotted key. Booleans accept the forms of
// strconv.ParseBool.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyOutputFormat:
		f := domain.OutputFormat(value)
		if !f.IsValid() {
			return fmt.Errorf("%w: output format %q", domain.ErrInvalidInput, value)
		}
		settings.Output.Format = f
	case keyDocumentAuthor:
		settings.Document.Author = value
	case keyDocumentSoftware:
		settings.Document.Software = value
	case keyValidationStrict, keyLogVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		if key == keyValidationStrict {
			settings.Validation.Strict = b
		} else {
			settings.Log.Verbose = b
		}
	case keyCatalogDir:
		settings.Catalog.Dir = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// SetOutputFormat updates the default conversion target.
func (s *SettingsService) SetOutputFormat(format domain.OutputFormat) error {
	return s.Set(keyOutputFormat, format.String())
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Keys returns every supported setting key.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getOutputFormat(defaultVal domain.OutputFormat) domain.OutputFormat {
	f := domain.OutputFormat(s.configStore.GetString(keyOutputFormat))
	if !f.IsValid() {
		return defaultVal
	}
	return f
}
