package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "agsi", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_Commands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"validate", "convert", "create", "info", "stats", "extract",
		"diff", "schema", "store", "settings", "mcp", "tui", "version"} {
		assert.True(t, names[name], name)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestConfigureLogging(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer logger.SetVerbose(false)

	require.NoError(t, configureLogging(nil, nil))
	assert.False(t, logger.IsVerbose())

	require.NoError(t, settingsService.Set("log.verbose", "true"))
	require.NoError(t, configureLogging(nil, nil))
	assert.True(t, logger.IsVerbose())

	require.NoError(t, settingsService.Set("log.verbose", "false"))
	verboseFlag = true
	defer func() { verboseFlag = false }()
	require.NoError(t, configureLogging(nil, nil))
	assert.True(t, logger.IsVerbose())
}

func TestSetters(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	SetDocumentService(nil)
	SetValidationService(nil)
	SetSettingsService(nil)
	SetCatalogOpener(nil)

	assert.Equal(t, "1.2.3", version)
	assert.Nil(t, documentService)
	assert.Nil(t, validationService)
	assert.Nil(t, settingsService)
	assert.Nil(t, catalogOpener)
}
