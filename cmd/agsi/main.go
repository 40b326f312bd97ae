// Command agsi validates, inspects and converts AGSi ground-model documents.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	configfile "github.com/custodia-labs/agsi-cli/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/agsi-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/core/services"
	"github.com/custodia-labs/agsi-cli/internal/geometry"
	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// configDirEnv overrides the configuration directory (default ~/.agsi).
const configDirEnv = "AGSI_CONFIG_DIR"

func main() {
	os.Exit(run())
}

func run() int {
	configStore, err := configfile.NewConfigStore(os.Getenv(configDirEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		return 1
	}

	codecs := serialization.Default()
	validator := services.NewValidator(geometry.New())
	settings := services.NewSettingsService(configStore)

	cli.SetVersion(version)
	cli.SetDocumentService(services.NewDocumentService(codecs, storagefile.NewFileStore()))
	cli.SetValidationService(validator)
	cli.SetSettingsService(settings)
	cli.SetCatalogOpener(func() (driving.CatalogService, io.Closer, error) {
		s, err := settings.Get()
		if err != nil {
			return nil, nil, err
		}
		store, err := sqlite.NewStore(s.Catalog.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening catalog: %w", err)
		}
		return services.NewCatalogService(store, codecs, validator), store, nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := 0
	if err := cli.ExecuteContext(ctx); err != nil {
		code = 1
	}
	if err := cli.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: closing catalog: %v\n", err)
		code = 1
	}
	return code
}
