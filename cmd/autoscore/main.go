// Command autoscore grades Unity assignment repositories.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/autoscore/internal/adapters/driven/config/file"
	"github.com/custodia-labs/autoscore/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/autoscore/internal/adapters/driven/github"
	"github.com/custodia-labs/autoscore/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/autoscore/internal/adapters/driven/vcs/git"
	"github.com/custodia-labs/autoscore/internal/adapters/driven/watch"
	"github.com/custodia-labs/autoscore/internal/adapters/driving/cli"
	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driving"
	"github.com/custodia-labs/autoscore/internal/core/services"
)

// version is set at build time.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(wire)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// wire builds the adapters and services for one invocation.
func wire(configDir string) (*cli.Services, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, file.DefaultDirName)
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, err
	}

	fs := filesystem.New()
	vcs := git.New()
	locator := services.NewLocator(fs)

	return &cli.Services{
		Settings: services.NewSettingsService(configStore),
		Reports:  services.NewReportService(store.ReportStore()),
		Locator:  locator,
		Watch:    services.NewWatchService(watch.New()),
		Grader: func(settings domain.AppSettings) (driving.GraderService, error) {
			host := github.NewClient(github.NewTokenProvider(settings.GitHub.Token))
			grader, err := services.NewGrader(fs, vcs, host, locator, settings)
			if err != nil {
				return nil, err
			}
			return grader, nil
		},
		Close: store.Close,
	}, nil
}
