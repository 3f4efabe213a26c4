// Package cli implements the autoscore command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driving"
	"github.com/custodia-labs/autoscore/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Persistent flags.
var (
	verbose      bool
	configDir    string
	outputFormat string
)

// GraderFactory builds a grader for the settings of one run.
type GraderFactory func(settings domain.AppSettings) (driving.GraderService, error)

// Services holds the driving ports used by commands.
type Services struct {
	Settings driving.SettingsService
	Reports  driving.ReportService
	Locator  driving.LocatorService
	Watch    driving.WatchService
	Grader   GraderFactory

	// Close releases resources held by the services.
	Close func() error
}

// Bootstrap builds services once flags are parsed.
type Bootstrap func(configDir string) (*Services, error)

var (
	settingsService driving.SettingsService
	reportService   driving.ReportService
	locatorService  driving.LocatorService
	watchService    driving.WatchService
	graderFactory   GraderFactory
	closeServices   func() error

	bootstrap Bootstrap
)

var rootCmd = &cobra.Command{
	Use:   "autoscore",
	Short: "Grade Unity assignment repositories",
	Long: `autoscore clones a student's Unity project and scores it against the
lesson rubric: repository sanity, lesson branch, imported assets, required
scripts and scenes.

Misnamed or misplaced files are found with a fuzzy search bounded by the
project's Assets folder, so students get specific feedback instead of a
bare "missing".`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.autoscore)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatAuto, "output format: auto, json or pretty")
}

// SetServices installs services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	settingsService = s.Settings
	reportService = s.Reports
	locatorService = s.Locator
	watchService = s.Watch
	graderFactory = s.Grader
	closeServices = s.Close
}

// SetBootstrap registers the function that wires services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with output on stdout.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if _, err := parseFormat(outputFormat); err != nil {
		return err
	}

	if bootstrap == nil || settingsService != nil || cmd.Annotations[annotationOffline] == "true" {
		return nil
	}
	services, err := bootstrap(configDir)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	SetServices(services)
	return nil
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	closer := closeServices
	closeServices = nil
	return closer()
}

// annotationOffline marks commands that need no services.
const annotationOffline = "offline"

var errNotConfigured = errors.New("not configured")

func requireService(name string, ok bool) error {
	if !ok {
		return fmt.Errorf("%s service %w", name, errNotConfigured)
	}
	return nil
}
