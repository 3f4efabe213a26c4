package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoscore/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/autoscore/internal/core/domain"
)

var (
	locateMarker    string
	locateThreshold int
	locateMetaExt   string
)

var locateCmd = &cobra.Command{
	Use:   "locate <expected-path>",
	Short: "Find a possibly misnamed or misplaced file",
	Long: `Looks for the file at expected-path. When it is not there, every entry
of its directory is scored by edit distance to the expected name, and the
search climbs one directory at a time while the path still contains the
boundary marker (Assets by default).

Unity .meta sidecar files are never candidates.`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

var distanceCmd = &cobra.Command{
	Use:   "distance <a> <b>",
	Short: "Print the edit distance between two names",
	Long: `Prints the Levenshtein distance between a and b: the fewest single
character insertions, deletions and substitutions turning one into the
other. Comparison is case-sensitive.`,
	Args: cobra.ExactArgs(2),
	RunE: runDistance,
}

func init() {
	locateCmd.Flags().StringVar(&locateMarker, "marker", "", "boundary marker (default from locator.boundary_marker)")
	locateCmd.Flags().IntVarP(&locateThreshold, "threshold", "t", -1, "largest accepted distance (default from locator.threshold)")
	locateCmd.Flags().StringVar(&locateMetaExt, "meta-ext", "", "sidecar extension to skip (default from locator.meta_extension)")
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(distanceCmd)
}

type locateOutput struct {
	Expected   string              `json:"expected"`
	Match      domain.MatchKind    `json:"match"`
	Found      *domain.Candidate   `json:"found,omitempty"`
	Candidates domain.SearchResult `json:"candidates"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	if err := requireService("locator", locatorService != nil); err != nil {
		return err
	}

	opts := domain.DefaultLocateOptions()
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		opts = settings.Locator.Options()
	}
	if locateMarker != "" {
		opts.BoundaryMarker = locateMarker
	}
	if locateThreshold >= 0 {
		opts.Threshold = locateThreshold
	}
	if locateMetaExt != "" {
		opts.MetaExtension = locateMetaExt
	}

	expected := filesystem.ResolvePath(args[0])
	result, err := locatorService.Locate(expected, opts)
	if err != nil {
		return fmt.Errorf("locate failed: %w", err)
	}
	match := locatorService.Classify(result, expected, opts.Threshold)

	if wantJSON(cmd) {
		return writeJSON(cmd, locateOutput{
			Expected:   expected,
			Match:      match.Kind,
			Found:      match.Found,
			Candidates: result,
		})
	}
	renderMatch(cmd, expected, match, result)
	return nil
}

func runDistance(cmd *cobra.Command, args []string) error {
	if err := requireService("locator", locatorService != nil); err != nil {
		return err
	}
	cmd.Println(strconv.Itoa(locatorService.Distance(args[0], args[1])))
	return nil
}
