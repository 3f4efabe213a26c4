package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoscore/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/autoscore/internal/scene"
)

var (
	sceneValidate bool
	sceneSummary  bool
	sceneOutput   string
)

var sceneCmd = &cobra.Command{
	Use:   "scene <file.unity>",
	Short: "Convert a Unity scene file to valid YAML",
	Long: `Unity scene files are almost YAML: the !u! tag handle is declared only
once and some document headers carry trailing words such as "stripped".
This command repairs both and prints the result.

  --validate  parse the converted documents and report the first error
  --summary   count the scene's objects by type`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationOffline: "true"},
	RunE:        runScene,
}

func init() {
	sceneCmd.Flags().BoolVar(&sceneValidate, "validate", false, "parse the converted YAML")
	sceneCmd.Flags().BoolVar(&sceneSummary, "summary", false, "print object counts by type")
	sceneCmd.Flags().StringVarP(&sceneOutput, "output", "o", "", "write the converted YAML to a file")
	rootCmd.AddCommand(sceneCmd)
}

func runScene(cmd *cobra.Command, args []string) error {
	path := filesystem.ResolvePath(args[0])
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open scene: %w", err)
	}
	defer f.Close()

	var converted bytes.Buffer
	if err := scene.Convert(f, &converted); err != nil {
		return err
	}

	if sceneOutput != "" {
		if err := os.WriteFile(sceneOutput, converted.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", sceneOutput, err)
		}
	}

	if !sceneValidate && !sceneSummary {
		if sceneOutput == "" {
			_, err := cmd.OutOrStdout().Write(converted.Bytes())
			return err
		}
		return nil
	}

	if !sceneSummary {
		n, err := scene.Validate(bytes.NewReader(converted.Bytes()))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cmd.Printf("%s: %d documents, valid YAML\n", path, n)
		return nil
	}

	objects, err := scene.Parse(bytes.NewReader(converted.Bytes()))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	counts := scene.Summarize(objects)
	if wantJSON(cmd) {
		return writeJSON(cmd, counts)
	}
	for _, c := range counts {
		cmd.Printf("%6d  %s\n", c.Count, c.Type)
	}
	return nil
}
