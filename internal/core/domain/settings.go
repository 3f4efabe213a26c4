package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// GraderSettings holds the rubric configuration.
type GraderSettings struct {
	// BaseURL is stripped from a submission URL to form the local clone path.
	BaseURL string

	// RepoPattern matches submission URLs that look like a valid assignment
	// repository; a failed clone of such a URL suggests a private repository.
	RepoPattern string

	// Branch is the lesson branch students are asked to create.
	Branch string

	// DefaultBranch is checked out again before the scene checks.
	DefaultBranch string

	// EmptyScriptSize is the size in bytes at or below which a script counts as untouched.
	EmptyScriptSize int64

	// GitignoreSize is the minimum size in bytes of a usable Unity .gitignore.
	GitignoreSize int64

	// MinFiles and MaxFiles bound the file count of a sane repository.
	MinFiles int
	MaxFiles int

	// ImportedFiles is the file count above which project assets count as imported.
	ImportedFiles int

	// MaxPoints is the rubric maximum.
	MaxPoints int

	// ResubmitThreshold is the score ratio at or below which students are asked to resubmit.
	ResubmitThreshold float64

	// Scene is the expected scene file under Assets/Scenes.
	Scene string

	// SampleScene is the default scene students should delete.
	SampleScene string

	// Scripts are the required script files.
	Scripts []string

	// TmpDir is where submissions are cloned.
	TmpDir string
}

// LocatorSettings holds fuzzy search configuration.
type LocatorSettings struct {
	BoundaryMarker string
	Threshold      int
	MetaExtension  string
}

// Options converts the settings to locator options.
func (l LocatorSettings) Options() LocateOptions {
	return LocateOptions{
		BoundaryMarker: l.BoundaryMarker,
		Threshold:      l.Threshold,
		MetaExtension:  l.MetaExtension,
	}
}

// GitHubSettings holds repository host configuration.
type GitHubSettings struct {
	// Token is an optional API token; anonymous access is used when empty.
	Token string
}

// AppSettings aggregates all user-configurable settings.
type AppSettings struct {
	Grader  GraderSettings
	Locator LocatorSettings
	GitHub  GitHubSettings
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Grader: GraderSettings{
			BaseURL:           "https://github.com/",
			RepoPattern:       `/[Pp]rototype-*[1-5]$`,
			Branch:            "lesson-1",
			DefaultBranch:     "master",
			EmptyScriptSize:   323,
			GitignoreSize:     500,
			MinFiles:          20,
			MaxFiles:          200,
			ImportedFiles:     50,
			MaxPoints:         9,
			ResubmitThreshold: 0.7,
			Scene:             "Prototype 4.unity",
			SampleScene:       "Sample Scene.unity",
			Scripts:           []string{"RotateCamera.cs", "PlayerController.cs"},
			TmpDir:            "tmp",
		},
		Locator: LocatorSettings{
			BoundaryMarker: DefaultBoundaryMarker,
			Threshold:      DefaultThreshold,
			MetaExtension:  DefaultMetaExtension,
		},
	}
}

// Validate checks that settings are internally consistent.
func (s AppSettings) Validate() error {
	var errs []error
	g := s.Grader
	if strings.TrimSpace(g.Branch) == "" {
		errs = append(errs, errors.New("grader.branch must not be empty"))
	}
	if g.MinFiles < 0 || g.MaxFiles < g.MinFiles {
		errs = append(errs, fmt.Errorf("grader file window [%d, %d] is invalid", g.MinFiles, g.MaxFiles))
	}
	if _, err := regexp.Compile(g.RepoPattern); err != nil {
		errs = append(errs, fmt.Errorf("grader.repo_pattern: %w", err))
	}
	if g.MaxPoints <= 0 {
		errs = append(errs, errors.New("grader.max_points must be positive"))
	}
	if g.ResubmitThreshold < 0 || g.ResubmitThreshold > 1 {
		errs = append(errs, fmt.Errorf("grader.resubmit_threshold %v must be within [0, 1]", g.ResubmitThreshold))
	}
	if len(g.Scripts) == 0 {
		errs = append(errs, errors.New("grader.scripts must list at least one script"))
	}
	if s.Locator.Threshold < 0 {
		errs = append(errs, errors.New("locator.threshold must not be negative"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
}
