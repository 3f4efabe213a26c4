package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
	"github.com/custodia-labs/autoscore/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBaseURL           = "grader.base_url"
	keyRepoPattern       = "grader.repo_pattern"
	keyBranch            = "grader.branch"
	keyDefaultBranch     = "grader.default_branch"
	keyEmptyScriptSize   = "grader.empty_script_size"
	keyGitignoreSize     = "grader.gitignore_size"
	keyMinFiles          = "grader.min_files"
	keyMaxFiles          = "grader.max_files"
	keyImportedFiles     = "grader.imported_files"
	keyMaxPoints         = "grader.max_points"
	keyResubmitThreshold = "grader.resubmit_threshold"
	keyScene             = "grader.scene"
	keySampleScene       = "grader.sample_scene"
	keyScripts           = "grader.scripts"
	keyTmpDir            = "grader.tmp_dir"
	keyBoundaryMarker    = "locator.boundary_marker"
	keyThreshold         = "locator.threshold"
	keyMetaExtension     = "locator.meta_extension"
	keyGitHubToken       = "github.token"
)

// setting binds a config key to a field of domain.AppSettings.
type setting struct {
	key   string
	value func(s *domain.AppSettings) any
	load  func(store driven.ConfigStore, s *domain.AppSettings)
	parse func(s *domain.AppSettings, raw string) error
}

func stringSetting(key string, field func(s *domain.AppSettings) *string) setting {
	return setting{
		key:   key,
		value: func(s *domain.AppSettings) any { return *field(s) },
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if _, ok := store.Get(key); ok {
				*field(s) = store.GetString(key)
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			*field(s) = raw
			return nil
		},
	}
}

func intSetting(key string, field func(s *domain.AppSettings) *int) setting {
	return setting{
		key:   key,
		value: func(s *domain.AppSettings) any { return *field(s) },
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if _, ok := store.Get(key); ok {
				*field(s) = store.GetInt(key)
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%s: %q is not an integer: %w", key, raw, domain.ErrInvalidInput)
			}
			*field(s) = n
			return nil
		},
	}
}

func sizeSetting(key string, field func(s *domain.AppSettings) *int64) setting {
	return setting{
		key:   key,
		value: func(s *domain.AppSettings) any { return *field(s) },
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if _, ok := store.Get(key); ok {
				*field(s) = int64(store.GetInt(key))
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil || n < 0 {
				return fmt.Errorf("%s: %q is not a byte size: %w", key, raw, domain.ErrInvalidInput)
			}
			*field(s) = n
			return nil
		},
	}
}

// settings lists every configurable key in display order.
var settings = []setting{
	stringSetting(keyBaseURL, func(s *domain.AppSettings) *string { return &s.Grader.BaseURL }),
	stringSetting(keyRepoPattern, func(s *domain.AppSettings) *string { return &s.Grader.RepoPattern }),
	stringSetting(keyBranch, func(s *domain.AppSettings) *string { return &s.Grader.Branch }),
	stringSetting(keyDefaultBranch, func(s *domain.AppSettings) *string { return &s.Grader.DefaultBranch }),
	sizeSetting(keyEmptyScriptSize, func(s *domain.AppSettings) *int64 { return &s.Grader.EmptyScriptSize }),
	sizeSetting(keyGitignoreSize, func(s *domain.AppSettings) *int64 { return &s.Grader.GitignoreSize }),
	intSetting(keyMinFiles, func(s *domain.AppSettings) *int { return &s.Grader.MinFiles }),
	intSetting(keyMaxFiles, func(s *domain.AppSettings) *int { return &s.Grader.MaxFiles }),
	intSetting(keyImportedFiles, func(s *domain.AppSettings) *int { return &s.Grader.ImportedFiles }),
	intSetting(keyMaxPoints, func(s *domain.AppSettings) *int { return &s.Grader.MaxPoints }),
	{
		key:   keyResubmitThreshold,
		value: func(s *domain.AppSettings) any { return s.Grader.ResubmitThreshold },
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if _, ok := store.Get(keyResubmitThreshold); ok {
				s.Grader.ResubmitThreshold = store.GetFloat(keyResubmitThreshold)
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return fmt.Errorf("%s: %q is not a number: %w", keyResubmitThreshold, raw, domain.ErrInvalidInput)
			}
			s.Grader.ResubmitThreshold = f
			return nil
		},
	},
	stringSetting(keyScene, func(s *domain.AppSettings) *string { return &s.Grader.Scene }),
	stringSetting(keySampleScene, func(s *domain.AppSettings) *string { return &s.Grader.SampleScene }),
	{
		key:   keyScripts,
		value: func(s *domain.AppSettings) any { return s.Grader.Scripts },
		load: func(store driven.ConfigStore, s *domain.AppSettings) {
			if scripts := store.GetStringSlice(keyScripts); len(scripts) > 0 {
				s.Grader.Scripts = scripts
			}
		},
		parse: func(s *domain.AppSettings, raw string) error {
			s.Grader.Scripts = splitList(raw)
			return nil
		},
	},
	stringSetting(keyTmpDir, func(s *domain.AppSettings) *string { return &s.Grader.TmpDir }),
	stringSetting(keyBoundaryMarker, func(s *domain.AppSettings) *string { return &s.Locator.BoundaryMarker }),
	intSetting(keyThreshold, func(s *domain.AppSettings) *int { return &s.Locator.Threshold }),
	stringSetting(keyMetaExtension, func(s *domain.AppSettings) *string { return &s.Locator.MetaExtension }),
	stringSetting(keyGitHubToken, func(s *domain.AppSettings) *string { return &s.GitHub.Token }),
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Keys missing from the store
// keep their default values.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	result := domain.DefaultAppSettings()
	for _, st := range settings {
		st.load(s.configStore, &result)
	}
	return &result, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(cfg *domain.AppSettings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, st := range settings {
		if st.key == keyGitHubToken && cfg.GitHub.Token == "" {
			continue
		}
		if err := s.configStore.Set(st.key, st.value(cfg)); err != nil {
			return fmt.Errorf("save %s: %w", st.key, err)
		}
	}
	return nil
}

// Set parses value for key, validates the resulting settings and persists
// the single key.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%q: %w", key, domain.ErrUnknownSetting)
	}

	cfg, err := s.Get()
	if err != nil {
		return err
	}
	if err := st.parse(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(st.key, st.value(cfg)); err != nil {
		return fmt.Errorf("save %s: %w", st.key, err)
	}
	return nil
}

// Keys lists every recognised settings key.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settings))
	for _, st := range settings {
		keys = append(keys, st.key)
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Values returns the current settings keyed like the config file.
func (s *SettingsService) Values() (map[string]any, error) {
	cfg, err := s.Get()
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(settings))
	for _, st := range settings {
		values[st.key] = st.value(cfg)
	}
	return values, nil
}

func lookupSetting(key string) (setting, bool) {
	key = strings.TrimSpace(key)
	for _, st := range settings {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
