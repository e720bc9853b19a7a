package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

const (
	defaultDirName  = ".tableorder"
	defaultFileName = "config.json"
	envConfigPath   = "TABLEORDER_CONFIG_PATH"
)

var (
	// ErrConfigNotFound is returned when config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidConfig is returned when config payload is malformed.
	ErrInvalidConfig = errors.New("config file is invalid")
)

// Store loads and writes profile configuration.
type Store struct {
	path string
}

// NewStore creates a store using env overrides or defaults.
func NewStore() (*Store, error) {
	if cfg := os.Getenv(envConfigPath); cfg != "" {
		return &Store{path: cfg}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return &Store{path: filepath.Join(home, defaultDirName, defaultFileName)}, nil
}

// NewStoreAt creates a store for an explicit path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns current config path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates configuration.
func (s *Store) Load(_ context.Context) (domain.Config, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Config{}, ErrConfigNotFound
		}
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg domain.Config
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Save writes a configuration payload.
func (s *Store) Save(_ context.Context, cfg domain.Config) error {
	if err := validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	payload, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func validate(cfg domain.Config) error {
	if len(cfg.Profiles) == 0 {
		return fmt.Errorf("%w: profiles is empty", ErrInvalidConfig)
	}
	seen := map[string]struct{}{}
	for i, profile := range cfg.Profiles {
		name := strings.ToLower(strings.TrimSpace(profile.Name))
		if name == "" {
			return fmt.Errorf("%w: profile %d has no name", ErrInvalidConfig, i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: duplicate profile %q", ErrInvalidConfig, profile.Name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(profile.RestaurantID) == "" {
			return fmt.Errorf("%w: profile %q has no restaurant_id", ErrInvalidConfig, profile.Name)
		}
	}
	return nil
}

// UpsertProfile replaces the profile with the same name or appends it.
// A default profile clears the default flag of every other profile; the
// first profile of a config is always the default.
func UpsertProfile(cfg domain.Config, profile domain.Profile) domain.Config {
	out := domain.Config{Profiles: make([]domain.Profile, 0, len(cfg.Profiles)+1)}
	replaced := false
	for _, existing := range cfg.Profiles {
		if strings.EqualFold(strings.TrimSpace(existing.Name), strings.TrimSpace(profile.Name)) {
			out.Profiles = append(out.Profiles, profile)
			replaced = true
			continue
		}
		out.Profiles = append(out.Profiles, existing)
	}
	if !replaced {
		out.Profiles = append(out.Profiles, profile)
	}
	if len(out.Profiles) == 1 {
		out.Profiles[0].IsDefault = true
	}
	if profile.IsDefault {
		for i := range out.Profiles {
			out.Profiles[i].IsDefault = strings.EqualFold(strings.TrimSpace(out.Profiles[i].Name), strings.TrimSpace(profile.Name))
		}
	}
	return out
}
