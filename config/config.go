package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/bbmigrate/internal/constants"
	"github.com/spiffcs/bbmigrate/internal/duration"
)

// Environment variables holding credentials. Secrets are never read from
// or written to config files.
const (
	EnvGitHubToken        = "GITHUB_TOKEN"
	EnvBitbucketUsername  = "BITBUCKET_USERNAME"
	EnvBitbucketAppPasswd = "BITBUCKET_APP_PASSWORD"
)

const defaultFormat = "table"

// Config represents the application configuration
type Config struct {
	DefaultFormat string   `yaml:"default_format,omitempty"`
	Include       []string `yaml:"include,omitempty"`
	Exclude       []string `yaml:"exclude,omitempty"`

	Source      *SourceConfig      `yaml:"source,omitempty"`
	Destination *DestinationConfig `yaml:"destination,omitempty"`
	Import      *ImportConfig      `yaml:"import,omitempty"`
}

// SourceConfig describes the Bitbucket workspace to migrate from.
type SourceConfig struct {
	Workspace   string `yaml:"workspace,omitempty"`
	Username    string `yaml:"username,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	PageSize    *int   `yaml:"page_size,omitempty"`
	LabelSource string `yaml:"label_source,omitempty"`
}

// DestinationConfig describes where repositories are created on GitHub.
// An empty Organization selects user-owned repositories.
type DestinationConfig struct {
	Organization string `yaml:"organization,omitempty"`
	Team         string `yaml:"team,omitempty"`
	Username     string `yaml:"username,omitempty"` // must match the token owner when set
	BaseURL      string `yaml:"base_url,omitempty"`
}

// ImportConfig tunes history import polling.
type ImportConfig struct {
	PollInterval string `yaml:"poll_interval,omitempty"`
	Timeout      string `yaml:"timeout,omitempty"`
}

// Settings is the fully resolved configuration used by a migration run,
// with defaults applied and durations parsed.
type Settings struct {
	Workspace        string
	SourceUsername   string
	SourcePassword   string
	SourceBaseURL    string
	PageSize         int
	LabelSource      string
	Organization     string
	Team             string
	DestinationUser  string
	DestinationToken string
	DestinationURL   string
	PollInterval     time.Duration
	ImportTimeout    time.Duration
	Include          []string
	Exclude          []string
}

// ErrIncomplete is returned by Validate when required settings are missing.
var ErrIncomplete = errors.New("configuration incomplete")

// Resolve merges the config with defaults and credentials from the
// environment.
func (c *Config) Resolve() (Settings, error) {
	s := Settings{
		SourceBaseURL: constants.BitbucketAPIURL,
		PageSize:      constants.DefaultPageSize,
		LabelSource:   constants.DefaultLabelSource,
		Include:       c.Include,
		Exclude:       c.Exclude,
	}

	if src := c.Source; src != nil {
		s.Workspace = src.Workspace
		s.SourceUsername = src.Username
		if src.BaseURL != "" {
			s.SourceBaseURL = src.BaseURL
		}
		if src.PageSize != nil {
			s.PageSize = *src.PageSize
		}
		if src.LabelSource != "" {
			s.LabelSource = src.LabelSource
		}
	}
	if user := os.Getenv(EnvBitbucketUsername); user != "" {
		s.SourceUsername = user
	}
	s.SourcePassword = c.GetBitbucketAppPassword()

	if dst := c.Destination; dst != nil {
		s.Organization = dst.Organization
		s.Team = dst.Team
		s.DestinationUser = dst.Username
		s.DestinationURL = dst.BaseURL
	}
	s.DestinationToken = c.GetGitHubToken()

	var imp ImportConfig
	if c.Import != nil {
		imp = *c.Import
	}
	var err error
	if s.PollInterval, err = duration.ParseOr(imp.PollInterval, constants.ImportPollInterval); err != nil {
		return Settings{}, fmt.Errorf("invalid import.poll_interval: %w", err)
	}
	if s.ImportTimeout, err = duration.ParseOr(imp.Timeout, constants.ImportTimeout); err != nil {
		return Settings{}, fmt.Errorf("invalid import.timeout: %w", err)
	}

	return s, nil
}

// Validate reports every missing setting at once.
func (s Settings) Validate() error {
	var missing []error
	if s.Workspace == "" {
		missing = append(missing, errors.New("source.workspace is not set"))
	}
	if s.SourceUsername == "" {
		missing = append(missing, fmt.Errorf("source.username is not set (or set %s)", EnvBitbucketUsername))
	}
	if s.SourcePassword == "" {
		missing = append(missing, fmt.Errorf("%s is not set", EnvBitbucketAppPasswd))
	}
	if s.DestinationToken == "" {
		missing = append(missing, fmt.Errorf("%s is not set", EnvGitHubToken))
	}
	if s.Team != "" && s.Organization == "" {
		missing = append(missing, errors.New("destination.team requires destination.organization"))
	}
	if s.PageSize <= 0 || s.PageSize > constants.DefaultPageSize {
		missing = append(missing, fmt.Errorf("source.page_size must be between 1 and %d", constants.DefaultPageSize))
	}
	if s.PollInterval <= 0 || s.ImportTimeout <= 0 {
		missing = append(missing, errors.New("import.poll_interval and import.timeout must be positive"))
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrIncomplete, errors.Join(missing...))
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".bbmigrate"
	}
	return filepath.Join(configDir, "bbmigrate")
}

// ConfigPath returns the path to the global config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".bbmigrate.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the user config directory, then
// merges any local .bbmigrate.yaml on top (local values take precedence).
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom loads and merges the given global and local config files. Files
// that do not exist are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{
		DefaultFormat: defaultFormat,
	}

	if err := readInto(globalPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load global config file: %w", err)
	}

	var localCfg Config
	found, err := readIfExists(localPath, &localCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load local config file: %w", err)
	}
	if found {
		cfg = mergeConfig(cfg, &localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = defaultFormat
	}

	return cfg, nil
}

func readInto(path string, cfg *Config) error {
	_, err := readIfExists(path, cfg)
	return err
}

func readIfExists(path string, cfg *Config) (bool, error) {
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{
		DefaultFormat: firstNonEmpty(local.DefaultFormat, global.DefaultFormat),
		Include:       global.Include,
		Exclude:       global.Exclude,
	}

	// Lists are replaced, not appended
	if len(local.Include) > 0 {
		result.Include = local.Include
	}
	if len(local.Exclude) > 0 {
		result.Exclude = local.Exclude
	}

	result.Source = mergeSource(global.Source, local.Source)
	result.Destination = mergeDestination(global.Destination, local.Destination)
	result.Import = mergeImport(global.Import, local.Import)

	return result
}

func mergeSource(global, local *SourceConfig) *SourceConfig {
	if global == nil && local == nil {
		return nil
	}
	result := &SourceConfig{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		result.Workspace = firstNonEmpty(local.Workspace, result.Workspace)
		result.Username = firstNonEmpty(local.Username, result.Username)
		result.BaseURL = firstNonEmpty(local.BaseURL, result.BaseURL)
		result.LabelSource = firstNonEmpty(local.LabelSource, result.LabelSource)
		if local.PageSize != nil {
			result.PageSize = local.PageSize
		}
	}
	return result
}

func mergeDestination(global, local *DestinationConfig) *DestinationConfig {
	if global == nil && local == nil {
		return nil
	}
	result := &DestinationConfig{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		result.Organization = firstNonEmpty(local.Organization, result.Organization)
		result.Team = firstNonEmpty(local.Team, result.Team)
		result.Username = firstNonEmpty(local.Username, result.Username)
		result.BaseURL = firstNonEmpty(local.BaseURL, result.BaseURL)
	}
	return result
}

func mergeImport(global, local *ImportConfig) *ImportConfig {
	if global == nil && local == nil {
		return nil
	}
	result := &ImportConfig{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		result.PollInterval = firstNonEmpty(local.PollInterval, result.PollInterval)
		result.Timeout = firstNonEmpty(local.Timeout, result.Timeout)
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment variable.
func (c *Config) GetGitHubToken() string {
	return os.Getenv(EnvGitHubToken)
}

// GetBitbucketAppPassword returns the Bitbucket app password from the
// BITBUCKET_APP_PASSWORD environment variable.
func (c *Config) GetBitbucketAppPassword() string {
	return os.Getenv(EnvBitbucketAppPasswd)
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	pageSize := constants.DefaultPageSize
	return &Config{
		DefaultFormat: defaultFormat,
		Include:       []string{},
		Exclude:       []string{},
		Source: &SourceConfig{
			Workspace:   "",
			Username:    "",
			BaseURL:     constants.BitbucketAPIURL,
			PageSize:    &pageSize,
			LabelSource: constants.DefaultLabelSource,
		},
		Destination: &DestinationConfig{},
		Import: &ImportConfig{
			PollInterval: constants.ImportPollInterval.String(),
			Timeout:      constants.ImportTimeout.String(),
		},
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# bbmigrate configuration file
# See: bbmigrate config defaults  (for all available options)
#
# Credentials are read from the environment only:
#   BITBUCKET_APP_PASSWORD  Bitbucket app password
#   GITHUB_TOKEN            GitHub personal access token

source:
  workspace: my-workspace
  username: my-bitbucket-user

destination:
  # Leave organization empty to create repositories under your own account
  organization: ""
  # Team granted admin on every created repository (organization only)
  # team: platform

# import:
#   poll_interval: 10s
#   timeout: 30m

# Only migrate matching repositories (glob patterns on the Bitbucket name)
# include:
#   - "service-*"
# exclude:
#   - "*-archive"
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
