package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/bbmigrate/internal/constants"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadFromMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "also-nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultFormat != "table" {
		t.Errorf("expected default format table, got %q", cfg.DefaultFormat)
	}
	if cfg.Source != nil || cfg.Destination != nil {
		t.Errorf("expected empty sections, got %+v", cfg)
	}
}

func TestLoadFromMergesLocalOverGlobal(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global.yaml", `
default_format: json
exclude:
  - "*-archive"
source:
  workspace: acme
  username: jdoe
  page_size: 50
destination:
  organization: acme-gh
  team: platform
import:
  timeout: 1h
`)
	local := writeFile(t, dir, "local.yaml", `
source:
  workspace: acme-labs
destination:
  team: infra
import:
  poll_interval: 5s
`)

	cfg, err := LoadFrom(global, local)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultFormat != "json" {
		t.Errorf("DefaultFormat = %q, want json", cfg.DefaultFormat)
	}
	if cfg.Source.Workspace != "acme-labs" {
		t.Errorf("Workspace = %q, want acme-labs", cfg.Source.Workspace)
	}
	if cfg.Source.Username != "jdoe" {
		t.Errorf("Username = %q, want jdoe", cfg.Source.Username)
	}
	if cfg.Source.PageSize == nil || *cfg.Source.PageSize != 50 {
		t.Errorf("PageSize = %v, want 50", cfg.Source.PageSize)
	}
	if cfg.Destination.Organization != "acme-gh" || cfg.Destination.Team != "infra" {
		t.Errorf("Destination = %+v", cfg.Destination)
	}
	if cfg.Import.Timeout != "1h" || cfg.Import.PollInterval != "5s" {
		t.Errorf("Import = %+v", cfg.Import)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "*-archive" {
		t.Errorf("Exclude = %v", cfg.Exclude)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "source: [unterminated")
	if _, err := LoadFrom(bad, ""); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv(EnvGitHubToken, "gh-token")
	t.Setenv(EnvBitbucketAppPasswd, "bb-secret")
	t.Setenv(EnvBitbucketUsername, "")

	cfg := &Config{Source: &SourceConfig{Workspace: "acme", Username: "jdoe"}}
	s, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.PollInterval != constants.ImportPollInterval {
		t.Errorf("PollInterval = %v, want %v", s.PollInterval, constants.ImportPollInterval)
	}
	if s.ImportTimeout != constants.ImportTimeout {
		t.Errorf("ImportTimeout = %v, want %v", s.ImportTimeout, constants.ImportTimeout)
	}
	if s.PageSize != constants.DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", s.PageSize, constants.DefaultPageSize)
	}
	if s.LabelSource != constants.DefaultLabelSource {
		t.Errorf("LabelSource = %q", s.LabelSource)
	}
	if s.SourceBaseURL != constants.BitbucketAPIURL {
		t.Errorf("SourceBaseURL = %q", s.SourceBaseURL)
	}
	if s.DestinationToken != "gh-token" || s.SourcePassword != "bb-secret" {
		t.Errorf("credentials not read from environment: %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("expected valid settings, got %v", err)
	}
}

func TestResolveDurationsAndEnvOverride(t *testing.T) {
	t.Setenv(EnvBitbucketUsername, "env-user")

	cfg := &Config{
		Source: &SourceConfig{Username: "file-user"},
		Import: &ImportConfig{PollInterval: "30s", Timeout: "2h"},
	}
	s, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.SourceUsername != "env-user" {
		t.Errorf("SourceUsername = %q, want env-user", s.SourceUsername)
	}
	if s.PollInterval != 30*time.Second || s.ImportTimeout != 2*time.Hour {
		t.Errorf("durations = %v / %v", s.PollInterval, s.ImportTimeout)
	}
}

func TestResolveInvalidDuration(t *testing.T) {
	cfg := &Config{Import: &ImportConfig{Timeout: "soon"}}
	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestValidateReportsAllMissing(t *testing.T) {
	s := Settings{Team: "platform", PageSize: 500}
	err := s.Validate()
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{
		"source.workspace",
		"source.username",
		EnvBitbucketAppPasswd,
		EnvGitHubToken,
		"destination.team requires",
		"page_size",
		"must be positive",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in error, got %q", want, msg)
		}
	}
}

func TestDefaultConfigRoundTripsToYAML(t *testing.T) {
	out, err := DefaultConfig().ToYAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"poll_interval: 10s", "timeout: 30m0s", "label_source: openjdk"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in defaults YAML:\n%s", want, out)
		}
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveTo(path, MinimalConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := LoadFrom(path, "")
	if err != nil {
		t.Fatalf("minimal config does not parse: %v", err)
	}
	if cfg.Source == nil || cfg.Source.Workspace != "my-workspace" {
		t.Errorf("unexpected minimal config contents: %+v", cfg.Source)
	}
}
