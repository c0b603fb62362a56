package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig tests the NewConfig constructor.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default target sequence has one element", func(t *testing.T) {
		t.Parallel()
		if len(cfg.Targets) != 1 || cfg.Targets[0] != DefaultTargetURL {
			t.Errorf("expected [%s], got %v", DefaultTargetURL, cfg.Targets)
		}
	})

	t.Run("has no timeout", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 0 {
			t.Errorf("expected no timeout, got %v", cfg.Timeout)
		}
	})

	t.Run("has user agent", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent != DefaultUserAgent {
			t.Errorf("expected %q, got %q", DefaultUserAgent, cfg.UserAgent)
		}
	})

	t.Run("has no body limit", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 0 {
			t.Errorf("expected 0, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("headers map is initialized", func(t *testing.T) {
		t.Parallel()
		if cfg.Headers == nil {
			t.Error("expected non-nil headers map")
		}
	})

	t.Run("does not want a report", func(t *testing.T) {
		t.Parallel()
		if cfg.WantsReport() {
			t.Error("expected WantsReport to be false by default")
		}
	})
}

// TestConfigValidate tests the Validate method.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults are valid",
			modify:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "empty target sequence is valid",
			modify:  func(c *Config) { c.Targets = nil },
			wantErr: nil,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative max body size",
			modify:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name: "json and markdown together",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name: "proxy and embedded tor together",
			modify: func(c *Config) {
				c.ProxyAddress = "127.0.0.1:9050"
				c.EmbeddedTor = true
			},
			wantErr: ErrConflictingProxies,
		},
		{
			name: "embedded tor without startup timeout",
			modify: func(c *Config) {
				c.EmbeddedTor = true
				c.TorStartupTimeout = 0
			},
			wantErr: ErrInvalidTorStartupTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestParseHeader tests the ParseHeader helper.
func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input     string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{input: "Accept: text/html", wantName: "Accept", wantValue: "text/html"},
		{input: "X-Trace:abc", wantName: "X-Trace", wantValue: "abc"},
		{input: "X-Empty:", wantName: "X-Empty", wantValue: ""},
		{input: "Link: <a>; rel=next", wantName: "Link", wantValue: "<a>; rel=next"},
		{input: "no-colon", wantErr: true},
		{input: ": value", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			name, value, err := ParseHeader(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHeader) {
					t.Errorf("expected ErrInvalidHeader, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.wantName || value != tt.wantValue {
				t.Errorf("got (%q, %q), want (%q, %q)", name, value, tt.wantName, tt.wantValue)
			}
		})
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile("/nonexistent/path/.spiderling")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cf != nil {
			t.Error("expected nil file when not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".spiderling")
		content := `targets:
  - https://example.com/a
  - https://example.com/b
timeout: 30s
userAgent: "test-agent"
maxBodySize: 1024
cookie: "session=xyz"
headers:
  Accept-Language: "en"
proxy: "127.0.0.1:9050"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cf.Targets) != 2 || cf.Targets[1] != "https://example.com/b" {
			t.Errorf("unexpected targets: %v", cf.Targets)
		}
		if cf.Timeout != "30s" {
			t.Errorf("expected timeout 30s, got %q", cf.Timeout)
		}
		if cf.MaxBodySize != 1024 {
			t.Errorf("expected max body size 1024, got %d", cf.MaxBodySize)
		}
		if cf.Headers["Accept-Language"] != "en" {
			t.Errorf("expected Accept-Language header, got %v", cf.Headers)
		}
		if cf.Proxy != "127.0.0.1:9050" {
			t.Errorf("expected proxy, got %q", cf.Proxy)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".spiderling")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Headers map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".spiderling")
		if err := os.WriteFile(configPath, []byte("timeout: 5s\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Headers == nil {
			t.Error("expected Headers map to be initialized")
		}
	})
}

// TestFileApply tests merging a configuration file into a Config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("copies non-zero values", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Headers["Accept"] = "text/html"
		cf := &File{
			Targets:     []string{"https://example.com/"},
			Timeout:     "10s",
			UserAgent:   "custom",
			MaxBodySize: 2048,
			Cookie:      "a=b",
			Headers:     map[string]string{"Accept": "*/*", "X-Extra": "1"},
			Proxy:       "127.0.0.1:9150",
		}

		if err := cf.Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://example.com/" {
			t.Errorf("unexpected targets: %v", cfg.Targets)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected 10s, got %v", cfg.Timeout)
		}
		if cfg.UserAgent != "custom" || cfg.Cookie != "a=b" || cfg.ProxyAddress != "127.0.0.1:9150" {
			t.Errorf("unexpected values: %+v", cfg)
		}
		if cfg.MaxBodySize != 2048 {
			t.Errorf("expected 2048, got %d", cfg.MaxBodySize)
		}
		if cfg.Headers["Accept"] != "*/*" || cfg.Headers["X-Extra"] != "1" {
			t.Errorf("unexpected headers: %v", cfg.Headers)
		}
	})

	t.Run("empty file leaves defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := (&File{}).Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Targets[0] != DefaultTargetURL {
			t.Errorf("expected default target, got %v", cfg.Targets)
		}
		if cfg.UserAgent != DefaultUserAgent {
			t.Errorf("expected default user agent, got %q", cfg.UserAgent)
		}
	})

	t.Run("invalid timeout is rejected", func(t *testing.T) {
		t.Parallel()

		err := (&File{Timeout: "soon"}).Apply(NewConfig())
		if err == nil || !strings.Contains(err.Error(), "invalid timeout") {
			t.Errorf("expected invalid timeout error, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("targets: []"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("targets: []"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(dir)

		result := FindConfigFile("")
		if filepath.Base(result) != DefaultConfigFile {
			t.Errorf("expected %s to be found, got %q", DefaultConfigFile, result)
		}
	})
}

// TestXDGConfigDir tests the XDG directory helper.
func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if dir == "" {
		t.Fatal("expected non-empty path")
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("expected path to end with %q, got %q", AppName, dir)
	}
}
