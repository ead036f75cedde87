package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
endpoint_url = "https://collector.example.com/v2/track"
queue_dir = "/var/lib/telemship/queue"
connect_timeout = "20s"
read_timeout = "8s"
poll_interval = "30s"
max_in_flight = 5
max_queue_records = 100
developer_mode = true
compress = false
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.EndpointURL != "https://collector.example.com/v2/track" {
		t.Errorf("EndpointURL = %v", fc.EndpointURL)
	}
	if fc.MaxInFlight != 5 {
		t.Errorf("MaxInFlight = %d, want 5", fc.MaxInFlight)
	}
	if fc.DeveloperMode == nil || !*fc.DeveloperMode {
		t.Error("DeveloperMode not parsed")
	}
	if fc.Compress == nil || *fc.Compress {
		t.Error("Compress not parsed as false")
	}
}

func TestLoadFileConfig_Invalid(t *testing.T) {
	path := writeConfigFile(t, `endpoint_url = [not toml`)

	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig() error = nil, want parse error")
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFileConfig() error = nil, want not-exist error")
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := DefaultConfig()
	dev := true
	fc := FileConfig{
		EndpointURL:   "https://collector.example.com/v2/track",
		QueueDir:      "/var/lib/telemship/queue",
		ReadTimeout:   "8s",
		MaxInFlight:   3,
		DeveloperMode: &dev,
	}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}

	if cfg.EndpointURL != fc.EndpointURL {
		t.Errorf("EndpointURL = %v", cfg.EndpointURL)
	}
	if cfg.ReadTimeout != 8*time.Second {
		t.Errorf("ReadTimeout = %v, want 8s", cfg.ReadTimeout)
	}
	if cfg.MaxInFlight != 3 {
		t.Errorf("MaxInFlight = %d, want 3", cfg.MaxInFlight)
	}
	if !cfg.DeveloperMode {
		t.Error("DeveloperMode not applied")
	}
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueDir = "/from/flag"
	fc := FileConfig{QueueDir: "/from/file"}

	changed := map[string]bool{"queue-dir": true}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatal(err)
	}
	if cfg.QueueDir != "/from/flag" {
		t.Errorf("QueueDir = %v, flag should win over file", cfg.QueueDir)
	}
}

func TestApplyFileConfig_BadDuration(t *testing.T) {
	cfg := DefaultConfig()
	fc := FileConfig{PollInterval: "soon"}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Error("ApplyFileConfig() error = nil, want parse error")
	}
}
