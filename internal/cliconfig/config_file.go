package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	EndpointURL     string `toml:"endpoint_url"`
	QueueDir        string `toml:"queue_dir"`
	ConnectTimeout  string `toml:"connect_timeout"`
	ReadTimeout     string `toml:"read_timeout"`
	PollInterval    string `toml:"poll_interval"`
	MaxInFlight     int    `toml:"max_in_flight"`
	MaxQueueRecords int    `toml:"max_queue_records"`
	DeveloperMode   *bool  `toml:"developer_mode"`
	Compress        *bool  `toml:"compress"`
	Once            *bool  `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.telemship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".telemship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint-url", fc.EndpointURL, &cfg.EndpointURL)
	s.setString("queue-dir", fc.QueueDir, &cfg.QueueDir)

	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}

	s.setInt("max-in-flight", fc.MaxInFlight, &cfg.MaxInFlight)
	s.setInt("max-queue-records", fc.MaxQueueRecords, &cfg.MaxQueueRecords)

	s.setBool("developer-mode", fc.DeveloperMode, &cfg.DeveloperMode)
	s.setBool("compress", fc.Compress, &cfg.Compress)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
