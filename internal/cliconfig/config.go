// Package cliconfig loads CLI configuration from flags, environment
// variables and a TOML file, with precedence flags > env > file > defaults.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultEndpointURL is the default telemetry collection endpoint.
const DefaultEndpointURL = "https://dc.services.visualstudio.com/v2/track"

// Config holds CLI configuration for telemship.
type Config struct {
	EndpointURL string
	QueueDir    string

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	PollInterval   time.Duration

	MaxInFlight     int
	MaxQueueRecords int

	DeveloperMode bool
	Compress      bool
	Once          bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		EndpointURL:     DefaultEndpointURL,
		ConnectTimeout:  15 * time.Second,
		ReadTimeout:     10 * time.Second,
		PollInterval:    15 * time.Second,
		MaxInFlight:     10,
		MaxQueueRecords: 50,
		Compress:        true,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.QueueDir == "" {
		return fmt.Errorf("queue-dir is required")
	}
	if c.EndpointURL == "" {
		c.EndpointURL = DefaultEndpointURL
	}

	// Ensure no trailing slash
	if len(c.EndpointURL) > 0 && c.EndpointURL[len(c.EndpointURL)-1] == '/' {
		c.EndpointURL = c.EndpointURL[:len(c.EndpointURL)-1]
	}

	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.MaxInFlight <= 0 {
		return fmt.Errorf("max in-flight must be positive")
	}

	return nil
}

var logger zerolog.Logger

func init() {
	logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// Logger returns the package logger used by the CLI before the agent
// logger is wired.
func Logger() zerolog.Logger {
	return logger
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
