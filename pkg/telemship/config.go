package telemship

import (
	"strings"
	"time"

	"github.com/bft-labs/telemship/internal/domain"
)

// DefaultEndpointURL is the default ingestion endpoint for telemetry batches.
const DefaultEndpointURL = "https://dc.services.visualstudio.com/v2/track"

// Config holds the configuration for the telemetry delivery agent.
// Use DefaultConfig() to get a Config with sensible defaults; at minimum
// you must set QueueDir.
type Config struct {
	// EndpointURL is the ingestion endpoint batches are posted to.
	EndpointURL string

	// QueueDir is the directory holding persisted batch files.
	QueueDir string

	// ConfigPath is the path of the agent's own config file, if any.
	// Plugins that watch for configuration changes use it.
	ConfigPath string

	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout bounds waiting for the service response.
	ReadTimeout time.Duration

	// PollInterval is how often the queue is scanned for records that
	// no trigger picked up.
	PollInterval time.Duration

	// MaxInFlight bounds the number of concurrent transmissions.
	MaxInFlight int

	// MaxQueueRecords caps how many records Enqueue will accept.
	MaxQueueRecords int

	// DeveloperMode enables verbose logging of accepted response bodies.
	DeveloperMode bool

	// Compress gzips request bodies. Enabled by default.
	Compress bool

	// Once drains the queue a single time and returns instead of
	// running until the context is cancelled.
	Once bool
}

// DefaultConfig returns a Config with sensible default values.
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

// SetDefaults fills zero-valued fields with their defaults.
// QueueDir is deliberately left alone; there is no sane default for it.
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.EndpointURL == "" {
		c.EndpointURL = def.EndpointURL
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = def.ConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = def.MaxInFlight
	}
	if c.MaxQueueRecords <= 0 {
		c.MaxQueueRecords = def.MaxQueueRecords
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.QueueDir == "" {
		return domain.ErrInvalidConfig
	}
	c.EndpointURL = strings.TrimRight(c.EndpointURL, "/")
	if c.EndpointURL == "" {
		return domain.ErrInvalidConfig
	}
	return nil
}
