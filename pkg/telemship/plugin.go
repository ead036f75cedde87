package telemship

import (
	"context"

	"github.com/bft-labs/telemship/pkg/log"
)

// Plugin extends a Telemship instance with auxiliary behavior.
// Plugins are initialized in registration order when Start() is called
// and shut down in reverse order during Stop().
type Plugin interface {
	// Name returns a stable identifier for logging.
	Name() string

	// Initialize starts the plugin. The context is cancelled when the
	// instance stops.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and waits for its goroutines.
	Shutdown(ctx context.Context) error
}

// PluginConfig carries the instance configuration a plugin may need.
type PluginConfig struct {
	QueueDir    string
	EndpointURL string
	ConfigPath  string
	Logger      log.Logger

	// SetDeveloperMode toggles verbose response logging at runtime.
	// Never nil.
	SetDeveloperMode func(on bool)
}
