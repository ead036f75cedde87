package configwatcher

import "github.com/bft-labs/telemship/pkg/telemship"

// WithConfigWatcher returns a telemship Option that enables config file
// watching. When enabled, the plugin monitors the agent's config file
// and applies runtime-tunable settings on change.
//
// Usage:
//
//	agent, err := telemship.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) telemship.Option {
	plugin := New(cfg)
	return telemship.WithPlugin(plugin)
}

// WithDefaultConfigWatcher returns a telemship Option that enables
// config watching with default settings (debounce 100ms).
//
// Usage:
//
//	agent, err := telemship.New(cfg, configwatcher.WithDefaultConfigWatcher())
func WithDefaultConfigWatcher() telemship.Option {
	return WithConfigWatcher(DefaultConfig())
}
