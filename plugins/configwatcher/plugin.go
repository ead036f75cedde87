// Package configwatcher provides config file monitoring for telemship.
// When enabled, it watches the agent's config file for changes and
// applies runtime-tunable settings, currently developer mode, without
// a restart.
package configwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/telemship/internal/cliconfig"
	"github.com/bft-labs/telemship/pkg/log"
	"github.com/bft-labs/telemship/pkg/telemship"
)

// Plugin implements config watching functionality.
// It monitors the agent's config file and re-applies runtime-tunable
// settings when it changes.
type Plugin struct {
	mu sync.RWMutex

	// Configuration
	debounceDelay time.Duration

	// Runtime state
	configPath string
	logger     log.Logger
	setDevMode func(bool)
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	debounce   *time.Timer
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before
	// reloading. Editors often produce several events per save.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	return &Plugin{
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize sets up the plugin and starts the config watcher.
func (p *Plugin) Initialize(ctx context.Context, cfg telemship.PluginConfig) error {
	p.mu.Lock()
	p.configPath = cfg.ConfigPath
	p.logger = cfg.Logger
	p.setDevMode = cfg.SetDeveloperMode
	p.mu.Unlock()

	if p.configPath == "" {
		p.logger.Warn("config watcher disabled: no config file path")
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("config watcher plugin initialized",
		log.String("path", p.configPath))

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the config watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

// watchLoop watches for config file changes. The parent directory is
// watched rather than the file itself so the watch survives the
// rename-into-place dance most editors and atomic writers do.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("config watcher: failed to create watcher", log.Err(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(p.configPath)); err != nil {
		p.logger.Error("config watcher: failed to watch directory", log.Err(err))
		return
	}

	// Apply current contents immediately
	p.applyConfig()

	want := filepath.Base(p.configPath)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != want {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceApply(p.debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher: watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceApply(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(delay, p.applyConfig)
}

// applyConfig reloads the config file and pushes runtime-tunable
// settings into the running agent.
func (p *Plugin) applyConfig() {
	p.mu.RLock()
	path := p.configPath
	setDevMode := p.setDevMode
	p.mu.RUnlock()

	fc, err := cliconfig.LoadFileConfig(path)
	if err != nil {
		p.logger.Warn("config watcher: reload failed", log.Err(err))
		return
	}

	if fc.DeveloperMode != nil && setDevMode != nil {
		setDevMode(*fc.DeveloperMode)
		p.logger.Info("config watcher: developer mode updated",
			log.Bool("developer_mode", *fc.DeveloperMode))
	}
}

// Ensure Plugin implements telemship.Plugin.
var _ telemship.Plugin = (*Plugin)(nil)
