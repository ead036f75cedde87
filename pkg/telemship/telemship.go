package telemship

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/telemship/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/telemship/internal/adapters/http"
	"github.com/bft-labs/telemship/internal/app"
	"github.com/bft-labs/telemship/internal/domain"
	"github.com/bft-labs/telemship/pkg/log"
)

// Telemship is a telemetry delivery agent that can be embedded in other
// applications. Use New() to create an instance, then Start() to begin
// shipping queued batches.
type Telemship struct {
	config     Config
	opts       options
	lifecycle  *app.Lifecycle
	dispatcher *app.Dispatcher
	queue      *fs.Queue
	logger     log.Logger

	// Plugin support
	plugins []Plugin

	// Cleanup runner (config-based, not a plugin)
	cleanup *cleanupRunner

	// kick wakes the run loop when a new record lands in the queue.
	kick chan struct{}

	// done is closed when the delivery loop exits.
	done chan struct{}

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Telemship instance with the given configuration.
// The instance is created in StateStopped; call Start() to begin shipping.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Telemship, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Apply options
	httpClient := httpAdapter.NewHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout)
	o := defaultOptions(httpClient)
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	// Create event emitter wrapper
	var emitter eventEmitterWrapper
	if o.eventHandler != nil {
		emitter = eventEmitterWrapper{handler: o.eventHandler}
	}

	lifecycle := app.NewLifecycle(logger, &emitter)

	t := &Telemship{
		config:    cfg,
		opts:      o,
		lifecycle: lifecycle,
		logger:    logger,
		plugins:   o.plugins,
		kick:      make(chan struct{}, 1),
	}

	queue, err := fs.NewQueue(cfg.QueueDir, logger,
		fs.WithMaxRecords(cfg.MaxQueueRecords),
		fs.WithNotify(t.wake),
	)
	if err != nil {
		return nil, err
	}
	t.queue = queue

	transport := httpAdapter.NewTransmitter(o.httpClient, cfg.EndpointURL, cfg.Compress, logger)

	dispatcher, err := app.NewDispatcher(
		app.DispatcherConfig{
			MaxInFlight:   cfg.MaxInFlight,
			DeveloperMode: cfg.DeveloperMode,
		},
		queue, transport, logger, &emitter,
	)
	if err != nil {
		return nil, err
	}
	t.dispatcher = dispatcher

	if o.cleanupConfig != nil && o.cleanupConfig.Enabled {
		t.cleanup = newCleanupRunner(*o.cleanupConfig, queue, logger)
	}

	return t, nil
}

// Enqueue persists a telemetry batch to the durable queue. The batch is
// picked up by the running delivery loop, or by the next Start() if the
// instance is stopped. Returns ErrQueueFull when the record cap is hit.
func (t *Telemship) Enqueue(payload []byte) error {
	_, err := t.queue.Enqueue(payload)
	return err
}

// Pending returns the number of batches waiting on disk.
func (t *Telemship) Pending() (int, error) {
	return t.queue.Pending()
}

// SetDeveloperMode toggles verbose response logging at runtime.
func (t *Telemship) SetDeveloperMode(on bool) {
	t.dispatcher.SetDeveloperMode(on)
}

// Start begins batch delivery in the background.
// Returns immediately after starting the delivery goroutine.
// Returns an error if already running or if startup fails.
// The provided context is used for the lifetime of the delivery loop.
func (t *Telemship) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	if err := t.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	t.ctx = runCtx
	t.cancel = cancel
	t.done = make(chan struct{})
	t.lifecycle.SetCancel(cancel)

	// A previous Stop() released the worker pool.
	t.dispatcher.Reboot()

	// Initialize plugins
	pluginCfg := PluginConfig{
		QueueDir:         t.config.QueueDir,
		EndpointURL:      t.config.EndpointURL,
		ConfigPath:       t.config.ConfigPath,
		Logger:           t.logger,
		SetDeveloperMode: t.dispatcher.SetDeveloperMode,
	}
	for _, p := range t.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			t.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			cancel()
			_ = t.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		t.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	// Start cleanup runner if configured
	if t.cleanup != nil {
		t.cleanup.start(runCtx)
	}

	t.lifecycle.AddWorker()
	done := t.done
	go func() {
		defer close(done)
		defer t.lifecycle.WorkerDone()

		if err := t.lifecycle.TransitionTo(app.StateRunning, "delivery starting"); err != nil {
			t.logger.Error("failed to transition to running", log.Err(err))
			return
		}

		err := t.run(runCtx)

		if err != nil && err != context.Canceled {
			t.logger.Error("delivery loop error", log.Err(err))
			_ = t.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	}()

	return nil
}

// Stop gracefully shuts down the agent. In-flight transmissions finish;
// unsent records stay on disk for the next run. Waits up to 30 seconds
// before forcing shutdown. Returns nil on graceful shutdown,
// ErrShutdownTimeout if forced.
func (t *Telemship) Stop() error {
	t.mu.Lock()

	if !t.lifecycle.CanStop() {
		t.mu.Unlock()
		return domain.ErrNotRunning
	}

	if err := t.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		t.mu.Unlock()
		return err
	}

	if t.cancel != nil {
		t.cancel()
	}

	t.mu.Unlock()

	err := t.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	// Stop cleanup runner
	if t.cleanup != nil {
		t.cleanup.stop()
	}

	// Shutdown plugins (in reverse order)
	shutdownCtx := context.Background()
	for i := len(t.plugins) - 1; i >= 0; i-- {
		p := t.plugins[i]
		if shutdownErr := p.Shutdown(shutdownCtx); shutdownErr != nil {
			t.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(shutdownErr))
		} else {
			t.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}

	t.dispatcher.Close()

	if err != nil {
		_ = t.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = t.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}

	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (t *Telemship) Status() State {
	return convertState(t.lifecycle.State())
}

// Done returns a channel that is closed when the delivery loop exits.
// In Once mode this is how callers learn the pass has completed; Stop()
// must still be called to shut down plugins and release resources.
func (t *Telemship) Done() <-chan struct{} {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.done
}

// wake nudges the run loop without blocking. A full kick channel means
// a drain is already scheduled, which covers this record too.
func (t *Telemship) wake() {
	select {
	case t.kick <- struct{}{}:
	default:
	}
}

// run drives delivery until the context is cancelled. Every wakeup, from
// a fresh enqueue, the poll ticker or the end of a backoff pause, funnels
// into a Drain call; Drain itself is a no-op when the gate is full or the
// queue is empty, so spurious wakeups cost nothing.
func (t *Telemship) run(ctx context.Context) error {
	if t.config.Once {
		return t.runOnce(ctx)
	}

	backoff := app.NewBackoff(app.DefaultBackoffInitial, app.DefaultBackoffMax)

	ticker := time.NewTicker(t.config.PollInterval)
	defer ticker.Stop()

	t.dispatcher.Drain(ctx)

	for {
		if t.dispatcher.Degraded() {
			delay := backoff.Next()
			t.logger.Debug("service degraded, backing off", log.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		} else {
			backoff.Reset()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.kick:
			case <-ticker.C:
			}
		}

		t.dispatcher.Drain(ctx)
	}
}

// runOnce drains the queue a single time. Records that fail with a
// retryable error are left on disk for the next invocation instead of
// being retried in place.
func (t *Telemship) runOnce(ctx context.Context) error {
	t.dispatcher.Drain(ctx)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if t.dispatcher.InFlight() > 0 {
				continue
			}
			if t.dispatcher.Degraded() {
				pending, _ := t.queue.Pending()
				t.logger.Warn("single pass ended with records remaining",
					log.Int("pending", pending))
				return nil
			}
			pending, err := t.queue.Pending()
			if err != nil {
				return err
			}
			if pending == 0 {
				return nil
			}
			t.dispatcher.Drain(ctx)
		}
	}
}
