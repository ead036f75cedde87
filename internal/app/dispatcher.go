package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/bft-labs/telemship/internal/domain"
	"github.com/bft-labs/telemship/internal/ports"
	"github.com/bft-labs/telemship/pkg/log"
)

// DefaultMaxInFlight is the default transmission concurrency ceiling.
const DefaultMaxInFlight = 10

// DispatcherConfig contains configuration for the dispatch gate.
type DispatcherConfig struct {
	// MaxInFlight bounds the number of concurrent transmissions.
	MaxInFlight int

	// DeveloperMode enables verbose logging of accepted response bodies.
	DeveloperMode bool
}

// DeliveryEventEmitter is called when a transmission attempt resolves.
type DeliveryEventEmitter interface {
	OnDelivered(rec domain.Record, bytes int)
	OnDeliveryError(rec domain.Record, err error, retryable bool)
}

// Dispatcher gates concurrent transmissions, pulls records from the
// durable queue, drives the transport and settles every attempt into
// exactly one of delete or release.
//
// All methods are safe for concurrent use; the in-flight counter is the
// only shared mutable state besides the queue's own reservation.
type Dispatcher struct {
	cfg       DispatcherConfig
	queue     ports.DurableQueue
	transport ports.Transport
	logger    log.Logger
	emitter   DeliveryEventEmitter

	pool     *ants.Pool
	inFlight atomic.Int32
	devMode  atomic.Bool
	degraded atomic.Bool
}

// NewDispatcher creates a dispatcher with a worker pool sized to the
// concurrency ceiling. Call Close when done to release the pool.
func NewDispatcher(
	cfg DispatcherConfig,
	queue ports.DurableQueue,
	transport ports.Transport,
	logger log.Logger,
	emitter DeliveryEventEmitter,
) (*Dispatcher, error) {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = DefaultMaxInFlight
	}

	// Submissions are gated by the in-flight counter before they reach
	// the pool, so Submit blocks only for the instant between a worker
	// releasing its slot and returning.
	pool, err := ants.NewPool(cfg.MaxInFlight)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	d := &Dispatcher{
		cfg:       cfg,
		queue:     queue,
		transport: transport,
		logger:    logger,
		emitter:   emitter,
		pool:      pool,
	}
	d.devMode.Store(cfg.DeveloperMode)
	return d, nil
}

// Close releases the worker pool. In-flight transmissions finish; no
// new ones are admitted.
func (d *Dispatcher) Close() {
	d.pool.Release()
}

// Reboot revives a closed worker pool so the dispatcher can be reused
// after Close.
func (d *Dispatcher) Reboot() {
	d.pool.Reboot()
}

// InFlight returns the number of transmissions admitted past the gate
// and not yet resolved.
func (d *Dispatcher) InFlight() int {
	return int(d.inFlight.Load())
}

// SetDeveloperMode toggles verbose response logging at runtime.
func (d *Dispatcher) SetDeveloperMode(on bool) {
	d.devMode.Store(on)
}

// Degraded reports and clears the degraded flag, which is set whenever
// an attempt ends in a transport failure or a retryable server error.
// The run loop uses it to back off instead of polling at full rate.
func (d *Dispatcher) Degraded() bool {
	return d.degraded.Swap(false)
}

// TryAdvance admits at most one record past the concurrency gate and
// begins its transmission asynchronously. It returns true if a record
// was admitted (or consumed as degenerate) and false when the gate is
// full or the queue is empty. Calling it in either of those states is a
// no-op, which is what makes external triggers level-triggered: every
// completed transmission and every poll tick may safely re-invoke it.
func (d *Dispatcher) TryAdvance(ctx context.Context) bool {
	for {
		if !d.acquireSlot() {
			return false
		}

		rec, ok := d.queue.NextAvailable()
		if !ok {
			d.releaseSlot()
			return false
		}

		payload, err := d.queue.Load(rec)
		if err != nil {
			d.releaseSlot()
			d.logger.Warn("load record failed", log.String("record", rec.Name), log.Err(err))
			d.queue.MakeAvailable(rec)
			return false
		}

		// A degenerate empty record is treated as already delivered:
		// no network attempt, no slot consumed, drain continues.
		if len(payload) == 0 {
			d.releaseSlot()
			if err := d.queue.Delete(rec); err != nil {
				return false
			}
			continue
		}

		// Submit fails only once the pool has been released (shutdown);
		// the record goes back to the pool for the next run.
		if err := d.pool.Submit(func() { d.transmit(ctx, rec, payload) }); err != nil {
			d.releaseSlot()
			d.queue.MakeAvailable(rec)
			d.logger.Warn("worker pool rejected transmission", log.Err(err))
			return false
		}
		return true
	}
}

// Drain repeatedly invokes TryAdvance until the gate is full or the
// queue is empty. Returns the number of records admitted.
func (d *Dispatcher) Drain(ctx context.Context) int {
	admitted := 0
	for d.TryAdvance(ctx) {
		admitted++
	}
	return admitted
}

// acquireSlot claims one in-flight slot if the gate is below the
// ceiling. CAS keeps the counter from ever exceeding MaxInFlight even
// under concurrent triggers.
func (d *Dispatcher) acquireSlot() bool {
	for {
		n := d.inFlight.Load()
		if int(n) >= d.cfg.MaxInFlight {
			return false
		}
		if d.inFlight.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// releaseSlot resolves one in-flight slot. Every acquired slot is
// released exactly once, on whichever path the attempt ends.
func (d *Dispatcher) releaseSlot() {
	d.inFlight.Add(-1)
}

// transmit performs one network round-trip for one record and settles
// the outcome. Runs on a pool worker.
func (d *Dispatcher) transmit(ctx context.Context, rec domain.Record, payload []byte) {
	resp, err := d.transport.Send(ctx, payload)
	if err != nil {
		// Transport failure before any status code: release for retry
		// and wait for the next external trigger.
		d.releaseSlot()
		d.degraded.Store(true)
		d.logger.Warn("send failed",
			log.String("record", rec.Name),
			log.Int("bytes", len(payload)),
			log.Err(err),
		)
		d.queue.MakeAvailable(rec)
		if d.emitter != nil {
			d.emitter.OnDeliveryError(rec, err, true)
		}
		return
	}
	defer func() {
		if cerr := resp.Close(); cerr != nil {
			d.logger.Debug("close response failed", log.Err(cerr))
		}
	}()

	d.resolve(ctx, rec, payload, resp)
}

// resolve classifies the status code and applies the outcome. The
// in-flight slot is released first, unconditionally: the attempt is
// resolved regardless of what the classification decides.
func (d *Dispatcher) resolve(ctx context.Context, rec domain.Record, payload []byte, resp ports.Response) {
	d.releaseSlot()

	status := resp.StatusCode()
	outcome := domain.Classify(status)

	switch outcome {
	case domain.OutcomeAccepted:
		if d.devMode.Load() {
			d.logger.Debug("server response",
				log.Int("status", status),
				log.String("body", resp.Detail()),
			)
		}
		if err := d.queue.Delete(rec); err == nil {
			if d.emitter != nil {
				d.emitter.OnDelivered(rec, len(payload))
			}
		}
		// Success feeds the drain: pick up the next record, if any.
		// Advanced from a fresh goroutine, never from the pool worker
		// itself: a worker blocking on Submit while every other worker
		// does the same would deadlock the pool.
		go d.TryAdvance(ctx)

	case domain.OutcomeRetryable:
		d.degraded.Store(true)
		d.logger.Info("server busy, batch kept for retry",
			log.Int("status", status),
			log.String("record", rec.Name),
			log.String("payload", string(payload)),
		)
		d.queue.MakeAvailable(rec)
		if d.emitter != nil {
			d.emitter.OnDeliveryError(rec, fmt.Errorf("server returned %d", status), true)
		}
		// No immediate re-advance: a struggling endpoint gets room to
		// breathe until the next external trigger.

	default:
		d.logger.Warn("unexpected response, dropping batch",
			log.Int("status", status),
			log.String("record", rec.Name),
			log.String("body", resp.Detail()),
		)
		_ = d.queue.Delete(rec)
		if d.emitter != nil {
			d.emitter.OnDeliveryError(rec, fmt.Errorf("server returned %d", status), false)
		}
	}
}
