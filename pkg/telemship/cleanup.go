package telemship

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/bft-labs/telemship/internal/adapters/fs"
	"github.com/bft-labs/telemship/pkg/log"
)

// CleanupConfig holds configuration options for automatic queue cleanup.
// When enabled, telemship periodically checks the queue directory size
// and discards the oldest unsent records when it exceeds the high
// watermark. Discarded telemetry is gone; size the watermarks so cleanup
// only fires when the service has been unreachable for a long time.
type CleanupConfig struct {
	// Enabled controls whether cleanup is active. Default: false
	Enabled bool

	// CheckInterval is how often to check the queue directory size.
	// Default: 10 minutes
	CheckInterval time.Duration

	// HighWatermark is the size in bytes above which cleanup begins.
	// Default: 32 MiB
	HighWatermark int64

	// LowWatermark is the target size in bytes after cleanup.
	// Default: 24 MiB
	LowWatermark int64

	// MaxRecords caps the number of records kept regardless of size.
	// Zero means no count-based trimming.
	MaxRecords int
}

// DefaultCleanupConfig returns a CleanupConfig with sensible defaults.
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		Enabled:       true,
		CheckInterval: 10 * time.Minute,
		HighWatermark: 32 << 20,
		LowWatermark:  24 << 20,
	}
}

// WithCleanupConfig enables automatic queue cleanup with the specified
// configuration. When enabled, telemship periodically checks the queue
// directory size and removes the oldest records to prevent unbounded
// disk usage when the service is unreachable.
//
// Usage:
//
//	t, err := telemship.New(cfg,
//	    telemship.WithCleanupConfig(telemship.CleanupConfig{
//	        Enabled:       true,
//	        HighWatermark: 64 << 20,
//	        LowWatermark:  32 << 20,
//	        CheckInterval: time.Hour,
//	    }),
//	)
func WithCleanupConfig(cfg CleanupConfig) Option {
	if !cfg.Enabled {
		return func(o *options) {}
	}

	// Apply defaults for zero values
	def := DefaultCleanupConfig()
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = def.CheckInterval
	}
	if cfg.HighWatermark <= 0 {
		cfg.HighWatermark = def.HighWatermark
	}
	if cfg.LowWatermark <= 0 {
		cfg.LowWatermark = def.LowWatermark
	}

	return func(o *options) {
		o.cleanupConfig = &cfg
	}
}

// cleanupRunner manages the queue cleanup goroutine.
type cleanupRunner struct {
	checkInterval time.Duration
	highWatermark int64
	lowWatermark  int64
	maxRecords    int

	queue  *fs.Queue
	logger log.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newCleanupRunner(cfg CleanupConfig, queue *fs.Queue, logger log.Logger) *cleanupRunner {
	return &cleanupRunner{
		checkInterval: cfg.CheckInterval,
		highWatermark: cfg.HighWatermark,
		lowWatermark:  cfg.LowWatermark,
		maxRecords:    cfg.MaxRecords,
		queue:         queue,
		logger:        logger,
	}
}

func (c *cleanupRunner) start(ctx context.Context) {
	cleanupCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.logger.Info("queue cleanup enabled",
		log.Int64("high_watermark", c.highWatermark),
		log.Int64("low_watermark", c.lowWatermark),
	)

	c.wg.Add(1)
	go c.cleanupLoop(cleanupCtx)
}

func (c *cleanupRunner) stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

func (c *cleanupRunner) cleanupLoop(ctx context.Context) {
	defer c.wg.Done()

	// Run immediately on startup
	c.cleanupOnce(ctx)

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanupOnce(ctx)
		}
	}
}

func (c *cleanupRunner) cleanupOnce(ctx context.Context) {
	c.trimByCount(ctx)
	c.trimBySize(ctx)
}

// trimByCount drops the oldest records beyond the MaxRecords cap.
func (c *cleanupRunner) trimByCount(ctx context.Context) {
	if c.maxRecords <= 0 {
		return
	}

	pending, err := c.queue.Pending()
	if err != nil {
		c.logger.Error("queue cleanup: count check failed", log.Err(err))
		return
	}
	excess := pending - c.maxRecords
	if excess <= 0 {
		return
	}

	recs, err := c.queue.Oldest(excess)
	if err != nil {
		c.logger.Error("queue cleanup: list records failed", log.Err(err))
		return
	}

	dropped := 0
	for _, rec := range recs {
		if ctx.Err() != nil {
			return
		}
		if err := c.queue.Delete(rec); err != nil {
			c.logger.Error("queue cleanup: remove failed", log.Err(err))
			continue
		}
		dropped++
	}

	if dropped > 0 {
		c.logger.Info("queue cleanup trimmed record count",
			log.Int("records_dropped", dropped),
			log.Int("max_records", c.maxRecords),
		)
	}
}

// trimBySize drops the oldest records until the queue is back under the
// low watermark.
func (c *cleanupRunner) trimBySize(ctx context.Context) {
	curSize, err := c.queue.TotalBytes()
	if err != nil {
		c.logger.Error("queue cleanup: size check failed", log.Err(err))
		return
	}
	if curSize <= c.highWatermark {
		return
	}

	// Oldest skips records currently reserved by the dispatcher, so an
	// in-flight batch is never deleted out from under it.
	recs, err := c.queue.Oldest(0)
	if err != nil {
		c.logger.Error("queue cleanup: list records failed", log.Err(err))
		return
	}
	if len(recs) == 0 {
		return
	}

	removed := int64(0)
	dropped := 0
	for _, rec := range recs {
		if ctx.Err() != nil {
			return
		}
		if curSize <= c.lowWatermark {
			break
		}

		info, statErr := os.Stat(rec.Path)
		if statErr != nil {
			continue
		}
		if rmErr := c.queue.Delete(rec); rmErr != nil {
			c.logger.Error("queue cleanup: remove failed", log.Err(rmErr))
			continue
		}
		curSize -= info.Size()
		removed += info.Size()
		dropped++
	}

	if removed > 0 {
		c.logger.Info("queue cleanup completed",
			log.Int("records_dropped", dropped),
			log.Int64("bytes_freed", removed),
		)
	}
}
