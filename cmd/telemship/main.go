package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/telemship/internal/cliconfig"
	logpkg "github.com/bft-labs/telemship/pkg/log"
	"github.com/bft-labs/telemship/pkg/telemship"
	"github.com/bft-labs/telemship/plugins/configwatcher"
)

const helpDescription = `
Ship queued telemetry batches to an ingestion endpoint.

Highlights:
  - Batches persisted on disk survive crashes and restarts; a record is
    deleted only after the service accepts it.
  - Bounded concurrency with automatic backoff while the service is
    degraded or unreachable.
  - Configure via file, environment, or flags.
`

var exampleUsage = strings.TrimSpace(`
  telemship --queue-dir /var/lib/telemship/queue
  telemship --config $HOME/.telemship/config.toml --once
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "telemship",
		Short:   "Ship queued telemetry batches to an ingestion endpoint",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.telemship/config.toml),
			// then apply env and flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			} else {
				cfgFile = ""
			}

			// Environment variables (TELEMSHIP_*) override file config
			// but are overridden by flags (checked via changed map).
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log.Info().Interface("config", cfg).Msg("configuration")

			libCfg := telemship.Config{
				EndpointURL:     cfg.EndpointURL,
				QueueDir:        cfg.QueueDir,
				ConfigPath:      cfgFile,
				ConnectTimeout:  cfg.ConnectTimeout,
				ReadTimeout:     cfg.ReadTimeout,
				PollInterval:    cfg.PollInterval,
				MaxInFlight:     cfg.MaxInFlight,
				MaxQueueRecords: cfg.MaxQueueRecords,
				DeveloperMode:   cfg.DeveloperMode,
				Compress:        cfg.Compress,
				Once:            cfg.Once,
			}

			agent, err := telemship.New(libCfg,
				telemship.WithLogger(logpkg.NewZerologAdapterWithLogger(log)),
				// Pick up developer-mode changes without a restart
				configwatcher.WithConfigWatcher(configwatcher.DefaultConfig()),
				// Keep the queue directory bounded
				telemship.WithCleanupConfig(telemship.DefaultCleanupConfig()),
			)
			if err != nil {
				return fmt.Errorf("create telemship: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := agent.Start(ctx); err != nil {
				return fmt.Errorf("start telemship: %w", err)
			}

			// Wait for a signal or for the delivery loop to finish on
			// its own (once mode or crash).
			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
			case <-agent.Done():
				if agent.Status() == telemship.StateCrashed {
					log.Error().Msg("telemship crashed")
				}
			}

			if err := agent.Stop(); err != nil {
				return fmt.Errorf("stop telemship: %w", err)
			}
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.telemship/config.toml)")
	root.Flags().StringVar(&cfg.QueueDir, "queue-dir", cfg.QueueDir, "directory holding persisted batch files")
	root.Flags().StringVar(&cfg.EndpointURL, "endpoint-url", cfg.EndpointURL, fmt.Sprintf("ingestion endpoint (defaults to %s)", cliconfig.DefaultEndpointURL))

	root.Flags().DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "connection establishment timeout")
	root.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "response read timeout")
	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "queue poll interval when idle")

	root.Flags().IntVar(&cfg.MaxInFlight, "max-in-flight", cfg.MaxInFlight, "maximum concurrent transmissions")
	root.Flags().IntVar(&cfg.MaxQueueRecords, "max-queue-records", cfg.MaxQueueRecords, "maximum records kept in the queue")

	root.Flags().BoolVar(&cfg.DeveloperMode, "developer-mode", cfg.DeveloperMode, "log accepted response bodies (debug)")
	root.Flags().BoolVar(&cfg.Compress, "compress", cfg.Compress, "gzip request bodies")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "drain the queue once and exit")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("telemship")
		os.Exit(1)
	}
}
