// Package telemship provides an embeddable delivery agent for queued
// telemetry batches.
//
// Telemship ships JSON batches persisted in a durable on-disk queue to
// an ingestion endpoint over HTTP. It can be used as a standalone CLI
// application or embedded as a library in other Go programs. Batches
// survive process restarts: a record is deleted only after the service
// accepts it, and a failed or interrupted attempt leaves the file in
// place for a later retry.
//
// # Basic Usage
//
// To embed telemship in your application:
//
//	cfg := telemship.Config{
//	    QueueDir:    "/var/lib/telemship/queue",
//	    EndpointURL: "https://collector.example.com/v2/track",
//	}
//
//	agent, err := telemship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := agent.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	agent.Enqueue(batchJSON)
//
//	// ... run until shutdown signal ...
//
//	if err := agent.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Configuration
//
// Create a [Config] with at minimum QueueDir. All other fields have
// sensible defaults set via [Config.SetDefaults].
//
// # Event Handling
//
// To receive notifications about deliveries, implement [EventHandler]
// and pass it via [WithEventHandler]:
//
//	handler := &myEventHandler{}
//	agent, err := telemship.New(cfg, telemship.WithEventHandler(handler))
//
// Events are called synchronously from delivery goroutines.
// Implementations should return quickly to avoid blocking delivery.
//
// # Dependency Injection
//
// For testing, you can inject custom implementations of external
// dependencies:
//
//	agent, err := telemship.New(cfg,
//	    telemship.WithHTTPClient(mockClient),
//	    telemship.WithLogger(customLogger),
//	)
//
// # Lifecycle States
//
// A Telemship instance can be in one of five states: [StateStopped],
// [StateStarting], [StateRunning], [StateStopping], or [StateCrashed].
// Use [Telemship.Status] to query the current state.
//
// # Plugins and Cleanup
//
// Telemship supports optional plugins for extended functionality:
//
//	import "github.com/bft-labs/telemship/plugins/configwatcher"
//
//	agent, err := telemship.New(cfg,
//	    telemship.WithPlugin(configwatcher.New(configwatcher.DefaultConfig())),
//	    telemship.WithCleanupConfig(telemship.DefaultCleanupConfig()),
//	)
package telemship
