// Package domain contains the core domain entities and value objects for
// telemetry delivery.
//
// This package represents the innermost layer of the agent. It has no
// dependencies on infrastructure concerns (HTTP, file system, logging)
// and contains only pure delivery policy.
//
// # Entities
//
//   - [Record]: a handle to one durable telemetry batch awaiting delivery
//   - [Outcome]: the classification of a server response into the action
//     it demands (delete, retry later, or give up)
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
