// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [DurableQueue]: Reserves, loads, deletes and releases persisted records
//   - [Transport]: Performs one network round-trip for one record
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (file system, HTTP, etc.).
//
// This separation enables:
//   - Testing application logic with fake implementations
//   - Swapping infrastructure without changing delivery policy
//   - Clear boundaries and dependency direction
package ports
