// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [SQLStore]: Executes SQL against the remote table store
//   - [NameExtractor]: Reads candidate taxon names from a CSV file
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (CARTO over HTTP, PostgreSQL, CSV files, zerolog).
package ports
