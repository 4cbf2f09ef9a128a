// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - MetadataHandler: Bibliographic queries over a graph store (SPARQL, in-memory)
//   - ProcessHandler: Digitisation-process queries over a relational store (SQLite, PostgreSQL, in-memory)
//   - ConfigStore: Application configuration
//   - HandlerFactory: Opens handlers from configuration
//
// Handlers are read-only from the core's perspective. Timeouts and retries
// belong to the adapter.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
