// Package driving defines the interfaces that external actors use to drive
// the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Adapters such as the CLI call these interfaces; services implement them.
//
// # Interfaces
//
//   - HandlerRegistry: Registers and resets the sources a mashup queries
//   - Mashup: Reconciled queries over metadata and process sources
//   - AdvancedMashup: Queries joining the two domains
//
// # Import Rules
//
//   - Can Import: domain and driven packages
//   - Cannot Import: Any adapter package
package driving
