// Package domain defines the core business entities for heritage.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Person: An author identified by a source identifier
//   - CulturalHeritageObject: A catalogued object of one of ten classes
//   - Activity: A digitisation step performed on an object
//   - PersonRow, ObjectRow, ActivityRow: Raw tabular rows as returned by sources
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
