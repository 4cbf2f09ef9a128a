// Package sqlite provides a SQLite-based implementation of driven.ProcessHandler.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The process schema has one table per activity kind and a Tool table. It is
// bootstrapped through versioned migrations stored in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files, applied
// by Bootstrap. The store itself opens the file read-only and refuses a
// missing file or one without the schema; loading activities is the job of
// whoever owns the file.
//
// # Thread Safety
//
// All operations are thread-safe.
package sqlite
