// Package services implements the driving port interfaces.
// Services contain the core reconciliation logic and orchestrate
// calls to driven ports (adapters).
//
// A query flows through four stages: fan-out to every registered handler
// of the relevant kind, normalisation of the pooled rows, materialisation
// into domain entities, and for activities, linking to canonical objects.
//
// Services are pure Go with no CGO or external dependencies.
package services
