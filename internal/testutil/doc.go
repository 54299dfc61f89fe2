// Package testutil provides deterministic fixtures for tests: a seeded
// site store, a fixed clock and a fixed id generator.
package testutil
