// Package sources registers every catalog source kind with the core registry.
// Import this package for its side effects to make the kinds available to
// core.Open.
package sources

// Each source file uses init() to register its kind.
