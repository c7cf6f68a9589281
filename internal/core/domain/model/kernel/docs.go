// Package kernel provides core domain primitives and utilities for the
// manufacturing system. It implements fundamental building blocks following
// Domain-Driven Design principles that are used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - Quantity: A value object for non-negative piece counts
//   - Weight: A value object for non-negative metal weight in grams
//   - Measure: An enum selecting which of the two is authoritative for a workflow
//   - ConstructorGuard: A defensive programming pattern to ensure proper object construction
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
package kernel
