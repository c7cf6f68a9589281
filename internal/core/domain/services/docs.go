// Package services contains stateless domain services that operate across
// aggregates of the step progression engine.
//
// The services here are the policy layer of the engine:
//
//   - NextActionResolver computes the single currently valid "advance" action
//     for an order, as a pure function over the order's instance graph.
//   - ConservationLedger is the read-side quantity and weight accounting over
//     an instance's downstream claims. It owns no mutable state.
//   - Progression is the instance factory. It enforces the entry-step rule,
//     ancestor terminality, batch numbering, and shortfall claims before an
//     instance is created.
//   - BranchExplorer answers topology questions for the visualization layer
//     from stored lineage, never from step names or status inspection.
//
// All services are deterministic and safe to call concurrently; coordination
// between concurrent writers is the application layer's responsibility.
package services
