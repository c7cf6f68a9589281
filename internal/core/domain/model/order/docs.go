// Package order implements the ManufacturingOrder aggregate: a customer or
// stock order for a quantity of jewelry pieces that progresses through the
// steps of a workflow definition.
//
// An order's lifecycle is driven by its step instances: it starts pending,
// becomes in progress when its first step instance starts, completes when its
// terminal step instance completes, and is tagged in once its output has been
// reconciled into finished-goods inventory. Tag-in is irreversible.
//
// Rework orders are ordinary orders carrying parent lineage: parentOrderID
// points at the order whose shortfall they reprocess and originStepOrder
// records the step in the parent that produced that shortfall.
package order
