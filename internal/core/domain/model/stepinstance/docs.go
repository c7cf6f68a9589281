// Package stepinstance implements the OrderStepInstance aggregate: one
// concrete batch of work against a step definition for a specific order.
//
// A step may have several instances per order (parallel batches, rework
// batches), distinguished by a 1-based instance number that is unique within
// (orderID, stepDefinitionID). Instances are never reopened: once an instance
// reaches a terminal yield state a new instance is created instead, which
// preserves the full production history.
//
// Lineage is stored, not inferred. A normal-progression child carries
// parentInstanceID, the upstream instance whose accepted output fed it. A
// rework child carries originInstanceID, the instance whose shortfall it
// reprocesses. The two are mutually exclusive by construction, which is what
// makes branch topology a stored fact rather than a derived guess.
package stepinstance
