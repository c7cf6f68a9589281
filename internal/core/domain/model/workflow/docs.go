// Package workflow implements the workflow definition aggregate: the ordered,
// versionable list of production step definitions a manufacturing order moves
// through, and the configurable field definitions each step carries.
//
// A workflow never holds per-order data. Step instances reference step
// definitions by id; the aggregate only answers structural questions such as
// "which active step follows step 30" or "what fields does Jhalai collect".
//
// Deactivation is the only removal mechanism for a step. Adjacency is always
// computed over active steps, so disabling a step must not break downstream
// progression.
package workflow
