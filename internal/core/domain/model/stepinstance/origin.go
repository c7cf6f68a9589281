package stepinstance

import (
	"jewelflow/internal/core/domain/model/kernel"
)

// OriginKind tags how an instance entered the workflow.
type OriginKind int

const (
	// OriginNone marks an order's very first instance; it has no upstream.
	OriginNone OriginKind = iota

	// OriginParent marks a normal-progression child fed by the accepted
	// output of an upstream instance.
	OriginParent

	// OriginRework marks a rework child reprocessing an upstream instance's
	// shortfall.
	OriginRework
)

// String returns the branch-type name of the origin kind.
func (k OriginKind) String() string {
	switch k {
	case OriginParent:
		return "progression"
	case OriginRework:
		return "rework"
	default:
		return "none"
	}
}

// Origin is a tagged union describing an instance's upstream lineage.
// Using a single union instead of two nullable id fields makes parent and
// rework lineage mutually exclusive by construction.
type Origin struct {
	kind       OriginKind
	instanceID kernel.UUID
}

// NoOrigin marks an instance as the order's entry point.
func NoOrigin() Origin {
	return Origin{kind: OriginNone}
}

// FromParent marks an instance as the normal-progression child of the given
// upstream instance.
func FromParent(instanceID kernel.UUID) Origin {
	return Origin{kind: OriginParent, instanceID: instanceID}
}

// FromRework marks an instance as a rework child of the given upstream
// instance, reprocessing its shortfall.
func FromRework(instanceID kernel.UUID) Origin {
	return Origin{kind: OriginRework, instanceID: instanceID}
}

// Kind returns the origin's tag.
func (o Origin) Kind() OriginKind {
	return o.kind
}

// InstanceID returns the upstream instance id and whether one exists.
func (o Origin) InstanceID() (kernel.UUID, bool) {
	if o.kind == OriginNone {
		return kernel.UUID{}, false
	}
	return o.instanceID, true
}

// Validate checks that a non-empty origin carries a valid upstream id.
func (o Origin) Validate() error {
	if o.kind == OriginNone {
		return nil
	}
	return o.instanceID.Validate()
}
