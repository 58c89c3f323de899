package core

import "fmt"

// Role names one of the overridable structural slots of the client.
type Role string

const (
	RoleQueue  Role = "queue"
	RolePlayer Role = "player"
	RoleNode   Role = "node"
)

var knownRoles = map[Role]bool{
	RoleQueue:  true,
	RolePlayer: true,
	RoleNode:   true,
}

// Registry maps structure roles to the constructor currently bound to
// them. Consumers must always resolve roles through the registry, never
// by direct reference, so overrides installed with Extend are observed.
//
// Configure it once at startup: Extend is not guarded against concurrent
// writers.
type Registry struct {
	bindings map[Role]any
}

// NewRegistry returns a registry seeded with the built-in constructors.
func NewRegistry() *Registry {
	return &Registry{
		bindings: map[Role]any{
			RoleQueue:  func() *Queue { return NewQueue() },
			RolePlayer: func() *Player { return NewPlayer() },
			RoleNode:   func(opts NodeOptions) *Node { return NewNode(opts) },
		},
	}
}

// Get returns the value currently bound to role.
func (r *Registry) Get(role Role) (any, error) {
	v, ok := r.bindings[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingStructure, role)
	}
	return v, nil
}

// Extend applies transform to the current binding and installs the result
// as the new one, visible to every future Get. Repeated calls compose:
// each transform wraps the previous result. Only the latest binding is
// observable.
func (r *Registry) Extend(role Role, transform func(current any) any) (any, error) {
	if !knownRoles[role] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if transform == nil {
		return nil, fmt.Errorf("%w: transform", ErrMissingArgument)
	}

	next := transform(r.bindings[role])
	r.bindings[role] = next
	return next, nil
}
