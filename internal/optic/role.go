package optic

import "fmt"

// Role is the traversal role of a component. The path resolver dispatches on
// Role alone.
type Role int

const (
	// RoleUnknown is the zero value and is never valid on a registered component.
	RoleUnknown Role = iota

	// RoleInline components have two ports; light passes straight through.
	RoleInline

	// RoleBranching components have four ports; light entering one port
	// leaves through a reflected and a transmitted port.
	RoleBranching

	// RoleTerminal components have one port and bound the search
	// (sources and absorbers).
	RoleTerminal
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleInline:
		return "inline"
	case RoleBranching:
		return "branching"
	case RoleTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// PortCount returns the number of ports a component with this role must
// declare, or 0 for an unknown role.
func (r Role) PortCount() int {
	switch r {
	case RoleInline:
		return 2
	case RoleBranching:
		return 4
	case RoleTerminal:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.PortCount() > 0
}
