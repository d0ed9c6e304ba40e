package optic

import "sort"

// Kind names the optical type of a component as written in bench files.
type Kind string

// Known component kinds.
const (
	KindMirror       Kind = "mirror"
	KindSpace        Kind = "space"
	KindLens         Kind = "lens"
	KindModulator    Kind = "modulator"
	KindBeamSplitter Kind = "beamsplitter"
	KindLaser        Kind = "laser"
)

// kindRoles maps every known kind to its traversal role.
var kindRoles = map[Kind]Role{
	KindMirror:       RoleInline,
	KindSpace:        RoleInline,
	KindLens:         RoleInline,
	KindModulator:    RoleInline,
	KindBeamSplitter: RoleBranching,
	KindLaser:        RoleTerminal,
}

// RoleOf returns the traversal role for a kind. The second result is false
// for kinds the catalog does not know.
func RoleOf(k Kind) (Role, bool) {
	r, ok := kindRoles[k]
	return r, ok
}

// Known reports whether k is a recognised component kind.
func (k Kind) Known() bool {
	_, ok := kindRoles[k]
	return ok
}

// Kinds returns all known kinds in lexical order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindRoles))
	for k := range kindRoles {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
