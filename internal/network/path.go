package network

import (
	"log/slog"
	"strings"
)

// Outcome describes how a branch ended.
type Outcome string

// Branch outcomes.
const (
	OutcomeFound    Outcome = "found"
	OutcomeSplit    Outcome = "split"
	OutcomeTerminal Outcome = "terminal"
	OutcomeDump     Outcome = "dump"
	OutcomeOpen     Outcome = "open"
	OutcomeCycle    Outcome = "cycle"
)

// BranchRecord is one resolved branch of a search, kept for diagnostics.
type BranchRecord struct {
	// Components is the path of the branch from the source, by name.
	Components []string `json:"components"`

	// Node is the frontier node where the branch ended.
	Node string `json:"node"`

	// Component is the frontier component, if any.
	Component string `json:"component,omitempty"`

	Outcome Outcome `json:"outcome"`
}

// String renders the record as "a -> b -> c @node [outcome]".
func (b BranchRecord) String() string {
	path := "(start)"
	if len(b.Components) > 0 {
		path = strings.Join(b.Components, " -> ")
	}
	return path + " @" + b.Node + " [" + string(b.Outcome) + "]"
}

// SearchResult is the outcome of a path search.
type SearchResult struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Path is the ordered component sequence from From to To.
	Path []*Component `json:"-"`

	// Branches lists every branch resolved before the search ended, in
	// resolution order. The successful branch, if any, is last.
	Branches []BranchRecord `json:"branches"`

	// Hops is the number of traversal steps taken.
	Hops int `json:"hops"`
}

// Names returns the names of the components on the path.
func (s *SearchResult) Names() []string {
	names := make([]string, len(s.Path))
	for i, c := range s.Path {
		names[i] = c.name
	}
	return names
}

// branch is an immutable search state: the frontier node, the component the
// light is about to enter from it (nil if none), the components traversed
// so far and the visited states of this lineage.
type branch struct {
	node *Node
	comp *Component
	path []*Component
	seen lineage
}

// search holds the bookkeeping of one FindPath call over a registry
// snapshot. The registry itself is only read.
type search struct {
	reg      *Registry
	to       *Node
	quota    *hopQuota
	cyclic   bool
	branches []BranchRecord
}

// FindPath returns the components a beam traverses from the node named
// from to the node named to, in traversal order.
//
// Fails with UNKNOWN_NODE if either name is absent, PATH_NOT_FOUND if no
// branch reaches the target, CYCLIC_TOPOLOGY if no branch reaches it and at
// least one branch was cut because it looped, INVALID_COMPONENT_TYPE on a
// structurally inconsistent component, and HOP_LIMIT_EXCEEDED when the
// search outgrows the hop quota.
func (r *Registry) FindPath(from, to string) ([]*Component, error) {
	res, err := r.Search(from, to)
	if err != nil {
		return nil, err
	}
	return res.Path, nil
}

// Search is FindPath with the branch bookkeeping kept.
//
// The search seeds one branch per occupied endpoint of the source node and
// repeatedly advances the most recently pushed branch. Dump nodes, Terminal
// components and open ports end a branch; Branching components end the
// current branch and push a transmitted then a reflected successor, so the
// reflected one is explored first. The first branch whose frontier node is
// the target wins, and its full path from the source is returned.
func (r *Registry) Search(from, to string) (*SearchResult, error) {
	fromNode, ok := r.Node(from)
	if !ok {
		return nil, newError(ErrCodeUnknownNode, from, "", "node cannot be found in this registry")
	}
	toNode, ok := r.Node(to)
	if !ok {
		return nil, newError(ErrCodeUnknownNode, to, "", "node cannot be found in this registry")
	}

	s := &search{
		reg:   r,
		to:    toNode,
		quota: newHopQuota(r.maxHops),
	}
	res := &SearchResult{From: fromNode.name, To: toNode.name}

	if fromNode == toNode {
		res.Path = []*Component{}
		return res, nil
	}

	var stack []branch
	comps := r.nodeComponents[fromNode.id]
	for i := len(comps) - 1; i >= 0; i-- {
		if comps[i] != nil {
			stack = append(stack, branch{node: fromNode, comp: comps[i], seen: lineage{}})
		}
	}

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := s.quota.check(fromNode.name, toNode.name); err != nil {
			slog.Warn("path search exceeded hop quota", "from", fromNode.name, "to", toNode.name, "hops", r.maxHops)
			return nil, err
		}

		next, done, err := s.step(b)
		if err != nil {
			return nil, err
		}
		if done {
			res.Path = b.path
			if res.Path == nil {
				res.Path = []*Component{}
			}
			res.Branches = s.branches
			res.Hops = s.quota.current

			slog.Debug("path resolved", "from", fromNode.name, "to", toNode.name,
				"components", len(res.Path), "hops", res.Hops)
			return res, nil
		}
		stack = append(stack, next...)
	}

	if s.cyclic {
		slog.Warn("path search cut cyclic branches", "from", fromNode.name, "to", toNode.name)
		return nil, newError(ErrCodeCyclicTopology, toNode.name, "",
			"no path from %s; every continuation loops back on itself", fromNode.name)
	}
	slog.Debug("no path", "from", fromNode.name, "to", toNode.name, "branches", len(s.branches))
	return nil, newError(ErrCodePathNotFound, toNode.name, "", "no light path from %s", fromNode.name)
}

// step resolves or advances one branch. done is true when b has reached
// the target.
func (s *search) step(b branch) (next []branch, done bool, err error) {
	switch {
	case b.node == s.to:
		s.record(b, OutcomeFound)
		return nil, true, nil
	case b.node.dump:
		s.record(b, OutcomeDump)
		return nil, false, nil
	case b.comp == nil:
		s.record(b, OutcomeOpen)
		return nil, false, nil
	}

	key := stepKey{node: b.node.id, comp: b.comp.id}
	if b.seen.has(key) {
		s.cyclic = true
		s.record(b, OutcomeCycle)
		return nil, false, nil
	}
	b.seen = b.seen.with(key)

	apply, ok := traversalRules[b.comp.role]
	if !ok {
		return nil, false, newError(ErrCodeInvalidComponentType, b.node.name, b.comp.name,
			"component has unrecognised role %s", b.comp.role)
	}
	next, err = apply(s, b)
	return next, false, err
}

// ports returns the frontier component's port list and the index of the
// frontier node in it, checking the list against the component's role.
func (s *search) ports(b branch) ([]*Node, int, error) {
	ports, ok := s.reg.componentNodes[b.comp.id]
	if !ok || b.comp.reg != s.reg {
		return nil, -1, newError(ErrCodeInvalidComponentType, b.node.name, b.comp.name,
			"component occupies a port but is not registered")
	}
	if len(ports) != b.comp.role.PortCount() {
		return nil, -1, newError(ErrCodeInvalidComponentType, b.node.name, b.comp.name,
			"%s component has %d ports", b.comp.role, len(ports))
	}
	for i, p := range ports {
		if p == b.node {
			return ports, i, nil
		}
	}
	return nil, -1, newError(ErrCodeInvalidComponentType, b.node.name, b.comp.name,
		"node is not attached to the component it leads into")
}

// across returns the component on the other side of n from c, or nil if
// that slot is empty.
func (s *search) across(n *Node, c *Component) (*Component, error) {
	comps := s.reg.nodeComponents[n.id]
	switch {
	case comps[0] == c:
		return comps[1], nil
	case comps[1] == c:
		return comps[0], nil
	default:
		return nil, newError(ErrCodeInvalidComponentType, n.name, c.name,
			"component does not occupy its own port")
	}
}

func (s *search) record(b branch, outcome Outcome) {
	names := make([]string, len(b.path))
	for i, c := range b.path {
		names[i] = c.name
	}
	rec := BranchRecord{Components: names, Node: b.node.name, Outcome: outcome}
	if b.comp != nil {
		rec.Component = b.comp.name
	}
	s.branches = append(s.branches, rec)
}
