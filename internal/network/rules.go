package network

import "github.com/roach88/lightpath/internal/optic"

// rule advances one branch through its frontier component and returns the
// successor branches in push order. The last successor is explored first.
type rule func(s *search, b branch) ([]branch, error)

// traversalRules is keyed by role only; the resolver has no knowledge of
// concrete optics.
var traversalRules = map[optic.Role]rule{
	optic.RoleInline:    advanceInline,
	optic.RoleBranching: splitBranching,
	optic.RoleTerminal:  stopTerminal,
}

// beamsplitterExits maps the entry port index to the (reflected,
// transmitted) exit port indices.
var beamsplitterExits = [4][2]int{
	{1, 2},
	{0, 3},
	{3, 0},
	{2, 1},
}

func advanceInline(s *search, b branch) ([]branch, error) {
	ports, idx, err := s.ports(b)
	if err != nil {
		return nil, err
	}
	next := ports[1-idx]
	peer, err := s.across(next, b.comp)
	if err != nil {
		return nil, err
	}
	return []branch{{
		node: next,
		comp: peer,
		path: extend(b.path, b.comp),
		seen: b.seen,
	}}, nil
}

func splitBranching(s *search, b branch) ([]branch, error) {
	ports, idx, err := s.ports(b)
	if err != nil {
		return nil, err
	}
	s.record(b, OutcomeSplit)

	path := extend(b.path, b.comp)
	exits := beamsplitterExits[idx]
	reflected, transmitted := ports[exits[0]], ports[exits[1]]

	var out []branch
	for _, exit := range []*Node{transmitted, reflected} {
		peer, err := s.across(exit, b.comp)
		if err != nil {
			return nil, err
		}
		if peer == nil && exit != s.to {
			s.record(branch{node: exit, path: path}, OutcomeOpen)
			continue
		}
		out = append(out, branch{node: exit, comp: peer, path: path, seen: b.seen})
	}
	return out, nil
}

func stopTerminal(s *search, b branch) ([]branch, error) {
	if _, _, err := s.ports(b); err != nil {
		return nil, err
	}
	s.record(b, OutcomeTerminal)
	return nil, nil
}

// extend returns a new slice; branches never share backing arrays.
func extend(path []*Component, c *Component) []*Component {
	out := make([]*Component, len(path), len(path)+1)
	copy(out, path)
	return append(out, c)
}
