package network

// stepKey identifies one traversal state: light arriving at a node heading
// into a component.
type stepKey struct {
	node int64
	comp int64
}

// lineage is the set of states already visited on one branch's own path
// from the source. It is never mutated after creation; with returns a copy.
//
// Two sibling branches may legitimately reach the same state (both arms of
// a Mach-Zehnder converge on the recombining beamsplitter), so revisits are
// only a cycle when they happen within a single lineage.
type lineage map[stepKey]struct{}

func (l lineage) has(k stepKey) bool {
	_, ok := l[k]
	return ok
}

func (l lineage) with(k stepKey) lineage {
	out := make(lineage, len(l)+1)
	for key := range l {
		out[key] = struct{}{}
	}
	out[k] = struct{}{}
	return out
}
