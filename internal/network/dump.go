package network

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xlab/treeprint"
)

// emptySlot is printed for an unoccupied endpoint.
const emptySlot = "-"

// DumpInfo writes a human-readable connectivity listing: one line per named
// node in id order, then one line per component in registration order.
// It is diagnostic only and never fails; write errors are ignored.
//
//	node: n1 connected:true L1->s1
//	node: n2 connected:false s1->- detectors: pd1
//	component: L1 laser terminal ports: n1
func (r *Registry) DumpInfo(w io.Writer) {
	for _, n := range r.SortedNodes() {
		comps := r.nodeComponents[n.id]
		line := fmt.Sprintf("node: %s connected:%t %s->%s",
			n.name, n.IsConnected(), slotName(comps[0]), slotName(comps[1]))

		if len(n.detectors) > 0 {
			names := make([]string, len(n.detectors))
			for i, d := range n.detectors {
				names[i] = d.Name()
			}
			line += " detectors: " + strings.Join(names, " ")
		}
		if g, ok := n.Gauss(); ok {
			line += fmt.Sprintf(" gauss: qx=%s qy=%s by %s", g.QX, g.QY, g.Component)
		}
		fmt.Fprintln(w, line)
	}

	for _, c := range r.order {
		names := make([]string, 0, len(r.componentNodes[c.id]))
		for _, n := range r.componentNodes[c.id] {
			names = append(names, n.name)
		}
		fmt.Fprintf(w, "component: %s %s %s ports: %s\n",
			c.name, c.kind, c.role, strings.Join(names, " "))
	}
}

// DumpString returns the DumpInfo listing as a string.
func (r *Registry) DumpString() string {
	var buf bytes.Buffer
	r.DumpInfo(&buf)
	return buf.String()
}

// Tree renders the bench as a tree: one branch per component, one leaf per
// port showing the component on the far side of that port.
func (r *Registry) Tree() string {
	tree := treeprint.NewWithRoot("context " + r.token)
	for _, c := range r.order {
		cb := tree.AddBranch(fmt.Sprintf("%s (%s)", c.name, c.kind))
		for i, n := range r.componentNodes[c.id] {
			_, peer, _ := n.Peer(c)
			cb.AddNode(fmt.Sprintf("[%d] %s -> %s", i, n.name, slotName(peer)))
		}
	}
	return tree.String()
}

func slotName(c *Component) string {
	if c == nil {
		return emptySlot
	}
	return c.name
}

// Tree renders the branches a search resolved as a tree of component
// sequences from the source. Each leaf is a branch outcome annotated with
// its frontier node.
func (s *SearchResult) Tree() string {
	root := treeprint.NewWithRoot(s.From + " -> " + s.To)
	seen := map[string]treeprint.Tree{}
	for _, b := range s.Branches {
		parent, key := root, ""
		for _, name := range b.Components {
			key += "/" + name
			next, ok := seen[key]
			if !ok {
				next = parent.AddBranch(name)
				seen[key] = next
			}
			parent = next
		}
		parent.AddMetaNode(b.Outcome, "@"+b.Node)
	}
	return root.String()
}
