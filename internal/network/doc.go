// Package network implements the optical bench graph: the node/component
// registry and the light-path resolver that runs over it.
//
// # Model
//
// A Node is a named port shared by at most two components. A Component has
// a fixed, ordered list of ports and a traversal role (Inline, Branching or
// Terminal) derived from its optical kind. The Registry owns every table
// that links the two; nodes and components only read through it.
//
// The name "dump" is reserved: each request for it creates a fresh dump
// node that is never shared, never named in the node table and always a
// dead end for traversal.
//
// # Change notification
//
// After registration, and after every connect or replace touching a
// component, the registry rebuilds the component's port-name index and its
// per-port GaussSetter accessors, then invokes the component's ChangeFunc.
// Every successful mutation also emits an Event to subscribed Listeners,
// stamped with a registry-scoped sequence number.
//
// # Path resolution
//
// FindPath is a depth-first search over branches. A branch is positioned at
// a node, about to enter a component. The rule applied depends only on the
// component's role:
//
//   - Inline: step through to the other port and the component beyond it
//   - Branching: split into transmitted and reflected successors
//   - Terminal: stop; light does not continue past a source or absorber
//
// Dump nodes and open ports end a branch. Each branch carries the set of
// (node, component) states on its own lineage; a revisit ends the branch
// and, if nothing else reaches the target, the search fails with
// CYCLIC_TOPOLOGY instead of looping. A per-search hop quota bounds the
// rest.
//
// # Concurrency
//
// None. A Registry belongs to one simulation context and one logical
// thread; callers must not mutate it while a search or dump is running.
package network
