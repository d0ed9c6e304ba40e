package network

// EventKind names a registry change.
type EventKind string

// Registry change kinds.
const (
	EventNodeCreated         EventKind = "node_created"
	EventNodeRemoved         EventKind = "node_removed"
	EventNodeConnected       EventKind = "node_connected"
	EventNodeDisconnected    EventKind = "node_disconnected"
	EventComponentRegistered EventKind = "component_registered"
	EventComponentRemoved    EventKind = "component_removed"
	EventNodeReplaced        EventKind = "node_replaced"
	EventDetectorAttached    EventKind = "detector_attached"
	EventDetectorDetached    EventKind = "detector_detached"
	EventGaussSet            EventKind = "gauss_set"
	EventGaussRemoved        EventKind = "gauss_removed"
)

// Event describes one successful registry mutation.
type Event struct {
	// Seq is the registry-scoped logical timestamp.
	Seq int64 `json:"seq"`

	// Context is the owning registry's context token.
	Context string `json:"context"`

	Kind      EventKind `json:"kind"`
	Node      string    `json:"node,omitempty"`
	Component string    `json:"component,omitempty"`

	// Detail carries kind-specific information, e.g. the replacement node
	// name for node_replaced or the detector name for detector_attached.
	Detail string `json:"detail,omitempty"`
}

// Listener receives registry events synchronously, in Seq order, after the
// mutation has been applied. Listeners must not mutate the registry.
type Listener func(Event)

// Subscribe adds a listener. Listeners are invoked in subscription order.
func (r *Registry) Subscribe(l Listener) {
	if l == nil {
		return
	}
	r.listeners = append(r.listeners, l)
}

func (r *Registry) emit(kind EventKind, node, component, detail string) {
	ev := Event{
		Seq:       r.events.Next(),
		Context:   r.token,
		Kind:      kind,
		Node:      node,
		Component: component,
		Detail:    detail,
	}
	for _, l := range r.listeners {
		l(ev)
	}
}
