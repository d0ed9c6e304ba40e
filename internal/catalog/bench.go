package catalog

import (
	"fmt"
	"log/slog"

	"github.com/roach88/lightpath/internal/network"
	"github.com/roach88/lightpath/internal/optic"
)

// Bench is a complete bench definition.
type Bench struct {
	Name        string                `json:"name" yaml:"name"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Components  []optic.ComponentSpec `json:"components" yaml:"components"`
	Detectors   []optic.DetectorSpec  `json:"detectors,omitempty" yaml:"detectors,omitempty"`
	Gauss       []optic.GaussSpec     `json:"gauss,omitempty" yaml:"gauss,omitempty"`

	// Source is the file the bench was loaded from, if any.
	Source string `json:"-" yaml:"-"`
}

// Probe is the Detector attached for every DetectorSpec.
type Probe struct {
	name string
	kind string
}

// NewProbe returns a detector with the given name and kind.
func NewProbe(name, kind string) *Probe {
	return &Probe{name: optic.NormalizeName(name), kind: kind}
}

// Name implements network.Detector.
func (p *Probe) Name() string { return p.name }

// Kind returns the detector kind as written in the bench.
func (p *Probe) Kind() string { return p.kind }

// Build registers every component of b with reg in order, then attaches
// detectors and beam parameters.
func Build(reg *network.Registry, b *Bench) error {
	for _, spec := range b.Components {
		if _, err := reg.AddComponent(spec, nil); err != nil {
			return fmt.Errorf("component %s: %w", spec.Name, err)
		}
	}

	for _, d := range b.Detectors {
		n, ok := reg.Node(d.Node)
		if !ok {
			return fmt.Errorf("detector %s: %w", d.Name, &network.Error{
				Code:    network.ErrCodeUnknownNode,
				Message: "detector observes a node that no component declares",
				Node:    d.Node,
			})
		}
		if err := n.AttachDetector(NewProbe(d.Name, d.Kind)); err != nil {
			return fmt.Errorf("detector %s: %w", d.Name, err)
		}
	}

	for _, g := range b.Gauss {
		c, ok := reg.Component(g.Component)
		if !ok {
			return fmt.Errorf("gauss %s@%s: %w", g.Component, g.Node, &network.Error{
				Code:      network.ErrCodeNotAttached,
				Message:   "beam parameter set by an unknown component",
				Component: g.Component,
			})
		}
		n, ok := c.Port(g.Node)
		if !ok {
			return fmt.Errorf("gauss %s@%s: %w", g.Component, g.Node, &network.Error{
				Code:      network.ErrCodeNotAttached,
				Message:   "node is not a port of the component",
				Node:      g.Node,
				Component: c.Name(),
			})
		}
		qx, qy := g.Params()
		if err := n.SetGauss(c, qx, qy); err != nil {
			return fmt.Errorf("gauss %s@%s: %w", g.Component, g.Node, err)
		}
	}

	slog.Debug("bench built", "bench", b.Name, "components", len(b.Components),
		"detectors", len(b.Detectors), "context", reg.Context())
	return nil
}

// NewRegistry creates a registry with opts and builds b into it.
func NewRegistry(b *Bench, opts ...network.Option) (*network.Registry, error) {
	reg := network.New(opts...)
	if err := Build(reg, b); err != nil {
		return nil, err
	}
	return reg, nil
}
