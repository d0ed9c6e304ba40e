package catalog

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/roach88/lightpath/internal/optic"
)

// hclRoot is the top-level structure of an HCL bench file. Exactly one
// bench block is expected.
type hclRoot struct {
	Benches []*hclBench `hcl:"bench,block"`
}

// hclBench represents a `bench "name" { ... }` block.
type hclBench struct {
	Name        string          `hcl:"name,label"`
	Description string          `hcl:"description,optional"`
	Components  []*hclComponent `hcl:"component,block"`
	Detectors   []*hclDetector  `hcl:"detector,block"`
	Gauss       []*hclGauss     `hcl:"gauss,block"`
}

// hclComponent represents a `component "kind" "name" { ports = [...] }` block.
type hclComponent struct {
	Kind  string   `hcl:"kind,label"`
	Name  string   `hcl:"name,label"`
	Ports []string `hcl:"ports"`
}

// hclDetector represents a `detector "kind" "name" { node = "..." }` block.
type hclDetector struct {
	Kind string `hcl:"kind,label"`
	Name string `hcl:"name,label"`
	Node string `hcl:"node"`
}

// hclGauss represents a `gauss { component = "" node = "" qx = [z, zr] }` block.
type hclGauss struct {
	Component string    `hcl:"component"`
	Node      string    `hcl:"node"`
	QX        []float64 `hcl:"qx"`
	QY        []float64 `hcl:"qy,optional"`
}

// ParseHCL parses an HCL bench:
//
//	bench "linear" {
//	  component "laser" "L1" { ports = ["n_L1"] }
//	  component "space" "s1" { ports = ["n_L1", "n_M1_in"] }
//	  detector "photodiode" "pd1" { node = "n_M1_in" }
//	  gauss {
//	    component = "s1"
//	    node      = "n_M1_in"
//	    qx        = [-1.5, 2]
//	  }
//	}
func ParseHCL(filename string, src []byte) (*Bench, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, formatHCLDiags(diags, ErrCodeSyntax)
	}

	var root hclRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, formatHCLDiags(diags, ErrCodeSchema)
	}

	if len(root.Benches) != 1 {
		return nil, &ParseError{
			Code:    ErrCodeSchema,
			Field:   "bench",
			Message: "exactly one bench block is required",
			File:    filename,
		}
	}
	hb := root.Benches[0]

	b := &Bench{Name: hb.Name, Description: hb.Description}
	for _, c := range hb.Components {
		b.Components = append(b.Components, optic.ComponentSpec{
			Name:  c.Name,
			Kind:  optic.Kind(c.Kind),
			Ports: c.Ports,
		})
	}
	for _, d := range hb.Detectors {
		b.Detectors = append(b.Detectors, optic.DetectorSpec{Name: d.Name, Kind: d.Kind, Node: d.Node})
	}
	for _, g := range hb.Gauss {
		spec := optic.GaussSpec{Component: g.Component, Node: g.Node}
		qx, ok := pair(g.QX)
		if !ok {
			return nil, &ParseError{Code: ErrCodeSchema, Field: "gauss.qx", Message: "expected [z, zR]", File: filename}
		}
		spec.QX = qx
		if g.QY != nil {
			qy, ok := pair(g.QY)
			if !ok {
				return nil, &ParseError{Code: ErrCodeSchema, Field: "gauss.qy", Message: "expected [z, zR]", File: filename}
			}
			spec.QY = &qy
		}
		b.Gauss = append(b.Gauss, spec)
	}
	return b, nil
}

func pair(v []float64) ([2]float64, bool) {
	if len(v) != 2 {
		return [2]float64{}, false
	}
	return [2]float64{v[0], v[1]}, true
}
