package catalog

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/lightpath/internal/optic"
)

//go:embed schema.cue
var schemaCUE []byte

// ParseCUE parses a CUE bench. The file's top-level struct is the bench;
// it is unified with the embedded #Bench schema before reading.
//
//	name: "bs"
//	components: [{name: "bs1", kind: "beamsplitter", ports: ["a", "b", "c", "dump"]}]
func ParseCUE(filename string, src []byte) (*Bench, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err, ErrCodeGeneric)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, ErrCodeSyntax)
	}

	v = schema.LookupPath(cue.ParsePath("#Bench")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, ErrCodeSchema)
	}

	return compileBench(v)
}

func compileBench(v cue.Value) (*Bench, error) {
	b := &Bench{}

	var err error
	if b.Name, err = lookupString(v, "name"); err != nil {
		return nil, err
	}
	if b.Description, err = lookupString(v, "description"); err != nil {
		return nil, err
	}

	iter, err := lookup(v, "components").List()
	if err != nil {
		return nil, formatCUEError(err, ErrCodeSchema)
	}
	for iter.Next() {
		spec, err := compileComponent(iter.Value())
		if err != nil {
			return nil, err
		}
		b.Components = append(b.Components, spec)
	}

	iter, err = lookup(v, "detectors").List()
	if err != nil {
		return nil, formatCUEError(err, ErrCodeSchema)
	}
	for iter.Next() {
		d, err := compileDetector(iter.Value())
		if err != nil {
			return nil, err
		}
		b.Detectors = append(b.Detectors, d)
	}

	iter, err = lookup(v, "gauss").List()
	if err != nil {
		return nil, formatCUEError(err, ErrCodeSchema)
	}
	for iter.Next() {
		g, err := compileGauss(iter.Value())
		if err != nil {
			return nil, err
		}
		b.Gauss = append(b.Gauss, g)
	}

	return b, nil
}

func compileComponent(v cue.Value) (optic.ComponentSpec, error) {
	var spec optic.ComponentSpec

	name, err := lookupString(v, "name")
	if err != nil {
		return spec, err
	}
	kind, err := lookupString(v, "kind")
	if err != nil {
		return spec, err
	}
	spec.Name = name
	spec.Kind = optic.Kind(kind)

	iter, err := lookup(v, "ports").List()
	if err != nil {
		return spec, formatCUEError(err, ErrCodeSchema)
	}
	for iter.Next() {
		port, err := iter.Value().String()
		if err != nil {
			return spec, formatCUEError(err, ErrCodeSchema)
		}
		spec.Ports = append(spec.Ports, port)
	}

	role, _ := optic.RoleOf(spec.Kind)
	if len(spec.Ports) != role.PortCount() {
		return spec, errAt(ErrCodeSchema, "ports",
			fmt.Sprintf("%s %q needs %d ports, got %d", spec.Kind, name, role.PortCount(), len(spec.Ports)),
			v.Pos())
	}
	return spec, nil
}

func compileDetector(v cue.Value) (optic.DetectorSpec, error) {
	var d optic.DetectorSpec
	var err error

	if d.Name, err = lookupString(v, "name"); err != nil {
		return d, err
	}
	if d.Kind, err = lookupString(v, "kind"); err != nil {
		return d, err
	}
	if d.Node, err = lookupString(v, "node"); err != nil {
		return d, err
	}
	return d, nil
}

func compileGauss(v cue.Value) (optic.GaussSpec, error) {
	var g optic.GaussSpec
	var err error

	if g.Component, err = lookupString(v, "component"); err != nil {
		return g, err
	}
	if g.Node, err = lookupString(v, "node"); err != nil {
		return g, err
	}
	if g.QX, err = lookupPair(v, "qx"); err != nil {
		return g, err
	}

	// qy is null for a circular beam
	if !lookup(v, "qy").IsNull() {
		qy, err := lookupPair(v, "qy")
		if err != nil {
			return g, err
		}
		g.QY = &qy
	}
	return g, nil
}

// lookup returns the field's value with schema defaults applied.
func lookup(v cue.Value, field string) cue.Value {
	fv := v.LookupPath(cue.ParsePath(field))
	if d, ok := fv.Default(); ok {
		return d
	}
	return fv
}

func lookupString(v cue.Value, field string) (string, error) {
	fv := lookup(v, field)
	if !fv.Exists() {
		return "", errAt(ErrCodeSchema, field, field+" is required", v.Pos())
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err, ErrCodeSchema)
	}
	return s, nil
}

func lookupPair(v cue.Value, field string) ([2]float64, error) {
	var pair [2]float64

	iter, err := lookup(v, field).List()
	if err != nil {
		return pair, formatCUEError(err, ErrCodeSchema)
	}
	i := 0
	for iter.Next() {
		if i >= len(pair) {
			return pair, errAt(ErrCodeSchema, field, "expected [z, zR]", v.Pos())
		}
		f, err := iter.Value().Float64()
		if err != nil {
			return pair, formatCUEError(err, ErrCodeSchema)
		}
		pair[i] = f
		i++
	}
	if i != len(pair) {
		return pair, errAt(ErrCodeSchema, field, "expected [z, zR]", v.Pos())
	}
	return pair, nil
}
