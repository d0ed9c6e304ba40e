package catalog

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/lightpath/internal/optic"
)

// Validation error codes (E200-E299)
const (
	// Bench errors (E201-E209)
	ErrBenchNameEmpty    = "E201" // bench name is required
	ErrBenchNoComponents = "E202" // at least one component required

	// Component errors (E210-E219)
	ErrComponentNameEmpty = "E210" // component name is required
	ErrDuplicateComponent = "E211" // component names are unique
	ErrUnknownKind        = "E212" // kind is not in the catalog
	ErrPortCount          = "E213" // port count does not match the kind's role
	ErrPortNameEmpty      = "E214" // port names are required
	ErrPortRepeated       = "E215" // component names the same node twice
	ErrNodeOverbooked     = "E216" // more than two ports name the same node

	// Detector errors (E220-E229)
	ErrDetectorNameEmpty = "E220" // detector name is required
	ErrDuplicateDetector = "E221" // detector names are unique per node
	ErrDetectorNode      = "E222" // detector observes an undeclared node

	// Gauss errors (E230-E239)
	ErrGaussComponent = "E230" // gauss names an unknown component
	ErrGaussNode      = "E231" // gauss node is not a non-dump port of its component
	ErrGaussDuplicate = "E232" // node already has a beam parameter
)

// ValidationError represents a bench validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks b against the registration rules without building it.
// Returns all errors found (does not fail-fast).
func Validate(b *Bench) []ValidationError {
	var errs []ValidationError
	add := func(code, field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code})
	}

	// E201: bench name is required
	if optic.NormalizeName(b.Name) == "" {
		add(ErrBenchNameEmpty, "name", "bench name is required and must be non-empty")
	}

	// E202: at least one component required
	if len(b.Components) == 0 {
		add(ErrBenchNoComponents, "components", "at least one component is required")
	}

	names := make(map[string]bool)
	ports := make(map[string]map[string]bool) // component -> non-dump port names
	usage := make(map[string]int)             // node -> number of ports naming it
	var order []string

	for i, c := range b.Components {
		field := fmt.Sprintf("components[%d]", i)
		name := optic.NormalizeName(c.Name)

		if name == "" {
			add(ErrComponentNameEmpty, field+".name", "component name is required")
		} else if names[name] {
			add(ErrDuplicateComponent, field+".name", "duplicate component name: %q", name)
		}
		names[name] = true

		role, ok := optic.RoleOf(c.Kind)
		if !ok {
			add(ErrUnknownKind, field+".kind", "unknown kind %q (known: %v)", c.Kind, optic.Kinds())
		} else if len(c.Ports) != role.PortCount() {
			add(ErrPortCount, field+".ports", "%s is %s and needs %d ports, got %d",
				c.Kind, role, role.PortCount(), len(c.Ports))
		}

		own := make(map[string]bool)
		for j, p := range c.Ports {
			pname := optic.NormalizeName(p)
			pfield := fmt.Sprintf("%s.ports[%d]", field, j)
			switch {
			case pname == "":
				add(ErrPortNameEmpty, pfield, "port name is required")
				continue
			case pname == optic.DumpName:
				continue
			case own[pname]:
				add(ErrPortRepeated, pfield, "component %q names node %q twice", name, pname)
				continue
			}
			own[pname] = true
			if usage[pname] == 0 {
				order = append(order, pname)
			}
			usage[pname]++
		}
		if _, seen := ports[name]; !seen {
			ports[name] = own
		}
	}

	// E216: a node joins at most two endpoints
	for _, node := range order {
		if usage[node] > 2 {
			add(ErrNodeOverbooked, "components", "node %q is named by %d ports; at most 2 allowed", node, usage[node])
		}
	}

	detectors := make(map[string]map[string]bool)
	for i, d := range b.Detectors {
		field := fmt.Sprintf("detectors[%d]", i)
		name := optic.NormalizeName(d.Name)
		node := optic.NormalizeName(d.Node)

		if name == "" {
			add(ErrDetectorNameEmpty, field+".name", "detector name is required")
		}
		if usage[node] == 0 {
			add(ErrDetectorNode, field+".node", "detector %q observes undeclared node %q", name, d.Node)
			continue
		}
		if detectors[node] == nil {
			detectors[node] = make(map[string]bool)
		}
		if name != "" && detectors[node][name] {
			add(ErrDuplicateDetector, field+".name", "detector %q already observes node %q", name, node)
		}
		detectors[node][name] = true
	}

	gaussed := make(map[string]bool)
	for i, g := range b.Gauss {
		field := fmt.Sprintf("gauss[%d]", i)
		comp := optic.NormalizeName(g.Component)
		node := optic.NormalizeName(g.Node)

		own, ok := ports[comp]
		if !ok {
			add(ErrGaussComponent, field+".component", "unknown component %q", g.Component)
			continue
		}
		if !own[node] {
			add(ErrGaussNode, field+".node", "node %q is not a port of %q", g.Node, comp)
			continue
		}
		if gaussed[node] {
			add(ErrGaussDuplicate, field+".node", "node %q already has a beam parameter", node)
		}
		gaussed[node] = true
	}

	return errs
}

// Check runs Validate and folds the findings into a single error, or nil.
func Check(b *Bench) error {
	var result *multierror.Error
	for _, e := range Validate(b) {
		result = multierror.Append(result, e)
	}
	return result.ErrorOrNil()
}
