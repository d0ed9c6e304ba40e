package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/lightpath/internal/catalog"
)

// Scenario is a bench plus a sequence of steps to run against it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Bench is the path of a bench file, relative to the scenario file.
	// Exactly one of Bench and Inline must be set.
	Bench string `yaml:"bench,omitempty"`

	// Inline is a bench definition embedded in the scenario.
	Inline *catalog.Bench `yaml:"inline,omitempty"`

	// Context is the registry's context token. Defaults to
	// testutil.DefaultContext so golden files are reproducible.
	Context string `yaml:"context,omitempty"`

	// MaxHops overrides the registry's hop quota when positive.
	MaxHops int `yaml:"max_hops,omitempty"`

	Steps []Step `yaml:"steps"`

	// Golden enables snapshot comparison against golden/<name>.golden.
	Golden bool `yaml:"golden,omitempty"`

	// Dir is the directory holding the scenario file.
	Dir string `yaml:"-"`
}

// Step is one registry operation. Exactly one action field must be set.
type Step struct {
	FindPath        *FindPathArgs    `yaml:"find_path,omitempty"`
	RemoveComponent string           `yaml:"remove_component,omitempty"`
	ReplaceNode     *ReplaceNodeArgs `yaml:"replace_node,omitempty"`
	RemoveNode      string           `yaml:"remove_node,omitempty"`
	CreateNode      string           `yaml:"create_node,omitempty"`

	// AssertNodes checks the sorted set of named nodes.
	AssertNodes []string `yaml:"assert_nodes,omitempty"`

	// Expect is the component names a find_path step must return.
	Expect []string `yaml:"expect,omitempty"`

	// ExpectError is the error code the step must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// FindPathArgs are the endpoints of a find_path step.
type FindPathArgs struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ReplaceNodeArgs moves Component from node Old to node New. New is created
// if it does not exist.
type ReplaceNodeArgs struct {
	Component string `yaml:"component"`
	Old       string `yaml:"old"`
	New       string `yaml:"new"`
}

// Step actions.
const (
	ActionFindPath        = "find_path"
	ActionRemoveComponent = "remove_component"
	ActionReplaceNode     = "replace_node"
	ActionRemoveNode      = "remove_node"
	ActionCreateNode      = "create_node"
	ActionAssertNodes     = "assert_nodes"
)

// Actions returns the names of the action fields set on s.
func (s Step) Actions() []string {
	var set []string
	if s.FindPath != nil {
		set = append(set, ActionFindPath)
	}
	if s.RemoveComponent != "" {
		set = append(set, ActionRemoveComponent)
	}
	if s.ReplaceNode != nil {
		set = append(set, ActionReplaceNode)
	}
	if s.RemoveNode != "" {
		set = append(set, ActionRemoveNode)
	}
	if s.CreateNode != "" {
		set = append(set, ActionCreateNode)
	}
	if s.AssertNodes != nil {
		set = append(set, ActionAssertNodes)
	}
	return set
}

// Action returns the step's single action, or "" if zero or several are set.
func (s Step) Action() string {
	set := s.Actions()
	if len(set) != 1 {
		return ""
	}
	return set[0]
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative bench path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	s.Dir = filepath.Dir(path)
	if s.Bench != "" && !filepath.IsAbs(s.Bench) {
		s.Bench = filepath.Join(s.Dir, s.Bench)
	}
	if s.Bench != "" {
		if _, err := os.Stat(s.Bench); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: bench file not found: %s", s.Bench)
		}
	}
	return s, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// FindScenarios returns the scenario files under root, sorted. When filter
// is not empty only files whose base name (without extension) matches the
// glob are returned. The golden directory is skipped.
func FindScenarios(root, filter string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && info.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			base := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, base)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Bench == "" && s.Inline == nil:
		return fmt.Errorf("one of bench or inline is required")
	case s.Bench != "" && s.Inline != nil:
		return fmt.Errorf("bench and inline are mutually exclusive")
	}

	if s.MaxHops < 0 {
		return fmt.Errorf("max_hops must be non-negative")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s Step) error {
	actions := s.Actions()
	switch len(actions) {
	case 0:
		return fmt.Errorf("steps[%d]: no action given", index)
	case 1:
	default:
		return fmt.Errorf("steps[%d]: only one action per step, got %s", index, strings.Join(actions, ", "))
	}

	switch actions[0] {
	case ActionFindPath:
		if s.FindPath.From == "" || s.FindPath.To == "" {
			return fmt.Errorf("steps[%d]: find_path needs from and to", index)
		}
		if s.Expect != nil && s.ExpectError != "" {
			return fmt.Errorf("steps[%d]: expect and expect_error are mutually exclusive", index)
		}
	case ActionReplaceNode:
		r := s.ReplaceNode
		if r.Component == "" || r.Old == "" || r.New == "" {
			return fmt.Errorf("steps[%d]: replace_node needs component, old and new", index)
		}
	}

	if s.Expect != nil && actions[0] != ActionFindPath {
		return fmt.Errorf("steps[%d]: expect is only valid for find_path", index)
	}
	return nil
}
