package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lightpath/internal/network"
)

// InfoOptions holds flags for the info command.
type InfoOptions struct {
	*RootOptions
	Tree bool
}

// NodeInfo describes one named node.
type NodeInfo struct {
	Name       string    `json:"name"`
	Connected  bool      `json:"connected"`
	Components [2]string `json:"components"`
	Detectors  []string  `json:"detectors,omitempty"`
	Gauss      string    `json:"gauss,omitempty"`
}

// ComponentInfo describes one registered component.
type ComponentInfo struct {
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	Role  string   `json:"role"`
	Ports []string `json:"ports"`
}

// InfoResult is the JSON payload of the info command.
type InfoResult struct {
	Bench      string          `json:"bench"`
	Context    string          `json:"context"`
	Nodes      []NodeInfo      `json:"nodes"`
	Components []ComponentInfo `json:"components"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InfoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "info <bench-file>",
		Short: "Print the nodes and components of a bench",
		Long: `Build a bench and print its connectivity: one line per named node with
the two components it joins, then one line per component with its ports.
Empty slots print as "-"; dump ports are listed but dump nodes are not.

Examples:
  lightpath info bench.cue
  lightpath info bench.cue --tree`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "print components and their neighbours as a tree")

	return cmd
}

func runInfo(opts *InfoOptions, benchFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	bench, err := loadBench(formatter, benchFile)
	if err != nil {
		return err
	}
	s, err := openSession(context.Background(), formatter, bench, "")
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.Format == "json" {
		return formatter.Success(describe(bench.Name, s.reg))
	}

	w := cmd.OutOrStdout()
	if opts.Tree {
		fmt.Fprint(w, s.reg.Tree())
		return nil
	}
	s.reg.DumpInfo(w)
	return nil
}

func describe(bench string, reg *network.Registry) InfoResult {
	result := InfoResult{
		Bench:      bench,
		Context:    reg.Context(),
		Nodes:      []NodeInfo{},
		Components: []ComponentInfo{},
	}

	for _, n := range reg.SortedNodes() {
		info := NodeInfo{Name: n.Name(), Connected: n.IsConnected()}
		for i, c := range n.Components() {
			if c != nil {
				info.Components[i] = c.Name()
			}
		}
		for _, d := range n.Detectors() {
			info.Detectors = append(info.Detectors, d.Name())
		}
		if g, ok := n.Gauss(); ok {
			info.Gauss = fmt.Sprintf("qx=%s qy=%s by %s", g.QX, g.QY, g.Component)
		}
		result.Nodes = append(result.Nodes, info)
	}

	for _, c := range reg.Components() {
		info := ComponentInfo{
			Name:  c.Name(),
			Kind:  string(c.Kind()),
			Role:  c.Role().String(),
			Ports: []string{},
		}
		for _, n := range c.Nodes() {
			info.Ports = append(info.Ports, n.Name())
		}
		result.Components = append(result.Components, info)
	}
	return result
}
