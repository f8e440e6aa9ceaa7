package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netlist"
)

var (
	collapseFormat string
	collapseOutput string
)

var collapseCmd = &cobra.Command{
	Use:   "collapse [netlist]",
	Short: "Merge nets bridged by transparent components",
	Long: `Read a PCAD or KiCad netlist, merge every group of nets joined only
through transparent components (by default resistors, capacitors and
ferrites) and write the result.

Examples:
  otn collapse backplane_true_type.net
  otn collapse backplane_true_type.net --format json -o collapsed.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCollapse,
}

func init() {
	rootCmd.AddCommand(collapseCmd)
	collapseCmd.Flags().StringVarP(&collapseFormat, "format", "f", "kicad", "output format (kicad, json)")
	collapseCmd.Flags().StringVarP(&collapseOutput, "output", "o", "", "output file (default stdout)")
}

func runCollapse(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	g, err := readNetlist(path)
	if err != nil {
		return err
	}
	c, err := newCollapser()
	if err != nil {
		return err
	}
	out, classes := c.Classes(g)

	var data []byte
	switch collapseFormat {
	case "kicad":
		data = []byte(netlist.ExportKiCad(out, path))
	case "json":
		if data, err = netlist.ExportJSON(out, "otn collapse"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", collapseFormat)
	}

	if collapseOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(collapseOutput, data, 0o644); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	merged := 0
	for _, members := range classes {
		merged += len(members) - 1
	}
	fmt.Fprintf(os.Stderr, "%d nets, %d merged into %d\n", len(g), merged, len(out))
	return nil
}
