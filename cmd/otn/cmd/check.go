package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/logging"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/verify"
)

var checkNoCollapse bool

var checkCmd = &cobra.Command{
	Use:   "check [netlist]",
	Short: "Check a netlist against the generated specification",
	Long: `Generate the net specification from the mapping tables, optionally
collapse the netlist and print every discrepancy grouped by category.

Findings are not errors: the command exits with status 0 whenever the
comparison ran.

Examples:
  otn check -c otn.toml backplane_true_type.net
  otn check --pigtail pt.yml --dcb dcb.yml --no-collapse board.net`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addInputFlags(checkCmd)
	checkCmd.Flags().BoolVar(&checkNoCollapse, "no-collapse", false, "compare the netlist as drawn")
}

func runCheck(cmd *cobra.Command, args []string) error {
	res, err := generate()
	if err != nil {
		return err
	}
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	g, err := readNetlist(path)
	if err != nil {
		return err
	}

	actual := verify.NewActual(g)
	if cfg.Collapse.Enabled && !checkNoCollapse {
		c, err := newCollapser()
		if err != nil {
			return err
		}
		actual = verify.Collapsed(g, c)
	}

	v, err := verify.New(cfg.Verify, verify.WithLogger(logging.GetLogger("verify")))
	if err != nil {
		return err
	}
	report, err := v.Run(res.Combined, actual)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.String())
	fmt.Fprintf(out, "%d findings\n", report.Count())
	return nil
}
