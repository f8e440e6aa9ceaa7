package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/selection"
)

var genList bool

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate the net specification from the mapping tables",
	Long: `Resolve every pin of the pigtail and DCB mapping tables through their
rule chains and print a summary of the resulting specification.

Examples:
  otn gen --pigtail backplane_mapping_PT.yml --dcb backplane_mapping_DCB.yml
  otn gen -c otn.toml --list`,
	Args: cobra.NoArgs,
	RunE: runGen,
}

func init() {
	rootCmd.AddCommand(genCmd)
	addInputFlags(genCmd)
	genCmd.Flags().BoolVarP(&genList, "list", "l", false, "list every node and its net")
}

func runGen(cmd *cobra.Command, args []string) error {
	res, err := generate()
	if err != nil {
		return err
	}

	fmt.Printf("Pigtail: %d records, %d nodes\n", res.PTStats.Records, res.PT.Len())
	printHits(res.PTStats)
	fmt.Printf("DCB: %d records, %d nodes\n", res.DCBStats.Records, res.DCB.Len())
	printHits(res.DCBStats)
	fmt.Printf("Combined: %d nodes, %d net names\n", res.Combined.Len(), len(res.Combined.Names()))

	if genList {
		fmt.Println()
		for _, node := range res.Combined.Nodes() {
			props, _ := res.Combined.Get(node)
			line := fmt.Sprintf("%-40s %s", node, props.Name)
			if props.Attr != "" {
				line += " " + props.Attr
			}
			fmt.Println(line)
		}
	}
	return nil
}

func printHits(st selection.Stats) {
	rules := make([]string, 0, len(st.Hits))
	for r := range st.Hits {
		rules = append(rules, r)
	}
	sort.Strings(rules)
	for _, r := range rules {
		fmt.Printf("  %-22s %5d\n", r, st.Hits[r])
	}
	if st.Overwrites > 0 {
		fmt.Printf("  overwritten entries: %d\n", st.Overwrites)
	}
}
