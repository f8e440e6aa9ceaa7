package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/config"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/logging"
)

var (
	// Global flags
	configPath string
	verbosity  int

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "otn",
	Short: "OpenTraceNet - backplane net specification and netlist checks",
	Long: `OpenTraceNet (otn) derives the per-pin net specification of a detector
backplane from its connector mapping tables and checks a CAD netlist
against it:
  - gen:      resolve pigtail and DCB mapping tables into a net specification
  - collapse: merge nets bridged by resistors, capacitors and ferrites
  - check:    compare the specification with a netlist

Examples:
  otn gen --pigtail backplane_mapping_PT.yml --dcb backplane_mapping_DCB.yml
  otn collapse backplane_true_type.net --format json
  otn check -c otn.toml backplane_true_type.net`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]interface{}{}
		if cmd.Flags().Changed("verbose") {
			overrides["log.verbosity"] = verbosity
		}
		addInputOverrides(cmd, overrides)

		var err error
		cfg, err = config.Load(configPath, overrides)
		if err != nil {
			return err
		}
		logging.Setup(cfg.Log.Verbosity, os.Stderr)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (repeat for more)")
}

// inputFlags maps input flags to configuration keys.
var inputFlags = map[string]string{
	"pigtail":  "inputs.pigtail",
	"dcb":      "inputs.dcb",
	"breakout": "inputs.breakout",
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("pigtail", "", "pigtail mapping table (YAML)")
	cmd.Flags().String("dcb", "", "DCB mapping table (YAML)")
	cmd.Flags().String("breakout", "", "breakout board name table (YAML)")
}

func addInputOverrides(cmd *cobra.Command, overrides map[string]interface{}) {
	for flag, key := range inputFlags {
		f := cmd.Flags().Lookup(flag)
		if f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
}
