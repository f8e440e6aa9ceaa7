package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/backplane"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/logging"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/netlist"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/pinfile"
)

// generate loads the mapping tables named in the configuration and resolves
// them into a specification.
func generate() (*backplane.Result, error) {
	if cfg.Inputs.Pigtail == "" || cfg.Inputs.DCB == "" {
		return nil, fmt.Errorf("both a pigtail and a DCB mapping table are required")
	}
	pt, err := pinfile.LoadFile(cfg.Inputs.Pigtail, cfg.Inputs.PigtailSchema)
	if err != nil {
		return nil, err
	}
	dcb, err := pinfile.LoadFile(cfg.Inputs.DCB, cfg.Inputs.DCBSchema)
	if err != nil {
		return nil, err
	}
	var names backplane.NameTable
	if cfg.Inputs.Breakout != "" {
		if names, err = pinfile.LoadNamesFile(cfg.Inputs.Breakout); err != nil {
			return nil, err
		}
	}

	g := backplane.NewGenerator(logging.GetLogger("generate"))
	g.Prefixes = cfg.Prefixes
	g.Names = names.WithGrounds(cfg.Prefixes, cfg.Generate.Grounds)
	g.Options = cfg.Generate.ChainOptions
	g.Variant = cfg.Verify.Variant
	return g.Run(pt, dcb)
}

// readNetlist reads path, or the configured netlist when path is empty.
func readNetlist(path string) (netlist.Graph, error) {
	if path == "" {
		path = cfg.Inputs.Netlist
	}
	if path == "" {
		return nil, fmt.Errorf("no netlist given")
	}
	return netlist.ReadFile(path)
}

func newCollapser() (*netlist.Collapser, error) {
	return netlist.NewCollapser(cfg.Collapse.Config(),
		netlist.WithCollapseLogger(logging.GetLogger("collapse")))
}
