// Package config loads the run configuration.
//
// Values are layered: the embedded defaults, then an optional TOML file,
// then OTN_ environment variables where "_" separates nested keys
// (OTN_LOG_VERBOSITY sets log.verbosity).
package config

import (
	"github.com/OpenTraceLab/OpenTraceNet/pkg/backplane"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/netlist"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/pinfile"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/verify"
)

// Config is the complete run configuration.
type Config struct {
	Prefixes backplane.Prefixes `koanf:"prefixes"`
	Inputs   Inputs             `koanf:"inputs"`
	Generate Generate           `koanf:"generate"`
	Collapse Collapse           `koanf:"collapse"`
	Verify   verify.Config      `koanf:"verify"`
	Log      Log                `koanf:"log"`
}

// Inputs names the input files and their table layouts.
type Inputs struct {
	Pigtail       string         `koanf:"pigtail"`
	DCB           string         `koanf:"dcb"`
	Breakout      string         `koanf:"breakout"`
	Netlist       string         `koanf:"netlist"`
	PigtailSchema pinfile.Schema `koanf:"pigtail_schema"`
	DCBSchema     pinfile.Schema `koanf:"dcb_schema"`
}

// Generate tunes specification generation.
type Generate struct {
	// Grounds is the number of DCB connectors whose ground nets are added
	// to the breakout name table.
	Grounds int `koanf:"grounds"`

	backplane.ChainOptions `koanf:",squash"`
}

// Collapse configures net hopping before verification.
type Collapse struct {
	Enabled     bool     `koanf:"enabled"`
	Transparent []string `koanf:"transparent"`
}

// Config returns the collapser configuration.
func (c Collapse) Config() netlist.CollapseConfig {
	return netlist.CollapseConfig{Transparent: c.Transparent}
}

// Log configures logging.
type Log struct {
	Verbosity int `koanf:"verbosity"`
}
