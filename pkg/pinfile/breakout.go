package pinfile

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/backplane"
)

// BreakoutSignal is the column holding the signal name in a breakout-board
// table.
const BreakoutSignal = "Signal ID"

// LoadNames reads a breakout-board table and returns its signal names in
// document order. Empty cells and GND are left out.
func LoadNames(r io.Reader) (backplane.NameTable, error) {
	sections, err := decode(r)
	if err != nil {
		return nil, err
	}
	var names backplane.NameTable
	for _, s := range sections {
		for _, e := range s.entries {
			sig := e.fields[BreakoutSignal]
			if sig == "" || sig == "GND" {
				continue
			}
			names = append(names, sig)
		}
	}
	return names, nil
}

// LoadNamesFile is LoadNames on a named file.
func LoadNamesFile(path string) (backplane.NameTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pinfile: %w", err)
	}
	defer f.Close()
	return LoadNames(f)
}
