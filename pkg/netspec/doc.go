// Package netspec holds the shared value types of a backplane net
// specification: raw per-connector pin records, canonical net node identities
// and the node to net-property map produced by a rule run.
//
// # Node shapes
//
// A NetNode comes in two shapes. The heterogeneous shape pairs one endpoint on
// a DCB connector with one endpoint on a pigtail (PT) connector; either side
// may be absent. The generic shape joins two connectors of the same family
// (a board-to-board bridge) and is stored with its endpoints in canonical
// order, so a bridge discovered from either side yields the same map key:
//
//	netspec.GenericNode("JD1", "A1", "JD0", "A1") == netspec.GenericNode("JD0", "A1", "JD1", "A1")
//
// # Pins and slots
//
// Pin designators are stored depadded ("A01" becomes "A1"). Slot cells taken
// from the mapping tables ("00 / X-0") are reduced to a connector index with
// SlotIndex.
package netspec
