// Package pinfile loads connector mapping tables and breakout-board name
// tables from YAML.
//
// A mapping table lists, per connector, one entry per pin:
//
//	JP0:
//	- '1':
//	    Signal ID: JD0_JP0_EC_HYB_i2c_SCL
//	    SEAM pin: A01|B02
//	    DCB slot: 00|01
//	    Note: null
//	    ref: 1
//
// Column names differ between the pigtail and DCB tables and are described
// by a Schema.
package pinfile

// Schema names the columns of a mapping table. Empty column names are not
// read.
type Schema struct {
	Prefix          string `koanf:"prefix"`
	Signal          string `koanf:"signal"`
	CounterpartPin  string `koanf:"counterpart_pin"`
	CounterpartSlot string `koanf:"counterpart_slot"`
	PeerPin         string `koanf:"peer_pin"`
	PeerSlot        string `koanf:"peer_slot"`
	Note            string `koanf:"note"`
	Ref             string `koanf:"ref"`
	Depopulated     string `koanf:"depopulated"`
}

// PTSchema describes the pigtail mapping table.
func PTSchema() Schema {
	return Schema{
		Prefix:          "JP",
		Signal:          "Signal ID",
		CounterpartPin:  "SEAM pin",
		CounterpartSlot: "DCB slot",
		Note:            "Note",
		Ref:             "ref",
	}
}

// DCBSchema describes the DCB mapping table. Its peer columns describe
// board-to-board bridges between DCB connectors.
func DCBSchema() Schema {
	return Schema{
		Prefix:          "JD",
		Signal:          "Signal ID",
		CounterpartPin:  "Pigtail pin",
		CounterpartSlot: "Pigtail slot",
		PeerPin:         "SEAM pin D",
		PeerSlot:        "SEAM slot",
		Note:            "Note",
		Ref:             "ref",
	}
}
