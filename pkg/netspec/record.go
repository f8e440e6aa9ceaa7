package netspec

import "strings"

// Note values recognized on pin records.
const (
	NoteUnused    = "Unused"
	NoteAlphaOnly = "Alpha only"
)

// Companion points at a pin on another connector.
type Companion struct {
	// Slot is the raw slot cell of the companion connector ("00 / X-0").
	Slot string
	// Pin is the companion pin designator. Empty means the slot is known
	// but the pin has not been resolved.
	Pin string
}

// Resolved reports whether both the slot and the pin are known.
func (c *Companion) Resolved() bool {
	return c != nil && c.Slot != "" && c.Pin != ""
}

// PinRecord describes one physical pin of a connector, as read from the
// mapping tables.
//
// Counterpart refers to the opposite connector family (a PT pin for a DCB
// record and vice versa). A nil Counterpart means the pin has no companion
// and is unconnected. Peer refers to a pin on another connector of the same
// family (a board-to-board bridge); nil means no bridge.
//
// Records are mutated only by the signal-id backfill that runs before rule
// resolution.
type PinRecord struct {
	SignalID    string
	Pin         string
	Counterpart *Companion
	Peer        *Companion
	Ref         string
	Note        string
	Depopulated bool
}

// HasCounterpart reports whether the record names a resolved pin on the
// opposite connector family.
func (r *PinRecord) HasCounterpart() bool {
	return r.Counterpart.Resolved()
}

// HasCounterpartSlot reports whether the record names the opposite
// connector, regardless of whether the pin is known.
func (r *PinRecord) HasCounterpartSlot() bool {
	return r.Counterpart != nil && r.Counterpart.Slot != ""
}

// HasPeer reports whether the record names a resolved same-family pin.
func (r *PinRecord) HasPeer() bool {
	return r.Peer.Resolved()
}

// Unused reports whether the pin was marked unused in the mapping tables.
func (r *PinRecord) Unused() bool {
	return r.Depopulated || r.Note == NoteUnused
}

// AlphaOnly reports whether the pin is populated on alpha boards only.
func (r *PinRecord) AlphaOnly() bool {
	return strings.Contains(r.Note, NoteAlphaOnly)
}
