package backplane

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
)

// Differential legs whose negative side takes its name from the DCB record
// of the positive side.
var diffPairSuffixes = []string{"SCL_N", "SDA_N", "RESET_N"}

// Backfill rewrites pigtail signal ids from the DCB tables before any rule
// runs. It mutates pt in place.
//
// The first pass renames the negative leg of each differential pair to
// "<dcb>_<dcb signal>_N", using the DCB record reached through the positive
// leg. A missing partner or DCB record is an ErrUnresolvedReference.
//
// The second pass replaces the signal id of every pigtail pin that has a DCB
// counterpart with the signal id of the reciprocal DCB record. Pins without a
// reciprocal record keep their id and are logged.
func Backfill(p Prefixes, pt, dcb [][]*netspec.PinRecord, log zerolog.Logger) error {
	if err := rejectNil(p.Pigtail, pt); err != nil {
		return err
	}
	if err := rejectNil(p.DCB, dcb); err != nil {
		return err
	}

	for ptIdx, records := range pt {
		for _, rec := range records {
			if !isNegativeLeg(rec.SignalID) {
				continue
			}
			if err := backfillNegativeLeg(p, ptIdx, rec, records, dcb); err != nil {
				return err
			}
		}
	}

	for ptIdx, records := range pt {
		for _, rec := range records {
			if !rec.HasCounterpartSlot() {
				continue
			}
			match, err := reciprocal(ptIdx, rec, dcb)
			if err != nil {
				log.Warn().Err(err).
					Str("connector", p.PT(ptIdx)).
					Str("pin", rec.Pin).
					Str("signal", rec.SignalID).
					Str("ref", rec.Ref).
					Msg("No reciprocal DCB record, keeping pigtail signal id")
				continue
			}
			rec.SignalID = match.SignalID
		}
	}
	return nil
}

func rejectNil(prefix string, conns [][]*netspec.PinRecord) error {
	for idx, records := range conns {
		for i, rec := range records {
			if rec == nil {
				return fmt.Errorf("backplane: %s record %d is nil: %w", netspec.Connector(prefix, idx), i, netspec.ErrMalformedRecord)
			}
		}
	}
	return nil
}

func isNegativeLeg(sig string) bool {
	for _, s := range diffPairSuffixes {
		if strings.HasSuffix(sig, s) {
			return true
		}
	}
	return false
}

func backfillNegativeLeg(p Prefixes, ptIdx int, rec *netspec.PinRecord, siblings []*netspec.PinRecord, dcb [][]*netspec.PinRecord) error {
	ref := strings.TrimSuffix(rec.SignalID, "N") + "P"

	var partner *netspec.PinRecord
	for _, s := range siblings {
		if s.SignalID == ref {
			partner = s
			break
		}
	}
	if partner == nil {
		return fmt.Errorf("backplane: %s pin %s: partner %s: %w", p.PT(ptIdx), rec.Pin, ref, netspec.ErrUnresolvedReference)
	}
	if !partner.HasCounterpart() {
		return fmt.Errorf("backplane: %s pin %s: partner %s has no DCB pin: %w", p.PT(ptIdx), rec.Pin, ref, netspec.ErrUnresolvedReference)
	}

	match, err := reciprocal(ptIdx, partner, dcb)
	if err != nil {
		return fmt.Errorf("backplane: %s pin %s: %w", p.PT(ptIdx), rec.Pin, err)
	}
	dcbIdx, _ := netspec.SlotIndex(partner.Counterpart.Slot)
	rec.SignalID = p.DCB + dcbIdx + "_" + match.SignalID + "_N"
	return nil
}

// reciprocal finds the DCB record that points back at pigtail pin rec of
// connector ptIdx.
func reciprocal(ptIdx int, rec *netspec.PinRecord, dcb [][]*netspec.PinRecord) (*netspec.PinRecord, error) {
	idx, err := netspec.SlotIndex(rec.Counterpart.Slot)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n >= len(dcb) {
		return nil, fmt.Errorf("DCB slot %q out of range: %w", rec.Counterpart.Slot, netspec.ErrUnresolvedReference)
	}

	want := strconv.Itoa(ptIdx)
	dcbPin := netspec.Depad(rec.Counterpart.Pin)
	ptPin := netspec.Depad(rec.Pin)
	for _, d := range dcb[n] {
		if netspec.Depad(d.Pin) != dcbPin || !d.HasCounterpartSlot() {
			continue
		}
		slot, err := netspec.SlotIndex(d.Counterpart.Slot)
		if err != nil || slot != want {
			continue
		}
		if netspec.Depad(d.Counterpart.Pin) == ptPin {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no DCB record on slot %s pin %s for pigtail pin %s: %w", idx, rec.Counterpart.Pin, rec.Pin, netspec.ErrUnresolvedReference)
}
