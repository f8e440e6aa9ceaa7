package netspec

import (
	"fmt"
	"strconv"
	"strings"
)

// Pad left-pads the numeric part of a pin designator to two digits.
// Pad("A1") returns "A01"; longer designators are returned unchanged.
func Pad(pin string) string {
	if len(pin) != 2 {
		return pin
	}
	return pin[:1] + "0" + pin[1:]
}

// Depad strips a single leading zero from the numeric part of a pin
// designator. Depad("A01") returns "A1".
func Depad(pin string) string {
	if len(pin) > 2 && pin[1] == '0' {
		return pin[:1] + pin[2:]
	}
	return pin
}

// SlotIndex reduces a slot cell such as "00 / X-0" to its connector index
// ("0"). Composite cells that name several slots ("00|01") are returned
// as-is so the caller can expand them.
func SlotIndex(slot string) (string, error) {
	head, _, _ := strings.Cut(slot, "/")
	head = strings.TrimSpace(head)
	if strings.Contains(head, "|") {
		return head, nil
	}
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return "", fmt.Errorf("netspec: slot %q: %w", slot, ErrMalformedRecord)
	}
	return strconv.Itoa(n), nil
}

// Connector joins a family prefix and a connector index ("JD" + "3").
func Connector(prefix string, idx int) string {
	return prefix + strconv.Itoa(idx)
}

// ConnectorIndex parses the numeric suffix of a connector name. ok is false
// when name does not start with prefix or has no numeric suffix.
func ConnectorIndex(prefix, name string) (int, bool) {
	rest, found := strings.CutPrefix(name, prefix)
	if !found || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NetName is a net name split at its first two underscores. Composite names
// follow the "<conn>_<conn>_<signal>" convention; anything with fewer parts
// is Simple and carries the whole name in Tail.
type NetName struct {
	Head      string
	Body      string
	Tail      string
	Composite bool
}

// Simple reports whether the name could not be split into three parts.
func (n NetName) Simple() bool { return !n.Composite }

// String reassembles the original name.
func (n NetName) String() string {
	if !n.Composite {
		return n.Tail
	}
	return n.Head + "_" + n.Body + "_" + n.Tail
}

// SplitNetName splits name into head, body and tail.
func SplitNetName(name string) NetName {
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 3 {
		return NetName{Tail: name}
	}
	return NetName{Head: parts[0], Body: parts[1], Tail: parts[2], Composite: true}
}

// SplitHead splits name at its first underscore. ok is false when name has
// no underscore.
func SplitHead(name string) (head, rest string, ok bool) {
	return strings.Cut(name, "_")
}
