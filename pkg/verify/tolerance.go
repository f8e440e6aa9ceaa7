package verify

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
)

// Alias rewrites From to To in both names before they are compared.
type Alias struct {
	From string `koanf:"from"`
	To   string `koanf:"to"`
}

// Tolerances lists the naming differences between a specification and a
// drawn netlist that are not reported.
type Tolerances struct {
	// Aliases are applied in order.
	Aliases []Alias `koanf:"aliases"`
	// Interchangeable signals match any other signal containing the same
	// keyword.
	Interchangeable []string `koanf:"interchangeable"`
	// Spelled are connector prefixes whose index is written as an English
	// word in drawn net names, e.g. JPU3 becomes _THREE.
	Spelled []string `koanf:"spelled"`
	// Jumper marks a component reference that routes a one-to-N net.
	Jumper string `koanf:"jumper"`
}

// DefaultTolerances returns the tolerances the backplane drawings need.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Aliases:         []Alias{{From: "EAST_LV", To: "WEST_LV"}},
		Interchangeable: []string{"LV_RETURN"},
		Spelled:         []string{"JPU", "JPL"},
		Jumper:          "JS_PT",
	}
}

func (t Tolerances) normalize(name string) string {
	for _, a := range t.Aliases {
		if a.From != "" {
			name = strings.ReplaceAll(name, a.From, a.To)
		}
	}
	return name
}

// Equal reports whether two net names are the same after aliasing.
func (t Tolerances) Equal(actual, specified string) bool {
	return actual == specified || t.normalize(actual) == t.normalize(specified)
}

// sameSignal compares signal ids, which additionally tolerates
// interchangeable keywords.
func (t Tolerances) sameSignal(actual, specified string) bool {
	if t.Equal(actual, specified) {
		return true
	}
	for _, kw := range t.Interchangeable {
		if strings.Contains(actual, kw) && strings.Contains(specified, kw) {
			return true
		}
	}
	return false
}

var spelledDigits = [...]string{"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE"}

// spell rewrites a connector such as JPU3 into its drawn form _THREE.
// Names that do not carry a spelled prefix followed by one digit are
// returned unchanged.
func (t Tolerances) spell(conn string) string {
	for _, p := range t.Spelled {
		before, after, ok := strings.Cut(conn, p)
		if !ok || len(after) != 1 || after[0] < '0' || after[0] > '9' {
			continue
		}
		return before + "_" + spelledDigits[after[0]-'0']
	}
	return conn
}

// OneToN reports whether the drawn net actual, which differs in name from
// the specified one, still realizes it: both names follow the
// <conn>_<conn>_<signal> scheme, the signals match, the first connector
// sits on the net and the second is reached either directly or through a
// jumper.
func (t Tolerances) OneToN(actual, specified string, refs []string) bool {
	a := netspec.SplitNetName(actual)
	s := netspec.SplitNetName(specified)
	if a.Simple() || s.Simple() {
		return false
	}
	if !t.sameSignal(a.Tail, s.Tail) {
		return false
	}
	if !containsString(refs, a.Head) {
		return false
	}
	second := t.spell(a.Body)
	for _, ref := range refs {
		if t.Jumper != "" && strings.Contains(ref, t.Jumper) {
			return true
		}
	}
	for _, ref := range refs {
		if strings.Contains(ref, second) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
