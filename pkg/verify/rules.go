package verify

import (
	"regexp"
	"strings"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/selection"
)

// nodeSubject is one specification node together with where, if anywhere,
// the netlist realizes it.
type nodeSubject struct {
	node    netspec.NetNode
	props   netspec.NetProperties
	net     string
	found   bool
	members []string
	refs    []string
}

type nodeChain = selection.Chain[nodeSubject, Finding]

func noFinding[In any](In) (Finding, error) { return NoFinding, nil }

// newNodeChain builds the node rules. The for-reference-only rule must run
// before the not-implemented rule: an absent reference-only node is the
// expected state and must not be reported. The same holds for nodes the
// variant depopulates; once drawn, they need a depopulation component and
// are checked like any other node.
func newNodeChain(tol Tolerances, depop []*regexp.Regexp) *nodeChain {
	return selection.MustChain[nodeSubject, Finding](
		selection.Func[nodeSubject, Finding]{
			Label:   "ForRefOnly",
			MatchFn: func(s nodeSubject) bool { return s.props.ForRefOnly() },
			Fn: func(s nodeSubject) (Finding, error) {
				if !s.found {
					return NoFinding, nil
				}
				return findingf(UnexpectedPopulation, "Populated although for reference only: NET: %s, NODE: %s", s.net, s.node), nil
			},
		},
		selection.Func[nodeSubject, Finding]{
			Label: "Depopulated",
			MatchFn: func(s nodeSubject) bool {
				return s.props.Depopulated() && (!s.found || !anyMatch(depop, s.refs))
			},
			Fn: func(s nodeSubject) (Finding, error) {
				if !s.found {
					return NoFinding, nil
				}
				return findingf(MissingComponent, "Missing depopulation component: NET: %s, NODE: %s", s.net, s.node), nil
			},
		},
		selection.Func[nodeSubject, Finding]{
			Label:   "Placeholder",
			MatchFn: func(s nodeSubject) bool { return s.props.Placeholder() },
			Fn:      noFinding[nodeSubject],
		},
		selection.Func[nodeSubject, Finding]{
			Label:   "NotImplemented",
			MatchFn: func(s nodeSubject) bool { return !s.found },
			Fn: func(s nodeSubject) (Finding, error) {
				return findingf(NotImplemented, "NOT implemented: NET: %s, NODE: %s", s.props.Name, s.node), nil
			},
		},
		selection.Func[nodeSubject, Finding]{
			Label:   "EquivalentName",
			MatchFn: func(s nodeSubject) bool { return anyEqual(tol, s.members, s.props.Name) },
			Fn:      noFinding[nodeSubject],
		},
		selection.Func[nodeSubject, Finding]{
			Label: "OneToN",
			MatchFn: func(s nodeSubject) bool {
				for _, m := range s.members {
					if tol.OneToN(m, s.props.Name, s.refs) {
						return true
					}
				}
				return false
			},
			Fn: noFinding[nodeSubject],
		},
		selection.Func[nodeSubject, Finding]{
			Label: "NameInconsistent",
			Fn: func(s nodeSubject) (Finding, error) {
				return findingf(NameInconsistent, "NETNAME inconsistent: Implemented: %s, Specified: %s, NODE: %s", s.net, s.props.Name, s.node), nil
			},
		},
	)
}

func anyMatch(patterns []*regexp.Regexp, refs []string) bool {
	for _, re := range patterns {
		for _, ref := range refs {
			if re.MatchString(ref) {
				return true
			}
		}
	}
	return false
}

func anyEqual(tol Tolerances, names []string, specified string) bool {
	for _, n := range names {
		if tol.Equal(n, specified) {
			return true
		}
	}
	return false
}

// netSubject is one net of the netlist.
type netSubject struct {
	net      string
	members  []string
	refs     []string
	realized bool
}

type (
	netRule  = selection.Rule[netSubject, Finding]
	netChain = selection.Chain[netSubject, Finding]
)

// Requirement demands a component matching Component on every net matching
// Net, for the listed board variants. An empty Variants list applies to all
// variants.
type Requirement struct {
	Name      string   `koanf:"name"`
	Net       string   `koanf:"net"`
	Component string   `koanf:"component"`
	Variants  []string `koanf:"variants"`
}

func (r Requirement) appliesTo(variant string) bool {
	if len(r.Variants) == 0 {
		return true
	}
	for _, v := range r.Variants {
		if strings.EqualFold(v, variant) {
			return true
		}
	}
	return false
}

type requirementRule struct {
	req       Requirement
	net, comp *regexp.Regexp
}

func (r requirementRule) Name() string { return "Require_" + r.req.Name }

func (r requirementRule) Match(s netSubject) bool {
	hit := false
	for _, m := range s.members {
		if r.net.MatchString(m) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	for _, ref := range s.refs {
		if r.comp.MatchString(ref) {
			return false
		}
	}
	return true
}

func (r requirementRule) Process(s netSubject) (Finding, error) {
	return findingf(MissingComponent, "Missing %s component: NET: %s, COMPONENTS: %s", r.req.Name, s.net, strings.Join(s.refs, ", ")), nil
}

func newPopulationChain(reqs []requirementRule) *netChain {
	rules := make([]netRule, 0, len(reqs)+1)
	for _, r := range reqs {
		rules = append(rules, r)
	}
	rules = append(rules, selection.Func[netSubject, Finding]{
		Label: "Populated",
		Fn:    noFinding[netSubject],
	})
	return selection.MustChain(rules...)
}

func newOrphanChain(tol Tolerances, ignore []*regexp.Regexp, names map[string]struct{}) *netChain {
	return selection.MustChain[netSubject, Finding](
		selection.Func[netSubject, Finding]{
			Label: "Ignored",
			MatchFn: func(s netSubject) bool {
				for _, re := range ignore {
					for _, m := range s.members {
						if re.MatchString(m) {
							return true
						}
					}
				}
				return false
			},
			Fn: noFinding[netSubject],
		},
		selection.Func[netSubject, Finding]{
			Label: "Specified",
			MatchFn: func(s netSubject) bool {
				if s.realized {
					return true
				}
				for _, m := range s.members {
					if _, ok := names[tol.normalize(m)]; ok {
						return true
					}
				}
				return false
			},
			Fn: noFinding[netSubject],
		},
		selection.Func[netSubject, Finding]{
			Label: "Orphan",
			Fn: func(s netSubject) (Finding, error) {
				return findingf(OrphanNet, "Orphan net: NET: %s, COMPONENTS: %s", s.net, strings.Join(s.refs, ", ")), nil
			},
		},
	)
}
