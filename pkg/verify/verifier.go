package verify

import (
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceNet/pkg/netlist"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/netspec"
	"github.com/OpenTraceLab/OpenTraceNet/pkg/selection"
)

// Config controls a verification run.
type Config struct {
	Tolerances   Tolerances    `koanf:"tolerances"`
	Ignore       []string      `koanf:"ignore"`
	Variant      string        `koanf:"variant"`
	Requirements []Requirement `koanf:"requirements"`
	// Depopulation matches the references of components that may stand in
	// for a connection the variant leaves unpopulated.
	Depopulation []string `koanf:"depopulation"`
}

// DefaultConfig returns the default tolerances, no ignore patterns and no
// population requirements for the alpha variant. Resistors are accepted as
// depopulation components.
func DefaultConfig() Config {
	return Config{
		Tolerances:   DefaultTolerances(),
		Variant:      "alpha",
		Depopulation: []string{`^R\d+`},
	}
}

// Actual is the netlist side of a comparison. Members maps a net to the
// names merged into it by a collapse; nets without an entry stand for
// themselves.
type Actual struct {
	Graph   netlist.Graph
	Members map[string][]string
}

// NewActual wraps an uncollapsed graph.
func NewActual(g netlist.Graph) Actual {
	return Actual{Graph: g}
}

// Collapsed collapses g with c and keeps the class membership.
func Collapsed(g netlist.Graph, c *netlist.Collapser) Actual {
	out, classes := c.Classes(g)
	return Actual{Graph: out, Members: classes}
}

func (a Actual) members(net string) []string {
	if m := a.Members[net]; len(m) > 0 {
		return m
	}
	return []string{net}
}

// Verifier runs the comparison rule chains.
type Verifier struct {
	cfg        Config
	nodes      *nodeChain
	population *netChain
	ignore     []*regexp.Regexp
	log        zerolog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Verifier) { v.log = l }
}

// New compiles cfg into a verifier.
func New(cfg Config, opts ...Option) (*Verifier, error) {
	v := &Verifier{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(v)
	}
	for _, p := range cfg.Ignore {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("verify: ignore pattern %q: %w", p, err)
		}
		v.ignore = append(v.ignore, re)
	}
	var depop []*regexp.Regexp
	for _, p := range cfg.Depopulation {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("verify: depopulation pattern %q: %w", p, err)
		}
		depop = append(depop, re)
	}
	var reqs []requirementRule
	for _, r := range cfg.Requirements {
		if !r.appliesTo(cfg.Variant) {
			continue
		}
		netRe, err := regexp.Compile(r.Net)
		if err != nil {
			return nil, fmt.Errorf("verify: requirement %s: net pattern %q: %w", r.Name, r.Net, err)
		}
		compRe, err := regexp.Compile(r.Component)
		if err != nil {
			return nil, fmt.Errorf("verify: requirement %s: component pattern %q: %w", r.Name, r.Component, err)
		}
		reqs = append(reqs, requirementRule{req: r, net: netRe, comp: compRe})
	}
	v.nodes = newNodeChain(cfg.Tolerances, depop)
	v.population = newPopulationChain(reqs)
	return v, nil
}

// NodeRules returns the names of the node rules in dispatch order.
func (v *Verifier) NodeRules() []string {
	var names []string
	for _, r := range v.nodes.Rules() {
		names = append(names, selection.RuleName(r))
	}
	return names
}

// Run compares spec with actual. Neither is modified.
func (v *Verifier) Run(spec *netspec.Spec, actual Actual) (Report, error) {
	report := make(Report)
	idx := netlist.NewIndex(actual.Graph)
	realized := make(map[string]bool)

	for _, node := range spec.Nodes() {
		props, _ := spec.Get(node)
		s := nodeSubject{node: node, props: props}
		s.net, s.found = idx.Net(node)
		if s.found {
			realized[s.net] = true
			s.members = actual.members(s.net)
			s.refs = actual.Graph.Refs(s.net)
		}
		f, _, err := v.nodes.Dispatch(s)
		if err != nil {
			return nil, fmt.Errorf("verify: node %s: %w", node, err)
		}
		v.record(report, f)
	}

	names := make(map[string]struct{})
	for n := range spec.Names() {
		names[v.cfg.Tolerances.normalize(n)] = struct{}{}
	}
	orphans := newOrphanChain(v.cfg.Tolerances, v.ignore, names)

	for _, net := range actual.Graph.Names() {
		s := netSubject{
			net:      net,
			members:  actual.members(net),
			refs:     actual.Graph.Refs(net),
			realized: realized[net],
		}
		for _, chain := range []*netChain{v.population, orphans} {
			f, _, err := chain.Dispatch(s)
			if err != nil {
				return nil, fmt.Errorf("verify: net %s: %w", net, err)
			}
			v.record(report, f)
		}
	}

	v.log.Info().
		Int("nodes", spec.Len()).
		Int("nets", len(actual.Graph)).
		Int("findings", report.Count()).
		Msg("Verification finished")
	return report, nil
}

func (v *Verifier) record(r Report, f Finding) {
	if f.None() {
		return
	}
	v.log.Debug().Str("category", string(f.Category)).Msg(f.Message)
	r.add(f)
}
