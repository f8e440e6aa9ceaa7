package netlist

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/rs/zerolog"
)

// CollapseConfig lists the reference patterns of transparent components.
type CollapseConfig struct {
	Transparent []string `koanf:"transparent"`
}

// DefaultCollapseConfig treats resistors, capacitors and ferrites as
// transparent.
func DefaultCollapseConfig() CollapseConfig {
	return CollapseConfig{Transparent: []string{`^R\d+`, `^C\d+`, `^FB\d+`}}
}

// Validate compiles the patterns.
func (c CollapseConfig) Validate() ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(c.Transparent))
	for _, p := range c.Transparent {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("netlist: transparent pattern %q: %w", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// Collapser merges nets joined only through transparent components.
type Collapser struct {
	patterns []*regexp.Regexp
	log      zerolog.Logger
}

// CollapserOption configures a Collapser.
type CollapserOption func(*Collapser)

// WithCollapseLogger sets the logger used for ambiguous unions.
func WithCollapseLogger(l zerolog.Logger) CollapserOption {
	return func(c *Collapser) { c.log = l }
}

// NewCollapser compiles cfg and returns a collapser.
func NewCollapser(cfg CollapseConfig, opts ...CollapserOption) (*Collapser, error) {
	patterns, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	c := &Collapser{patterns: patterns, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Collapser) transparent(ref string) bool {
	for _, re := range c.patterns {
		if re.MatchString(ref) {
			return true
		}
	}
	return false
}

// Collapse returns a new graph in which every class of bridged nets is
// stored under its lexicographically smallest name.
func (c *Collapser) Collapse(g Graph) Graph {
	out, _ := c.Classes(g)
	return out
}

// Classes is Collapse that also returns, for every representative, the
// sorted names of the nets merged into it. g is not modified.
//
// A transparent component with two pins joins the two nets it touches. A
// component exposing more pins joins every net it touches; this
// over-approximates and is logged.
func (c *Collapser) Classes(g Graph) (Graph, map[string][]string) {
	names := g.Names()

	// component -> pin -> nets
	comps := make(map[string]map[string][]string)
	for _, net := range names {
		for _, o := range g[net] {
			if !c.transparent(o.Ref) {
				continue
			}
			pins, ok := comps[o.Ref]
			if !ok {
				pins = make(map[string][]string)
				comps[o.Ref] = pins
			}
			pins[o.Pin] = append(pins[o.Pin], net)
		}
	}

	refs := make([]string, 0, len(comps))
	for ref := range comps {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	set := newDisjointSet(names)
	for _, ref := range refs {
		pins := comps[ref]
		var touched []string
		for _, nets := range pins {
			touched = append(touched, nets...)
		}
		sort.Strings(touched)
		if len(pins) > 2 {
			c.log.Warn().
				Str("component", ref).
				Int("pins", len(pins)).
				Strs("nets", touched).
				Msg("Component exposes more than two pins, merging every net it touches")
		}
		for _, n := range touched[1:] {
			if set.union(touched[0], n) {
				c.log.Debug().Str("component", ref).Str("a", touched[0]).Str("b", n).Msg("Nets merged")
			}
		}
	}

	classes := set.classes()
	out := make(Graph, len(classes))
	for rep, members := range classes {
		var occ []Occurrence
		for _, m := range members {
			occ = append(occ, g[m]...)
		}
		out[rep] = sortOccurrences(occ)
	}
	return out, classes
}
