// Package selection implements ordered rule dispatch.
//
// A Chain holds rules in priority order. Dispatch tries them strictly in
// that order and commits the first match; later rules never run for that
// input. A chain must end in a catch-all rule: an input that no rule
// matches is reported as ErrNoRuleMatched instead of being dropped.
package selection

import (
	"errors"
	"fmt"
)

// ErrNoRuleMatched is returned when no rule of a chain accepts an input.
var ErrNoRuleMatched = errors.New("no rule matched")

// Rule is one predicate and transform. Process is only called after Match
// returned true. Rules hold no mutable state; auxiliary tables are fixed at
// construction.
type Rule[In, Out any] interface {
	Match(in In) bool
	Process(in In) (Out, error)
}

// Named is implemented by rules that report a stable name for statistics
// and log output.
type Named interface {
	Name() string
}

// CatchAll is implemented by rules that match every input.
type CatchAll interface {
	CatchAll() bool
}

// RuleName returns the name of r, falling back to its type.
func RuleName(r any) string {
	if n, ok := r.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", r)
}

// Filter runs r against in. ok is false when the rule does not apply, which
// is distinct from a rule that applied and produced a zero value.
func Filter[In, Out any](r Rule[In, Out], in In) (out Out, ok bool, err error) {
	if !r.Match(in) {
		return out, false, nil
	}
	out, err = r.Process(in)
	return out, true, err
}

// Func adapts plain functions to a Rule.
type Func[In, Out any] struct {
	Label   string
	MatchFn func(In) bool
	Fn      func(In) (Out, error)
	Final   bool
}

func (f Func[In, Out]) Match(in In) bool {
	if f.MatchFn == nil {
		return true
	}
	return f.MatchFn(in)
}

func (f Func[In, Out]) Process(in In) (Out, error) { return f.Fn(in) }

func (f Func[In, Out]) Name() string { return f.Label }

// CatchAll reports whether the rule was declared final or has no predicate.
func (f Func[In, Out]) CatchAll() bool { return f.Final || f.MatchFn == nil }

// Chain is an ordered, non-empty list of rules.
type Chain[In, Out any] struct {
	rules []Rule[In, Out]
}

// NewChain builds a chain. The order of rules is the dispatch priority.
func NewChain[In, Out any](rules ...Rule[In, Out]) (*Chain[In, Out], error) {
	if len(rules) == 0 {
		return nil, errors.New("selection: empty rule chain")
	}
	for i, r := range rules {
		if r == nil {
			return nil, fmt.Errorf("selection: rule %d is nil", i)
		}
	}
	return &Chain[In, Out]{rules: append([]Rule[In, Out](nil), rules...)}, nil
}

// MustChain is like NewChain but panics on error. It is meant for chains
// assembled from fixed rule lists.
func MustChain[In, Out any](rules ...Rule[In, Out]) *Chain[In, Out] {
	c, err := NewChain(rules...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of rules.
func (c *Chain[In, Out]) Len() int { return len(c.rules) }

// Rules returns a copy of the rule list.
func (c *Chain[In, Out]) Rules() []Rule[In, Out] {
	return append([]Rule[In, Out](nil), c.rules...)
}

// EndsWithCatchAll reports whether the last rule declares itself a
// catch-all.
func (c *Chain[In, Out]) EndsWithCatchAll() bool {
	ca, ok := c.rules[len(c.rules)-1].(CatchAll)
	return ok && ca.CatchAll()
}

// Dispatch returns the result of the first matching rule and its position
// in the chain.
func (c *Chain[In, Out]) Dispatch(in In) (Out, int, error) {
	for i, r := range c.rules {
		out, ok, err := Filter(r, in)
		if !ok {
			continue
		}
		if err != nil {
			return out, i, fmt.Errorf("%s: %w", RuleName(r), err)
		}
		return out, i, nil
	}
	var zero Out
	return zero, -1, ErrNoRuleMatched
}
