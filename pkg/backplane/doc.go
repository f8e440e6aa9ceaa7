// Package backplane holds the rule sets that turn backplane pin mapping
// tables into a net specification.
//
// Two connector families are cross-wired by the backplane: pigtail (PT)
// connectors and DCB connectors. Each family has its own ordered rule chain.
// Records of both families first go through a signal-id backfill, then each
// family runs through a selection.Selector and the two results are merged
// with DCB entries taking precedence.
package backplane
