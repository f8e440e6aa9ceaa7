package netspec

import "errors"

var (
	// ErrMalformedRecord reports a pin record or identifier that violates a
	// structural assumption, such as a slot cell without a connector index.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnresolvedReference reports a mandatory cross-reference that could
	// not be satisfied, such as a missing differential-pair partner.
	ErrUnresolvedReference = errors.New("unresolved reference")
)
