package domain

import "errors"

var (
	// ErrMissingInverseMapping is returned by Advance when a net has a
	// one-way checker transform and no advancer to invert it.
	ErrMissingInverseMapping = errors.New("cannot derive advance values through a one-way checker mapping")

	// ErrUnsupportedKind is returned when logging a net whose kind is not
	// one of the four tracked variants.
	ErrUnsupportedKind = errors.New("unsupported coverage net kind")

	// ErrCrossArity is returned when a cross net receives an item whose
	// length differs from its factor count.
	ErrCrossArity = errors.New("item length does not match cross factor count")
)
