// Package errors provides error handling for astrie.
//
// This package re-exports github.com/cockroachdb/errors so every package
// wraps and inspects errors the same way, with stack traces and user hints:
//
//	if err := frontend.Parse(src); err != nil {
//	    return errors.Wrapf(err, "parse %s", path)
//	}
//
//	return errors.WithHint(err, "pass --ext to name the input notation")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is           = crdb.Is
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Sentinel errors. Wrap them to add context; check with Is.
var (
	// ErrUnknownNotation indicates no front end or back end is registered under a key.
	ErrUnknownNotation = New("unknown notation")

	// ErrParse indicates malformed input that cannot be canonicalized.
	ErrParse = New("parse error")

	// ErrNoOutput indicates a run that selected no output notation.
	ErrNoOutput = New("no output notation selected")
)

// IsParseError reports whether err is or wraps ErrParse.
func IsParseError(err error) bool {
	return err != nil && Is(err, ErrParse)
}

// UnknownNotation builds an ErrUnknownNotation for key, hinting at close
// matches when there are any.
func UnknownNotation(role, key string, suggestions []string) error {
	err := Wrapf(ErrUnknownNotation, "%s %q", role, key)
	if len(suggestions) > 0 {
		err = WithHintf(err, "did you mean %s?", quoteJoin(suggestions))
	}

	return err
}

func quoteJoin(items []string) string {
	out := ""

	for i, s := range items {
		switch {
		case i == 0:
		case i == len(items)-1:
			out += " or "
		default:
			out += ", "
		}

		out += `"` + s + `"`
	}

	return out
}
