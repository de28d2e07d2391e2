// Package domain defines the core domain models for hexmatch.
package domain

import (
	"errors"

	"github.com/yndnr/hexmatch-go/pkg/hexcolor"
)

// Reason identifies the grammar rule that rejected an input.
type Reason string

// Reasons, one per hexcolor sentinel error.
const (
	ReasonNone           Reason = "none"
	ReasonEmpty          Reason = "empty"
	ReasonRepeatedPrefix Reason = "repeated_prefix"
	ReasonInvalidDigit   Reason = "invalid_digit"
	ReasonInvalidLength  Reason = "invalid_length"
	ReasonUnknown        Reason = "unknown"
)

// ReasonFromError maps a hexcolor error to a Reason.
// A nil error maps to ReasonNone.
func ReasonFromError(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, hexcolor.ErrEmpty):
		return ReasonEmpty
	case errors.Is(err, hexcolor.ErrRepeatedPrefix):
		return ReasonRepeatedPrefix
	case errors.Is(err, hexcolor.ErrInvalidDigit):
		return ReasonInvalidDigit
	case errors.Is(err, hexcolor.ErrInvalidLength):
		return ReasonInvalidLength
	default:
		return ReasonUnknown
	}
}

// Verdict is the outcome of classifying one input.
type Verdict struct {
	Input      string `json:"input" yaml:"input"`
	Valid      bool   `json:"valid" yaml:"valid"`
	Normalized string `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	Reason     Reason `json:"reason" yaml:"reason"`
	Offset     int    `json:"offset" yaml:"offset"`
	Engine     string `json:"engine" yaml:"engine"`
}

// NewVerdict builds a verdict for input as classified by engine.
//
// The engine decides validity. Diagnostics (normalized form, reason,
// offset) come from the scanner; Offset is -1 for valid inputs.
func NewVerdict(input, engine string, valid bool) *Verdict {
	v := &Verdict{
		Input:  input,
		Valid:  valid,
		Reason: ReasonNone,
		Offset: -1,
		Engine: engine,
	}

	if valid {
		if n, err := hexcolor.Normalize(input); err == nil {
			v.Normalized = n
		}
		return v
	}

	err := hexcolor.Check(input)
	if err == nil {
		// The engine rejected what the scanner accepts.
		v.Reason = ReasonUnknown
		return v
	}
	v.Reason = ReasonFromError(err)
	var fe *hexcolor.FormatError
	if errors.As(err, &fe) {
		v.Offset = fe.Offset
	}
	return v
}

// Clone returns a copy of the verdict.
func (v *Verdict) Clone() *Verdict {
	c := *v
	return &c
}
