package openenum

import (
	"fmt"

	"github.com/pkg/errors"
)

// Value is a decoded enum value. It is either a known variant or, for open
// enums, an unrecognized number. The zero Value is invalid.
type Value struct {
	desc    *Descriptor
	ordinal int
	raw     Number
}

// IsValid reports whether v was produced by a Descriptor.
func (v Value) IsValid() bool { return v.desc != nil }

// Descriptor returns the enum v belongs to.
func (v Value) Descriptor() *Descriptor { return v.desc }

// Ordinal returns the ordinal of the variant, the sentinel ordinal for
// unrecognized values.
func (v Value) Ordinal() int { return v.ordinal }

// Unrecognized reports whether v holds a number that the enum does not
// declare.
func (v Value) Unrecognized() bool {
	if v.desc == nil {
		return false
	}
	s, ok := v.desc.Unrecognized()
	return ok && v.ordinal == s
}

// Number returns the declared number of a known value. Unrecognized values
// fail with ErrUnrecognized; use Raw to read what was received.
func (v Value) Number() (Number, error) {
	if v.desc == nil {
		return 0, errors.Wrap(ErrInvalidOrdinal, "zero Value")
	}
	if v.Unrecognized() {
		return 0, errors.Wrapf(ErrUnrecognized, "%s: raw number %d", v.desc.fullName, v.raw)
	}
	return v.raw, nil
}

// Raw returns the number as it appears on the wire, whether recognized or
// not.
func (v Value) Raw() Number { return v.raw }

// Variant returns the variant v maps to.
func (v Value) Variant() Variant { return Variant{desc: v.desc, ordinal: v.ordinal} }

func (v Value) String() string {
	if v.desc == nil {
		return "<invalid>"
	}
	if v.Unrecognized() {
		return fmt.Sprintf("%s(%d)", UnrecognizedName, v.raw)
	}
	return v.desc.NameOf(v.ordinal)
}
