package openenum

import (
	"fmt"

	"github.com/pkg/errors"
)

// UnrecognizedName is the name of the sentinel variant of open enums.
const UnrecognizedName = "UNRECOGNIZED"

// Number is the wire representation of an enum value.
type Number int32

// Syntax tells whether an enum accepts undeclared numbers.
type Syntax int

const (
	// Open enums map undeclared numbers to the UNRECOGNIZED sentinel.
	Open Syntax = iota + 1

	// Closed enums reject undeclared numbers.
	Closed
)

func (s Syntax) String() string {
	switch s {
	case Open:
		return "OPEN"
	case Closed:
		return "CLOSED"
	default:
		return fmt.Sprintf("Syntax(%d)", int(s))
	}
}

// ParseSyntax is the inverse of Syntax.String.
func ParseSyntax(s string) (Syntax, error) {
	switch s {
	case "OPEN", "open":
		return Open, nil
	case "CLOSED", "closed":
		return Closed, nil
	}
	return 0, errors.Errorf("unknown enum syntax %q", s)
}

// ValueDescriptor declares one named value.
type ValueDescriptor struct {
	Name   string
	Number Number
}

// Descriptor describes an enum type. It is immutable once built and safe for
// concurrent use.
type Descriptor struct {
	fullName string
	syntax   Syntax
	values   []ValueDescriptor
	byNumber map[Number]int
	byName   map[string]int
}

// NewDescriptor validates the declaration and returns a usable Descriptor.
// Several names may share a number; number lookups resolve to the first one
// declared.
func NewDescriptor(fullName string, syntax Syntax, values []ValueDescriptor) (*Descriptor, error) {
	if fullName == "" {
		return nil, errors.New("enum name is empty")
	}
	if syntax != Open && syntax != Closed {
		return nil, errors.Errorf("enum %q: invalid syntax %d", fullName, int(syntax))
	}
	if len(values) == 0 {
		return nil, errors.Errorf("enum %q must contain at least one value", fullName)
	}
	d := &Descriptor{
		fullName: fullName,
		syntax:   syntax,
		values:   make([]ValueDescriptor, len(values)),
		byNumber: make(map[Number]int, len(values)),
		byName:   make(map[string]int, len(values)),
	}
	copy(d.values, values)
	for i, v := range d.values {
		if v.Name == "" {
			return nil, errors.Errorf("enum %q: value %d has no name", fullName, i)
		}
		if syntax == Open && v.Name == UnrecognizedName {
			return nil, errors.Errorf("enum %q: %s is reserved for the sentinel of open enums", fullName, UnrecognizedName)
		}
		if _, ok := d.byName[v.Name]; ok {
			return nil, errors.Errorf("enum %q: duplicate value name %q", fullName, v.Name)
		}
		d.byName[v.Name] = i
		if _, ok := d.byNumber[v.Number]; !ok {
			d.byNumber[v.Number] = i
		}
	}
	return d, nil
}

// MustDescriptor is like NewDescriptor but panics on error. It is used by
// generated code, where the declaration has been validated already.
func MustDescriptor(fullName string, syntax Syntax, values []ValueDescriptor) *Descriptor {
	d, err := NewDescriptor(fullName, syntax, values)
	if err != nil {
		panic(err)
	}
	return d
}

// FullName returns the qualified name of the enum.
func (d *Descriptor) FullName() string { return d.fullName }

// Syntax returns whether the enum is open or closed.
func (d *Descriptor) Syntax() Syntax { return d.syntax }

// IsOpen reports whether the enum has an UNRECOGNIZED sentinel.
func (d *Descriptor) IsOpen() bool { return d.syntax == Open }

// Len returns the number of declared values, excluding the sentinel.
func (d *Descriptor) Len() int { return len(d.values) }

// Values returns a copy of the declared values.
func (d *Descriptor) Values() []ValueDescriptor {
	values := make([]ValueDescriptor, len(d.values))
	copy(values, d.values)
	return values
}

// Unrecognized returns the ordinal of the sentinel. It is always the ordinal
// that follows the last declared value. Closed enums have no sentinel.
func (d *Descriptor) Unrecognized() (int, bool) {
	if d.syntax != Open {
		return 0, false
	}
	return len(d.values), true
}

// Variants returns every representable variant: the named ones in declaration
// order and, for open enums, the sentinel exactly once at the end.
func (d *Descriptor) Variants() []Variant {
	n := len(d.values)
	if d.syntax == Open {
		n++
	}
	variants := make([]Variant, n)
	for i := range variants {
		variants[i] = Variant{desc: d, ordinal: i}
	}
	return variants
}

// Variant returns the variant with the given ordinal.
func (d *Descriptor) Variant(ordinal int) (Variant, bool) {
	if !d.validOrdinal(ordinal) {
		return Variant{}, false
	}
	return Variant{desc: d, ordinal: ordinal}, true
}

// NumberOf returns the declared number of a named variant. It fails with
// ErrUnrecognized for the sentinel and ErrInvalidOrdinal for anything else
// that is not a variant.
func (d *Descriptor) NumberOf(ordinal int) (Number, error) {
	if ordinal >= 0 && ordinal < len(d.values) {
		return d.values[ordinal].Number, nil
	}
	if s, ok := d.Unrecognized(); ok && ordinal == s {
		return 0, errors.Wrapf(ErrUnrecognized, "%s.%s", d.fullName, UnrecognizedName)
	}
	return 0, errors.Wrapf(ErrInvalidOrdinal, "%s(%d)", d.fullName, ordinal)
}

// NameOf returns the name of the variant. Invalid ordinals are rendered the
// way fmt renders an unnamed integer type.
func (d *Descriptor) NameOf(ordinal int) string {
	if ordinal >= 0 && ordinal < len(d.values) {
		return d.values[ordinal].Name
	}
	if s, ok := d.Unrecognized(); ok && ordinal == s {
		return UnrecognizedName
	}
	return fmt.Sprintf("%s(%d)", shortName(d.fullName), ordinal)
}

// OrdinalOf returns the ordinal of the first value declared with n.
func (d *Descriptor) OrdinalOf(n Number) (int, bool) {
	i, ok := d.byNumber[n]
	return i, ok
}

// OrdinalByName returns the ordinal of the value named s. The sentinel name
// resolves for open enums.
func (d *Descriptor) OrdinalByName(s string) (int, bool) {
	if i, ok := d.byName[s]; ok {
		return i, true
	}
	if s == UnrecognizedName {
		return d.Unrecognized()
	}
	return 0, false
}

// Decode maps a wire number to a Value. Undeclared numbers become
// unrecognized values in open enums and ErrUnknownNumber in closed ones.
func (d *Descriptor) Decode(n Number) (Value, error) {
	if i, ok := d.byNumber[n]; ok {
		return Value{desc: d, ordinal: i, raw: n}, nil
	}
	if s, ok := d.Unrecognized(); ok {
		return Value{desc: d, ordinal: s, raw: n}, nil
	}
	return Value{}, errors.Wrapf(ErrUnknownNumber, "%s: %d", d.fullName, n)
}

// Lookup returns the Value of a named variant. The sentinel cannot be looked
// up because it has no number to carry.
func (d *Descriptor) Lookup(name string) (Value, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Value{}, false
	}
	return Value{desc: d, ordinal: i, raw: d.values[i].Number}, true
}

func (d *Descriptor) validOrdinal(ordinal int) bool {
	if ordinal >= 0 && ordinal < len(d.values) {
		return true
	}
	s, ok := d.Unrecognized()
	return ok && ordinal == s
}

func shortName(fullName string) string {
	for i := len(fullName) - 1; i >= 0; i-- {
		if fullName[i] == '.' {
			return fullName[i+1:]
		}
	}
	return fullName
}

// Variant is one member of the variant list of an enum.
type Variant struct {
	desc    *Descriptor
	ordinal int
}

// Ordinal returns the position of the variant in Descriptor.Variants.
func (v Variant) Ordinal() int { return v.ordinal }

// Name returns the declared name, or UNRECOGNIZED for the sentinel.
func (v Variant) Name() string {
	if v.desc == nil {
		return "<invalid>"
	}
	return v.desc.NameOf(v.ordinal)
}

// Number returns the declared number. The sentinel has none.
func (v Variant) Number() (Number, error) {
	if v.desc == nil {
		return 0, errors.Wrap(ErrInvalidOrdinal, "zero Variant")
	}
	return v.desc.NumberOf(v.ordinal)
}

// Unrecognized reports whether v is the sentinel.
func (v Variant) Unrecognized() bool {
	if v.desc == nil {
		return false
	}
	s, ok := v.desc.Unrecognized()
	return ok && v.ordinal == s
}

func (v Variant) String() string { return v.Name() }
