// Package features resolves edition-dependent enum features.
//
// Every schema file belongs to an edition. The edition selects a set of
// default features, some of which are fixed (a file cannot change them) and
// some overridable. Explicit features set on an enum are merged on top.
package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Edition identifies the revision of the schema language. The numeric values
// match the ones used by protobuf descriptors so they sort chronologically.
type Edition int32

const (
	EditionUnknown Edition = 0
	EditionProto2  Edition = 998
	EditionProto3  Edition = 999
	Edition2023    Edition = 1000
	Edition2024    Edition = 1001
)

func (e Edition) String() string {
	switch e {
	case EditionProto2:
		return "proto2"
	case EditionProto3:
		return "proto3"
	case Edition2023:
		return "2023"
	case Edition2024:
		return "2024"
	default:
		return fmt.Sprintf("Edition(%d)", int32(e))
	}
}

// ParseEdition accepts "proto2", "proto3", "2023", "2024" and their
// EDITION_* spellings.
func ParseEdition(s string) (Edition, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "edition_") {
	case "proto2":
		return EditionProto2, nil
	case "proto3":
		return EditionProto3, nil
	case "2023":
		return Edition2023, nil
	case "2024":
		return Edition2024, nil
	}
	return EditionUnknown, errors.Errorf("unsupported edition %q", s)
}

// EnumType is the feature controlling whether undeclared numbers are kept.
type EnumType int

const (
	EnumTypeUnset EnumType = iota
	EnumTypeOpen
	EnumTypeClosed
)

func (t EnumType) String() string {
	switch t {
	case EnumTypeOpen:
		return "OPEN"
	case EnumTypeClosed:
		return "CLOSED"
	default:
		return "ENUM_TYPE_UNKNOWN"
	}
}

// ParseEnumType parses OPEN or CLOSED, case insensitive.
func ParseEnumType(s string) (EnumType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OPEN":
		return EnumTypeOpen, nil
	case "CLOSED":
		return EnumTypeClosed, nil
	case "", "ENUM_TYPE_UNKNOWN":
		return EnumTypeUnset, nil
	}
	return EnumTypeUnset, errors.Errorf("unknown enum_type %q", s)
}

// FeatureSet holds the features relevant to enums. Unset fields do not
// override anything when merged.
type FeatureSet struct {
	EnumType EnumType
}

// Merge returns fs with every field set in other taking precedence.
func (fs FeatureSet) Merge(other FeatureSet) FeatureSet {
	if other.EnumType != EnumTypeUnset {
		fs.EnumType = other.EnumType
	}
	return fs
}

// EditionDefault is the default feature set introduced by an edition.
type EditionDefault struct {
	Edition     Edition
	Fixed       FeatureSet
	Overridable FeatureSet
}

// Defaults is ordered by edition.
var Defaults = []EditionDefault{
	{Edition: EditionProto2, Fixed: FeatureSet{EnumType: EnumTypeClosed}},
	{Edition: EditionProto3, Fixed: FeatureSet{EnumType: EnumTypeOpen}},
	{Edition: Edition2023, Overridable: FeatureSet{EnumType: EnumTypeOpen}},
}

// lookup returns the latest default that applies to edition.
func lookup(defaults []EditionDefault, edition Edition) (EditionDefault, bool) {
	// First default strictly newer than the edition, then step back one.
	i := sort.Search(len(defaults), func(i int) bool {
		return defaults[i].Edition > edition
	})
	if i == 0 {
		return EditionDefault{}, false
	}
	return defaults[i-1], true
}

// Resolve computes the effective features of an enum declared in a file of
// the given edition. When no default applies the explicit features are
// returned unchanged.
func Resolve(edition Edition, explicit FeatureSet) FeatureSet {
	return ResolveWith(Defaults, edition, explicit)
}

// ResolveWith is Resolve with a custom defaults table.
func ResolveWith(defaults []EditionDefault, edition Edition, explicit FeatureSet) FeatureSet {
	d, ok := lookup(defaults, edition)
	if !ok {
		return explicit
	}
	return d.Fixed.Merge(d.Overridable).Merge(explicit)
}

// Validate rejects explicit features that the edition does not allow to
// change.
func Validate(edition Edition, explicit FeatureSet) error {
	d, ok := lookup(Defaults, edition)
	if !ok {
		return errors.Errorf("no feature defaults for edition %s", edition)
	}
	if explicit.EnumType != EnumTypeUnset && d.Fixed.EnumType != EnumTypeUnset {
		return errors.Errorf("feature enum_type cannot be set in edition %s", edition)
	}
	return nil
}
