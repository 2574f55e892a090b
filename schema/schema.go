// Package schema reads enum declarations from schema documents.
//
// A schema document declares a package, an edition and a list of enums. It
// can be written in JSON, YAML or TOML, or be a .proto file:
//
//	{
//	  "package": "protobuf.large",
//	  "go_package": "largeenum",
//	  "edition": "2023",
//	  "enums": [{
//	    "name": "LargeOpenEnum",
//	    "values": [
//	      {"name": "LARGE_ENUM_UNSPECIFIED", "number": 0},
//	      {"name": "LARGE_ENUM1", "number": 1},
//	      {"name": "LARGE_ENUM2", "number": 2}
//	    ]
//	  }]
//	}
package schema

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/JiscSD/openenum/features"
	"github.com/JiscSD/openenum/openenum"
)

// DefaultEdition is assumed by documents that do not declare one.
const DefaultEdition = "2023"

// File is a schema document.
type File struct {
	// Path is the location the document was loaded from.
	Path string `json:"-" yaml:"-" toml:"-"`

	Package   string `json:"package,omitempty" yaml:"package" toml:"package"`
	GoPackage string `json:"go_package,omitempty" yaml:"go_package" toml:"go_package"`
	Edition   string `json:"edition,omitempty" yaml:"edition" toml:"edition"`
	Enums     []Enum `json:"enums" yaml:"enums" toml:"enums"`
}

// Enum declares an enum type.
type Enum struct {
	Name           string                 `json:"name" yaml:"name" toml:"name"`
	Comment        string                 `json:"comment,omitempty" yaml:"comment" toml:"comment"`
	AllowAlias     bool                   `json:"allow_alias,omitempty" yaml:"allow_alias" toml:"allow_alias"`
	Features       map[string]interface{} `json:"features,omitempty" yaml:"features" toml:"features"`
	ReservedNames  []string               `json:"reserved_names,omitempty" yaml:"reserved_names" toml:"reserved_names"`
	ReservedRanges []Range                `json:"reserved_ranges,omitempty" yaml:"reserved_ranges" toml:"reserved_ranges"`
	Values         []Value                `json:"values" yaml:"values" toml:"values"`
}

// Value declares a named enum value.
type Value struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Number  int32  `json:"number" yaml:"number" toml:"number"`
	Comment string `json:"comment,omitempty" yaml:"comment" toml:"comment"`
}

// Range is an inclusive range of reserved numbers.
type Range struct {
	Start int32 `json:"start" yaml:"start" toml:"start"`
	End   int32 `json:"end" yaml:"end" toml:"end"`
}

// Contains reports whether n falls in the range.
func (r Range) Contains(n int32) bool {
	return n >= r.Start && n <= r.End
}

// FeatureEnumType is the only feature key understood today.
const FeatureEnumType = "enum_type"

// EditionOf returns the parsed edition, applying DefaultEdition.
func (f *File) EditionOf() (features.Edition, error) {
	e := f.Edition
	if e == "" {
		e = DefaultEdition
	}
	return features.ParseEdition(e)
}

// FullName qualifies an enum name with the package.
func (f *File) FullName(e *Enum) string {
	if f.Package == "" {
		return e.Name
	}
	return f.Package + "." + e.Name
}

// Enum returns the enum with the given short or full name.
func (f *File) Enum(name string) (*Enum, bool) {
	for i := range f.Enums {
		e := &f.Enums[i]
		if e.Name == name || f.FullName(e) == name {
			return e, true
		}
	}
	return nil, false
}

// FeatureSet reads the explicit features of the enum.
func (e *Enum) FeatureSet() (features.FeatureSet, error) {
	fs := features.FeatureSet{}
	keys := make([]string, 0, len(e.Features))
	for k := range e.Features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch k {
		case FeatureEnumType:
			s, err := cast.ToStringE(e.Features[k])
			if err != nil {
				return fs, errors.Wrapf(err, "feature %s", k)
			}
			if fs.EnumType, err = features.ParseEnumType(s); err != nil {
				return fs, err
			}
		default:
			return fs, errors.Errorf("unsupported feature %q", k)
		}
	}
	return fs, nil
}

// Syntax resolves whether the enum is open or closed.
func (f *File) Syntax(e *Enum) (openenum.Syntax, error) {
	edition, err := f.EditionOf()
	if err != nil {
		return 0, err
	}
	explicit, err := e.FeatureSet()
	if err != nil {
		return 0, errors.Wrapf(err, "enum %s", e.Name)
	}
	switch features.Resolve(edition, explicit).EnumType {
	case features.EnumTypeOpen:
		return openenum.Open, nil
	case features.EnumTypeClosed:
		return openenum.Closed, nil
	}
	return 0, errors.Errorf("enum %s: enum_type could not be resolved for edition %s", e.Name, edition)
}

// Descriptor builds the runtime descriptor of one enum.
func (f *File) Descriptor(e *Enum) (*openenum.Descriptor, error) {
	syntax, err := f.Syntax(e)
	if err != nil {
		return nil, err
	}
	values := make([]openenum.ValueDescriptor, len(e.Values))
	for i, v := range e.Values {
		values[i] = openenum.ValueDescriptor{Name: v.Name, Number: openenum.Number(v.Number)}
	}
	return openenum.NewDescriptor(f.FullName(e), syntax, values)
}

// Descriptors builds the runtime descriptors of every enum in declaration
// order.
func (f *File) Descriptors() ([]*openenum.Descriptor, error) {
	ret := make([]*openenum.Descriptor, 0, len(f.Enums))
	for i := range f.Enums {
		d, err := f.Descriptor(&f.Enums[i])
		if err != nil {
			return nil, err
		}
		ret = append(ret, d)
	}
	return ret, nil
}
