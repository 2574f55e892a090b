package schema

import (
	"fmt"
	"regexp"

	"github.com/JiscSD/openenum/features"
	"github.com/JiscSD/openenum/openenum"
)

var identRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError describes a semantic problem in a schema document.
type ValidationError struct {
	Enum   string
	Value  string
	Reason string
}

func (e ValidationError) Error() string {
	switch {
	case e.Enum == "":
		return fmt.Sprintf("schema: %s", e.Reason)
	case e.Value == "":
		return fmt.Sprintf("schema: enum %s: %s", e.Enum, e.Reason)
	default:
		return fmt.Sprintf("schema: enum %s value %s: %s", e.Enum, e.Value, e.Reason)
	}
}

// Validate checks the semantic rules that the structural schema cannot
// express. The first violation is returned.
func Validate(f *File) error {
	if len(f.Enums) == 0 {
		return ValidationError{Reason: "no enums declared"}
	}
	edition, err := f.EditionOf()
	if err != nil {
		return ValidationError{Reason: err.Error()}
	}
	seen := make(map[string]bool, len(f.Enums))
	for i := range f.Enums {
		e := &f.Enums[i]
		if !identRegexp.MatchString(e.Name) {
			return ValidationError{Enum: e.Name, Reason: "invalid identifier"}
		}
		if seen[e.Name] {
			return ValidationError{Enum: e.Name, Reason: "declared more than once"}
		}
		seen[e.Name] = true
		if err := validateEnum(edition, e); err != nil {
			return err
		}
	}
	return nil
}

func validateEnum(edition features.Edition, e *Enum) error {
	if len(e.Values) == 0 {
		return ValidationError{Enum: e.Name, Reason: "must contain at least one value declaration"}
	}
	explicit, err := e.FeatureSet()
	if err != nil {
		return ValidationError{Enum: e.Name, Reason: err.Error()}
	}
	if err := features.Validate(edition, explicit); err != nil {
		return ValidationError{Enum: e.Name, Reason: err.Error()}
	}
	open := features.Resolve(edition, explicit).EnumType == features.EnumTypeOpen

	for _, r := range e.ReservedRanges {
		if r.Start > r.End {
			return ValidationError{Enum: e.Name, Reason: fmt.Sprintf("reserved range %d to %d is inverted", r.Start, r.End)}
		}
	}
	reservedNames := make(map[string]bool, len(e.ReservedNames))
	for _, n := range e.ReservedNames {
		reservedNames[n] = true
	}

	byName := make(map[string]bool, len(e.Values))
	byNumber := make(map[int32]string, len(e.Values))
	foundAlias := false
	for i, v := range e.Values {
		if !identRegexp.MatchString(v.Name) {
			return ValidationError{Enum: e.Name, Value: v.Name, Reason: "invalid identifier"}
		}
		if byName[v.Name] {
			return ValidationError{Enum: e.Name, Value: v.Name, Reason: "declared more than once"}
		}
		byName[v.Name] = true
		if open && v.Name == openenum.UnrecognizedName {
			return ValidationError{Enum: e.Name, Value: v.Name, Reason: "name is reserved for the sentinel of open enums"}
		}
		if open && i == 0 && v.Number != 0 {
			return ValidationError{Enum: e.Name, Value: v.Name, Reason: "open enums must have zero number for the first value"}
		}
		if reservedNames[v.Name] {
			return ValidationError{Enum: e.Name, Value: v.Name, Reason: "must not use reserved name"}
		}
		for _, r := range e.ReservedRanges {
			if r.Contains(v.Number) {
				return ValidationError{Enum: e.Name, Value: v.Name, Reason: fmt.Sprintf("must not use reserved number %d", v.Number)}
			}
		}
		if other, ok := byNumber[v.Number]; ok {
			foundAlias = true
			if !e.AllowAlias {
				return ValidationError{Enum: e.Name, Value: v.Name, Reason: fmt.Sprintf("conflicting non-aliased values on number %d with %s", v.Number, other)}
			}
			continue
		}
		byNumber[v.Number] = v.Name
	}
	if e.AllowAlias && !foundAlias {
		return ValidationError{Enum: e.Name, Reason: "allows aliases, but none were found"}
	}
	return nil
}
