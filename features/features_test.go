package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := map[string]struct {
		edition  Edition
		explicit FeatureSet
		want     EnumType
	}{
		"proto2 enums are closed":            {EditionProto2, FeatureSet{}, EnumTypeClosed},
		"proto3 enums are open":              {EditionProto3, FeatureSet{}, EnumTypeOpen},
		"2023 enums are open by default":     {Edition2023, FeatureSet{}, EnumTypeOpen},
		"2023 enums can be closed":           {Edition2023, FeatureSet{EnumType: EnumTypeClosed}, EnumTypeClosed},
		"2024 inherits the 2023 defaults":    {Edition2024, FeatureSet{}, EnumTypeOpen},
		"Explicit wins over fixed defaults":  {EditionProto3, FeatureSet{EnumType: EnumTypeClosed}, EnumTypeClosed},
		"Editions before any default":        {EditionUnknown, FeatureSet{}, EnumTypeUnset},
		"Explicit only before any default":   {EditionUnknown, FeatureSet{EnumType: EnumTypeOpen}, EnumTypeOpen},
		"Unreleased editions use the latest": {Edition(5000), FeatureSet{}, EnumTypeOpen},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.edition, tc.explicit).EnumType)
		})
	}
}

func TestResolveWith_MergeOrder(t *testing.T) {
	defaults := []EditionDefault{
		{Edition: 10, Fixed: FeatureSet{EnumType: EnumTypeClosed}, Overridable: FeatureSet{EnumType: EnumTypeOpen}},
	}

	assert.Equal(t, EnumTypeOpen, ResolveWith(defaults, 10, FeatureSet{}).EnumType)
	assert.Equal(t, EnumTypeClosed, ResolveWith(defaults, 11, FeatureSet{EnumType: EnumTypeClosed}).EnumType)
	assert.Equal(t, EnumTypeUnset, ResolveWith(defaults, 9, FeatureSet{}).EnumType)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Edition2023, FeatureSet{EnumType: EnumTypeClosed}))
	require.NoError(t, Validate(EditionProto3, FeatureSet{}))
	require.EqualError(t, Validate(EditionProto3, FeatureSet{EnumType: EnumTypeClosed}), "feature enum_type cannot be set in edition proto3")
	require.EqualError(t, Validate(EditionProto2, FeatureSet{EnumType: EnumTypeOpen}), "feature enum_type cannot be set in edition proto2")
	require.EqualError(t, Validate(EditionUnknown, FeatureSet{}), "no feature defaults for edition Edition(0)")
}

func TestParseEdition(t *testing.T) {
	tests := map[string]Edition{
		"proto2":       EditionProto2,
		"PROTO3":       EditionProto3,
		"2023":         Edition2023,
		"EDITION_2024": Edition2024,
	}
	for in, want := range tests {
		got, err := ParseEdition(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		if in == "proto2" || in == "2023" {
			assert.Equal(t, in, got.String())
		}
	}
	_, err := ParseEdition("1999")
	assert.EqualError(t, err, `unsupported edition "1999"`)
	_, err = ParseEdition("")
	assert.Error(t, err)
}

func TestParseEnumType(t *testing.T) {
	got, err := ParseEnumType("open")
	require.NoError(t, err)
	assert.Equal(t, EnumTypeOpen, got)

	got, err = ParseEnumType("CLOSED")
	require.NoError(t, err)
	assert.Equal(t, EnumTypeClosed, got)

	got, err = ParseEnumType("")
	require.NoError(t, err)
	assert.Equal(t, EnumTypeUnset, got)

	_, err = ParseEnumType("AJAR")
	assert.Error(t, err)
}
