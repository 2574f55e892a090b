package schema_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JiscSD/openenum/schema"
)

func TestValidate(t *testing.T) {
	values := func(vs ...schema.Value) []schema.Value { return vs }
	v := func(name string, n int32) schema.Value { return schema.Value{Name: name, Number: n} }

	tests := map[string]struct {
		file    schema.File
		wantErr string
	}{
		"Valid open enum": {
			file: schema.File{Enums: []schema.Enum{{Name: "E", Values: values(v("A", 0), v("B", 1))}}},
		},
		"Valid closed enum starting at one": {
			file: schema.File{Edition: "proto2", Enums: []schema.Enum{{Name: "E", Values: values(v("A", 1))}}},
		},
		"Valid aliases": {
			file: schema.File{Enums: []schema.Enum{{Name: "E", AllowAlias: true, Values: values(v("A", 0), v("B", 0))}}},
		},
		"No enums": {
			file:    schema.File{},
			wantErr: "schema: no enums declared",
		},
		"Unknown edition": {
			file:    schema.File{Edition: "1999", Enums: []schema.Enum{{Name: "E", Values: values(v("A", 0))}}},
			wantErr: `schema: unsupported edition "1999"`,
		},
		"Invalid enum identifier": {
			file:    schema.File{Enums: []schema.Enum{{Name: "1E", Values: values(v("A", 0))}}},
			wantErr: "schema: enum 1E: invalid identifier",
		},
		"Duplicate enum": {
			file: schema.File{Enums: []schema.Enum{
				{Name: "E", Values: values(v("A", 0))},
				{Name: "E", Values: values(v("B", 0))},
			}},
			wantErr: "schema: enum E: declared more than once",
		},
		"No values": {
			file:    schema.File{Enums: []schema.Enum{{Name: "E"}}},
			wantErr: "schema: enum E: must contain at least one value declaration",
		},
		"Invalid value identifier": {
			file:    schema.File{Enums: []schema.Enum{{Name: "E", Values: values(v("A-B", 0))}}},
			wantErr: "schema: enum E value A-B: invalid identifier",
		},
		"Duplicate value": {
			file:    schema.File{Enums: []schema.Enum{{Name: "E", Values: values(v("A", 0), v("A", 1))}}},
			wantErr: "schema: enum E value A: declared more than once",
		},
		"Sentinel name in open enum": {
			file:    schema.File{Enums: []schema.Enum{{Name: "E", Values: values(v("A", 0), v("UNRECOGNIZED", 1))}}},
			wantErr: "schema: enum E value UNRECOGNIZED: name is reserved for the sentinel of open enums",
		},
		"Open enum not starting at zero": {
			file:    schema.File{Enums: []schema.Enum{{Name: "E", Values: values(v("A", 1))}}},
			wantErr: "schema: enum E value A: open enums must have zero number for the first value",
		},
		"Reserved name": {
			file: schema.File{Enums: []schema.Enum{{
				Name: "E", ReservedNames: []string{"B"}, Values: values(v("A", 0), v("B", 1)),
			}}},
			wantErr: "schema: enum E value B: must not use reserved name",
		},
		"Reserved number": {
			file: schema.File{Enums: []schema.Enum{{
				Name: "E", ReservedRanges: []schema.Range{{Start: 5, End: 9}}, Values: values(v("A", 0), v("B", 7)),
			}}},
			wantErr: "schema: enum E value B: must not use reserved number 7",
		},
		"Inverted range": {
			file: schema.File{Enums: []schema.Enum{{
				Name: "E", ReservedRanges: []schema.Range{{Start: 9, End: 5}}, Values: values(v("A", 0)),
			}}},
			wantErr: "schema: enum E: reserved range 9 to 5 is inverted",
		},
		"Alias without allow_alias": {
			file:    schema.File{Enums: []schema.Enum{{Name: "E", Values: values(v("A", 0), v("B", 0))}}},
			wantErr: "schema: enum E value B: conflicting non-aliased values on number 0 with A",
		},
		"allow_alias without aliases": {
			file:    schema.File{Enums: []schema.Enum{{Name: "E", AllowAlias: true, Values: values(v("A", 0), v("B", 1))}}},
			wantErr: "schema: enum E: allows aliases, but none were found",
		},
		"Fixed feature": {
			file: schema.File{Edition: "proto3", Enums: []schema.Enum{{
				Name: "E", Features: map[string]interface{}{"enum_type": "CLOSED"}, Values: values(v("A", 0)),
			}}},
			wantErr: "schema: enum E: feature enum_type cannot be set in edition proto3",
		},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			err := schema.Validate(&tc.file)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tc.wantErr)
			var ve schema.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}
