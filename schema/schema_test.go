package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JiscSD/openenum/openenum"
	"github.com/JiscSD/openenum/schema"
)

const largeEnumJSON = `{
  "package": "protobuf.large",
  "go_package": "largeenum",
  "edition": "2023",
  "enums": [{
    "name": "LargeOpenEnum",
    "comment": "LargeOpenEnum is used to exercise the sentinel.",
    "values": [
      {"name": "LARGE_ENUM_UNSPECIFIED", "number": 0},
      {"name": "LARGE_ENUM1", "number": 1},
      {"name": "LARGE_ENUM2", "number": 2}
    ]
  }]
}`

const largeEnumYAML = `
package: protobuf.large
go_package: largeenum
edition: "2023"
enums:
  - name: LargeOpenEnum
    comment: LargeOpenEnum is used to exercise the sentinel.
    values:
      - name: LARGE_ENUM_UNSPECIFIED
        number: 0
      - name: LARGE_ENUM1
        number: 1
      - name: LARGE_ENUM2
        number: 2
`

const largeEnumTOML = `
package = "protobuf.large"
go_package = "largeenum"
edition = "2023"

[[enums]]
name = "LargeOpenEnum"
comment = "LargeOpenEnum is used to exercise the sentinel."

[[enums.values]]
name = "LARGE_ENUM_UNSPECIFIED"
number = 0

[[enums.values]]
name = "LARGE_ENUM1"
number = 1

[[enums.values]]
name = "LARGE_ENUM2"
number = 2
`

func TestParse_Formats(t *testing.T) {
	want := &schema.File{
		Package:   "protobuf.large",
		GoPackage: "largeenum",
		Edition:   "2023",
		Enums: []schema.Enum{{
			Name:    "LargeOpenEnum",
			Comment: "LargeOpenEnum is used to exercise the sentinel.",
			Values: []schema.Value{
				{Name: "LARGE_ENUM_UNSPECIFIED", Number: 0},
				{Name: "LARGE_ENUM1", Number: 1},
				{Name: "LARGE_ENUM2", Number: 2},
			},
		}},
	}
	tests := map[string]string{
		"large.json": largeEnumJSON,
		"large.yaml": largeEnumYAML,
		"large.yml":  largeEnumYAML,
		"large.toml": largeEnumTOML,
	}
	for name, doc := range tests {
		name, doc := name, doc
		t.Run(name, func(t *testing.T) {
			f, err := schema.Parse(name, []byte(doc))
			require.NoError(t, err)
			assert.Equal(t, name, f.Path)

			want.Path = name
			if diff := cmp.Diff(want, f); diff != "" {
				t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := schema.Parse("enums.xml", []byte("<enums/>"))
	assert.EqualError(t, err, `schema enums.xml: unsupported format ".xml"`)
}

func TestParse_StructureErrors(t *testing.T) {
	tests := map[string]string{
		"missing.json": `{"package": "p"}`,
		"unknown.json": `{"enums": [{"name": "E", "values": [{"name": "A", "number": 0}], "colour": "red"}]}`,
		"number.yaml":  "enums:\n  - name: E\n    values:\n      - name: A\n        number: zero\n",
		"range.json":   `{"enums": [{"name": "E", "values": [{"name": "A", "number": 4294967296}]}]}`,
	}
	for name, doc := range tests {
		name, doc := name, doc
		t.Run(name, func(t *testing.T) {
			_, err := schema.Parse(name, []byte(doc))
			require.Error(t, err)
			var se *schema.StructureError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, name, se.Path)
			assert.NotEmpty(t, se.Issues)
		})
	}
}

func TestFile_Descriptors(t *testing.T) {
	f, err := schema.Parse("large.json", []byte(largeEnumJSON))
	require.NoError(t, err)

	ds, err := f.Descriptors()
	require.NoError(t, err)
	require.Len(t, ds, 1)

	d := ds[0]
	assert.Equal(t, "protobuf.large.LargeOpenEnum", d.FullName())
	assert.Equal(t, openenum.Open, d.Syntax())
	assert.Equal(t, 3, d.Len())

	e, ok := f.Enum("protobuf.large.LargeOpenEnum")
	require.True(t, ok)
	assert.Equal(t, "LargeOpenEnum", e.Name)
	_, ok = f.Enum("Missing")
	assert.False(t, ok)
}

func TestFile_Syntax(t *testing.T) {
	enum := func(features map[string]interface{}) schema.Enum {
		return schema.Enum{
			Name:     "E",
			Features: features,
			Values:   []schema.Value{{Name: "A", Number: 0}},
		}
	}
	tests := map[string]struct {
		edition string
		enum    schema.Enum
		want    openenum.Syntax
	}{
		"Default edition is open":    {"", enum(nil), openenum.Open},
		"proto3 is open":             {"proto3", enum(nil), openenum.Open},
		"proto2 is closed":           {"proto2", enum(nil), openenum.Closed},
		"2023 can be closed":         {"2023", enum(map[string]interface{}{"enum_type": "CLOSED"}), openenum.Closed},
		"Feature values ignore case": {"2023", enum(map[string]interface{}{"enum_type": "closed"}), openenum.Closed},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			f := &schema.File{Edition: tc.edition, Enums: []schema.Enum{tc.enum}}
			got, err := f.Syntax(&f.Enums[0])
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEnum_FeatureSet_Unsupported(t *testing.T) {
	e := schema.Enum{Name: "E", Features: map[string]interface{}{"field_presence": "EXPLICIT"}}
	_, err := e.FeatureSet()
	assert.EqualError(t, err, `unsupported feature "field_presence"`)
}

func TestRange_Contains(t *testing.T) {
	r := schema.Range{Start: 5, End: 7}
	assert.False(t, r.Contains(4))
	assert.True(t, r.Contains(5))
	assert.True(t, r.Contains(7))
	assert.False(t, r.Contains(8))
}
