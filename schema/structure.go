package schema

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "openenum schema document",
  "type": "object",
  "required": ["enums"],
  "additionalProperties": false,
  "properties": {
    "package": {"type": "string", "pattern": "^([A-Za-z_][A-Za-z0-9_]*)(\\.[A-Za-z_][A-Za-z0-9_]*)*$"},
    "go_package": {"type": "string"},
    "edition": {"type": "string", "minLength": 1},
    "enums": {
      "type": "array",
      "items": {"$ref": "#/definitions/enum"}
    }
  },
  "definitions": {
    "int32": {"type": "integer", "minimum": -2147483648, "maximum": 2147483647},
    "enum": {
      "type": "object",
      "required": ["name", "values"],
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "comment": {"type": "string"},
        "allow_alias": {"type": "boolean"},
        "features": {
          "type": "object",
          "properties": {
            "enum_type": {"type": "string", "enum": ["OPEN", "CLOSED", "open", "closed"]}
          }
        },
        "reserved_names": {"type": "array", "items": {"type": "string"}},
        "reserved_ranges": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["start", "end"],
            "additionalProperties": false,
            "properties": {
              "start": {"$ref": "#/definitions/int32"},
              "end": {"$ref": "#/definitions/int32"}
            }
          }
        },
        "values": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "number"],
            "additionalProperties": false,
            "properties": {
              "name": {"type": "string", "minLength": 1},
              "number": {"$ref": "#/definitions/int32"},
              "comment": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`

var documentSchemaLoader = gojsonschema.NewStringLoader(documentSchema)

// StructureError lists every structural problem found in a document.
type StructureError struct {
	Path   string
	Issues []string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("schema %s is not well-formed: %s", e.Path, strings.Join(e.Issues, "; "))
}

// checkStructure validates a document against the embedded JSON Schema.
func checkStructure(path string, doc gojsonschema.JSONLoader) error {
	res, err := gojsonschema.Validate(documentSchemaLoader, doc)
	if err != nil {
		return errors.Wrapf(err, "schema %s could not be checked", path)
	}
	if res.Valid() {
		return nil
	}
	se := &StructureError{Path: path}
	for _, issue := range res.Errors() {
		se.Issues = append(se.Issues, issue.String())
	}
	return se
}
