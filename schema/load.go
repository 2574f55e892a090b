package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Load fetches the document at location from src, decodes and validates it.
func Load(ctx context.Context, src Source, location string) (*File, error) {
	data, err := src.Fetch(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s could not be fetched", location)
	}
	return Parse(location, data)
}

// Parse decodes a document. The format is chosen by the extension of name.
// The returned File has been validated.
func Parse(name string, data []byte) (*File, error) {
	var (
		f   *File
		err error
	)
	switch ext := strings.ToLower(path.Ext(locationPath(name))); ext {
	case ".json":
		f, err = parseJSON(name, data)
	case ".yaml", ".yml":
		f, err = parseYAML(name, data)
	case ".toml":
		f, err = parseTOML(name, data)
	case ".proto":
		f, err = parseProto(name, data)
	default:
		return nil, errors.Errorf("schema %s: unsupported format %q", name, ext)
	}
	if err != nil {
		return nil, err
	}
	f.Path = name
	if err := Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

func locationPath(location string) string {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		return location
	}
	return u.Path
}

func parseJSON(name string, data []byte) (*File, error) {
	if err := checkStructure(name, gojsonschema.NewBytesLoader(data)); err != nil {
		return nil, err
	}
	f := &File{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return nil, errors.Wrapf(err, "schema %s could not be decoded", name)
	}
	return f, nil
}

func parseYAML(name string, data []byte) (*File, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "schema %s could not be decoded", name)
	}
	if err := checkStructure(name, gojsonschema.NewGoLoader(doc)); err != nil {
		return nil, err
	}
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrapf(err, "schema %s could not be decoded", name)
	}
	return f, nil
}

func parseTOML(name string, data []byte) (*File, error) {
	doc := map[string]interface{}{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "schema %s could not be decoded", name)
	}
	if err := checkStructure(name, gojsonschema.NewGoLoader(doc)); err != nil {
		return nil, err
	}
	f := &File{}
	if err := toml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrapf(err, "schema %s could not be decoded", name)
	}
	return f, nil
}
