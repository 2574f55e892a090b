// Package generator emits Go source for the enums of a schema document.
//
// Every enum becomes an int type whose constants are ordinals: the declared
// values in order and, for open enums, an UNRECOGNIZED sentinel last. Wire
// numbers are reached through a package-level openenum.Descriptor.
package generator

import (
	"fmt"
	"go/token"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/JiscSD/openenum/openenum"
	"github.com/JiscSD/openenum/schema"
)

const (
	// DefaultLargeEnumThreshold is the number of values above which number
	// lookups go through the descriptor instead of a switch.
	DefaultLargeEnumThreshold = 64

	// DefaultRuntimeImport is the import path of the runtime package.
	DefaultRuntimeImport = "github.com/JiscSD/openenum/openenum"

	errorsImport  = "github.com/pkg/errors"
	strconvImport = "strconv"

	headerLine = "// Code generated by openenum. DO NOT EDIT."
)

// Options controls code generation.
type Options struct {
	// GoPackage overrides the package name declared by the schema.
	GoPackage string

	LargeEnumThreshold int
	StripComments      bool
	RuntimeImport      string
}

func (o Options) withDefaults() Options {
	if o.LargeEnumThreshold <= 0 {
		o.LargeEnumThreshold = DefaultLargeEnumThreshold
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = DefaultRuntimeImport
	}
	return o
}

// File is a generated Go source file.
type File struct {
	Name    string
	Content []byte
}

// Generate returns the Go source for every enum of f.
func Generate(f *schema.File, opts Options) ([]File, error) {
	opts = opts.withDefaults()
	if err := schema.Validate(f); err != nil {
		return nil, err
	}
	pkg := opts.GoPackage
	if pkg == "" {
		pkg = f.GoPackage
	}
	if pkg == "" {
		return nil, errors.New("no Go package name: set go_package in the schema or pass one explicitly")
	}
	if !isIdent(pkg) || token.IsKeyword(pkg) {
		return nil, errors.Errorf("invalid Go package name %q", pkg)
	}
	declared, err := declaredIdents(f)
	if err != nil {
		return nil, err
	}

	name := f.Path
	if name == "" {
		name = f.Enums[0].Name
	}
	g := newGeneratedFile(outputName(name), pkg)
	for ident := range declared {
		g.used[ident] = true
	}
	for i := range f.Enums {
		e := &f.Enums[i]
		d, err := f.Descriptor(e)
		if err != nil {
			return nil, err
		}
		genEnum(g, opts, e, d)
	}

	header := []string{headerLine}
	if f.Path != "" {
		header = append(header, "// source: "+f.Path)
	}
	content, err := g.content(header)
	if err != nil {
		return nil, err
	}
	return []File{{Name: g.filename, Content: content}}, nil
}

// Write stores the files under dir.
func Write(fs afero.Fs, dir string, files []File) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	for _, f := range files {
		p := filepath.Join(dir, f.Name)
		if err := afero.WriteFile(fs, p, f.Content, 0644); err != nil {
			return errors.Wrapf(err, "writing %s", p)
		}
	}
	return nil
}

type enumNames struct {
	typ, desc, variants, sentinel string
}

func namesOf(e *schema.Enum) enumNames {
	return enumNames{
		typ:      e.Name,
		desc:     "enum_" + e.Name + "_desc",
		variants: "enum_" + e.Name + "_variants",
		sentinel: e.Name + "_" + openenum.UnrecognizedName,
	}
}

func (n enumNames) value(v schema.Value) string {
	return n.typ + "_" + v.Name
}

// unusableEnumNames are predeclared identifiers and local variables that the
// generated code refers to. An enum type with one of these names would shadow
// them.
var unusableEnumNames = map[string]bool{
	"bool": true, "byte": true, "copy": true, "error": true, "false": true,
	"int": true, "len": true, "make": true, "nil": true, "string": true,
	"true": true,
	"b": true, "err": true, "i": true, "n": true, "num": true, "ok": true,
	"s": true, "v": true, "values": true, "x": true,
}

// declaredIdents returns the package-level identifiers the enums of f
// declare. Enum and value names are joined with underscores, so distinct
// declarations can produce the same identifier; that is reported as a
// validation error naming both owners.
func declaredIdents(f *schema.File) (map[string]string, error) {
	owners := map[string]string{}
	declare := func(ident string, e *schema.Enum, value string) error {
		owner := "enum " + e.Name
		if value != "" {
			owner += " value " + value
		}
		if prev, ok := owners[ident]; ok {
			return schema.ValidationError{
				Enum:   e.Name,
				Value:  value,
				Reason: fmt.Sprintf("generated identifier %s collides with %s", ident, prev),
			}
		}
		owners[ident] = owner
		return nil
	}
	for i := range f.Enums {
		e := &f.Enums[i]
		if token.IsKeyword(e.Name) || unusableEnumNames[e.Name] {
			return nil, schema.ValidationError{Enum: e.Name, Reason: "cannot be used as a Go type name"}
		}
		syntax, err := f.Syntax(e)
		if err != nil {
			return nil, err
		}
		n := namesOf(e)
		for _, ident := range []string{n.typ, n.desc, n.variants, n.typ + "Values", n.typ + "ForNumber", n.typ + "FromValue"} {
			if err := declare(ident, e, ""); err != nil {
				return nil, err
			}
		}
		for _, v := range e.Values {
			if err := declare(n.value(v), e, v.Name); err != nil {
				return nil, err
			}
		}
		if syntax == openenum.Open {
			if err := declare(n.sentinel, e, openenum.UnrecognizedName); err != nil {
				return nil, err
			}
		}
	}
	return owners, nil
}

func genEnum(g *generatedFile, opts Options, e *schema.Enum, d *openenum.Descriptor) {
	rt := func(name string) goIdent { return goIdent{importPath: opts.RuntimeImport, name: name} }
	n := namesOf(e)
	open := d.IsOpen()

	if !opts.StripComments {
		printComment(g, e.Comment)
	}
	g.P("type ", n.typ, " int")
	g.P()

	g.P("const (")
	for i, v := range e.Values {
		if !opts.StripComments {
			printComment(g, v.Comment)
		}
		g.P(n.value(v), " ", n.typ, " = ", i)
	}
	if open {
		g.P("// ", n.sentinel, " stands for numbers this build does not declare.")
		g.P("// It has no wire number.")
		g.P(n.sentinel, " ", n.typ, " = ", len(e.Values))
	}
	g.P(")")
	g.P()

	syntax := "Closed"
	if open {
		syntax = "Open"
	}
	g.P("var ", n.desc, " = ", rt("MustDescriptor"), "(", strconv.Quote(d.FullName()), ", ", rt(syntax), ", []", rt("ValueDescriptor"), "{")
	for _, v := range e.Values {
		g.P("{Name: ", strconv.Quote(v.Name), ", Number: ", v.Number, "},")
	}
	g.P("})")
	g.P()

	g.P("var ", n.variants, " = []", n.typ, "{")
	for _, v := range e.Values {
		g.P(n.value(v), ",")
	}
	if open {
		g.P(n.sentinel, ",")
	}
	g.P("}")
	g.P()

	if open {
		g.P("// ", n.typ, "Values returns every variant in declaration order, followed by ", n.sentinel, ".")
	} else {
		g.P("// ", n.typ, "Values returns every variant in declaration order.")
	}
	g.P("func ", n.typ, "Values() []", n.typ, " {")
	g.P("values := make([]", n.typ, ", len(", n.variants, "))")
	g.P("copy(values, ", n.variants, ")")
	g.P("return values")
	g.P("}")
	g.P()

	g.P("// Descriptor returns the runtime descriptor of ", n.typ, ".")
	g.P("func (", n.typ, ") Descriptor() *", rt("Descriptor"), " {")
	g.P("return ", n.desc)
	g.P("}")
	g.P()

	if open {
		g.P("// Number returns the wire number of x. It fails with openenum.ErrUnrecognized")
		g.P("// for ", n.sentinel, ".")
	} else {
		g.P("// Number returns the wire number of x.")
	}
	g.P("func (x ", n.typ, ") Number() (", rt("Number"), ", error) {")
	g.P("return ", n.desc, ".NumberOf(int(x))")
	g.P("}")
	g.P()

	g.P("func (x ", n.typ, ") String() string {")
	g.P("return ", n.desc, ".NameOf(int(x))")
	g.P("}")
	g.P()

	g.P("// IsValid reports whether x is one of the variants of ", n.typ, ".")
	g.P("func (x ", n.typ, ") IsValid() bool {")
	g.P("_, ok := ", n.desc, ".Variant(int(x))")
	g.P("return ok")
	g.P("}")
	g.P()

	genForNumber(g, opts, e, n, open, rt)

	g.P("// ", n.typ, "FromValue converts a value decoded with the descriptor of ", n.typ, ".")
	g.P("func ", n.typ, "FromValue(v ", rt("Value"), ") (", n.typ, ", error) {")
	g.P("if v.Descriptor() != ", n.desc, " {")
	g.P("return 0, ", goIdent{errorsImport, "Errorf"}, "(\"value %s does not belong to %s\", v, ", n.desc, ".FullName())")
	g.P("}")
	g.P("return ", n.typ, "(v.Ordinal()), nil")
	g.P("}")
	g.P()

	if open {
		g.P("// MarshalText encodes the variant name. ", n.sentinel, " cannot be encoded")
		g.P("// because it carries no number.")
	} else {
		g.P("// MarshalText encodes the variant name.")
	}
	g.P("func (x ", n.typ, ") MarshalText() ([]byte, error) {")
	g.P("if _, err := x.Number(); err != nil {")
	g.P("return nil, err")
	g.P("}")
	g.P("return []byte(x.String()), nil")
	g.P("}")
	g.P()

	if open {
		g.P("// UnmarshalText accepts a variant name or a decimal wire number. Names and")
		g.P("// numbers this build does not declare decode to ", n.sentinel, ".")
	} else {
		g.P("// UnmarshalText accepts a variant name or a declared decimal wire number.")
	}
	g.P("func (x *", n.typ, ") UnmarshalText(b []byte) error {")
	g.P("s := string(b)")
	g.P("if i, ok := ", n.desc, ".OrdinalByName(s); ok {")
	g.P("*x = ", n.typ, "(i)")
	g.P("return nil")
	g.P("}")
	g.P("num, err := ", goIdent{strconvImport, "ParseInt"}, "(s, 10, 32)")
	g.P("if err != nil {")
	if open {
		g.P("if s == \"\" {")
		g.P("return ", goIdent{errorsImport, "Errorf"}, "(\"empty %s value\", ", n.desc, ".FullName())")
		g.P("}")
		g.P("*x = ", n.sentinel)
		g.P("return nil")
		g.P("}")
		g.P("*x = ", n.typ, "ForNumber(", rt("Number"), "(num))")
		g.P("return nil")
	} else {
		g.P("return ", goIdent{errorsImport, "Errorf"}, "(\"invalid %s value %q\", ", n.desc, ".FullName(), s)")
		g.P("}")
		g.P("v, ok := ", n.typ, "ForNumber(", rt("Number"), "(num))")
		g.P("if !ok {")
		g.P("return ", goIdent{errorsImport, "Wrapf"}, "(", rt("ErrUnknownNumber"), ", \"%s: %d\", ", n.desc, ".FullName(), num)")
		g.P("}")
		g.P("*x = v")
		g.P("return nil")
	}
	g.P("}")
	g.P()
}

// genForNumber emits the reverse lookup. Small enums get a switch over the
// first value declared for each number; large ones ask the descriptor.
func genForNumber(g *generatedFile, opts Options, e *schema.Enum, n enumNames, open bool, rt func(string) goIdent) {
	large := len(e.Values) > opts.LargeEnumThreshold
	if open {
		g.P("// ", n.typ, "ForNumber maps a wire number to a variant. Undeclared numbers map")
		g.P("// to ", n.sentinel, ".")
		g.P("func ", n.typ, "ForNumber(n ", rt("Number"), ") ", n.typ, " {")
	} else {
		g.P("// ", n.typ, "ForNumber maps a wire number to a variant.")
		g.P("func ", n.typ, "ForNumber(n ", rt("Number"), ") (", n.typ, ", bool) {")
	}
	found, missing := "", ""
	if !open {
		found, missing = ", true", ", false"
	}
	if large {
		g.P("if i, ok := ", n.desc, ".OrdinalOf(n); ok {")
		g.P("return ", n.typ, "(i)", found)
		g.P("}")
	} else {
		g.P("switch n {")
		seen := map[int32]bool{}
		for _, v := range e.Values {
			if seen[v.Number] {
				continue
			}
			seen[v.Number] = true
			g.P("case ", v.Number, ":")
			g.P("return ", n.value(v), found)
		}
		g.P("}")
	}
	if open {
		g.P("return ", n.sentinel)
	} else {
		g.P("return 0", missing)
	}
	g.P("}")
	g.P()
}

func printComment(g *generatedFile, comment string) {
	if comment == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(comment, "\n"), "\n") {
		g.P("// ", strings.TrimRight(line, " \t"))
	}
}

func isIdent(s string) bool {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}

// outputName turns the schema location into <snake>_gen.go.
func outputName(location string) string {
	base := path.Base(filepath.ToSlash(location))
	base = strings.TrimSuffix(base, path.Ext(base))
	return snakeCase(base) + "_gen.go"
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}
