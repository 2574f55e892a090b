package generator

import (
	"bufio"
	"bytes"
	"fmt"
	"path"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"
)

// goIdent is an identifier declared in another Go package.
type goIdent struct {
	importPath string
	name       string
}

// generatedFile accumulates the body of a Go file. Identifiers from other
// packages are passed to P as goIdent so the import block can be computed
// from what the body actually uses.
type generatedFile struct {
	filename    string
	packageName string
	buf         bytes.Buffer
	imports     map[string]string // import path -> local name
	used        map[string]bool   // local names
}

func newGeneratedFile(filename, packageName string) *generatedFile {
	return &generatedFile{
		filename:    filename,
		packageName: packageName,
		imports:     map[string]string{},
		used:        map[string]bool{packageName: true},
	}
}

// P prints a line. goIdent values are qualified.
func (g *generatedFile) P(v ...interface{}) {
	for _, x := range v {
		switch x := x.(type) {
		case goIdent:
			fmt.Fprint(&g.buf, g.qualify(x))
		default:
			fmt.Fprint(&g.buf, x)
		}
	}
	fmt.Fprintln(&g.buf)
}

func (g *generatedFile) qualify(ident goIdent) string {
	if name, ok := g.imports[ident.importPath]; ok {
		return name + "." + ident.name
	}
	name := path.Base(ident.importPath)
	for i, orig := 1, name; g.used[name]; i++ {
		name = orig + strconv.Itoa(i)
	}
	g.imports[ident.importPath] = name
	g.used[name] = true
	return name + "." + ident.name
}

// content assembles the file and formats it. The import block is already
// exact, so goimports only has to format and group it.
func (g *generatedFile) content(header []string) ([]byte, error) {
	var out bytes.Buffer
	for _, line := range header {
		fmt.Fprintln(&out, line)
	}
	fmt.Fprintln(&out)
	fmt.Fprintf(&out, "package %s\n\n", g.packageName)

	paths := make([]string, 0, len(g.imports))
	for p := range g.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	if len(paths) > 0 {
		fmt.Fprintln(&out, "import (")
		for _, p := range paths {
			if name := g.imports[p]; name != path.Base(p) {
				fmt.Fprintf(&out, "\t%s %q\n", name, p)
			} else {
				fmt.Fprintf(&out, "\t%q\n", p)
			}
		}
		fmt.Fprintln(&out, ")")
		fmt.Fprintln(&out)
	}
	out.Write(g.buf.Bytes())

	formatted, err := imports.Process(g.filename, out.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		var src bytes.Buffer
		s := bufio.NewScanner(bytes.NewReader(out.Bytes()))
		for line := 1; s.Scan(); line++ {
			fmt.Fprintf(&src, "%5d\t%s\n", line, s.Bytes())
		}
		return nil, errors.Errorf("%v: unparsable Go source: %v\n%v", g.filename, err, src.String())
	}
	return formatted, nil
}
