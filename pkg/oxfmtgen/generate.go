package oxfmtgen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/template"
)

// DefaultOutput is the file name oxfmtgen writes into the package directory.
const DefaultOutput = "oxfmt_gen.go"

var fileTemplate = template.Must(template.New("file").Option("missingkey=error").Parse(`// Code generated by oxfmtgen; DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
{{range .Enums}}
func (e {{.Name}}) MarshalOxfmt(b *oxfmt.Builder) error {
	return oxfmt.U8(e).MarshalOxfmt(b)
}

// Parse{{.Name}} maps a decoded byte onto {{.Name}}, rejecting values
// outside the declared set.
func Parse{{.Name}}(raw uint8) ({{.Name}}, error) {
	switch {{.Name}}(raw) {
	case {{.Consts}}:
		return {{.Name}}(raw), nil
	}
	return 0, fmt.Errorf("%w: {{.Name}} %d", oxfmt.ErrInvalidDiscriminant, raw)
}

func (e {{.Name}}) String() string {
	switch e {
{{- range .Values}}
	case {{.Const}}:
		return {{printf "%q" .Text}}
{{- end}}
	}
	return fmt.Sprintf("{{.Name}}(%d)", uint8(e))
}

func (e {{.Name}}) MarshalText() ([]byte, error) {
	if _, err := Parse{{.Name}}(uint8(e)); err != nil {
		return nil, err
	}
	return []byte(e.String()), nil
}

func (e *{{.Name}}) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
{{- range .Values}}
	case {{printf "%q" .Text}}:
		*e = {{.Const}}
{{- end}}
	default:
		return fmt.Errorf("%w: unknown {{.Name}} %q", oxfmt.ErrInvalidDiscriminant, text)
	}
	return nil
}
{{end}}
{{- range .Records}}
var _ oxfmt.Record = (*{{.Name}})(nil)
{{if .Framed}}
func (*{{.Name}}) Header() oxfmt.Header {
	return oxfmt.Header{Magic: {{printf "%q" .Magic}}, Version: {{.Version}}}
}
{{end}}
func (m *{{.Name}}) MarshalOxfmt(b *oxfmt.Builder) error {
{{- range .Checks}}
	if err := {{.}}; err != nil {
		return err
	}
{{- end}}
	return b{{range .Adds}}.
		Add({{.}}){{end}}.
		Err()
}

func (*{{.Name}}) Structure() oxfmt.Structure {
	return oxfmt.Structure{Fields: []oxfmt.Field{
{{- range .Descriptors}}
		{{.}},
{{- end}}
	}}
}

func (m *{{.Name}}) Construct(vs *oxfmt.Values) error {
{{- if .Takes}}
	var err error
{{- end}}
{{- range .Takes}}
	if m.{{.Field}}, err = {{.Expr}}; err != nil {
		return err
	}
{{- end}}
	return vs.Done()
}
{{end}}`))

type fileView struct {
	Package string
	Imports []string
	Enums   []enumView
	Records []recordView
}

type enumView struct {
	*Enum
	Consts string
}

type recordView struct {
	*Record
	Checks      []string
	Adds        []string
	Descriptors []string
	Takes       []takeView
}

type takeView struct {
	Field string
	Expr  string
}

// Generate renders the gofmt-ed source of the generated file for pkg.
func Generate(pkg *Package) ([]byte, error) {
	view := fileView{Package: pkg.Name}

	if len(pkg.Enums) > 0 {
		view.Imports = append(view.Imports, strconv.Quote("fmt"), strconv.Quote("strings"), "")
	}
	view.Imports = append(view.Imports, strconv.Quote(oxfmtImportPath))

	locals := make([]string, 0, len(pkg.imports))
	for name := range pkg.imports {
		locals = append(locals, name)
	}
	sort.Strings(locals)
	for _, name := range locals {
		path := pkg.imports[name]
		if filepath.Base(path) == name {
			view.Imports = append(view.Imports, strconv.Quote(path))
		} else {
			view.Imports = append(view.Imports, name+" "+strconv.Quote(path))
		}
	}

	for _, e := range pkg.Enums {
		ev := enumView{Enum: e}
		for i, v := range e.Values {
			if i > 0 {
				ev.Consts += ", "
			}
			ev.Consts += v.Const
		}
		view.Enums = append(view.Enums, ev)
	}

	for _, r := range pkg.Records {
		rv := recordView{Record: r}
		for _, f := range r.Fields {
			if f.When != nil {
				rv.Checks = append(rv.Checks, f.presenceCheck(r.Name))
			}
			rv.Adds = append(rv.Adds, f.Type.encode("m."+f.Name))
			rv.Descriptors = append(rv.Descriptors, f.descriptor())
			rv.Takes = append(rv.Takes, takeView{Field: f.Name, Expr: f.Type.take()})
		}
		view.Records = append(view.Records, rv)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}

// Options configures Run.
type Options struct {
	Dir    string
	Output string
}

// Run parses opts.Dir and writes the generated file next to the sources.
// It returns the path written.
func Run(opts Options) (string, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}

	pkg, err := ParseDir(opts.Dir, opts.Output)
	if err != nil {
		return "", err
	}
	src, err := Generate(pkg)
	if err != nil {
		return "", err
	}

	path := filepath.Join(opts.Dir, opts.Output)
	if err := os.WriteFile(path, src, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
