// Package oxfmtgen generates oxfmt encoders, structures and constructors
// for annotated Go types.
//
// A struct becomes a record with a directive in its doc comment:
//
//	//oxfmt:record header=mcmodbuild version=1
//	type ModBuild struct { ... }
//
// Omitting header and version produces a nested record that is only ever
// written inside another one. A uint8 type becomes an enumeration with
//
//	//oxfmt:enum
//	type BuildType uint8
//
// and every constant of that type declared in the package joins its
// declared set. Field tags refine the mapping:
//
//	Cmd   *string           `oxfmt:"when=Build:BuildCmd"` // optional, guarded by Build
//	Build modbuild.ModBuild `oxfmt:"record"`              // record from another package
//	Cache string            `oxfmt:"-"`                   // not serialized
package oxfmtgen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

const (
	recordDirective = "//oxfmt:record"
	enumDirective   = "//oxfmt:enum"
	oxfmtImportPath = "github.com/ssargent/rilipak/pkg/oxfmt"
)

// ErrNoTypes is returned when a package has no annotated types.
var ErrNoTypes = errors.New("no oxfmt types found")

// Package is the parsed model of one Go package.
type Package struct {
	Name    string
	Records []*Record
	Enums   []*Enum

	// imports used by record fields, keyed by local name
	imports map[string]string
}

// Record is a struct annotated with //oxfmt:record.
type Record struct {
	Name    string
	Magic   string
	Version uint16
	Framed  bool
	Fields  []*Field
}

// Field is one serialized struct field, in declaration order.
type Field struct {
	Name string
	Type *FieldType
	When *Condition
}

// Condition makes a pointer field optional. The field is present exactly
// when the earlier field Field holds one of Values.
type Condition struct {
	Field  string
	Index  int
	Values []string
}

// Enum is a uint8 type annotated with //oxfmt:enum.
type Enum struct {
	Name   string
	Values []EnumValue
}

// EnumValue is one constant of an enumeration.
type EnumValue struct {
	Const string
	Text  string
	Value uint8
}

type typeDecl struct {
	spec      *ast.TypeSpec
	directive string
	file      *ast.File
}

// ParseDir parses the non-test Go files of dir, skipping skip (normally the
// previously generated output).
func ParseDir(dir, skip string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == skip {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		files = append(files, f)
	}
	return parseFiles(files)
}

// ParseSource parses a single file held in memory.
func ParseSource(filename string, src []byte) (*Package, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return parseFiles([]*ast.File{f})
}

func parseFiles(files []*ast.File) (*Package, error) {
	if len(files) == 0 {
		return nil, ErrNoTypes
	}

	pkg := &Package{Name: files[0].Name.Name, imports: map[string]string{}}
	decls := map[string]*typeDecl{}
	var order []string

	for _, f := range files {
		if f.Name.Name != pkg.Name {
			return nil, fmt.Errorf("mixed packages %s and %s", pkg.Name, f.Name.Name)
		}
		for _, d := range f.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				decls[ts.Name.Name] = &typeDecl{spec: ts, directive: findDirective(doc), file: f}
				order = append(order, ts.Name.Name)
			}
		}
	}

	for _, name := range order {
		d := decls[name]
		if strings.HasPrefix(d.directive, enumDirective) {
			e, err := parseEnum(d, files)
			if err != nil {
				return nil, err
			}
			pkg.Enums = append(pkg.Enums, e)
		}
	}

	enums := map[string]*Enum{}
	for _, e := range pkg.Enums {
		enums[e.Name] = e
	}
	res := &resolver{decls: decls, enums: enums, pkg: pkg}

	for _, name := range order {
		d := decls[name]
		if strings.HasPrefix(d.directive, recordDirective) {
			r, err := res.parseRecord(d)
			if err != nil {
				return nil, err
			}
			pkg.Records = append(pkg.Records, r)
		}
	}

	if len(pkg.Records) == 0 && len(pkg.Enums) == 0 {
		return nil, ErrNoTypes
	}
	return pkg, nil
}

func findDirective(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, recordDirective) || strings.HasPrefix(c.Text, enumDirective) {
			return c.Text
		}
	}
	return ""
}

func parseEnum(d *typeDecl, files []*ast.File) (*Enum, error) {
	name := d.spec.Name.Name
	if id, ok := d.spec.Type.(*ast.Ident); !ok || (id.Name != "uint8" && id.Name != "byte") {
		return nil, fmt.Errorf("enum %s: underlying type must be uint8", name)
	}

	e := &Enum{Name: name}
	seen := map[uint8]string{}
	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.CONST {
				continue
			}
			values, err := constValues(gd, name)
			if err != nil {
				return nil, fmt.Errorf("enum %s: %w", name, err)
			}
			for _, v := range values {
				if prev, dup := seen[v.Value]; dup {
					return nil, fmt.Errorf("enum %s: %s and %s share value %d", name, prev, v.Const, v.Value)
				}
				seen[v.Value] = v.Const
				v.Text = enumText(name, v.Const)
				e.Values = append(e.Values, v)
			}
		}
	}
	if len(e.Values) == 0 {
		return nil, fmt.Errorf("enum %s: no constants declared", name)
	}
	sort.Slice(e.Values, func(i, j int) bool { return e.Values[i].Value < e.Values[j].Value })
	return e, nil
}

// constValues evaluates the constants of type typeName in one const block,
// following Go's rules for implicit repetition and iota.
func constValues(gd *ast.GenDecl, typeName string) ([]EnumValue, error) {
	var out []EnumValue
	var lastType ast.Expr
	var lastValues []ast.Expr
	for idx, spec := range gd.Specs {
		vs := spec.(*ast.ValueSpec)
		if vs.Type != nil || len(vs.Values) > 0 {
			lastType, lastValues = vs.Type, vs.Values
		}
		id, ok := lastType.(*ast.Ident)
		if !ok || id.Name != typeName {
			continue
		}
		for i, n := range vs.Names {
			if n.Name == "_" {
				continue
			}
			if i >= len(lastValues) {
				return nil, fmt.Errorf("constant %s has no value", n.Name)
			}
			v, err := evalConst(lastValues[i], idx)
			if err != nil {
				return nil, fmt.Errorf("constant %s: %w", n.Name, err)
			}
			u, ok := constant.Uint64Val(v)
			if !ok || u > 255 {
				return nil, fmt.Errorf("constant %s does not fit in uint8", n.Name)
			}
			out = append(out, EnumValue{Const: n.Name, Value: uint8(u)})
		}
	}
	return out, nil
}

func evalConst(expr ast.Expr, iota int) (constant.Value, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.INT {
			return nil, fmt.Errorf("unsupported literal %s", e.Value)
		}
		return constant.MakeFromLiteral(e.Value, e.Kind, 0), nil
	case *ast.Ident:
		if e.Name == "iota" {
			return constant.MakeInt64(int64(iota)), nil
		}
		return nil, fmt.Errorf("unsupported identifier %s", e.Name)
	case *ast.ParenExpr:
		return evalConst(e.X, iota)
	case *ast.CallExpr:
		// a conversion such as uint8(1)
		if len(e.Args) != 1 {
			return nil, errors.New("unsupported call")
		}
		return evalConst(e.Args[0], iota)
	case *ast.BinaryExpr:
		x, err := evalConst(e.X, iota)
		if err != nil {
			return nil, err
		}
		y, err := evalConst(e.Y, iota)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case token.SHL, token.SHR:
			s, ok := constant.Uint64Val(y)
			if !ok {
				return nil, errors.New("invalid shift")
			}
			return constant.Shift(x, e.Op, uint(s)), nil
		case token.ADD, token.SUB, token.MUL, token.OR, token.AND:
			return constant.BinaryOp(x, e.Op, y), nil
		}
		return nil, fmt.Errorf("unsupported operator %s", e.Op)
	}
	return nil, fmt.Errorf("unsupported expression %T", expr)
}

// enumText is the lowercase text form of a constant: the type name prefix
// is dropped, so BuildStd of BuildType reads "std".
func enumText(typeName, constName string) string {
	prefix := strings.TrimSuffix(typeName, "Type")
	for _, p := range []string{typeName, prefix} {
		if rest := strings.TrimPrefix(constName, p); rest != constName && rest != "" {
			return strings.ToLower(rest)
		}
	}
	return strings.ToLower(constName)
}

type resolver struct {
	decls map[string]*typeDecl
	enums map[string]*Enum
	pkg   *Package
	file  *ast.File
}

func (res *resolver) parseRecord(d *typeDecl) (*Record, error) {
	name := d.spec.Name.Name
	st, ok := d.spec.Type.(*ast.StructType)
	if !ok {
		return nil, fmt.Errorf("record %s: must be a struct type", name)
	}
	if d.spec.TypeParams != nil {
		return nil, fmt.Errorf("record %s: generic types are not supported", name)
	}

	r := &Record{Name: name}
	if err := parseRecordArgs(r, d.directive); err != nil {
		return nil, fmt.Errorf("record %s: %w", name, err)
	}

	res.file = d.file
	byName := map[string]*Field{}
	for _, f := range st.Fields.List {
		opts, err := parseTag(f.Tag)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", name, err)
		}
		if opts.skip {
			continue
		}
		if len(f.Names) == 0 {
			return nil, fmt.Errorf("record %s: embedded fields are not supported", name)
		}
		for _, n := range f.Names {
			field, err := res.parseField(n.Name, f.Type, opts, r, byName)
			if err != nil {
				return nil, fmt.Errorf("record %s: field %s: %w", name, n.Name, err)
			}
			byName[field.Name] = field
			r.Fields = append(r.Fields, field)
		}
	}
	return r, nil
}

func parseRecordArgs(r *Record, directive string) error {
	args := strings.Fields(strings.TrimPrefix(directive, recordDirective))
	var haveHeader, haveVersion bool
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("malformed directive argument %q", arg)
		}
		switch key {
		case "header":
			if value == "" {
				return errors.New("empty header")
			}
			r.Magic = value
			haveHeader = true
		case "version":
			v, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", value, err)
			}
			r.Version = uint16(v)
			haveVersion = true
		default:
			return fmt.Errorf("unknown directive argument %q", key)
		}
	}
	if haveHeader != haveVersion {
		return errors.New("header and version must be given together")
	}
	r.Framed = haveHeader
	return nil
}

type tagOptions struct {
	skip   bool
	record bool
	when   string
}

func parseTag(lit *ast.BasicLit) (tagOptions, error) {
	var opts tagOptions
	if lit == nil {
		return opts, nil
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return opts, fmt.Errorf("malformed tag %s", lit.Value)
	}
	tag, ok := reflect.StructTag(raw).Lookup("oxfmt")
	if !ok {
		return opts, nil
	}
	for _, part := range strings.Split(tag, ",") {
		switch {
		case part == "-":
			opts.skip = true
		case part == "record":
			opts.record = true
		case strings.HasPrefix(part, "when="):
			opts.when = strings.TrimPrefix(part, "when=")
		default:
			return opts, fmt.Errorf("unknown oxfmt tag option %q", part)
		}
	}
	return opts, nil
}

func (res *resolver) parseField(name string, expr ast.Expr, opts tagOptions, r *Record, prior map[string]*Field) (*Field, error) {
	f := &Field{Name: name}

	if star, ok := expr.(*ast.StarExpr); ok {
		if opts.when == "" {
			return nil, errors.New("pointer fields need a when= discriminant")
		}
		inner, err := res.resolve(star.X, opts.record)
		if err != nil {
			return nil, err
		}
		cond, err := res.condition(opts.when, r, prior)
		if err != nil {
			return nil, err
		}
		f.Type = &FieldType{Kind: TypeOptional, Elem: inner}
		f.When = cond
		return f, nil
	}
	if opts.when != "" {
		return nil, errors.New("when= requires a pointer field")
	}

	t, err := res.resolve(expr, opts.record)
	if err != nil {
		return nil, err
	}
	f.Type = t
	return f, nil
}

func (res *resolver) condition(when string, r *Record, prior map[string]*Field) (*Condition, error) {
	fieldName, list, ok := strings.Cut(when, ":")
	if !ok || fieldName == "" || list == "" {
		return nil, fmt.Errorf("malformed when=%q, want when=Field:Const", when)
	}
	disc, ok := prior[fieldName]
	if !ok {
		return nil, fmt.Errorf("discriminant %s must be declared before the field", fieldName)
	}
	if disc.Type.Kind != TypeEnum && disc.Type.Kind != TypeU8 {
		return nil, fmt.Errorf("discriminant %s must be an enum or uint8", fieldName)
	}

	cond := &Condition{Field: fieldName}
	for i, f := range r.Fields {
		if f == disc {
			cond.Index = i
		}
	}
	for _, v := range strings.Split(list, "|") {
		if disc.Type.Kind == TypeEnum && !res.enums[disc.Type.Name].has(v) {
			return nil, fmt.Errorf("%s is not a constant of %s", v, disc.Type.Name)
		}
		cond.Values = append(cond.Values, v)
	}
	return cond, nil
}

func (e *Enum) has(constName string) bool {
	for _, v := range e.Values {
		if v.Const == constName {
			return true
		}
	}
	return false
}

func (res *resolver) resolve(expr ast.Expr, external bool) (*FieldType, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		switch e.Name {
		case "string":
			return &FieldType{Kind: TypeString}, nil
		case "uint8", "byte":
			return &FieldType{Kind: TypeU8}, nil
		case "uint16":
			return &FieldType{Kind: TypeU16}, nil
		case "uint32":
			return &FieldType{Kind: TypeU32}, nil
		case "uint64":
			return &FieldType{Kind: TypeU64}, nil
		}
		if _, ok := res.enums[e.Name]; ok {
			return &FieldType{Kind: TypeEnum, Name: e.Name}, nil
		}
		if d, ok := res.decls[e.Name]; ok && strings.HasPrefix(d.directive, recordDirective) {
			return &FieldType{Kind: TypeRecord, Name: e.Name}, nil
		}
		return nil, fmt.Errorf("unsupported type %s", e.Name)

	case *ast.SelectorExpr:
		pkgIdent, ok := e.X.(*ast.Ident)
		if !ok {
			return nil, errors.New("unsupported qualified type")
		}
		path := res.importPath(pkgIdent.Name)
		if path == oxfmtImportPath && e.Sel.Name == "Uint128" {
			return &FieldType{Kind: TypeU128}, nil
		}
		if !external {
			return nil, fmt.Errorf("type %s.%s needs the oxfmt:\"record\" tag", pkgIdent.Name, e.Sel.Name)
		}
		if path == "" {
			return nil, fmt.Errorf("unknown package %s", pkgIdent.Name)
		}
		res.pkg.imports[pkgIdent.Name] = path
		return &FieldType{Kind: TypeRecord, Name: pkgIdent.Name + "." + e.Sel.Name}, nil

	case *ast.ArrayType:
		if e.Len != nil {
			return nil, errors.New("arrays are not supported, use a slice")
		}
		elem, err := res.resolve(e.Elt, external)
		if err != nil {
			return nil, err
		}
		if elem.Kind == TypeU8 {
			return &FieldType{Kind: TypeBytes}, nil
		}
		return &FieldType{Kind: TypeSlice, Elem: elem}, nil

	case *ast.StarExpr:
		return nil, errors.New("pointers are only supported as optional fields")
	}
	return nil, fmt.Errorf("unsupported type expression %T", expr)
}

// importPath maps a package name used in the current file to its path.
func (res *resolver) importPath(local string) string {
	for _, imp := range res.file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := filepath.Base(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == local {
			return path
		}
	}
	return ""
}
