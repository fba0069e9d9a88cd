package oxfmtgen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	pkg, err := ParseSource("modbuild.go", []byte(buildSource))
	require.NoError(t, err)

	src, err := Generate(pkg)
	require.NoError(t, err)
	out := string(src)

	_, err = parser.ParseFile(token.NewFileSet(), DefaultOutput, src, 0)
	require.NoError(t, err, out)

	assert.True(t, strings.HasPrefix(out, "// Code generated by oxfmtgen; DO NOT EDIT.\n"))

	for _, want := range []string{
		`"fmt"`,
		`"strings"`,
		`"github.com/ssargent/rilipak/pkg/oxfmt"`,

		// enums
		"func ParseBuildType(raw uint8) (BuildType, error) {",
		"case BuildCmd, BuildStd:",
		`case ExcludeEnds, ExcludeStarts, ExcludeContains:`,
		`return "std"`,
		`case "contains":`,
		"func (e *ExcludeType) UnmarshalText(text []byte) error {",

		// records
		"var _ oxfmt.Record = (*ModBuild)(nil)",
		`return oxfmt.Header{Magic: "mcmodbuild", Version: 1}`,
		`oxfmt.CheckPresence("ModBuild.Cmd", m.Cmd != nil, m.Build == BuildCmd)`,
		"Add(oxfmt.String(m.ID))",
		"Add(m.Build)",
		"Add(oxfmt.OptionalOf(m.Cmd, oxfmt.StringOf))",
		"Add(oxfmt.SequenceOf(m.Exclude, func(v ExcludePair) oxfmt.Marshaler { return &v }))",
		"Add(m.Stamp)",
		"Add(oxfmt.Bytes(m.Blob))",
		"Add(oxfmt.SequenceOf(m.Grid, func(v []uint16) oxfmt.Marshaler { return oxfmt.SequenceOf(v, oxfmt.U16Of) }))",
		`oxfmt.StringField("Cmd").When(oxfmt.U8Equals(1, uint8(BuildCmd)))`,
		`oxfmt.SequenceField("Exclude", oxfmt.RecordField("", func() oxfmt.Unmarshaler { return new(ExcludePair) }))`,
		`oxfmt.SequenceField("Grid", oxfmt.SequenceField("", oxfmt.U16Field("")))`,
		"m.Build, err = oxfmt.TakeEnum(vs, ParseBuildType)",
		"m.Cmd, err = oxfmt.TakeOptional(vs, oxfmt.StringElem)",
		"m.Exclude, err = oxfmt.TakeSequence(vs, oxfmt.RecordElem[ExcludePair, *ExcludePair])",
		"m.Stamp, err = vs.TakeU128()",
		"m.Blob, err = vs.TakeBytes()",
		"m.Grid, err = oxfmt.TakeSequence(vs, oxfmt.SequenceElem(oxfmt.U16Elem))",
	} {
		assert.Contains(t, out, want)
	}

	assert.NotContains(t, out, "Scratch")
	assert.NotContains(t, out, "func (*ExcludePair) Header()")
}

func TestGenerate_ExternalRecord(t *testing.T) {
	src := `package cache

import mb "github.com/ssargent/rilipak/pkg/modbuild"

//oxfmt:record header=mcmbcache version=1
type Entry struct {
	Build    mb.ModBuild ` + "`oxfmt:\"record\"`" + `
	Artifact string
}
`
	pkg, err := ParseSource("entry.go", []byte(src))
	require.NoError(t, err)

	out, err := Generate(pkg)
	require.NoError(t, err)

	assert.Contains(t, string(out), `mb "github.com/ssargent/rilipak/pkg/modbuild"`)
	assert.Contains(t, string(out), "Add(&m.Build)")
	assert.Contains(t, string(out), "m.Build, err = oxfmt.TakeRecord[mb.ModBuild](vs)")
	assert.NotContains(t, string(out), `"fmt"`)
}

func TestGenerate_EmptyRecord(t *testing.T) {
	pkg, err := ParseSource("p.go", []byte("package p\n\n//oxfmt:record\ntype Marker struct{}\n"))
	require.NoError(t, err)

	out, err := Generate(pkg)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "var err error")
	assert.Contains(t, string(out), "return vs.Done()")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.go"), []byte(buildSource), 0644))

	path, err := Run(Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultOutput), path)

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	// a second run ignores its own output and is stable
	_, err = Run(Options{Dir: dir})
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
