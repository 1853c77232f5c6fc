// Package codegen turns register plans into Go source, so that a setting is
// resolved at build time and only the final read-modify-write cycles remain.
package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/antongulenko/optinit/regplan"
	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/imports"
)

type Target string

const (
	// TargetVolatile accesses memory-mapped registers through TinyGo's runtime/volatile.
	TargetVolatile = Target("volatile")

	// TargetRegfile executes a plan literal on a regplan.RegisterFile.
	TargetRegfile = Target("regfile")
)

var Targets = []Target{TargetVolatile, TargetRegfile}

func ParseTarget(name string) (Target, error) {
	for _, target := range Targets {
		if string(target) == name {
			return target, nil
		}
	}
	return "", fmt.Errorf("Unknown code generation target '%v'", name)
}

type Generator struct {
	Package string
	Target  Target

	// Width returns the register width in bits (8, 16 or 32). If nil, all registers are 8 bit.
	Width func(addr regplan.Address) uint

	funcs []function
}

type function struct {
	Name    string
	Setting string
	Writes  []write
}

type write struct {
	Width   uint
	Address string
	Mask    string
	Value   string
}

// Add generates one function applying plan. The function name is derived from setting.
func (g *Generator) Add(setting string, plan regplan.Plan) error {
	name := Identifier(setting)
	if name == "" {
		return fmt.Errorf("Cannot derive a function name from setting '%v'", setting)
	}
	for _, f := range g.funcs {
		if f.Name == name {
			return fmt.Errorf("Settings '%v' and '%v' both map to function %v", f.Setting, setting, name)
		}
	}
	f := function{Name: name, Setting: setting}
	for _, w := range plan {
		width, err := g.width(w.Address)
		if err != nil {
			return err
		}
		f.Writes = append(f.Writes, write{
			Width:   width,
			Address: fmt.Sprintf("%#02x", uint32(w.Address)),
			Mask:    fmt.Sprintf("%#x", uint32(w.Mask)),
			Value:   fmt.Sprintf("%#x", uint32(w.Bits())),
		})
	}
	g.funcs = append(g.funcs, f)
	return nil
}

func (g *Generator) width(addr regplan.Address) (uint, error) {
	if g.Width == nil {
		return 8, nil
	}
	switch width := g.Width(addr); width {
	case 0:
		return 8, nil
	case 8, 16, 32:
		return width, nil
	default:
		return 0, fmt.Errorf("Register %v: unsupported width %v", addr, width)
	}
}

// Generate returns the formatted source file.
func (g *Generator) Generate() ([]byte, error) {
	var tmpl *template.Template
	switch g.Target {
	case TargetVolatile:
		tmpl = volatileTemplate
	case TargetRegfile:
		tmpl = regfileTemplate
	default:
		return nil, fmt.Errorf("Unknown code generation target '%v'", g.Target)
	}
	pkg := g.Package
	if pkg == "" {
		pkg = "main"
	}
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		Package string
		Funcs   []function
	}{pkg, g.funcs})
	if err != nil {
		return nil, err
	}
	src, err := imports.Process("", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("Generated code is invalid: %v", err)
	}
	log.Debugf("Generated %v functions (%v byte) for target %v", len(g.funcs), len(src), g.Target)
	return src, nil
}

// Identifier converts a setting name like "led-on" or "timer_0 setup" to an exported
// Go identifier ("LedOn", "Timer0Setup").
func Identifier(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if b.Len() == 0 && unicode.IsDigit(r) {
			b.WriteString("Setting")
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

const header = `// Code generated by optinit-gen. DO NOT EDIT.

package {{.Package}}
`

var volatileTemplate = template.Must(template.New("volatile").Parse(header + `
import (
	"runtime/volatile"
	"unsafe"
)
{{range .Funcs}}
// {{.Name}} applies the setting "{{.Setting}}" with {{len .Writes}} read-modify-write cycle(s).
func {{.Name}}() {
{{- range .Writes}}
	(*volatile.Register{{.Width}})(unsafe.Pointer(uintptr({{.Address}}))).ReplaceBits({{.Value}}, {{.Mask}}, 0)
{{- end}}
}
{{end}}`))

var regfileTemplate = template.Must(template.New("regfile").Parse(header + `
import (
	"github.com/antongulenko/optinit/regplan"
)
{{range .Funcs}}
// {{.Name}}Plan is the plan of the setting "{{.Setting}}".
var {{.Name}}Plan = regplan.Plan{
{{- range .Writes}}
	{Address: {{.Address}}, Mask: {{.Mask}}, Value: {{.Value}}},
{{- end}}
}

// {{.Name}} applies {{.Name}}Plan with {{len .Writes}} read-modify-write cycle(s).
func {{.Name}}(regs regplan.RegisterFile) error {
	return regplan.Execute(regs, {{.Name}}Plan)
}
{{end}}`))
