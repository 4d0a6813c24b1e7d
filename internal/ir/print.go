package ir

import (
	"fmt"
	"io"
	"strings"

	"graft/internal/types"
)

// Printer dumps a declaration tree to text for inspection.
type Printer struct {
	w      io.Writer
	file   *File
	indent int
}

// NewPrinter creates a printer bound to one file.
func NewPrinter(w io.Writer, file *File) *Printer {
	return &Printer{w: w, file: file}
}

// Dump writes every file of the library to the writer.
func Dump(w io.Writer, lib *Library) error {
	for _, f := range lib.Files() {
		if err := NewPrinter(w, f).PrintFile(); err != nil {
			return err
		}
	}
	return nil
}

// PrintFile prints one file's declaration tree.
func (p *Printer) PrintFile() error {
	p.printf("file %s\n", p.file.Path)
	if p.file.Errored() {
		p.printf("  status: errored\n")
	}
	for _, ns := range p.file.NamespaceImports {
		p.printf("  import namespace %s\n", ns)
	}
	p.indent++
	for _, id := range p.file.Roots {
		p.printDecl(id)
	}
	if len(p.file.Loose) > 0 {
		p.printf("loose:\n")
		p.indent++
		for _, id := range p.file.Loose {
			p.printDecl(id)
		}
		p.indent--
	}
	p.indent--
	return nil
}

func (p *Printer) printDecl(id DeclID) {
	d := p.file.Decls.Get(id)
	if d == nil {
		p.printf("<missing decl %d>\n", id)
		return
	}
	switch d.Kind {
	case DeclRecord:
		label := "record"
		if d.Synthesized {
			label = "container"
		}
		p.printf("%s %s (size=%d align=%d)\n", label, p.declName(d), d.Size, d.Alignment)
		p.indent++
		for _, m := range d.Members {
			p.printDecl(m)
		}
		p.indent--
	case DeclEnum:
		form := "named"
		if d.AsConstants {
			form = "constants"
		}
		p.printf("enum %s : %s (%s)\n", p.declName(d), p.typeString(d.Underlying), form)
		p.indent++
		for _, c := range d.Constants {
			p.printf("%s = %d\n", c.Name, c.Value)
		}
		p.indent--
	case DeclFunction:
		var params []string
		for _, param := range d.Params {
			params = append(params, fmt.Sprintf("%s %s", param.Name, p.typeString(param.Type)))
		}
		p.printf("function %s(%s) -> %s%s%s\n",
			p.declName(d), strings.Join(params, ", "), p.typeString(d.Result),
			p.importSuffix(d), p.virtualSuffix(d))
	case DeclStaticField:
		p.printf("static-field %s: %s%s\n", p.declName(d), p.typeString(d.Type), p.importSuffix(d))
	case DeclField:
		bits := ""
		if d.IsBitField {
			bits = fmt.Sprintf(" bits[%d:%d]", d.BitFieldStart, d.BitFieldWidth)
		}
		p.printf("field %s: %s @%d (%s)%s\n", d.Name, p.typeString(d.Type), d.Offset, d.FieldKind, bits)
	case DeclVTable:
		p.printf("vtable (%d slots)\n", len(d.Slots))
		p.indent++
		for _, s := range d.Slots {
			if s.Target.IsValid() {
				p.printf("%s -> %s\n", s.Kind, p.file.QualifiedName(s.Target))
			} else {
				p.printf("%s offset=%d\n", s.Kind, s.Offset)
			}
		}
		p.indent--
	case DeclCustom:
		if d.Caps.Describe != nil {
			p.printf("custom %s\n", d.Caps.Describe(d.Payload))
		} else {
			p.printf("custom %s\n", d.Name)
		}
	default:
		p.printf("%s %s\n", d.Kind, d.Name)
	}
}

func (p *Printer) declName(d *Decl) string {
	if d.Mangled != "" && d.Mangled != d.Name {
		return fmt.Sprintf("%s [%s]", d.Name, d.Mangled)
	}
	return d.Name
}

func (p *Printer) importSuffix(d *Decl) string {
	if d.ImportModule == "" {
		return ""
	}
	name := d.ImportName
	if name == "" {
		name = d.Mangled
	}
	return fmt.Sprintf(" from %s!%s", d.ImportModule, name)
}

func (p *Printer) virtualSuffix(d *Decl) string {
	if d.IsVirtual {
		return " virtual"
	}
	return ""
}

func (p *Printer) typeString(id types.TypeID) string {
	return TypeString(p.file, id)
}

// TypeString renders a type reference against a file's interner.
func TypeString(f *File, id types.TypeID) string {
	in := f.Types
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case types.KindVoid:
		return "void"
	case types.KindBuiltin:
		return tt.Builtin.String()
	case types.KindPointer:
		return "*" + TypeString(f, tt.Elem)
	case types.KindFunctionPointer:
		info, ok := in.FnInfo(id)
		if !ok {
			return "<bad fn>"
		}
		var params []string
		for _, pt := range info.Params {
			params = append(params, TypeString(f, pt))
		}
		return fmt.Sprintf("fn %s(%s) -> %s", info.Conv, strings.Join(params, ", "), TypeString(f, info.Result))
	case types.KindDeclRef:
		usr, _ := in.DeclRefTarget(id)
		if did, ok := f.DeclByCursor(usr); ok {
			return f.QualifiedName(did)
		}
		return fmt.Sprintf("ref(%s)", usr)
	case types.KindOpaque:
		label, _ := in.OpaqueLabel(id)
		return fmt.Sprintf("opaque(%s)", label)
	default:
		return tt.Kind.String()
	}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s"+format, append([]any{strings.Repeat("  ", p.indent)}, args...)...)
}
