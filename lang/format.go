package lang

import (
	"bytes"
	"strconv"
)

// Formatter renders expressions as source text.  Rendered text only appears
// in diagnostic messages.
type Formatter interface {
	Format(e *Expr) string
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(e *Expr) string

// Format implements Formatter.
func (fn FormatterFunc) Format(e *Expr) string { return fn(e) }

// DefaultFormatter renders expressions with FormatExpr.
var DefaultFormatter Formatter = FormatterFunc(FormatExpr)

// FormatExpr returns the source representation of e.
func FormatExpr(e *Expr) string {
	var buf bytes.Buffer
	writeExpr(&buf, e)
	return buf.String()
}

// FormatProgram returns the source representation of p, one top-level form
// per line.
func FormatProgram(p *Program) string {
	var buf bytes.Buffer
	for _, d := range p.Decls {
		writeExpr(&buf, d)
		buf.WriteString("\n")
	}
	if p.Main != nil {
		writeExpr(&buf, p.Main)
		buf.WriteString("\n")
	}
	return buf.String()
}

func writeExpr(buf *bytes.Buffer, e *Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case NumExp:
		buf.WriteString(formatNumber(e.Num))
	case StrExp:
		buf.WriteString(strconv.Quote(e.Str))
	case BoolExp:
		if e.Bool {
			buf.WriteString("#t")
		} else {
			buf.WriteString("#f")
		}
	case UnitExp:
		buf.WriteString("()")
	case VarExp:
		buf.WriteString(e.Name)
	case DefineExp:
		buf.WriteString("(define ")
		buf.WriteString(e.Name)
		writeArgs(buf, e.Args)
		buf.WriteString(")")
	case LambdaExp:
		buf.WriteString("(lambda ")
		writeNames(buf, e.Names)
		buf.WriteString(" ")
		writeExpr(buf, e.Body)
		buf.WriteString(")")
	case LetExp:
		buf.WriteString("(let (")
		for i, name := range e.Names {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString("(")
			buf.WriteString(name)
			if i < len(e.Args) {
				buf.WriteString(" ")
				writeExpr(buf, e.Args[i])
			}
			buf.WriteString(")")
		}
		buf.WriteString(") ")
		writeExpr(buf, e.Body)
		buf.WriteString(")")
	case CallExp:
		buf.WriteString("(")
		writeExpr(buf, e.Operator)
		writeArgs(buf, e.Args)
		buf.WriteString(")")
	default:
		buf.WriteString("(")
		buf.WriteString(e.Kind.Keyword())
		writeArgs(buf, e.Args)
		buf.WriteString(")")
	}
}

func writeArgs(buf *bytes.Buffer, args []*Expr) {
	for _, arg := range args {
		buf.WriteString(" ")
		writeExpr(buf, arg)
	}
}

func writeNames(buf *bytes.Buffer, names []string) {
	buf.WriteString("(")
	for i, name := range names {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(name)
	}
	buf.WriteString(")")
}
