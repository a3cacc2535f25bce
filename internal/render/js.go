package render

import (
	"fmt"
	"strings"
)

// jsValue is the subset of JavaScript literals the config module needs.
type jsValue interface {
	write(b *strings.Builder, depth int)
}

type (
	jsString string
	jsBool   bool
	jsArray  []jsValue
	jsObject []jsField
	jsField  struct {
		key   string
		value jsValue
	}
	jsCall struct {
		callee string
		args   []jsValue
	}
)

const indentUnit = "  "

func indent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString(indentUnit)
	}
}

func (s jsString) write(b *strings.Builder, _ int) { b.WriteString(quoteJS(string(s))) }

func (v jsBool) write(b *strings.Builder, _ int) {
	if v {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
}

func (a jsArray) write(b *strings.Builder, depth int) {
	if len(a) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[\n")
	for _, v := range a {
		indent(b, depth+1)
		v.write(b, depth+1)
		b.WriteString(",\n")
	}
	indent(b, depth)
	b.WriteString("]")
}

func (o jsObject) write(b *strings.Builder, depth int) {
	if len(o) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	for _, f := range o {
		indent(b, depth+1)
		b.WriteString(jsKey(f.key))
		b.WriteString(": ")
		f.value.write(b, depth+1)
		b.WriteString(",\n")
	}
	indent(b, depth)
	b.WriteString("}")
}

func (c jsCall) write(b *strings.Builder, depth int) {
	b.WriteString(c.callee)
	b.WriteString("(")
	for i, a := range c.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.write(b, depth)
	}
	b.WriteString(")")
}

// jsKey leaves identifier keys bare and quotes everything else.
func jsKey(k string) string {
	if k == "" {
		return "''"
	}
	for i, r := range k {
		ok := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ok {
			return quoteJS(k)
		}
	}
	return k
}

// quoteJS returns s as a single-quoted JavaScript string literal.
func quoteJS(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}
