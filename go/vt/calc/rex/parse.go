/*
Copyright 2024 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rex

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"vitess.io/autocalc/go/vt/vterrors"
)

// Parse reads a single expression:
//
//	$3              column 3 of the input row
//	:name           bind variable
//	"abc" 12 1.5    literals, also TRUE, FALSE and NULL
//	UPPER($0)       call
//	ROW($0, 1)->1   field access
func Parse(input string) (expr Expr, err error) {
	defer handleError(&err)

	p := newParser(input)
	expr = p.expr()
	if p.tok != scanner.EOF {
		p.fail("unexpected %s after expression", p.describe())
	}
	return expr, nil
}

// ParseExprs parses every input, stopping at the first error.
func ParseExprs(inputs []string) ([]Expr, error) {
	exprs := make([]Expr, 0, len(inputs))
	for _, in := range inputs {
		e, err := Parse(in)
		if err != nil {
			return nil, vterrors.Wrapf(err, "parsing %q", in)
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// MustParse is like Parse but panics on error. Used in tests.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

func handleError(err *error) {
	if x := recover(); x != nil {
		perr, ok := x.(*vterrors.VitessError)
		if !ok {
			panic(x)
		}
		*err = perr
	}
}

type parser struct {
	s    scanner.Scanner
	tok  rune
	text string
	pos  int
}

func newParser(input string) *parser {
	p := &parser{}
	p.s.Init(strings.NewReader(input))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail("%s", msg)
	}
	p.next()
	return p
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
	p.pos = p.s.Position.Offset
}

func (p *parser) fail(format string, args ...any) {
	panic(vterrors.VT03001(p.pos, fmt.Sprintf(format, args...)))
}

func (p *parser) describe() string {
	switch p.tok {
	case scanner.EOF:
		return "end of input"
	case scanner.Ident, scanner.Int, scanner.Float, scanner.String:
		return fmt.Sprintf("%q", p.text)
	default:
		return fmt.Sprintf("'%c'", p.tok)
	}
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.fail("expected '%c', got %s", tok, p.describe())
	}
	p.next()
}

func (p *parser) expr() Expr {
	e := p.primary()
	for p.tok == '-' {
		p.next()
		p.expect('>')
		if p.tok != scanner.Int {
			p.fail("expected field index, got %s", p.describe())
		}
		e = &FieldAccess{Inner: e, Field: p.integer()}
		p.next()
	}
	return e
}

func (p *parser) primary() Expr {
	switch p.tok {
	case '$':
		p.next()
		if p.tok != scanner.Int {
			p.fail("expected column offset, got %s", p.describe())
		}
		offset := p.integer()
		p.next()
		return &Column{Offset: offset}
	case ':':
		p.next()
		if p.tok != scanner.Ident {
			p.fail("expected bind variable name, got %s", p.describe())
		}
		key := p.text
		p.next()
		return &BindVariable{Key: key}
	case scanner.String:
		s, err := strconv.Unquote(p.text)
		if err != nil {
			p.fail("invalid string %s", p.text)
		}
		p.next()
		return &Literal{Val: s}
	case '-':
		p.next()
		lit := p.number()
		switch v := lit.Val.(type) {
		case int64:
			lit.Val = -v
		case float64:
			lit.Val = -v
		}
		return lit
	case scanner.Int, scanner.Float:
		return p.number()
	case scanner.Ident:
		return p.ident()
	}
	p.fail("unexpected %s", p.describe())
	return nil
}

func (p *parser) number() *Literal {
	var lit *Literal
	switch p.tok {
	case scanner.Int:
		v, err := strconv.ParseInt(p.text, 0, 64)
		if err != nil {
			p.fail("invalid integer %s", p.text)
		}
		lit = &Literal{Val: v}
	case scanner.Float:
		v, err := strconv.ParseFloat(p.text, 64)
		if err != nil {
			p.fail("invalid number %s", p.text)
		}
		lit = &Literal{Val: v}
	default:
		p.fail("expected number, got %s", p.describe())
	}
	p.next()
	return lit
}

func (p *parser) integer() int {
	v, err := strconv.Atoi(p.text)
	if err != nil || v < 0 {
		p.fail("invalid offset %s", p.text)
	}
	return v
}

func (p *parser) ident() Expr {
	name := p.text
	p.next()
	if p.tok != '(' {
		switch strings.ToUpper(name) {
		case "TRUE":
			return &Literal{Val: true}
		case "FALSE":
			return &Literal{Val: false}
		case "NULL":
			return &Literal{Val: nil}
		}
		p.fail("expected '(' after %s", name)
	}
	p.next()

	call := NewCall(name)
	if p.tok == ')' {
		p.next()
		return call
	}
	for {
		call.Args = append(call.Args, p.expr())
		if p.tok == ')' {
			p.next()
			return call
		}
		p.expect(',')
	}
}
