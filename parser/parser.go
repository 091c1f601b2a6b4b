/*
Package parser reads funclang source text.

	expr     := comment | term | '(' <expr>* ')'
	term     := <string> | <number> | <bool> | <symbol>
	number   := /[+-]?[0-9]+/ <fraction>? <exponent>?
	fraction := '.' /[0-9]+/
	exponent := e /[+-]?[0-9]+/
	bool     := '#t' | '#f'
	string   := '"' <strcontent> '"'
	symbol   := letters, digits and _+-*\/=<>!&~%?
	comment  := ';' to end of line

A program is a sequence of define forms followed by at most one main
expression.
*/
package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/majwic/lisp-abstract-interpreter/lang"
	parsec "github.com/prataprc/goparsec"
)

const (
	nodeInvalid nodeType = iota
	nodeNumber
	nodeString
	nodeBool
	nodeSymbol
	nodeList
)

var nodeTypeStrings = []string{
	nodeInvalid: "INVALID",
	nodeNumber:  "NUMBER",
	nodeString:  "STRING",
	nodeBool:    "BOOL",
	nodeSymbol:  "SYMBOL",
	nodeList:    "LIST",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// node is a parsed s-expression.  Offset is the byte offset of the node in
// the source or -1 when goparsec does not report one.
type node struct {
	typ      nodeType
	text     string
	num      float64
	children []*node
	offset   int
	err      error
}

// SyntaxError describes malformed source text.
type SyntaxError struct {
	Source string
	Offset int
	Msg    string
}

func (err *SyntaxError) Error() string {
	if err.Offset < 0 {
		return fmt.Sprintf("%s: %s", err.Source, err.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", err.Source, err.Offset, err.Msg)
}

// Reader implements lang.Reader.
type Reader struct{}

var _ lang.Reader = (*Reader)(nil)

// NewReader returns a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read implements lang.Reader.
func (*Reader) Read(name string, r io.Reader) (*lang.Program, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ParseProgram(name, text)
}

// ParseProgram parses text as a program.  The name of the source is used in
// error messages.
func ParseProgram(name string, text []byte) (*lang.Program, error) {
	nodes, err := parseNodes(name, text)
	if err != nil {
		return nil, err
	}
	b := &builder{source: name}
	p := &lang.Program{}
	for _, n := range nodes {
		if p.Main != nil {
			return nil, b.errorf(n, "unexpected form after main expression")
		}
		if isDefine(n) {
			d, err := b.define(n)
			if err != nil {
				return nil, err
			}
			p.Decls = append(p.Decls, d)
			continue
		}
		e, err := b.expr(n)
		if err != nil {
			return nil, err
		}
		p.Main = e
	}
	return p, nil
}

// ParseExpr parses text containing exactly one expression.
func ParseExpr(name string, text []byte) (*lang.Expr, error) {
	nodes, err := parseNodes(name, text)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, &SyntaxError{Source: name, Offset: -1, Msg: fmt.Sprintf("expected one expression but found %d", len(nodes))}
	}
	b := &builder{source: name}
	return b.expr(nodes[0])
}

// Incomplete returns true if text ends inside an unterminated string or
// with unclosed parentheses, meaning more input could complete it.
func Incomplete(text []byte) bool {
	depth := 0
	inString := false
	inComment := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			}
		case inString:
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
		case c == ';':
			inComment = true
		case c == '"':
			inString = true
		case c == '(':
			depth++
		case c == ')':
			depth--
		}
	}
	return inString || depth > 0
}

func parseNodes(name string, text []byte) ([]*node, error) {
	text = bytes.TrimSpace(text)
	var nodes []*node
	s := parsec.NewScanner(text)
	parser := newParsecParser()
	root, s := parser(s)
	for root != nil {
		if n := getNode(root); n != nil {
			if err := firstError(n); err != nil {
				return nil, &SyntaxError{Source: name, Offset: n.offset, Msg: err.Error()}
			}
			nodes = append(nodes, n)
		}
		root, s = parser(s)
	}
	if !s.Endof() {
		msg := "unexpected input"
		if Incomplete(text[s.GetCursor():]) {
			msg = "unexpected end of input"
		}
		return nil, &SyntaxError{Source: name, Offset: s.GetCursor(), Msg: msg}
	}
	return nodes, nil
}

func newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	comment := parsec.Token(`;([^\n]*[^\s])?`, "COMMENT")
	decimal := parsec.Token(`[+-]?[0-9]+([.][0-9]+)?([eE][+-]?[0-9]+)?`, "DECIMAL")
	boolean := parsec.Token(`#[tf]`, "BOOL")
	symbol := parsec.Token(`(?:\pL|[_+\-*/\=<>!&~%?])(?:\pL|[0-9]|[_+\-*/\=<>!&~%?])*`, "SYMBOL")
	term := parsec.OrdChoice(termNode, // terminal token
		parsec.String(),
		decimal,
		boolean,
		symbol, // symbol comes last because it swallows anything
	)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(listNode, openP, exprList, closeP)
	expr = parsec.OrdChoice(nil, comment, term, sexpr)
	return expr
}

func termNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanParsecNodeList(nodes)
	switch term := nodes[0].(type) {
	case string:
		return &node{typ: nodeString, text: unquoteString(term), offset: -1}
	case *parsec.Terminal:
		switch term.Name {
		case "DECIMAL":
			n := &node{typ: nodeNumber, text: term.Value, offset: term.Position}
			f, err := strconv.ParseFloat(term.Value, 64)
			if err != nil {
				n.err = fmt.Errorf("bad number: %v", err)
			}
			n.num = f
			return n
		case "BOOL":
			return &node{typ: nodeBool, text: term.Value, offset: term.Position}
		case "SYMBOL":
			return &node{typ: nodeSymbol, text: term.Value, offset: term.Position}
		}
	}
	return nil
}

func listNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanParsecNodeList(nodes)
	n := &node{typ: nodeList, offset: -1}
	for _, c := range nodes {
		switch c := c.(type) {
		case *node:
			n.children = append(n.children, c)
		case *parsec.Terminal:
			// Parentheses and comments are dropped.
			if c.Name == "OPENP" && n.offset < 0 {
				n.offset = c.Position
			}
		}
	}
	return n
}

func cleanParsecNodeList(lis []parsec.ParsecNode) []parsec.ParsecNode {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case []parsec.ParsecNode:
			nodes = append(nodes, cleanParsecNodeList(node)...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func getNode(root parsec.ParsecNode) *node {
	nodes := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		return nil
	}
	n, ok := nodes[0].(*node)
	if !ok {
		// we can be here if there is only a comment
		return nil
	}
	return n
}

func firstError(n *node) error {
	if n.err != nil {
		return n.err
	}
	for _, c := range n.children {
		if err := firstError(c); err != nil {
			return err
		}
	}
	return nil
}

// unquoteString removes the quotes from a string token.  Escape sequences
// goparsec left in place are interpreted.
func unquoteString(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s[1 : len(s)-1]
}
