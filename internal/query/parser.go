package query

import (
	"fmt"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

// Node is an element of a parsed query
type Node interface {
	node()
}

// Clause is one search condition. Inherited is set for the short form
// "(Title = foo OR bar)" where the clause reuses the previous index and operator.
type Clause struct {
	SearchOption models.Option
	Operator     models.Option
	Term         string
	Inherited    bool
	Pos          int
}

// Group is a sequence of nodes joined by boolean operators.
// len(Joins) == len(Nodes)-1.
type Group struct {
	Nodes []Node
	Joins []models.Option
	Paren bool
	Pos   int
}

func (*Clause) node() {}
func (*Group) node()  {}

// Clauses returns every clause of the group in order, descending into sub-groups
func (g *Group) Clauses() []*Clause {
	var out []*Clause
	for _, n := range g.Nodes {
		switch v := n.(type) {
		case *Clause:
			out = append(out, v)
		case *Group:
			out = append(out, v.Clauses()...)
		}
	}
	return out
}

type parser struct {
	input  string
	tokens []Token
	pos    int
}

// parse validates the clause grammar:
//
//	query   := group EOF
//	group   := primary (BOOL primary)*
//	primary := "(" group ")" | clause
//	clause  := SEARCH_OPTION OPERATOR term | term   (short form, inside brackets only)
func parse(input string, tokens []Token) (*Group, error) {
	p := &parser{input: input, tokens: tokens}
	if p.match(TokEOF) {
		return nil, MalformedQueryError("empty query", 0)
	}
	g, err := p.parseGroup(false, 0)
	if err != nil {
		return nil, err
	}
	switch cur := p.current(); cur.Kind {
	case TokEOF:
		return g, nil
	case TokRParen:
		return nil, MalformedQueryError("unbalanced ')'", cur.Pos)
	default:
		return nil, MalformedQueryError(fmt.Sprintf("expected AND/OR before %s", cur), cur.Pos)
	}
}

func (p *parser) parseGroup(paren bool, pos int) (*Group, error) {
	g := &Group{Paren: paren, Pos: pos}
	var prev *Clause
	for {
		n, err := p.parsePrimary(paren, prev)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, n)
		if c, ok := n.(*Clause); ok {
			prev = c
		}

		if !p.match(TokBool) {
			return g, nil
		}
		g.Joins = append(g.Joins, p.current().Option)
		p.advance()
	}
}

func (p *parser) parsePrimary(inGroup bool, prev *Clause) (Node, error) {
	if p.match(TokLParen) {
		open := p.current().Pos
		p.advance()
		g, err := p.parseGroup(true, open)
		if err != nil {
			return nil, err
		}
		if !p.match(TokRParen) {
			return nil, MalformedQueryError("missing ')'", p.current().Pos)
		}
		p.advance()
		return g, nil
	}
	return p.parseClause(inGroup, prev)
}

func (p *parser) parseClause(inGroup bool, prev *Clause) (Node, error) {
	cur := p.current()
	switch {
	case cur.Kind == TokSearchOption && p.peek(1).Kind == TokOperator:
		op := p.peek(1)
		p.advance()
		p.advance()
		term, err := p.parseTerm(op)
		if err != nil {
			return nil, err
		}
		return &Clause{SearchOption: cur.Option, Operator: op.Option, Term: term, Pos: cur.Pos}, nil

	case cur.Kind == TokSearchOption:
		return nil, MalformedQueryError(fmt.Sprintf("expected operator after %s", cur), p.peek(1).Pos)

	case inGroup && prev != nil && isTermToken(cur.Kind):
		term, err := p.parseTerm(cur)
		if err != nil {
			return nil, err
		}
		return &Clause{
			SearchOption: prev.SearchOption,
			Operator:     prev.Operator,
			Term:         term,
			Inherited:    true,
			Pos:          cur.Pos,
		}, nil

	case cur.Kind == TokEOF:
		return nil, MalformedQueryError("unexpected end of query", cur.Pos)

	default:
		return nil, MalformedQueryError(fmt.Sprintf("expected search option, got %s", cur), cur.Pos)
	}
}

// parseTerm takes the term tokens up to the next boolean, bracket or clause
// start. The term is the input text they span, so it reaches the backend as typed.
func (p *parser) parseTerm(after Token) (string, error) {
	var first, last Token
	n := 0
	for isTermToken(p.current().Kind) {
		cur := p.current()
		if n == 0 && cur.Kind == TokOperator {
			break
		}
		if cur.Kind == TokSearchOption && p.peek(1).Kind == TokOperator {
			break
		}
		if n == 0 {
			first = cur
		}
		last = cur
		n++
		p.advance()
	}
	if n == 0 {
		return "", MalformedQueryError(fmt.Sprintf("expected term after %s", after), p.current().Pos)
	}
	return p.input[first.Pos : last.Pos+len(last.Value)], nil
}

func isTermToken(k TokenKind) bool {
	return k == TokWord || k == TokString || k == TokSearchOption || k == TokOperator
}

func (p *parser) current() Token {
	return p.peek(0)
}

func (p *parser) peek(offset int) Token {
	i := p.pos + offset
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) match(kind TokenKind) bool {
	return p.current().Kind == kind
}

func (p *parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}
