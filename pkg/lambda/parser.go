package lambda

import (
	"unicode"

	"github.com/samber/lo"
)

// Lambda is the glyph that introduces an abstraction.
const Lambda = 'λ'

// Parser reads the sugared syntax:
//
//	λxy.B   is λx.(λy.B)
//	ABC     is (AB)C
//	λx.AB   is λx.(AB)
//	"name"  refers to a definition
//
// Every variable is a single character. Positions in errors are rune
// offsets.
type Parser struct {
	input  []rune
	offset int
	bound  map[rune]int // binder -> depth it was introduced at
	free   map[rune]int // name -> free id
	shared map[rune]int
}

type span struct {
	src []rune
	pos int
}

func NewParser(input string) *Parser {
	return NewParserAt(input, 0)
}

// NewParserAt returns a parser whose error positions are shifted by offset,
// for input cut out of a larger text.
func NewParserAt(input string, offset int) *Parser {
	return &Parser{input: []rune(input), offset: offset}
}

func (p *Parser) Parse() (Term, error) {
	p.bound = make(map[rune]int)
	p.free = p.shared
	if p.free == nil {
		p.free = make(map[rune]int)
	}
	return p.parseTerm(p.input, 0, p.offset)
}

// Term ::= Var | Abs | Named | Spine
func (p *Parser) parseTerm(src []rune, depth, pos int) (Term, error) {
	switch {
	case len(src) == 1:
		return p.parseVar(src[0], depth, pos)
	case len(src) > 0 && src[0] == Lambda:
		return p.parseAbs(src, depth, pos)
	case isNamed(src):
		return &Named{Name: string(src[1 : len(src)-1])}, nil
	default:
		return p.parseSpine(src, depth, pos)
	}
}

func (p *Parser) parseVar(ch rune, depth, pos int) (Term, error) {
	if isReserved(ch) || unicode.IsSpace(ch) {
		return nil, illFormed(pos)
	}
	if at, ok := p.bound[ch]; ok {
		return &Bound{Depth: depth - at}, nil
	}
	id, ok := p.free[ch]
	if !ok {
		id = len(p.free)
		p.free[ch] = id
	}
	return &Free{ID: id}, nil
}

// parseAbs binds every character before the dot, one level each, parses the
// body once at the deepest level and wraps it outwards.
func (p *Parser) parseAbs(src []rune, depth, pos int) (Term, error) {
	var binders []rune
	defer func() {
		for _, b := range binders {
			delete(p.bound, b)
		}
	}()

	i := 1
	for ; i < len(src) && src[i] != '.'; i++ {
		ch := src[i]
		if unicode.IsSpace(ch) {
			continue
		}
		if isReserved(ch) {
			return nil, illFormed(pos + i)
		}
		if _, ok := p.bound[ch]; ok {
			return nil, doubleAbstraction(pos + i)
		}
		p.bound[ch] = depth
		binders = append(binders, ch)
		depth++
	}
	if i == len(src) {
		return nil, illFormed(pos + len(src))
	}
	if len(binders) == 0 {
		return nil, illFormed(pos + i)
	}

	body, err := p.parseTerm(src[i+1:], depth, pos+i+1)
	if err != nil {
		return nil, err
	}
	for range binders {
		body = &Abs{Body: body}
	}
	return body, nil
}

// parseSpine folds juxtaposed terms left-associatively. Element i of n sits
// under n-1 application edges when i == 0 and n-i otherwise; it is parsed at
// that depth so bound variables inside it count the edges correctly.
func (p *Parser) parseSpine(src []rune, depth, pos int) (Term, error) {
	parts, err := splitSpine(src, pos)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, illFormed(pos + len(src))
	}

	n := len(parts)
	terms := make([]Term, n)
	for i, part := range parts {
		sub := depth + n - i
		if i == 0 {
			sub = depth + n - 1
		}
		t, err := p.parseTerm(part.src, sub, part.pos)
		if err != nil {
			return nil, err
		}
		terms[i] = t
	}

	result := terms[0]
	for _, t := range terms[1:] {
		result = &App{Fun: result, Arg: t}
	}
	return result, nil
}

// splitSpine cuts src into the parenthesized groups, quoted names, bare
// characters and trailing abstraction it juxtaposes.
func splitSpine(src []rune, pos int) ([]span, error) {
	var parts []span
	depth, start := 0, 0
	quoted := false

	for i := 0; i < len(src); i++ {
		ch := src[i]

		if depth > 0 {
			switch {
			case ch == '"':
				quoted = !quoted
			case quoted:
			case ch == '(':
				depth++
			case ch == ')':
				depth--
				if depth == 0 {
					parts = append(parts, span{src: src[start:i], pos: pos + start})
				}
			}
			continue
		}

		switch {
		case ch == '(':
			depth, start = 1, i+1
		case ch == ')':
			return nil, illFormed(pos + i)
		case ch == Lambda:
			// An unparenthesized abstraction extends to the end of the group.
			return append(parts, span{src: src[i:], pos: pos + i}), nil
		case ch == '"':
			end := lo.IndexOf(src[i+1:], '"')
			if end < 0 {
				return nil, illFormed(pos + len(src))
			}
			end += i + 1
			parts = append(parts, span{src: src[i : end+1], pos: pos + i})
			i = end
		case unicode.IsSpace(ch):
		default:
			parts = append(parts, span{src: src[i : i+1], pos: pos + i})
		}
	}

	if depth > 0 {
		return nil, illFormed(pos + len(src))
	}
	return parts, nil
}

func isNamed(src []rune) bool {
	return len(src) >= 2 && src[0] == '"' && src[len(src)-1] == '"' && lo.Count(src, '"') == 2
}

func isReserved(ch rune) bool {
	switch ch {
	case Lambda, '.', '(', ')', '"':
		return true
	}
	return false
}

// Parse parses a lambda term from a string.
func Parse(input string) (Term, error) {
	return NewParser(input).Parse()
}

// ParseWith parses input numbering free variables through free, which gains
// an entry for every name it did not hold. Terms parsed with the same map
// agree on the ids of their free variables.
func ParseWith(input string, free map[rune]int) (Term, error) {
	p := NewParser(input)
	p.shared = free
	return p.Parse()
}

// ParseAt parses input that starts at offset within an enclosing text.
func ParseAt(input string, offset int) (Term, error) {
	return NewParserAt(input, offset).Parse()
}
