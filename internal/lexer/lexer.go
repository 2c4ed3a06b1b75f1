// Package lexer splits single SansScript lines into classified tokens.
// Lexing has no cross-line state and never fails: characters outside the
// grammar become Unknown tokens.
package lexer

import (
	"unicode/utf16"
	"unicode/utf8"

	"sansls/internal/language"
)

// TabWidth is the number of indentation columns a tab counts for.
const TabWidth = 4

var doubleOperators = map[string]struct{}{
	"==": {}, "!=": {}, "<=": {}, ">=": {},
}

var singleKinds = map[rune]Kind{
	'+': Operator, '-': Operator, '*': Operator, '/': Operator,
	'%': Operator, '=': Operator, '<': Operator, '>': Operator,
	'(': ParenOpen, ')': ParenClose,
	'[': BracketOpen, ']': BracketClose,
	',': Comma, ':': Colon,
}

func isDigit(r rune) bool {
	return ('0' <= r && r <= '9') || (0x0966 <= r && r <= 0x096F)
}

func isIdentStart(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		(0x0900 <= r && r <= 0x097F)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// IsIdentChar reports whether r may appear inside an identifier.
func IsIdentChar(r rune) bool {
	return isIdentPart(r)
}

// scanner walks a line by byte offset while tracking the UTF-16 column.
type scanner struct {
	src    string
	line   int
	pos    int
	col    int
	tokens []Token
}

func (s *scanner) done() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() rune {
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r
}

func (s *scanner) advance() {
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	if n := utf16.RuneLen(r); n > 0 {
		s.col += n
	} else {
		s.col++
	}
}

func (s *scanner) advanceWhile(pred func(rune) bool) {
	for !s.done() && pred(s.peek()) {
		s.advance()
	}
}

func (s *scanner) emit(kind Kind, startPos, startCol int) {
	s.tokens = append(s.tokens, Token{
		Kind:  kind,
		Text:  s.src[startPos:s.pos],
		Line:  s.line,
		Start: startCol,
		End:   s.col,
	})
}

// Tokenize converts one line into tokens covering it entirely, in order,
// without gaps or overlaps.
func Tokenize(line string, lineNumber int) []Token {
	s := &scanner{src: line, line: lineNumber}

	for !s.done() {
		startPos, startCol := s.pos, s.col
		r := s.peek()

		switch {
		case r == '#':
			s.advanceWhile(func(rune) bool { return true })
			s.emit(Comment, startPos, startCol)

		case r == ' ' || r == '\t':
			s.advanceWhile(func(r rune) bool { return r == ' ' || r == '\t' })
			s.emit(Whitespace, startPos, startCol)

		case r == '"':
			s.advance()
			s.advanceWhile(func(r rune) bool { return r != '"' })
			if !s.done() {
				s.advance()
			}
			s.emit(String, startPos, startCol)

		case isDigit(r):
			s.advanceWhile(isDigit)
			s.emit(Number, startPos, startCol)

		case isIdentStart(r):
			s.advance()
			s.advanceWhile(isIdentPart)
			s.emit(wordKind(s.src[startPos:s.pos]), startPos, startCol)

		case s.pos+2 <= len(s.src) && isDoubleOperator(s.src[s.pos:s.pos+2]):
			s.advance()
			s.advance()
			s.emit(Operator, startPos, startCol)

		default:
			kind, ok := singleKinds[r]
			if !ok {
				kind = Unknown
			}
			s.advance()
			s.emit(kind, startPos, startCol)
		}
	}

	return s.tokens
}

func isDoubleOperator(s string) bool {
	_, ok := doubleOperators[s]
	return ok
}

func wordKind(word string) Kind {
	switch language.Classify(word) {
	case language.Keyword:
		return Keyword
	case language.Builtin:
		return Builtin
	case language.Constant:
		return Constant
	case language.LogicalOp:
		return LogicalOp
	}
	return Identifier
}

// MeasureIndent counts leading indentation, a tab counting TabWidth
// columns and a space one.
func MeasureIndent(line string) int {
	indent := 0
	for _, r := range line {
		switch r {
		case ' ':
			indent++
		case '\t':
			indent += TabWidth
		default:
			return indent
		}
	}
	return indent
}

// Width returns the length of s in UTF-16 code units.
func Width(s string) int {
	w := 0
	for _, r := range s {
		if n := utf16.RuneLen(r); n > 0 {
			w += n
		} else {
			w++
		}
	}
	return w
}
