// Package scanner turns Lox source text into a flat token stream. It is a
// thin collaborator: the parser only ever sees the finite, EOF-terminated
// slice this package produces.
package scanner

import (
	"strconv"

	"github.com/sdcook/loxi/internal/diag"
	"github.com/sdcook/loxi/internal/token"
)

// Scanner walks a byte slice once, left to right, producing tokens.
type Scanner struct {
	src      []byte
	start    int
	pos      int
	line     int
	reporter diag.Reporter
}

// New creates a Scanner over src that reports lexical errors to reporter.
func New(src []byte, reporter diag.Reporter) *Scanner {
	return &Scanner{src: src, line: 1, reporter: reporter}
}

// Scan consumes the whole source and returns its tokens, always ending with
// a single EOF token.
func (s *Scanner) Scan() []token.Token {
	var toks []token.Token
	for !s.atEnd() {
		s.start = s.pos
		if tok, ok := s.scanOne(); ok {
			toks = append(toks, tok)
		}
	}
	toks = append(toks, token.Token{Kind: token.EOF, Line: s.line})
	return toks
}

func (s *Scanner) scanOne() (token.Token, bool) {
	c := s.advance()
	switch c {
	case ' ', '\t', '\r':
		return token.Token{}, false
	case '\n':
		s.line++
		return token.Token{}, false
	case '(':
		return s.simple(token.LeftParen), true
	case ')':
		return s.simple(token.RightParen), true
	case '{':
		return s.simple(token.LeftBrace), true
	case '}':
		return s.simple(token.RightBrace), true
	case ',':
		return s.simple(token.Comma), true
	case '.':
		return s.simple(token.Dot), true
	case '-':
		return s.simple(token.Minus), true
	case '+':
		return s.simple(token.Plus), true
	case ';':
		return s.simple(token.Semicolon), true
	case '*':
		return s.simple(token.Star), true
	case '/':
		if s.match('/') {
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
			return token.Token{}, false
		}
		return s.simple(token.Slash), true
	case '=':
		if s.match('=') {
			return s.lexemeTok(token.EqualEqual), true
		}
		return s.simple(token.Equal), true
	case '!':
		if s.match('=') {
			return s.lexemeTok(token.BangEqual), true
		}
		return s.simple(token.Bang), true
	case '<':
		if s.match('=') {
			return s.lexemeTok(token.LessEqual), true
		}
		return s.simple(token.Less), true
	case '>':
		if s.match('=') {
			return s.lexemeTok(token.GreaterEqual), true
		}
		return s.simple(token.Greater), true
	case '"':
		return s.stringLiteral()
	default:
		switch {
		case isDigit(c):
			return s.numberLiteral(), true
		case isAlpha(c):
			return s.identifier(), true
		default:
			s.reporter.Report(diag.NewStaticErrorf(s.line, "", "Unexpected character: %s", string(c)))
			return token.Token{}, false
		}
	}
}

func (s *Scanner) simple(k token.Kind) token.Token {
	return token.Token{Kind: k, Lexeme: string(s.src[s.start:s.pos]), Line: s.line}
}

func (s *Scanner) lexemeTok(k token.Kind) token.Token {
	return token.Token{Kind: k, Lexeme: string(s.src[s.start:s.pos]), Line: s.line}
}

func (s *Scanner) stringLiteral() (token.Token, bool) {
	startLine := s.line
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		s.reporter.Report(diag.NewStaticErrorf(startLine, "", "Unterminated string."))
		return token.Token{}, false
	}
	s.advance() // closing quote
	raw := string(s.src[s.start:s.pos])
	value := raw[1 : len(raw)-1]
	return token.Token{Kind: token.String, Lexeme: raw, Literal: value, Line: startLine}, true
}

func (s *Scanner) numberLiteral() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	lexeme := string(s.src[s.start:s.pos])
	f, _ := strconv.ParseFloat(lexeme, 64)
	literal := formatNumberLiteral(f)
	return token.Token{Kind: token.Number, Lexeme: lexeme, Literal: literal, Line: s.line}
}

// formatNumberLiteral renders the literal the same way `tokenize` and
// `print` do: plain decimal notation, shortest form that round-trips, with
// no trailing ".0" on whole values (42.0 formats as "42").
func formatNumberLiteral(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s *Scanner) identifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lexeme := string(s.src[s.start:s.pos])
	kind := token.Identifier
	if k, ok := token.Reserved[lexeme]; ok {
		kind = k
	}
	return token.Token{Kind: kind, Lexeme: lexeme, Line: s.line}
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekNext() byte {
	if s.pos+1 >= len(s.src) {
		return 0
	}
	return s.src[s.pos+1]
}

func (s *Scanner) match(expected byte) bool {
	if s.peek() != expected {
		return false
	}
	s.pos++
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
