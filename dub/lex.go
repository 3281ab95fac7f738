package dub

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	typeUnknown tokenType = iota
	typeInt
	typeFloat
	typeIdentifier
	typeString
	typeEOF
)

type token struct {
	typ  tokenType
	pos  int
	text string
}

// lex splits a command line into words, numbers and quoted strings. Tokens are
// separated by blanks; anything else between them is an error.
func lex(input string) ([]token, error) {
	s := scanner{src: input}
	var tokens []token
	for {
		s.skipBlanks()
		if s.done() {
			return append(tokens, token{typ: typeEOF, pos: s.off}), nil
		}
		start := s.off
		typ, err := s.scan()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token{typ: typ, pos: start, text: input[start:s.off]})
	}
}

type scanner struct {
	src string
	off int
}

func (s *scanner) done() bool { return s.off >= len(s.src) }

func (s *scanner) peek() rune {
	if s.done() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.off:])
	return r
}

func (s *scanner) advance() rune {
	r, w := utf8.DecodeRuneInString(s.src[s.off:])
	s.off += w
	return r
}

func isBlank(r rune) bool { return r == ' ' || r == '\t' }

func (s *scanner) skipBlanks() {
	for !s.done() && isBlank(s.peek()) {
		s.advance()
	}
}

// atBoundary reports whether the current token may end here.
func (s *scanner) atBoundary() bool {
	return s.done() || isBlank(s.peek())
}

func (s *scanner) unexpected() error {
	return fmt.Errorf("unexpected character %#U at position %d", s.peek(), s.off)
}

func (s *scanner) scan() (tokenType, error) {
	switch r := s.peek(); {
	case unicode.IsLetter(r):
		return s.scanWord()
	case r == '"':
		return s.scanString()
	case r == '-' || r == '.' || isDigit(r):
		return s.scanNumber()
	default:
		return typeUnknown, s.unexpected()
	}
}

// scanWord reads an identifier. Names may contain digits, '_', '-' and '.' after
// the first letter.
func (s *scanner) scanWord() (tokenType, error) {
	for !s.atBoundary() {
		r := s.peek()
		if !unicode.IsLetter(r) && !isDigit(r) && r != '_' && r != '-' && r != '.' {
			return typeUnknown, s.unexpected()
		}
		s.advance()
	}
	return typeIdentifier, nil
}

func (s *scanner) scanString() (tokenType, error) {
	start := s.off
	s.advance()
	for !s.done() {
		if s.advance() == '"' {
			if !s.atBoundary() {
				return typeUnknown, s.unexpected()
			}
			return typeString, nil
		}
	}
	return typeUnknown, fmt.Errorf("unterminated string starting at position %d", start)
}

// scanNumber reads [-]digits[.digits]. Either side of the point may be empty, but
// not both.
func (s *scanner) scanNumber() (tokenType, error) {
	if s.peek() == '-' {
		s.advance()
	}
	n := s.skipDigits()
	typ := typeInt
	if s.peek() == '.' {
		s.advance()
		typ = typeFloat
		n += s.skipDigits()
	}
	if n == 0 || !s.atBoundary() {
		return typeUnknown, s.unexpected()
	}
	return typ, nil
}

func (s *scanner) skipDigits() int {
	n := 0
	for !s.done() && isDigit(s.peek()) {
		s.advance()
		n++
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
