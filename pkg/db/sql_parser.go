package db

import (
	"strings"
	"unicode"
)

// sqlSplitter walks a migration file and cuts it at top-level semicolons.
// Quoted strings, comments and dollar-quoted bodies are never split.
type sqlSplitter struct {
	src        string
	pos        int
	current    strings.Builder
	statements []string

	singleQuote bool
	doubleQuote bool
	dollarTag   string
}

func splitSQLStatements(content string) []string {
	s := &sqlSplitter{src: content}

	for s.pos < len(s.src) {
		s.step()
	}

	s.flush()

	return s.statements
}

func (s *sqlSplitter) step() {
	rest := s.src[s.pos:]
	ch := rest[0]

	switch {
	case s.dollarTag != "":
		if strings.HasPrefix(rest, s.dollarTag) {
			s.emit(s.dollarTag)
			s.dollarTag = ""

			return
		}
	case s.singleQuote || s.doubleQuote:
		if (s.singleQuote && ch == '\'') || (s.doubleQuote && ch == '"') {
			s.singleQuote, s.doubleQuote = false, false
		}
	case strings.HasPrefix(rest, "--"):
		s.skipUntil("\n", false)
		return
	case strings.HasPrefix(rest, "/*"):
		s.skipUntil("*/", true)
		return
	case ch == '$':
		if tag := dollarTag(rest); tag != "" {
			s.dollarTag = tag
			s.emit(tag)

			return
		}
	case ch == '\'':
		s.singleQuote = true
	case ch == '"':
		s.doubleQuote = true
	case ch == ';':
		s.flush()
		s.pos++

		return
	}

	s.emit(rest[:1])
}

func (s *sqlSplitter) emit(text string) {
	s.current.WriteString(text)
	s.pos += len(text)
}

// skipUntil drops input up to end. The terminator itself is consumed only
// when consume is set, so a line comment keeps its newline.
func (s *sqlSplitter) skipUntil(end string, consume bool) {
	idx := strings.Index(s.src[s.pos:], end)
	if idx < 0 {
		s.pos = len(s.src)
		return
	}

	s.pos += idx
	if consume {
		s.pos += len(end)
	}
}

func (s *sqlSplitter) flush() {
	if stmt := strings.TrimSpace(s.current.String()); stmt != "" {
		s.statements = append(s.statements, stmt)
	}

	s.current.Reset()
}

// dollarTag returns "$$" or "$name$" when text starts with one.
func dollarTag(text string) string {
	for i := 1; i < len(text); i++ {
		if text[i] == '$' {
			return text[:i+1]
		}

		if ch := rune(text[i]); ch != '_' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			return ""
		}
	}

	return ""
}
