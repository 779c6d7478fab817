// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"
)

const headerBanner = "// Use this file to store all private information"

// RenderOptions controls optional output decorations shared by all encoders.
type RenderOptions struct {
	// Comments appends each key's registry description.
	Comments bool
}

// ParseHeader reads `#define SECRET_* <literal>` lines from a C header.
//
// String literals follow C escape rules and adjacent literals are
// concatenated. Integer literals are decimal. Comments, blank lines and
// preprocessor lines that do not define a SECRET_ name are skipped.
func ParseHeader(r io.Reader) (Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	p := &headerParser{src: bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), line: 1}
	return p.parse()
}

type headerParser struct {
	src  []byte
	pos  int
	line int
}

func (p *headerParser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %w: %s", p.line, ErrSyntax, fmt.Sprintf(format, args...))
}

func (p *headerParser) eof() bool { return p.pos >= len(p.src) }

func (p *headerParser) peek() byte { return p.peekAt(0) }

func (p *headerParser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *headerParser) hasPrefix(s string) bool {
	return bytes.HasPrefix(p.src[p.pos:], []byte(s))
}

func (p *headerParser) parse() (Set, error) {
	reg := mustRegistry()
	var set Set
	seen := make(map[string]int)

	for {
		if err := p.skipInline(); err != nil {
			return nil, err
		}
		if p.eof() {
			return set, nil
		}

		switch {
		case p.peek() == '\n':
			p.pos++
			p.line++
		case p.hasPrefix("//"):
			p.skipLine()
		case p.peek() == '#':
			line := p.line
			e, ok, err := p.directive()
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if _, known := reg.Lookup(e.Key); !known {
				return nil, fmt.Errorf("line %d: %w: %s", line, ErrUnknownKey, e.Key)
			}
			if first, dup := seen[e.Key]; dup {
				return nil, fmt.Errorf("line %d: %w: %s (first defined on line %d)", line, ErrDuplicateKey, e.Key, first)
			}
			seen[e.Key] = line
			set = append(set, e)
		default:
			return nil, p.errorf("unexpected %q", p.peek())
		}
	}
}

// skipInline skips horizontal whitespace, block comments and line
// continuations. It stops at a newline.
func (p *headerParser) skipInline() error {
	for !p.eof() {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case c == '\\' && p.peekAt(1) == '\n':
			p.pos += 2
			p.line++
		case c == '\\' && p.peekAt(1) == '\r' && p.peekAt(2) == '\n':
			p.pos += 3
			p.line++
		case c == '/' && p.peekAt(1) == '*':
			start := p.line
			p.pos += 2
			for {
				if p.eof() {
					p.line = start
					return p.errorf("unterminated block comment")
				}
				if p.hasPrefix("*/") {
					p.pos += 2
					break
				}
				if p.peek() == '\n' {
					p.line++
				}
				p.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

// skipLine consumes the rest of the current line including the newline.
func (p *headerParser) skipLine() {
	for !p.eof() {
		c := p.src[p.pos]
		p.pos++
		if c == '\n' {
			p.line++
			return
		}
	}
}

// skipDirective consumes a preprocessor line, following backslash continuations.
func (p *headerParser) skipDirective() {
	var prev byte
	for !p.eof() {
		c := p.src[p.pos]
		p.pos++
		if c == '\n' {
			p.line++
			if prev != '\\' {
				return
			}
		}
		if c != '\r' {
			prev = c
		}
	}
}

func (p *headerParser) atLineEnd() bool {
	return p.eof() || p.peek() == '\n' || p.hasPrefix("//")
}

func (p *headerParser) ident() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.peek(), p.pos == start) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// directive parses one preprocessor line. ok is false for lines that do not
// define a SECRET_ name.
func (p *headerParser) directive() (e Entry, ok bool, err error) {
	p.pos++ // '#'
	if err := p.skipInline(); err != nil {
		return Entry{}, false, err
	}
	if p.ident() != "define" {
		p.skipDirective()
		return Entry{}, false, nil
	}
	if err := p.skipInline(); err != nil {
		return Entry{}, false, err
	}
	name := p.ident()
	if name == "" {
		return Entry{}, false, p.errorf("#define without a name")
	}
	if !strings.HasPrefix(name, KeyPrefix) {
		p.skipDirective()
		return Entry{}, false, nil
	}
	if p.peek() == '(' {
		return Entry{}, false, p.errorf("%s is a function-like macro", name)
	}
	if err := p.skipInline(); err != nil {
		return Entry{}, false, err
	}
	if p.atLineEnd() {
		return Entry{}, false, p.errorf("%s has no value", name)
	}

	v, err := p.literal(name)
	if err != nil {
		return Entry{}, false, err
	}

	if err := p.skipInline(); err != nil {
		return Entry{}, false, err
	}
	switch {
	case p.eof():
	case p.peek() == '\n' || p.hasPrefix("//"):
		p.skipLine()
	default:
		return Entry{}, false, p.errorf("unexpected %q after value of %s", p.peek(), name)
	}
	return Entry{Key: name, Value: v}, true, nil
}

func (p *headerParser) literal(name string) (Value, error) {
	switch c := p.peek(); {
	case c == '"':
		var b strings.Builder
		for p.peek() == '"' {
			if err := p.stringLiteral(&b); err != nil {
				return Value{}, err
			}
			if err := p.skipInline(); err != nil {
				return Value{}, err
			}
		}
		return StringValue(b.String()), nil
	case c == '-' || isDigit(c):
		return p.intLiteral()
	default:
		return Value{}, p.errorf("unsupported value for %s", name)
	}
}

func (p *headerParser) intLiteral() (Value, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	digits := p.pos
	for isDigit(p.peek()) {
		p.pos++
	}
	if p.pos == digits {
		return Value{}, p.errorf("malformed integer literal")
	}
	if isIdentByte(p.peek(), false) {
		end := p.pos
		for isIdentByte(p.peekAt(end-p.pos), false) {
			end++
		}
		return Value{}, p.errorf("malformed integer literal %q", p.src[start:end])
	}
	text := string(p.src[start:p.pos])
	if p.pos-digits > 1 && p.src[digits] == '0' {
		return Value{}, p.errorf("octal integer literal %q", text)
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("line %d: %w: %s", p.line, ErrOutOfRange, text)
	}
	return IntValue(n), nil
}

func (p *headerParser) stringLiteral(b *strings.Builder) error {
	p.pos++ // opening quote
	for {
		if p.eof() || p.peek() == '\n' {
			return p.errorf("unterminated string literal")
		}
		c := p.src[p.pos]
		p.pos++
		switch c {
		case '"':
			return nil
		case '\\':
			if err := p.escape(b); err != nil {
				return err
			}
		default:
			b.WriteByte(c)
		}
	}
}

var simpleEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'a': '\a', 'b': '\b', 'f': '\f', 'v': '\v',
	'\\': '\\', '\'': '\'', '"': '"', '?': '?',
}

func (p *headerParser) escape(b *strings.Builder) error {
	if p.eof() {
		return p.errorf("unterminated string literal")
	}
	c := p.src[p.pos]
	p.pos++

	if r, ok := simpleEscapes[c]; ok {
		b.WriteByte(r)
		return nil
	}

	switch {
	case c == '\n':
		p.line++
	case c == 'x':
		start := p.pos
		for isHexDigit(p.peek()) {
			p.pos++
		}
		if p.pos == start {
			return p.errorf(`\x used with no following hex digits`)
		}
		n, err := strconv.ParseUint(string(p.src[start:p.pos]), 16, 8)
		if err != nil {
			return p.errorf("hex escape sequence out of range")
		}
		b.WriteByte(byte(n))
	case c >= '0' && c <= '7':
		start := p.pos - 1
		for p.pos-start < 3 && p.peek() >= '0' && p.peek() <= '7' {
			p.pos++
		}
		n, _ := strconv.ParseUint(string(p.src[start:p.pos]), 8, 16)
		if n > 0xff {
			return p.errorf("octal escape sequence out of range")
		}
		b.WriteByte(byte(n))
	case c == 'u' || c == 'U':
		size := 4
		if c == 'U' {
			size = 8
		}
		if p.pos+size > len(p.src) {
			return p.errorf("incomplete universal character name")
		}
		n, err := strconv.ParseUint(string(p.src[p.pos:p.pos+size]), 16, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return p.errorf("invalid universal character name \\%c%s", c, p.src[p.pos:p.pos+size])
		}
		p.pos += size
		b.WriteRune(rune(n))
	default:
		return p.errorf("unknown escape sequence \\%c", c)
	}
	return nil
}

// RenderHeader writes set as a C header, one #define per entry in set order.
func RenderHeader(w io.Writer, set Set, opts RenderOptions) error {
	reg := mustRegistry()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "%s\n\n", headerBanner); err != nil {
		return err
	}
	for _, e := range set {
		if !isIdentifier(e.Key) {
			return fmt.Errorf("%w: %q is not a valid define name", ErrSyntax, e.Key)
		}
		line := "#define " + e.Key + " " + headerLiteral(e.Value)
		if opts.Comments {
			if info, ok := reg.Lookup(e.Key); ok && info.Description != "" {
				line += "\t// " + info.Description
			}
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// headerLiteral quotes v as a C literal. Control bytes and invalid UTF-8 are
// written as three-digit octal escapes so that any byte string survives.
func headerLiteral(v Value) string {
	if v.Kind() == KindInt {
		return strconv.FormatInt(v.Int(), 10)
	}

	s := v.Text()
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
			i++
		case c == '?' && i > 0 && s[i-1] == '?':
			// break up trigraph sequences
			b.WriteString(`\?`)
			i++
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
			i++
		case c < utf8.RuneSelf:
			b.WriteByte(c)
			i++
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				fmt.Fprintf(&b, "\\%03o", c)
				i++
				continue
			}
			b.WriteString(s[i : i+size])
			i += size
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentByte(c byte, first bool) bool {
	if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	return !first && isDigit(c)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i], i == 0) {
			return false
		}
	}
	return true
}
