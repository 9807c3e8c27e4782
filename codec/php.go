package codec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// phpCodec reads and writes PHP message files of the kind Yii's
// PhpMessageSource loads:
//
//	<?php
//	return [
//	    'Test message' => 'Тестовое сообщение',
//	];
//
// Decoding understands the literal subset such files use: short and long
// array syntax, single and double quoted strings, numbers, booleans, null,
// and comments. Anything else, including string interpolation, is an error.
type phpCodec struct {
	opts Options
}

func (c *phpCodec) Name() string { return PHP }

func (c *phpCodec) Decode(data []byte) (map[string]any, error) {
	p := &phpParser{src: string(data)}
	v, err := p.file()
	if err != nil {
		return nil, fmt.Errorf("parsing PHP: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("file must return an array: %w", ErrNotObject)
	}
	return m, nil
}

func (c *phpCodec) EncodeMessages(pairs []Pair) ([]byte, error) {
	var b strings.Builder
	c.writePairs(&b, pairs, 1)
	return c.wrap(b.String()), nil
}

func (c *phpCodec) EncodeSections(sections []Section) ([]byte, error) {
	var b strings.Builder
	if len(sections) == 0 {
		return c.wrap("[]"), nil
	}
	b.WriteString("[\n")
	for _, s := range sections {
		b.WriteString(c.opts.Indent)
		b.WriteString(phpString(s.Name))
		b.WriteString(" => ")
		c.writePairs(&b, s.Pairs, 2)
		b.WriteString(",\n")
	}
	b.WriteString("]")
	return c.wrap(b.String()), nil
}

func (c *phpCodec) writePairs(b *strings.Builder, pairs []Pair, depth int) {
	if len(pairs) == 0 {
		b.WriteString("[]")
		return
	}
	indent := strings.Repeat(c.opts.Indent, depth)
	b.WriteString("[\n")
	for _, p := range pairs {
		fmt.Fprintf(b, "%s%s => %s,\n", indent, phpString(p.Key), phpString(p.Value))
	}
	b.WriteString(strings.Repeat(c.opts.Indent, depth-1))
	b.WriteString("]")
}

func (c *phpCodec) wrap(array string) []byte {
	out := "<?php\n" + c.opts.Header + c.opts.DocBlock + "\nreturn " + array + ";"
	if c.opts.TrailingNewline {
		out += "\n"
	}
	return []byte(out)
}

// phpString returns s as a single quoted PHP string.
func phpString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

type phpParser struct {
	src string
	pos int
}

func (p *phpParser) errorf(format string, args ...any) error {
	line := 1 + strings.Count(p.src[:p.pos], "\n")
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

// file parses `<?php return <value>;` with optional comments around it.
func (p *phpParser) file() (any, error) {
	p.src = strings.TrimPrefix(p.src, "\ufeff")
	p.pos = len(p.src) - len(strings.TrimLeft(p.src, " \t\r\n"))
	if !strings.HasPrefix(p.src[p.pos:], "<?php") {
		return nil, p.errorf("missing <?php open tag")
	}
	p.pos += len("<?php")

	p.skip()
	if !p.keyword("return") {
		return nil, p.errorf("expected return statement")
	}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skip()
	if !p.consume(";") {
		return nil, p.errorf("expected ;")
	}
	p.skip()
	p.consume("?>")
	if strings.TrimSpace(p.src[p.pos:]) != "" {
		return nil, p.errorf("unexpected content after return statement")
	}
	return v, nil
}

// skip moves past whitespace and comments.
func (p *phpParser) skip() {
	for p.pos < len(p.src) {
		rest := p.src[p.pos:]
		switch {
		case rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\r' || rest[0] == '\n':
			p.pos++
		case strings.HasPrefix(rest, "//") || rest[0] == '#':
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 1
			}
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 4
			}
		default:
			return
		}
	}
}

func (p *phpParser) consume(tok string) bool {
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

// keyword consumes a case-insensitive identifier that is not followed by
// another identifier character.
func (p *phpParser) keyword(word string) bool {
	end := p.pos + len(word)
	if end > len(p.src) || !strings.EqualFold(p.src[p.pos:end], word) {
		return false
	}
	if end < len(p.src) && isIdentByte(p.src[end]) {
		return false
	}
	p.pos = end
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 0x80 || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (p *phpParser) value() (any, error) {
	p.skip()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of file")
	}
	switch c := p.src[p.pos]; {
	case c == '[':
		p.pos++
		return p.array("]")
	case c == '\'':
		return p.singleQuoted()
	case c == '"':
		return p.doubleQuoted()
	case c == '-' || c == '+' || c == '.' || ('0' <= c && c <= '9'):
		return p.number()
	}

	switch {
	case p.keyword("array"):
		p.skip()
		if !p.consume("(") {
			return nil, p.errorf("expected ( after array")
		}
		return p.array(")")
	case p.keyword("true"):
		return true, nil
	case p.keyword("false"):
		return false, nil
	case p.keyword("null"):
		return nil, nil
	}
	return nil, p.errorf("unsupported expression %q", p.peekWord())
}

func (p *phpParser) peekWord() string {
	end := p.pos
	for end < len(p.src) && isIdentByte(p.src[end]) {
		end++
	}
	if end == p.pos && end < len(p.src) {
		_, size := utf8.DecodeRuneInString(p.src[end:])
		end += size
	}
	return p.src[p.pos:end]
}

// array parses elements up to the closing delimiter. Elements without a key
// get the next integer index, as PHP assigns them.
func (p *phpParser) array(closing string) (any, error) {
	m := make(map[string]any)
	next := int64(0)
	for {
		p.skip()
		if p.consume(closing) {
			return m, nil
		}

		first, err := p.value()
		if err != nil {
			return nil, err
		}
		p.skip()

		var key string
		var val any
		if p.consume("=>") {
			if key, err = p.arrayKey(first); err != nil {
				return nil, err
			}
			if val, err = p.value(); err != nil {
				return nil, err
			}
			if i, err := strconv.ParseInt(key, 10, 64); err == nil && i >= next {
				next = i + 1
			}
		} else {
			key, val = strconv.FormatInt(next, 10), first
			next++
		}
		m[key] = val

		p.skip()
		if p.consume(",") {
			continue
		}
		if p.consume(closing) {
			return m, nil
		}
		return nil, p.errorf("expected , or %s", closing)
	}
}

func (p *phpParser) arrayKey(v any) (string, error) {
	switch k := v.(type) {
	case string:
		return k, nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	case bool:
		if k {
			return "1", nil
		}
		return "0", nil
	case nil:
		return "", nil
	}
	return "", p.errorf("unsupported array key %v", v)
}

func (p *phpParser) singleQuoted() (string, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\'':
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == '\\' || p.src[p.pos+1] == '\''):
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *phpParser) doubleQuoted() (string, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '$':
			if p.pos+1 < len(p.src) && (isIdentByte(p.src[p.pos+1]) || p.src[p.pos+1] == '{') {
				return "", p.errorf("string interpolation is not supported")
			}
			b.WriteByte(c)
			p.pos++
		case '{':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '$' {
				return "", p.errorf("string interpolation is not supported")
			}
			b.WriteByte(c)
			p.pos++
		case '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

var phpEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'v': '\v', 'e': 0x1b, 'f': '\f',
	'\\': '\\', '$': '$', '"': '"',
}

// escape handles a backslash sequence inside a double quoted string.
// Unknown sequences are kept verbatim, as PHP does.
func (p *phpParser) escape(b *strings.Builder) error {
	if p.pos+1 >= len(p.src) {
		b.WriteByte('\\')
		p.pos++
		return nil
	}
	c := p.src[p.pos+1]
	if r, ok := phpEscapes[c]; ok {
		b.WriteByte(r)
		p.pos += 2
		return nil
	}

	switch {
	case '0' <= c && c <= '7':
		end := p.pos + 1
		for end < len(p.src) && end < p.pos+4 && '0' <= p.src[end] && p.src[end] <= '7' {
			end++
		}
		n, _ := strconv.ParseUint(p.src[p.pos+1:end], 8, 16)
		b.WriteByte(byte(n))
		p.pos = end
		return nil
	case c == 'x':
		end := p.pos + 2
		for end < len(p.src) && end < p.pos+4 && isHex(p.src[end]) {
			end++
		}
		if end > p.pos+2 {
			n, _ := strconv.ParseUint(p.src[p.pos+2:end], 16, 8)
			b.WriteByte(byte(n))
			p.pos = end
			return nil
		}
	case c == 'u' && p.pos+2 < len(p.src) && p.src[p.pos+2] == '{':
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return p.errorf("unterminated unicode escape")
		}
		n, err := strconv.ParseUint(p.src[p.pos+3:p.pos+end], 16, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return p.errorf("invalid unicode escape %s", p.src[p.pos:p.pos+end+1])
		}
		b.WriteRune(rune(n))
		p.pos += end + 1
		return nil
	}

	b.WriteByte('\\')
	b.WriteByte(c)
	p.pos += 2
	return nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// number parses an integer or float literal.
func (p *phpParser) number() (any, error) {
	start := p.pos
	if p.src[p.pos] == '-' || p.src[p.pos] == '+' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if isIdentByte(c) || c == '.' || ((c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}
	lit := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	if i, err := strconv.ParseInt(lit, 0, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return f, nil
	}
	return nil, p.errorf("invalid number %q", p.src[start:p.pos])
}
