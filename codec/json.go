package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// jsonCodec reads and writes JSON objects. Output keeps unicode and slashes
// unescaped:
//
//	{
//	    "app/page": {
//	        "Test message": "Тестовое сообщение"
//	    }
//	}
type jsonCodec struct {
	opts Options
}

func (c *jsonCodec) Name() string { return JSON }

func (c *jsonCodec) Decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing JSON: unexpected data after top-level value")
	}
	return object(v)
}

func (c *jsonCodec) EncodeMessages(pairs []Pair) ([]byte, error) {
	var b strings.Builder
	c.writePairs(&b, pairs, 1)
	return finish([]byte(b.String()), c.opts), nil
}

func (c *jsonCodec) EncodeSections(sections []Section) ([]byte, error) {
	var b strings.Builder
	if len(sections) == 0 {
		b.WriteString("{}")
		return finish([]byte(b.String()), c.opts), nil
	}

	b.WriteByte('{')
	for i, s := range sections {
		if i > 0 {
			b.WriteByte(',')
		}
		c.newline(&b, 1)
		b.WriteString(jsonString(s.Name))
		b.WriteString(c.colon())
		c.writePairs(&b, s.Pairs, 2)
	}
	c.newline(&b, 0)
	b.WriteByte('}')
	return finish([]byte(b.String()), c.opts), nil
}

// writePairs writes one object whose members sit at the given depth.
func (c *jsonCodec) writePairs(b *strings.Builder, pairs []Pair, depth int) {
	if len(pairs) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		c.newline(b, depth)
		b.WriteString(jsonString(p.Key))
		b.WriteString(c.colon())
		b.WriteString(jsonString(p.Value))
	}
	c.newline(b, depth-1)
	b.WriteByte('}')
}

func (c *jsonCodec) newline(b *strings.Builder, depth int) {
	if !c.opts.PrettyPrint {
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(c.opts.Indent, depth))
}

func (c *jsonCodec) colon() string {
	if c.opts.PrettyPrint {
		return ": "
	}
	return ":"
}

// jsonString quotes s without HTML or unicode escaping.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// strings always encode
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
