package codec

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// tomlCodec reads and writes TOML documents. Categories are tables:
//
//	["app/page"]
//	"Test message" = 'Тестовое сообщение'
//
// go-toml sorts map keys when marshalling, so documents are assembled line
// by line and the library only quotes each key and value.
type tomlCodec struct {
	opts Options
}

func (c *tomlCodec) Name() string { return TOML }

func (c *tomlCodec) Decode(data []byte) (map[string]any, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if v == nil {
		return map[string]any{}, nil
	}
	return object(v)
}

func (c *tomlCodec) EncodeMessages(pairs []Pair) ([]byte, error) {
	var b strings.Builder
	if err := writeTOMLPairs(&b, pairs); err != nil {
		return nil, err
	}
	return finish([]byte(b.String()), c.opts), nil
}

func (c *tomlCodec) EncodeSections(sections []Section) ([]byte, error) {
	var b strings.Builder
	for i, s := range sections {
		key, err := tomlKey(s.Name)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s]\n", key)
		if err := writeTOMLPairs(&b, s.Pairs); err != nil {
			return nil, err
		}
	}
	return finish([]byte(b.String()), c.opts), nil
}

func writeTOMLPairs(b *strings.Builder, pairs []Pair) error {
	for _, p := range pairs {
		line, err := toml.Marshal(map[string]string{p.Key: p.Value})
		if err != nil {
			return fmt.Errorf("encoding TOML key %q: %w", p.Key, err)
		}
		b.Write(line)
	}
	return nil
}

// tomlKey returns name quoted as a TOML key, as the library would write it.
func tomlKey(name string) (string, error) {
	line, err := toml.Marshal(map[string]string{name: ""})
	if err != nil {
		return "", fmt.Errorf("encoding TOML key %q: %w", name, err)
	}
	key := strings.TrimRight(string(line), "\n")
	for _, empty := range []string{` = ''`, ` = ""`} {
		if k, ok := strings.CutSuffix(key, empty); ok {
			return k, nil
		}
	}
	return "", fmt.Errorf("encoding TOML key %q: unexpected output %q", name, line)
}
