package codec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlCodec reads and writes YAML mappings. Only string scalars count as
// strings: unquoted numbers and booleans keep their YAML type, so the driver
// rejects them instead of silently turning `yes` into "true".
type yamlCodec struct {
	opts Options
}

func (c *yamlCodec) Name() string { return YAML }

func (c *yamlCodec) Decode(data []byte) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	// An empty document holds no categories.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return map[string]any{}, nil
	}

	v, err := yamlValue(doc.Content[0])
	if err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return object(v)
}

func yamlValue(node *yaml.Node) (any, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			v, err := yamlValue(val)
			if err != nil {
				return nil, err
			}
			m[key.Value] = v
		}
		return m, nil
	case yaml.ScalarNode:
		if node.ShortTag() == "!!str" {
			return node.Value, nil
		}
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return v, nil
}

func (c *yamlCodec) EncodeMessages(pairs []Pair) ([]byte, error) {
	return c.encode(yamlPairs(pairs))
}

func (c *yamlCodec) EncodeSections(sections []Section) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range sections {
		root.Content = append(root.Content, yamlString(s.Name), yamlPairs(s.Pairs))
	}
	return c.encode(root)
}

func (c *yamlCodec) encode(root *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(len(c.opts.Indent))
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return finish(buf.Bytes(), c.opts), nil
}

func yamlPairs(pairs []Pair) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range pairs {
		node.Content = append(node.Content, yamlString(p.Key), yamlString(p.Value))
	}
	return node
}

// yamlString tags the scalar as a string so the encoder quotes values that
// would otherwise read back as numbers or booleans.
func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
