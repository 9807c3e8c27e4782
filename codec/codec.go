// Package codec converts translation files to and from generic maps.
//
// Decoding yields the file's object as map[string]any without judging the
// leaves: the driver decides whether the values are categories or messages
// and reports non-string leaves with the file they came from. Encoding takes
// ordered pairs so the caller's message order reaches the file unchanged.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotObject means the top-level value of a file is not an object.
	ErrNotObject = errors.New("content is not an object")
	// ErrSectionsUnsupported means the format has no way to group messages
	// into categories.
	ErrSectionsUnsupported = errors.New("format does not support categories")
	// ErrUnknownFormat is returned by New for an unregistered format name.
	ErrUnknownFormat = errors.New("unknown format")
)

// Pair is one message and its translation.
type Pair struct {
	Key   string
	Value string
}

// Section is one category with its messages.
type Section struct {
	Name  string
	Pairs []Pair
}

// Codec encodes and decodes one file format.
type Codec interface {
	Name() string
	// Decode parses a whole file. Empty lists decode as empty objects.
	Decode(data []byte) (map[string]any, error)
	// EncodeMessages renders a file holding the messages of one category.
	EncodeMessages(pairs []Pair) ([]byte, error)
	// EncodeSections renders a file holding whole categories.
	EncodeSections(sections []Section) ([]byte, error)
}

// Patcher is implemented by codecs whose files hold more than messages,
// such as comments, flags or metadata. The patch methods rewrite old so it
// holds exactly the given messages; whatever old carries for a message whose
// translation is unchanged is kept as is.
type Patcher interface {
	PatchMessages(old []byte, pairs []Pair) ([]byte, error)
	PatchSections(old []byte, sections []Section) ([]byte, error)
}

// Options tune the encoders. Formats ignore what they cannot express.
type Options struct {
	PrettyPrint     bool
	Indent          string
	TrailingNewline bool
	// Header is written after "<?php" in PHP files.
	Header string
	// DocBlock is written right before the PHP return statement.
	DocBlock string
}

// DefaultOptions returns pretty printed output with a 4-space indent and a
// trailing newline.
func DefaultOptions() Options {
	return Options{
		PrettyPrint:     true,
		Indent:          "    ",
		TrailingNewline: true,
	}
}

// Format names.
const (
	JSON       = "json"
	YAML       = "yaml"
	TOML       = "toml"
	PHP        = "php"
	PO         = "po"
	Properties = "properties"
)

// Formats lists the registered format names.
var Formats = []string{JSON, YAML, TOML, PHP, PO, Properties}

var extensions = map[string]string{
	"json":       JSON,
	"yaml":       YAML,
	"yml":        YAML,
	"toml":       TOML,
	"php":        PHP,
	"po":         PO,
	"pot":        PO,
	"properties": Properties,
}

// ForExtension returns the format conventionally stored under ext.
func ForExtension(ext string) (string, bool) {
	name, ok := extensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return name, ok
}

// New returns the codec for the named format.
func New(name string, opts Options) (Codec, error) {
	if opts.Indent == "" {
		opts.Indent = "    "
	}
	switch name {
	case JSON:
		return &jsonCodec{opts: opts}, nil
	case YAML:
		return &yamlCodec{opts: opts}, nil
	case TOML:
		return &tomlCodec{opts: opts}, nil
	case PHP:
		return &phpCodec{opts: opts}, nil
	case PO:
		return &poCodec{opts: opts}, nil
	case Properties:
		return &propertiesCodec{opts: opts}, nil
	}
	return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownFormat, name, strings.Join(Formats, ", "))
}

// emptyList turns the empty lists some formats produce for empty maps into
// empty objects, recursively. Other values are returned unchanged.
func emptyList(v any) any {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return map[string]any{}
		}
	case map[string]any:
		for k, child := range t {
			t[k] = emptyList(child)
		}
	}
	return v
}

// object checks that a decoded top-level value is an object.
func object(v any) (map[string]any, error) {
	m, ok := emptyList(v).(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

// finish applies the trailing newline option.
func finish(out []byte, opts Options) []byte {
	out = []byte(strings.TrimRight(string(out), "\r\n"))
	if opts.TrailingNewline {
		out = append(out, '\n')
	}
	return out
}
