package codec

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/minios-linux/i18nsync/pofile"
)

// ErrPluralUnsupported means a PO entry uses msgid_plural, which has no
// place in a flat message map.
var ErrPluralUnsupported = errors.New("plural entries are not supported")

// poCodec maps gettext PO files onto catalogs. The msgctxt of an entry is
// its category; entries without a context are plain messages. Fuzzy
// translations are not trusted and decode as untranslated.
type poCodec struct {
	opts Options
}

func (c *poCodec) Name() string { return PO }

func (c *poCodec) Decode(data []byte) (map[string]any, error) {
	f, err := pofile.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing PO: %w", err)
	}

	out := make(map[string]any)
	for _, e := range f.Entries {
		if e.Obsolete {
			continue
		}
		if e.MsgIDPlural != "" {
			return nil, fmt.Errorf("msgid %q: %w", e.MsgID, ErrPluralUnsupported)
		}
		translation := e.MsgStr
		if e.IsFuzzy() {
			translation = ""
		}

		if !e.HasCtxt {
			if _, isSection := out[e.MsgID].(map[string]any); isSection {
				return nil, fmt.Errorf("msgid %q clashes with context of the same name", e.MsgID)
			}
			out[e.MsgID] = translation
			continue
		}
		section, ok := out[e.MsgCtxt].(map[string]any)
		if !ok {
			if _, clash := out[e.MsgCtxt]; clash {
				return nil, fmt.Errorf("context %q clashes with msgid of the same name", e.MsgCtxt)
			}
			section = make(map[string]any)
			out[e.MsgCtxt] = section
		}
		section[e.MsgID] = translation
	}
	return out, nil
}

func (c *poCodec) EncodeMessages(pairs []Pair) ([]byte, error) {
	f := &pofile.File{Header: pofile.DefaultHeader()}
	for _, p := range pairs {
		f.Entries = append(f.Entries, &pofile.Entry{MsgID: p.Key, MsgStr: p.Value})
	}
	return c.write(f)
}

func (c *poCodec) EncodeSections(sections []Section) ([]byte, error) {
	f := &pofile.File{Header: pofile.DefaultHeader()}
	for _, s := range sections {
		for _, p := range s.Pairs {
			f.Entries = append(f.Entries, &pofile.Entry{
				MsgCtxt: s.Name,
				HasCtxt: true,
				MsgID:   p.Key,
				MsgStr:  p.Value,
			})
		}
	}
	return c.write(f)
}

func (c *poCodec) PatchMessages(old []byte, pairs []Pair) ([]byte, error) {
	return c.patch(old, []Section{{Pairs: pairs}}, false)
}

func (c *poCodec) PatchSections(old []byte, sections []Section) ([]byte, error) {
	return c.patch(old, sections, true)
}

type poKey struct {
	ctxt    string
	hasCtxt bool
	msgid   string
}

// patch updates the entries of old in place. An entry whose translation
// changes loses its fuzzy flag; entries for messages that are gone are
// dropped, new messages are appended, and the header, comments and
// obsolete entries stay.
func (c *poCodec) patch(old []byte, sections []Section, withCtxt bool) ([]byte, error) {
	f, err := pofile.Parse(bytes.NewReader(old))
	if err != nil {
		return nil, fmt.Errorf("parsing PO: %w", err)
	}

	want := make(map[poKey]string)
	var order []poKey
	for _, s := range sections {
		for _, p := range s.Pairs {
			k := poKey{ctxt: s.Name, hasCtxt: withCtxt, msgid: p.Key}
			if _, dup := want[k]; !dup {
				order = append(order, k)
			}
			want[k] = p.Value
		}
	}

	seen := make(map[poKey]bool, len(want))
	entries := make([]*pofile.Entry, 0, len(f.Entries)+len(want))
	for _, e := range f.Entries {
		if e.Obsolete {
			entries = append(entries, e)
			continue
		}
		k := poKey{ctxt: e.MsgCtxt, hasCtxt: e.HasCtxt, msgid: e.MsgID}
		value, ok := want[k]
		if !ok || seen[k] {
			continue
		}
		seen[k] = true

		current := e.MsgStr
		if e.IsFuzzy() {
			current = ""
		}
		if value != current {
			e.MsgStr = value
			e.Flags = slices.DeleteFunc(e.Flags, func(flag string) bool { return flag == "fuzzy" })
		}
		entries = append(entries, e)
	}
	for _, k := range order {
		if seen[k] {
			continue
		}
		entries = append(entries, &pofile.Entry{
			MsgCtxt: k.ctxt,
			HasCtxt: k.hasCtxt,
			MsgID:   k.msgid,
			MsgStr:  want[k],
		})
	}

	f.Entries = entries
	if f.Header == nil {
		f.Header = pofile.DefaultHeader()
	}
	return c.write(f)
}

func (c *poCodec) write(f *pofile.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encoding PO: %w", err)
	}
	return finish(buf.Bytes(), c.opts), nil
}
