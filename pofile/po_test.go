package pofile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseWriteRoundTripAndHeaderFields(t *testing.T) {
	input := `msgid ""
msgstr ""
"Project-Id-Version: i18nsync 1.0\n"
"Language: ru\n"

#. extracted comment
#: app.go:12
msgctxt "app"
msgid "hello"
msgstr "privet"

#, fuzzy
#| msgid "old count"
msgid "count"
msgid_plural "counts"
msgstr[0] "odin"
msgstr[1] "mnogo"
`

	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := f.HeaderField("language"); got != "ru" {
		t.Fatalf("HeaderField(language) = %q, want ru", got)
	}
	if len(f.Entries) != 2 {
		t.Fatalf("entries len = %d, want 2", len(f.Entries))
	}

	hello := f.Entries[0]
	if !hello.HasCtxt || hello.MsgCtxt != "app" || hello.MsgStr != "privet" {
		t.Fatalf("hello entry = %#v", hello)
	}
	plural := f.Entries[1]
	if !plural.IsFuzzy() {
		t.Fatal("count entry should be fuzzy")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	round, err := Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Parse roundtrip error: %v", err)
	}
	if round.HeaderField("Language") != "ru" {
		t.Fatalf("roundtrip Language = %q, want ru", round.HeaderField("Language"))
	}
	if diff := cmp.Diff(map[int]string{0: "odin", 1: "mnogo"}, round.Entries[1].MsgStrPlural); diff != "" {
		t.Fatalf("roundtrip plural forms mismatch (-want +got):\n%s", diff)
	}
	if got := round.Entries[0].References; len(got) != 1 || got[0] != "app.go:12" {
		t.Fatalf("roundtrip references = %v", got)
	}
}

func TestEmptyContextIsNotHeader(t *testing.T) {
	input := `msgctxt "app"
msgid ""
msgstr "x"
`
	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if f.Header != nil {
		t.Fatalf("Header = %#v, want nil", f.Header)
	}
	if len(f.Entries) != 1 || f.Entries[0].MsgCtxt != "app" {
		t.Fatalf("entries = %#v", f.Entries)
	}
}

func TestMultilineValues(t *testing.T) {
	f := &File{
		Header: DefaultHeader(),
		Entries: []*Entry{
			{MsgID: "two\nlines", MsgStr: "dwa\n\"stroki\"\t"},
		},
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "msgid \"\"\n\"two\\n\"\n\"lines\"\n") {
		t.Fatalf("multi-line msgid not split:\n%s", out)
	}

	round, err := Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := round.HeaderField("content-type"); got != "text/plain; charset=UTF-8" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := round.Entries[0]; got.MsgID != "two\nlines" || got.MsgStr != "dwa\n\"stroki\"\t" {
		t.Fatalf("roundtrip entry = %#v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad plural index", "msgid \"a\"\nmsgstr[x] \"b\"\n"},
		{"orphan continuation", "\"dangling\"\n"},
		{"unknown keyword", "msgfoo \"a\"\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.input)); err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tc.input)
			}
		})
	}
}
