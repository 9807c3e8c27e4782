// Package pofile implements reading and writing of GNU gettext PO files.
//
// Only what catalog synchronization needs is modelled: comments are parsed
// so they do not break entries apart, msgctxt is kept because it carries
// the category, and plural forms are parsed so callers can reject them.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Entry is a single message of a PO file.
type Entry struct {
	// TranslatorComments are "# " lines.
	TranslatorComments []string
	// ExtractedComments are "#." lines.
	ExtractedComments []string
	// References are "#:" lines.
	References []string
	// Flags come from "#," lines.
	Flags []string

	MsgCtxt      string
	HasCtxt      bool
	MsgID        string
	MsgIDPlural  string
	MsgStr       string
	MsgStrPlural map[int]string

	// Obsolete marks "#~" entries.
	Obsolete bool
}

// IsFuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool {
	return slices.Contains(e.Flags, "fuzzy")
}

// IsHeader reports whether the entry is the metadata header.
func (e *Entry) IsHeader() bool {
	return e.MsgID == "" && !e.HasCtxt && !e.Obsolete
}

// File is a parsed PO file.
type File struct {
	// Header is the metadata entry (msgid ""), nil when the file has none.
	Header  *Entry
	Entries []*Entry
}

// HeaderField returns a header field value by case-insensitive name.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// DefaultHeader returns a header declaring UTF-8 content.
func DefaultHeader() *Entry {
	return &Entry{
		MsgStr: "MIME-Version: 1.0\n" +
			"Content-Type: text/plain; charset=UTF-8\n" +
			"Content-Transfer-Encoding: 8bit\n",
	}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse reads a PO file.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *Entry
	var lastField string // field a continuation line appends to
	lineNum := 0

	flush := func() {
		if current == nil {
			return
		}
		if current.IsHeader() && f.Header == nil {
			f.Header = current
		} else {
			f.Entries = append(f.Entries, current)
		}
		current = nil
		lastField = ""
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			current = &Entry{MsgStrPlural: make(map[int]string)}
		}

		if strings.HasPrefix(line, "#~") {
			current.Obsolete = true
			line = strings.TrimSpace(line[2:])
		}

		if strings.HasPrefix(line, "#") {
			parseComment(current, line)
			continue
		}

		keyword, value, _ := strings.Cut(line, " ")
		switch {
		case keyword == "msgctxt":
			current.MsgCtxt = unquote(value)
			current.HasCtxt = true
		case keyword == "msgid":
			current.MsgID = unquote(value)
		case keyword == "msgid_plural":
			current.MsgIDPlural = unquote(value)
		case keyword == "msgstr":
			current.MsgStr = unquote(value)
		case strings.HasPrefix(keyword, "msgstr["):
			var idx int
			if n, err := fmt.Sscanf(keyword, "msgstr[%d]", &idx); err != nil || n != 1 {
				return nil, fmt.Errorf("line %d: invalid msgstr index: %s", lineNum, line)
			}
			current.MsgStrPlural[idx] = unquote(value)
		case strings.HasPrefix(line, `"`):
			if err := appendContinuation(current, lastField, unquote(line)); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			continue
		default:
			return nil, fmt.Errorf("line %d: unexpected content: %s", lineNum, line)
		}
		lastField = keyword
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}
	return f, nil
}

func parseComment(e *Entry, line string) {
	switch {
	case strings.HasPrefix(line, "#:"):
		e.References = append(e.References, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		// previous msgid of a fuzzy entry; not needed
	default:
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(line[1:], " "))
	}
}

func appendContinuation(e *Entry, field, val string) error {
	switch {
	case field == "msgctxt":
		e.MsgCtxt += val
	case field == "msgid":
		e.MsgID += val
	case field == "msgid_plural":
		e.MsgIDPlural += val
	case field == "msgstr":
		e.MsgStr += val
	case strings.HasPrefix(field, "msgstr["):
		var idx int
		fmt.Sscanf(field, "msgstr[%d]", &idx)
		e.MsgStrPlural[idx] += val
	default:
		return fmt.Errorf("string continuation without a keyword")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Write writes the file, header first, entries separated by blank lines.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	first := true
	write := func(e *Entry) {
		if !first {
			bw.WriteByte('\n')
		}
		first = false
		writeEntry(bw, e)
	}

	if f.Header != nil {
		write(f.Header)
	}
	for _, e := range f.Entries {
		write(e)
	}
	return bw.Flush()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range e.TranslatorComments {
		fmt.Fprintf(w, "# %s\n", c)
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}

	if e.HasCtxt || e.MsgCtxt != "" {
		writeQuotedField(w, prefix+"msgctxt", e.MsgCtxt)
	}
	writeQuotedField(w, prefix+"msgid", e.MsgID)
	if e.MsgIDPlural != "" {
		writeQuotedField(w, prefix+"msgid_plural", e.MsgIDPlural)
	}

	if e.MsgIDPlural != "" && len(e.MsgStrPlural) > 0 {
		indices := make([]int, 0, len(e.MsgStrPlural))
		for idx := range e.MsgStrPlural {
			indices = append(indices, idx)
		}
		slices.Sort(indices)
		for _, idx := range indices {
			writeQuotedField(w, fmt.Sprintf("%smsgstr[%d]", prefix, idx), e.MsgStrPlural[idx])
		}
		return
	}
	writeQuotedField(w, prefix+"msgstr", e.MsgStr)
}

// writeQuotedField writes a field, splitting multi-line values after each
// newline the way msgmerge does.
func writeQuotedField(w *bufio.Writer, field, value string) {
	if !strings.Contains(value, "\n") || value == "\n" {
		fmt.Fprintf(w, "%s %s\n", field, quote(value))
		return
	}

	fmt.Fprintf(w, "%s \"\"\n", field)
	parts := strings.SplitAfter(value, "\n")
	for _, part := range parts {
		if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

// quote produces a PO-style quoted string.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// unquote removes PO-style quoting from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var result strings.Builder
	result.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			result.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			result.WriteByte('\n')
		case 't':
			result.WriteByte('\t')
		case 'r':
			result.WriteByte('\r')
		case '\\', '"':
			result.WriteByte(s[i])
		default:
			result.WriteByte('\\')
			result.WriteByte(s[i])
		}
	}
	return result.String()
}
