// Package catalog implements the in-memory translation catalog shared by
// every layout and codec:
//
//	language -> category -> source message -> translation
//
// An empty translation means the message is known but not translated yet,
// which is different from the message being absent.
//
// Catalog values are built fresh for each export or import run. The helpers
// in this package never alias their inputs: Clone copies every level and the
// merge engine works on clones.
package catalog

import (
	"maps"
	"slices"
)

// MessageMap maps a source message to its translation.
type MessageMap map[string]string

// CategoryMap maps a category name (without storage prefix) to its messages.
type CategoryMap map[string]MessageMap

// Catalog maps a language code to its categories.
type Catalog map[string]CategoryMap

// ---------------------------------------------------------------------------
// MessageMap
// ---------------------------------------------------------------------------

// Clone returns an independent copy of m. A nil map clones to an empty one.
func (m MessageMap) Clone() MessageMap {
	out := make(MessageMap, len(m))
	maps.Copy(out, m)
	return out
}

// Equal reports whether m and o hold the same messages and translations.
func (m MessageMap) Equal(o MessageMap) bool {
	return maps.Equal(m, o)
}

// Messages returns the source messages in byte order.
func (m MessageMap) Messages() []string {
	return slices.Sorted(maps.Keys(m))
}

// Translated returns the number of messages with a non-empty translation.
func (m MessageMap) Translated() int {
	n := 0
	for _, v := range m {
		if v != "" {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// CategoryMap
// ---------------------------------------------------------------------------

// Clone returns a deep copy of c.
func (c CategoryMap) Clone() CategoryMap {
	out := make(CategoryMap, len(c))
	for name, messages := range c {
		out[name] = messages.Clone()
	}
	return out
}

// Equal reports whether c and o hold the same categories and messages.
func (c CategoryMap) Equal(o CategoryMap) bool {
	return maps.EqualFunc(c, o, MessageMap.Equal)
}

// Categories returns the category names in byte order.
func (c CategoryMap) Categories() []string {
	return slices.Sorted(maps.Keys(c))
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// Clone returns a deep copy of c.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for lang, categories := range c {
		out[lang] = categories.Clone()
	}
	return out
}

// Equal reports whether c and o are identical at every level.
func (c Catalog) Equal(o Catalog) bool {
	return maps.EqualFunc(c, o, CategoryMap.Equal)
}

// Languages returns the language codes in byte order.
func (c Catalog) Languages() []string {
	return slices.Sorted(maps.Keys(c))
}

// Set stores a single translation, creating intermediate levels as needed.
func (c Catalog) Set(language, category, message, translation string) {
	categories, ok := c[language]
	if !ok {
		categories = make(CategoryMap)
		c[language] = categories
	}
	messages, ok := categories[category]
	if !ok {
		messages = make(MessageMap)
		categories[category] = messages
	}
	messages[message] = translation
}

// Lookup returns the translation stored at the given coordinate and whether
// the message exists there at all.
func (c Catalog) Lookup(language, category, message string) (string, bool) {
	translation, ok := c[language][category][message]
	return translation, ok
}
