// Package merge implements the catalog merge engine.
//
// Three algorithms share the package:
//   - Catalogs / Categories combine independently edited fragments and fail
//     with a *ConflictError when two different non-empty translations meet.
//   - Update pushes incoming translations into an existing map without ever
//     adding new messages (import).
//   - Fill keeps previously approved translations where fresh data is blank.
//
// Every function returns a new structure; inputs are never modified.
package merge

import (
	"fmt"

	"github.com/minios-linux/i18nsync/catalog"
)

// ConflictError reports two different non-empty translations found for the
// same catalog coordinate.
type ConflictError struct {
	Language string
	Category string
	Message  string
	// Existing is the translation accumulated so far.
	Existing string
	// Incoming is the translation that disagreed with it.
	Incoming string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting translations in %q language for (%q, %q): %q vs %q",
		e.Language, e.Category, e.Message, e.Existing, e.Incoming)
}

// Translations returns the competing values as [existing, incoming].
func (e *ConflictError) Translations() [2]string {
	return [2]string{e.Existing, e.Incoming}
}

// Catalogs merges src into a copy of dst.
//
// For every incoming message: an absent or empty existing translation takes
// the incoming one; an equal or empty incoming translation keeps the existing
// one; anything else is a conflict. Coordinates are visited in byte order so
// the reported conflict does not depend on map iteration.
func Catalogs(dst, src catalog.Catalog) (catalog.Catalog, error) {
	result := dst.Clone()
	for _, lang := range src.Languages() {
		merged, err := Categories(lang, result[lang], src[lang])
		if err != nil {
			return nil, err
		}
		result[lang] = merged
	}
	return result, nil
}

// Categories merges the categories of one language. language is only used
// to identify the coordinate in a conflict.
func Categories(language string, dst, src catalog.CategoryMap) (catalog.CategoryMap, error) {
	result := dst.Clone()
	for _, category := range src.Categories() {
		existing, ok := result[category]
		if !ok {
			result[category] = src[category].Clone()
			continue
		}
		if err := messagesInto(existing, src[category], language, category); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// messagesInto merges src into dst in place. dst must be owned by the caller.
func messagesInto(dst, src catalog.MessageMap, language, category string) error {
	for _, message := range src.Messages() {
		incoming := src[message]
		existing, ok := dst[message]
		if !ok || existing == "" {
			dst[message] = incoming
			continue
		}
		if incoming != "" && incoming != existing {
			return &ConflictError{
				Language: language,
				Category: category,
				Message:  message,
				Existing: existing,
				Incoming: incoming,
			}
		}
	}
	return nil
}
