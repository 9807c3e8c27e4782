package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrCategoryNotObject means a category holds something other than a
	// message map.
	ErrCategoryNotObject = errors.New("category does not contain an object with translations")
	// ErrNotString means a translation is not a string.
	ErrNotString = errors.New("translation is not a string")
	// ErrMissingPrefix means a stored category lacks the configured prefix.
	ErrMissingPrefix = errors.New("category name does not start with the prefix")
)

// SourceDataError reports malformed data in a fragment file. Category and
// Message are set when the problem is that specific.
type SourceDataError struct {
	File     string
	Category string
	Message  string
	Err      error
}

func (e *SourceDataError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: category %q, message %q: %v", e.File, e.Category, e.Message, e.Err)
	case e.Category != "":
		return fmt.Sprintf("%s: category %q: %v", e.File, e.Category, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *SourceDataError) Unwrap() error {
	return e.Err
}
