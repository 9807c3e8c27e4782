// Package layout maps translation files to catalog coordinates and back.
//
// Three storage layouts are supported:
//
//	flat       <base>/ru-RU.json               one file per language, top-level keys are categories
//	directory  <base>/ru-RU/*.json             several files per language, each holding whole categories
//	subdir     <base>/ru-RU/app/page.json      one file per category, holding the messages only
//
// Paths handled by this package are always slash-separated, whatever the
// host OS is; callers convert with filepath.ToSlash / filepath.FromSlash at
// the filesystem boundary. Prefix and suffix checks are byte-exact so any
// UTF-8 language or category name survives unchanged.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutsideBase means a discovered file is not below the base directory.
	ErrOutsideBase = errors.New("file outside of base path")
	// ErrNestedDirectory means a file sits deeper than the layout allows.
	ErrNestedDirectory = errors.New("nested subdirectories unsupported")
)

// Error is a path-layout error for a single file.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Location is the catalog coordinate a file holds. Category is empty for
// layouts that keep whole categories inside the file.
type Location struct {
	Language string
	Category string
}

// Strategy is implemented by every layout.
type Strategy interface {
	// Locate decomposes a file path. It returns false for file names that
	// carry no language or category (such as a bare ".json"), and an error
	// when the file violates the layout.
	Locate(file string) (Location, bool, error)
	// Path composes the storage path for a location.
	Path(loc Location) string
	// Depth is how many directory levels below the base files live:
	// 1 for files directly in the base, 2 for files in language
	// directories, 0 for any depth.
	Depth() int
}

// Base normalizes a directory to slash form with exactly one trailing slash.
func Base(dir string) string {
	dir = strings.ReplaceAll(dir, `\`, "/")
	return strings.TrimRight(dir, "/") + "/"
}

// relative returns file relative to base, or an *Error when file lies
// outside of it.
func relative(base, file string) (string, error) {
	path := strings.ReplaceAll(file, `\`, "/")
	if !strings.HasPrefix(path, base) {
		return "", &Error{Path: file, Err: ErrOutsideBase}
	}
	return path[len(base):], nil
}

// trimExt strips ".ext" from sub. It reports false when the extension was
// all that was left of the last path segment ("x/.json", ".json").
func trimExt(sub, ext string) (string, bool) {
	dotExt := "." + ext
	if !strings.HasSuffix(sub, dotExt) {
		return sub, true
	}
	sub = sub[:len(sub)-len(dotExt)]
	if sub == "" || strings.HasSuffix(sub, "/") {
		return "", false
	}
	return sub, true
}
