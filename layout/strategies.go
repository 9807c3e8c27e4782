package layout

import "strings"

// ---------------------------------------------------------------------------
// Flat: <base>/<lang>.<ext>
// ---------------------------------------------------------------------------

// Flat stores one file per language directly under the base directory.
type Flat struct {
	base string
	ext  string
}

// NewFlat returns the flat layout rooted at base for files with extension
// ext (without the dot).
func NewFlat(base, ext string) *Flat {
	return &Flat{base: Base(base), ext: ext}
}

// Locate returns the language of file. Category is always empty.
func (s *Flat) Locate(file string) (Location, bool, error) {
	sub, err := relative(s.base, file)
	if err != nil {
		return Location{}, false, err
	}
	if strings.Contains(sub, "/") {
		return Location{}, false, &Error{Path: file, Err: ErrNestedDirectory}
	}
	lang, ok := trimExt(sub, s.ext)
	if !ok {
		return Location{}, false, nil
	}
	return Location{Language: lang}, true, nil
}

// Path returns the language file. The category is ignored.
func (s *Flat) Path(loc Location) string {
	return s.base + loc.Language + "." + s.ext
}

// Depth implements Strategy.
func (s *Flat) Depth() int { return 1 }

// ---------------------------------------------------------------------------
// Directory: <base>/<lang>/<name>.<ext>
// ---------------------------------------------------------------------------

// Directory stores any number of files per language directory, each of
// them holding whole categories.
type Directory struct {
	base string
	ext  string
}

// NewDirectory returns the directory layout rooted at base.
func NewDirectory(base, ext string) *Directory {
	return &Directory{base: Base(base), ext: ext}
}

// Locate returns the language directory file belongs to. Files directly in
// the base belong to no language and are skipped.
func (s *Directory) Locate(file string) (Location, bool, error) {
	sub, err := relative(s.base, file)
	if err != nil {
		return Location{}, false, err
	}
	sub, ok := trimExt(sub, s.ext)
	if !ok {
		return Location{}, false, nil
	}
	lang, _, found := strings.Cut(sub, "/")
	if !found || lang == "" {
		return Location{}, false, nil
	}
	return Location{Language: lang}, true, nil
}

// Path returns the language directory, with a trailing slash.
func (s *Directory) Path(loc Location) string {
	return s.base + loc.Language + "/"
}

// Depth implements Strategy.
func (s *Directory) Depth() int { return 2 }

// ---------------------------------------------------------------------------
// Subdir: <base>/<lang>/<category>.<ext>
// ---------------------------------------------------------------------------

// Subdir stores one file per category; category separators become
// directory separators.
type Subdir struct {
	base string
	ext  string
}

// NewSubdir returns the category-as-subdirectory layout rooted at base.
func NewSubdir(base, ext string) *Subdir {
	return &Subdir{base: Base(base), ext: ext}
}

// Locate splits file into language and category:
//
//	<base>/ru-RU/app/page.json => ("ru-RU", "app/page")
func (s *Subdir) Locate(file string) (Location, bool, error) {
	sub, err := relative(s.base, file)
	if err != nil {
		return Location{}, false, err
	}
	sub, ok := trimExt(sub, s.ext)
	if !ok {
		return Location{}, false, nil
	}
	lang, category, _ := strings.Cut(sub, "/")
	if lang == "" || category == "" {
		return Location{}, false, nil
	}
	return Location{Language: lang, Category: category}, true, nil
}

// Path returns the category file. Backslashes in the category are treated
// as separators too.
func (s *Subdir) Path(loc Location) string {
	category := strings.ReplaceAll(loc.Category, `\`, "/")
	return s.base + loc.Language + "/" + category + "." + s.ext
}

// Depth implements Strategy.
func (s *Subdir) Depth() int { return 0 }
