package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/i18nsync/catalog"
	"github.com/minios-linux/i18nsync/layout"
	"github.com/minios-linux/i18nsync/merge"
)

// DefaultFileName is the file a Directory driver creates in a language
// directory that has no files yet.
const DefaultFileName = "messages"

// Directory keeps a directory per language holding any number of files.
// Each file holds whole categories; files of one language may repeat a
// message as long as they agree on its translation.
type Directory struct {
	*storage
}

func (d *Directory) strategy(root string) *layout.Directory {
	return layout.NewDirectory(filepath.ToSlash(root), d.ext)
}

// LoadAll implements Driver. Files of one language are merged, and any
// disagreement between them is a *merge.ConflictError.
func (d *Directory) LoadAll() (catalog.Catalog, error) {
	root, err := d.resolveRoot(false)
	if err != nil {
		return nil, err
	}
	strategy := d.strategy(root)
	files, err := d.discover(root, strategy.Depth())
	if err != nil {
		return nil, err
	}

	c := make(catalog.Catalog)
	for _, file := range files {
		loc, ok, err := strategy.Locate(filepath.ToSlash(file))
		if err != nil {
			return nil, err
		}
		if !ok {
			d.logger.Debug("skipping", "file", file)
			continue
		}
		categories, err := d.loadCategories(file)
		if err != nil {
			return nil, err
		}

		existing, seen := c[loc.Language]
		if !seen {
			c[loc.Language] = categories
			continue
		}
		merged, err := merge.Categories(loc.Language, existing, categories)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		c[loc.Language] = merged
	}
	return c, nil
}

// SaveAll implements Driver. Every file of a language is updated on its
// own, against the categories and messages it already holds.
func (d *Directory) SaveAll(c catalog.Catalog, onlyExisting bool, extraSuffix string) error {
	root, err := d.resolveRoot(!onlyExisting)
	if err != nil {
		return err
	}
	strategy := d.strategy(root)

	for _, language := range c.Languages() {
		incoming := c[language]
		dir := filepath.FromSlash(strategy.Path(layout.Location{Language: language}))

		files, err := d.languageFiles(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			if onlyExisting {
				d.logger.Debug("no files, skipping", "language", language, "dir", dir)
				continue
			}
			file := filepath.Join(dir, DefaultFileName+"."+d.ext)
			if err := d.saveCategories(file+extraSuffix, "", incoming); err != nil {
				return err
			}
			continue
		}

		for _, file := range files {
			old, err := d.loadCategories(file)
			if err != nil {
				return err
			}
			var updated catalog.CategoryMap
			if onlyExisting {
				updated = merge.UpdateCategories(old, incoming)
			} else {
				updated = merge.FillCategories(incoming, old)
			}
			if updated.Equal(old) {
				d.logger.Debug("unchanged", "file", file)
				continue
			}
			if err := d.saveCategories(file+extraSuffix, file, updated); err != nil {
				return err
			}
		}
	}
	return nil
}

// languageFiles lists the files directly inside a language directory. A
// missing directory has no files.
func (d *Directory) languageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	dotExt := "." + d.ext
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == dotExt || !strings.HasSuffix(name, dotExt) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}
