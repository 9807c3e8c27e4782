package driver

import (
	"path/filepath"

	"github.com/minios-linux/i18nsync/catalog"
	"github.com/minios-linux/i18nsync/layout"
	"github.com/minios-linux/i18nsync/merge"
)

// Flat keeps one file per language directly in the fragment root. The
// file's top-level keys are categories.
type Flat struct {
	*storage
}

func (d *Flat) strategy(root string) *layout.Flat {
	return layout.NewFlat(filepath.ToSlash(root), d.ext)
}

// LoadAll implements Driver.
func (d *Flat) LoadAll() (catalog.Catalog, error) {
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
		c[loc.Language] = categories
	}
	return c, nil
}

// SaveAll implements Driver.
func (d *Flat) SaveAll(c catalog.Catalog, onlyExisting bool, extraSuffix string) error {
	root, err := d.resolveRoot(!onlyExisting)
	if err != nil {
		return err
	}
	strategy := d.strategy(root)

	for _, language := range c.Languages() {
		incoming := c[language]
		file := filepath.FromSlash(strategy.Path(layout.Location{Language: language}))

		exists, err := isFile(file)
		if err != nil {
			return err
		}
		if !exists {
			if onlyExisting {
				d.logger.Debug("no file, skipping", "language", language, "file", file)
				continue
			}
			if err := d.saveCategories(file+extraSuffix, "", incoming); err != nil {
				return err
			}
			continue
		}

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
	return nil
}
