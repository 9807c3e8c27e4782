package driver

import (
	"path/filepath"

	"github.com/minios-linux/i18nsync/catalog"
	"github.com/minios-linux/i18nsync/layout"
	"github.com/minios-linux/i18nsync/merge"
)

// Subdir keeps one file per category inside the language directory. A
// category "app/page" of ru-RU lives in ru-RU/app/page.<ext>, and the file
// holds the messages only.
type Subdir struct {
	*storage
}

func (d *Subdir) strategy(root string) *layout.Subdir {
	return layout.NewSubdir(filepath.ToSlash(root), d.ext)
}

// LoadAll implements Driver.
func (d *Subdir) LoadAll() (catalog.Catalog, error) {
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
		messages, err := d.loadMessages(file, loc.Category)
		if err != nil {
			return nil, err
		}
		category, err := d.stripPrefix(file, loc.Category)
		if err != nil {
			return nil, err
		}
		if c[loc.Language] == nil {
			c[loc.Language] = make(catalog.CategoryMap)
		}
		c[loc.Language][category] = messages
	}
	return c, nil
}

// SaveAll implements Driver.
func (d *Subdir) SaveAll(c catalog.Catalog, onlyExisting bool, extraSuffix string) error {
	root, err := d.resolveRoot(!onlyExisting)
	if err != nil {
		return err
	}
	strategy := d.strategy(root)

	for _, language := range c.Languages() {
		categories := c[language]
		for _, category := range categories.Categories() {
			incoming := categories[category]
			if d.prefix+category == "" {
				d.logger.Warn("category without a name cannot be stored as a file", "language", language)
				continue
			}
			file := filepath.FromSlash(strategy.Path(layout.Location{
				Language: language,
				Category: d.prefix + category,
			}))

			exists, err := isFile(file)
			if err != nil {
				return err
			}
			if !exists {
				if onlyExisting {
					d.logger.Debug("no file, skipping", "language", language, "category", category)
					continue
				}
				if err := d.saveMessages(file+extraSuffix, "", incoming); err != nil {
					return err
				}
				continue
			}

			old, err := d.loadMessages(file, d.prefix+category)
			if err != nil {
				return err
			}
			var updated catalog.MessageMap
			if onlyExisting {
				updated = merge.Update(old, incoming)
			} else {
				updated = merge.Fill(incoming, old)
			}
			if updated.Equal(old) {
				d.logger.Debug("unchanged", "file", file)
				continue
			}
			if err := d.saveMessages(file+extraSuffix, file, updated); err != nil {
				return err
			}
		}
	}
	return nil
}
