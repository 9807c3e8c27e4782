package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/minios-linux/i18nsync/catalog"
	"github.com/minios-linux/i18nsync/codec"
)

// storage is the part every layout shares: where the fragment lives, how
// its files are encoded, and how categories are named in storage.
type storage struct {
	name           string
	root           string
	ext            string
	prefix         string
	sortEmptyFirst bool
	codec          codec.Codec
	logger         *log.Logger
	write          WriteFunc
}

// Name implements Driver.
func (s *storage) Name() string { return s.name }

// resolveRoot returns the real path of the fragment root. With create, a
// missing root is accepted as is; the first write creates it.
func (s *storage) resolveRoot(create bool) (string, error) {
	resolved, err := filepath.EvalSymlinks(s.root)
	if create && errors.Is(err, fs.ErrNotExist) {
		if resolved, err = filepath.Abs(s.root); err == nil {
			return resolved, nil
		}
	}
	if err != nil {
		return "", fmt.Errorf("cannot check path %s: %w", s.root, err)
	}
	return resolved, nil
}

// discover lists the files below root carrying the driver's extension, in
// lexical order. depth limits how many directory levels are searched; 0
// means unlimited.
func (s *storage) discover(root string, depth int) ([]string, error) {
	dotExt := "." + s.ext
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		level := 0
		if rel, _ := filepath.Rel(root, path); rel != "." {
			level = strings.Count(filepath.ToSlash(rel), "/") + 1
		}
		if d.IsDir() {
			if depth > 0 && level >= depth {
				return filepath.SkipDir
			}
			return nil
		}
		if depth > 0 && level != depth {
			return nil
		}
		if strings.HasSuffix(d.Name(), dotExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	return files, nil
}

// isFile reports whether path is an existing regular file.
func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}

func (s *storage) decodeFile(file string) (map[string]any, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	obj, err := s.codec.Decode(data)
	if err != nil {
		return nil, &SourceDataError{File: file, Err: err}
	}
	return obj, nil
}

// loadCategories reads a file holding whole categories. Category names are
// returned without the storage prefix.
func (s *storage) loadCategories(file string) (catalog.CategoryMap, error) {
	obj, err := s.decodeFile(file)
	if err != nil {
		return nil, err
	}
	out := make(catalog.CategoryMap, len(obj))
	for _, stored := range slices.Sorted(maps.Keys(obj)) {
		raw, ok := obj[stored].(map[string]any)
		if !ok {
			return nil, &SourceDataError{File: file, Category: stored, Err: ErrCategoryNotObject}
		}
		messages, err := messagesFrom(file, stored, raw)
		if err != nil {
			return nil, err
		}
		category, err := s.stripPrefix(file, stored)
		if err != nil {
			return nil, err
		}
		out[category] = messages
	}
	return out, nil
}

// loadMessages reads a file holding the messages of the stored category.
func (s *storage) loadMessages(file, stored string) (catalog.MessageMap, error) {
	obj, err := s.decodeFile(file)
	if err != nil {
		return nil, err
	}
	return messagesFrom(file, stored, obj)
}

func messagesFrom(file, category string, raw map[string]any) (catalog.MessageMap, error) {
	messages := make(catalog.MessageMap, len(raw))
	for _, message := range slices.Sorted(maps.Keys(raw)) {
		translation, ok := raw[message].(string)
		if !ok {
			return nil, &SourceDataError{File: file, Category: category, Message: message, Err: ErrNotString}
		}
		messages[message] = translation
	}
	return messages, nil
}

func (s *storage) stripPrefix(file, stored string) (string, error) {
	if s.prefix == "" {
		return stored, nil
	}
	category, ok := strings.CutPrefix(stored, s.prefix)
	if !ok {
		return "", &SourceDataError{File: file, Category: stored, Err: ErrMissingPrefix}
	}
	return category, nil
}

// sections orders categories by name with the storage prefix applied.
func (s *storage) sections(categories catalog.CategoryMap) []codec.Section {
	sections := make([]codec.Section, 0, len(categories))
	for _, category := range categories.Categories() {
		sections = append(sections, codec.Section{
			Name:  s.prefix + category,
			Pairs: s.pairs(categories[category]),
		})
	}
	return sections
}

func (s *storage) pairs(messages catalog.MessageMap) []codec.Pair {
	keys := catalog.SortedMessages(messages, s.sortEmptyFirst)
	pairs := make([]codec.Pair, len(keys))
	for i, k := range keys {
		pairs[i] = codec.Pair{Key: k, Value: messages[k]}
	}
	return pairs
}

// previous returns the codec as a Patcher together with the contents of
// existing, or a nil Patcher when the file is to be encoded afresh.
func (s *storage) previous(existing string) (codec.Patcher, []byte, error) {
	p, ok := s.codec.(codec.Patcher)
	if !ok || existing == "" {
		return nil, nil, nil
	}
	old, err := os.ReadFile(existing)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", existing, err)
	}
	return p, old, nil
}

// saveCategories writes categories to file. existing names the file being
// replaced, or is empty for a new one.
func (s *storage) saveCategories(file, existing string, categories catalog.CategoryMap) error {
	sections := s.sections(categories)
	p, old, err := s.previous(existing)
	if err != nil {
		return err
	}
	var data []byte
	if p != nil {
		data, err = p.PatchSections(old, sections)
	} else {
		data, err = s.codec.EncodeSections(sections)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", file, err)
	}
	return s.save(file, data)
}

// saveMessages is saveCategories for a file holding a single category.
func (s *storage) saveMessages(file, existing string, messages catalog.MessageMap) error {
	pairs := s.pairs(messages)
	p, old, err := s.previous(existing)
	if err != nil {
		return err
	}
	var data []byte
	if p != nil {
		data, err = p.PatchMessages(old, pairs)
	} else {
		data, err = s.codec.EncodeMessages(pairs)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", file, err)
	}
	return s.save(file, data)
}

func (s *storage) save(file string, data []byte) error {
	s.logger.Debug("writing", "file", file, "bytes", len(data))
	if err := s.write(file, data); err != nil {
		return fmt.Errorf("saving %s: %w", file, err)
	}
	return nil
}
