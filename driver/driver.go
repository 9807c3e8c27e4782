// Package driver loads and saves catalog fragments stored on disk.
//
// A driver is composed from a path layout, which maps files to languages
// and categories, and a codec, which reads and writes file contents. Three
// drivers exist, one per layout:
//
//	Flat       <path>/ru-RU.json             categories inside the file
//	Directory  <path>/ru-RU/*.json           several files, categories inside each
//	Subdir     <path>/ru-RU/app/page.php     one file per category
package driver

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/minios-linux/i18nsync/catalog"
	"github.com/minios-linux/i18nsync/codec"
	"github.com/minios-linux/i18nsync/lockfile"
)

// Layout names a storage layout.
type Layout string

const (
	LayoutFlat      Layout = "flat"
	LayoutDirectory Layout = "directory"
	LayoutSubdir    Layout = "subdir"
)

// Layouts lists every supported layout.
var Layouts = []Layout{LayoutFlat, LayoutDirectory, LayoutSubdir}

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Driver loads a whole fragment and writes a catalog back into it.
type Driver interface {
	// Name identifies the driver in logs and errors.
	Name() string
	// LoadAll reads every file of the fragment.
	LoadAll() (catalog.Catalog, error)
	// SaveAll writes c into the fragment. With onlyExisting, only messages
	// already present in existing files are updated and no file is created;
	// otherwise files get exactly the incoming messages, keeping old
	// translations where the incoming ones are empty. extraSuffix is
	// appended to every written path.
	SaveAll(c catalog.Catalog, onlyExisting bool, extraSuffix string) error
}

// Config describes one driver.
type Config struct {
	Name   string
	Layout Layout
	// Path is the absolute root directory of the fragment.
	Path string
	// Extension is the file extension without the dot. It defaults to the
	// format's extension, or "json" for the flat and directory layouts.
	Extension string
	// Format is the codec name. It defaults from Extension.
	Format string
	// CategoryPrefix is prepended to category names in storage.
	CategoryPrefix string
	// SortEmptyFirst puts untranslated messages first on save.
	SortEmptyFirst bool
	Codec          codec.Options
}

// WriteFunc stores data at path.
type WriteFunc func(path string, data []byte) error

// Option configures a driver.
type Option func(*options)

type options struct {
	logger *log.Logger
	write  WriteFunc
}

// WithLogger sets the logger writes and skips are reported to.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWriter replaces the function files are written with.
func WithWriter(w WriteFunc) Option {
	return func(o *options) {
		if w != nil {
			o.write = w
		}
	}
}

func writeLocked(path string, data []byte) error {
	return lockfile.WriteFile(path, data, 0o644)
}

// New validates cfg and returns the driver for its layout.
func New(cfg Config, opts ...Option) (Driver, error) {
	o := options{logger: log.New(io.Discard), write: writeLocked}
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: driver %q: option \"path\" is required", ErrInvalidConfig, cfg.Name)
	}
	ext, format, err := resolveFormat(cfg)
	if err != nil {
		return nil, err
	}
	c, err := codec.New(format, cfg.Codec)
	if err != nil {
		return nil, fmt.Errorf("%w: driver %q: %v", ErrInvalidConfig, cfg.Name, err)
	}

	name := cfg.Name
	if name == "" {
		name = string(cfg.Layout) + ":" + cfg.Path
	}
	s := &storage{
		name:           name,
		root:           cfg.Path,
		ext:            ext,
		prefix:         cfg.CategoryPrefix,
		sortEmptyFirst: cfg.SortEmptyFirst,
		codec:          c,
		logger:         o.logger.With("driver", name),
		write:          o.write,
	}

	switch cfg.Layout {
	case LayoutFlat:
		return &Flat{s}, nil
	case LayoutDirectory:
		return &Directory{s}, nil
	case LayoutSubdir:
		return &Subdir{s}, nil
	}
	return nil, fmt.Errorf("%w: driver %q: unknown layout %q (known: %s)",
		ErrInvalidConfig, cfg.Name, cfg.Layout, joinLayouts())
}

// resolveFormat fills in whichever of extension and format is missing.
func resolveFormat(cfg Config) (ext, format string, err error) {
	ext, format = strings.TrimPrefix(cfg.Extension, "."), cfg.Format
	if ext == "" {
		switch {
		case format != "":
			ext = format
		case cfg.Layout == LayoutFlat || cfg.Layout == LayoutDirectory:
			ext = codec.JSON
		default:
			return "", "", fmt.Errorf("%w: driver %q: option \"extension\" is required", ErrInvalidConfig, cfg.Name)
		}
	}
	if format == "" {
		var ok bool
		if format, ok = codec.ForExtension(ext); !ok {
			return "", "", fmt.Errorf("%w: driver %q: no format for extension %q, set \"format\"", ErrInvalidConfig, cfg.Name, ext)
		}
	}
	return ext, format, nil
}

func joinLayouts() string {
	names := make([]string, len(Layouts))
	for i, l := range Layouts {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}
