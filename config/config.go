// Package config loads the .i18nsync.yaml project file.
//
// The file declares the source fragments, in merge order, and the export
// target. Paths are relative to the directory holding the file. Values can be
// overridden from the environment with the I18NSYNC_ prefix, and a .env file
// next to the config is read before anything else.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/minios-linux/i18nsync/codec"
	"github.com/minios-linux/i18nsync/driver"
	"github.com/minios-linux/i18nsync/manager"
)

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// File is the top-level .i18nsync.yaml structure.
type File struct {
	// Overwrite lets import write source files in place instead of next to
	// them with the ".new" suffix.
	Overwrite bool `mapstructure:"overwrite"`
	// Sources are merged in this order on export.
	Sources []DriverConfig `mapstructure:"sources"`
	// Export is the consolidated file set translators work on.
	Export DriverConfig `mapstructure:"export"`

	// Path is the absolute path of the loaded file.
	Path string `mapstructure:"-"`
}

// DriverConfig describes one fragment.
type DriverConfig struct {
	Name string `mapstructure:"name"`
	// Layout: "flat", "directory" or "subdir".
	Layout string `mapstructure:"layout"`
	// Path is the fragment root, relative to the config file.
	Path      string `mapstructure:"path"`
	Extension string `mapstructure:"extension"`
	Format    string `mapstructure:"format"`
	// CategoryPrefix is prepended to category names in storage.
	CategoryPrefix string `mapstructure:"category_prefix"`
	SortEmptyFirst bool   `mapstructure:"sort_empty_first"`

	// --- encoder options ---

	PrettyPrint     *bool  `mapstructure:"pretty_print"`
	TrailingNewline *bool  `mapstructure:"trailing_newline"`
	Indent          string `mapstructure:"indent"`
	// Header and DocBlock are written into PHP files.
	Header   string `mapstructure:"header"`
	DocBlock string `mapstructure:"docblock"`
}

// Driver converts c into a driver configuration. Path must already be
// resolved.
func (c DriverConfig) Driver() driver.Config {
	opts := codec.DefaultOptions()
	if c.PrettyPrint != nil {
		opts.PrettyPrint = *c.PrettyPrint
	}
	if c.TrailingNewline != nil {
		opts.TrailingNewline = *c.TrailingNewline
	}
	if c.Indent != "" {
		opts.Indent = c.Indent
	}
	opts.Header = c.Header
	opts.DocBlock = c.DocBlock

	return driver.Config{
		Name:           c.Name,
		Layout:         driver.Layout(c.Layout),
		Path:           c.Path,
		Extension:      c.Extension,
		Format:         c.Format,
		CategoryPrefix: c.CategoryPrefix,
		SortEmptyFirst: c.SortEmptyFirst,
		Codec:          opts,
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// FileName is the default config file name.
const FileName = ".i18nsync.yaml"

// EnvPrefix prefixes environment overrides, e.g. I18NSYNC_OVERWRITE.
const EnvPrefix = "I18NSYNC"

// DotEnvName is the environment file read from the config directory.
const DotEnvName = ".env"

// configTypes are the extensions read by their own format; anything else is
// read as YAML.
var configTypes = []string{"yaml", "yml", "json", "toml"}

// Load reads, defaults and validates the config file at path. When flags is
// not nil, its "overwrite" flag takes precedence over the file.
func Load(path string, flags *pflag.FlagSet) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	// Variables already in the environment win over .env.
	if err := godotenv.Load(filepath.Join(dir, DotEnvName)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", filepath.Join(dir, DotEnvName), err)
	}

	v := viper.New()
	v.SetConfigFile(abs)
	if ext := strings.TrimPrefix(filepath.Ext(abs), "."); !slices.Contains(configTypes, ext) {
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("overwrite", false)
	v.SetDefault("export.name", "export")
	v.SetDefault("export.layout", string(driver.LayoutFlat))
	v.SetDefault("export.path", "")
	if flags != nil {
		if f := flags.Lookup("overwrite"); f != nil {
			if err := v.BindPFlag("overwrite", f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", f.Name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", abs, err)
	}
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", abs, err)
	}
	f.Path = abs

	if err := f.resolve(dir); err != nil {
		return nil, err
	}
	return &f, nil
}

// resolve validates the file and makes every path absolute.
func (f *File) resolve(dir string) error {
	if len(f.Sources) == 0 {
		return fmt.Errorf("%w: %s: no sources declared", driver.ErrInvalidConfig, f.Path)
	}
	for i := range f.Sources {
		s := &f.Sources[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("source #%d", i+1)
		}
		if err := f.resolveDriver(s, dir); err != nil {
			return err
		}
	}
	if f.Export.Layout == "" {
		f.Export.Layout = string(driver.LayoutFlat)
	}
	return f.resolveDriver(&f.Export, dir)
}

func (f *File) resolveDriver(c *DriverConfig, dir string) error {
	if c.Layout == "" {
		return fmt.Errorf("%w: %s: %q has no layout", driver.ErrInvalidConfig, f.Path, c.Name)
	}
	if !slices.Contains(driver.Layouts, driver.Layout(c.Layout)) {
		return fmt.Errorf("%w: %s: %q has unknown layout %q", driver.ErrInvalidConfig, f.Path, c.Name, c.Layout)
	}
	if c.Path == "" {
		return fmt.Errorf("%w: %s: %q has no path", driver.ErrInvalidConfig, f.Path, c.Name)
	}
	path, err := ResolvePath(dir, c.Path)
	if err != nil {
		return fmt.Errorf("%s: %q: %w", f.Path, c.Name, err)
	}
	c.Path = path
	return nil
}

// ResolvePath expands environment variables and a leading "~" in p and
// makes it absolute relative to base.
func ResolvePath(base, p string) (string, error) {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", p, err)
		}
		p = filepath.Join(home, p[1:])
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p), nil
}

// ---------------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------------

// Manager builds the drivers declared in f and a manager over them. A nil
// write uses the default locking writer.
func (f *File) Manager(logger *log.Logger, write driver.WriteFunc) (*manager.Manager, error) {
	opts := []driver.Option{driver.WithLogger(logger), driver.WithWriter(write)}

	sources := make([]driver.Driver, 0, len(f.Sources))
	for _, s := range f.Sources {
		d, err := driver.New(s.Driver(), opts...)
		if err != nil {
			return nil, err
		}
		sources = append(sources, d)
	}
	export, err := driver.New(f.Export.Driver(), opts...)
	if err != nil {
		return nil, err
	}
	return manager.New(sources, export,
		manager.WithOverwrite(f.Overwrite),
		manager.WithLogger(logger),
	)
}
