// Package manager runs the synchronization between source fragments and
// the consolidated export.
//
// Export loads every source in configuration order, merges them with
// conflict detection and writes the result through the export driver.
// Import loads the export and pushes it back into every source, touching
// only messages the sources already have.
package manager

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/minios-linux/i18nsync/catalog"
	"github.com/minios-linux/i18nsync/driver"
	"github.com/minios-linux/i18nsync/merge"
)

// NewSuffix is appended to source files written by an import that may not
// overwrite them, so the proposed versions can be reviewed first.
const NewSuffix = ".new"

// Manager sequences drivers. It holds no catalog between operations.
type Manager struct {
	sources   []driver.Driver
	export    driver.Driver
	overwrite bool
	logger    *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithOverwrite lets Import write source files in place.
func WithOverwrite(overwrite bool) Option {
	return func(m *Manager) { m.overwrite = overwrite }
}

// WithLogger sets the progress logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New returns a manager for the given sources, in order, and export driver.
func New(sources []driver.Driver, export driver.Driver, opts ...Option) (*Manager, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: at least one source driver is required", driver.ErrInvalidConfig)
	}
	if export == nil {
		return nil, fmt.Errorf("%w: export driver is required", driver.ErrInvalidConfig)
	}
	m := &Manager{
		sources: slices.Clone(sources),
		export:  export,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Suffix returns the suffix Import appends to written source files.
func (m *Manager) Suffix() string {
	if m.overwrite {
		return ""
	}
	return NewSuffix
}

// Collect loads every source and merges them. The first conflict aborts
// the merge; the error wraps a *merge.ConflictError.
func (m *Manager) Collect() (catalog.Catalog, error) {
	c := make(catalog.Catalog)
	for _, src := range m.sources {
		m.logger.Debug("loading source", "source", src.Name())
		loaded, err := src.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("loading source %s: %w", src.Name(), err)
		}
		if c, err = merge.Catalogs(c, loaded); err != nil {
			return nil, fmt.Errorf("merging source %s: %w", src.Name(), err)
		}
	}
	return c, nil
}

// Export merges all sources and writes the export. Nothing is written when
// loading or merging fails.
func (m *Manager) Export() error {
	c, err := m.Collect()
	if err != nil {
		return err
	}
	m.logger.Info("exporting", "export", m.export.Name(), "languages", len(c))
	if err := m.export.SaveAll(c, false, ""); err != nil {
		return fmt.Errorf("saving export %s: %w", m.export.Name(), err)
	}
	return nil
}

// Import loads the export and updates every source from it. Sources are
// written in order; files written before a failure stay written.
func (m *Manager) Import() error {
	c, err := m.export.LoadAll()
	if err != nil {
		return fmt.Errorf("loading export %s: %w", m.export.Name(), err)
	}
	suffix := m.Suffix()
	for _, src := range m.sources {
		m.logger.Info("importing", "source", src.Name(), "suffix", suffix)
		if err := src.SaveAll(c, true, suffix); err != nil {
			return fmt.Errorf("saving source %s: %w", src.Name(), err)
		}
	}
	return nil
}

// Check merges all sources without writing anything.
func (m *Manager) Check() (catalog.Catalog, error) {
	return m.Collect()
}

// Report holds per-language progress.
type Report struct {
	// Sources describes the merged sources.
	Sources map[string]catalog.Stats
	// Export describes the export; nil when nothing was exported yet.
	Export map[string]catalog.Stats
}

// Languages returns every language of the report in byte order.
func (r *Report) Languages() []string {
	all := maps.Clone(r.Sources)
	if all == nil {
		all = make(map[string]catalog.Stats)
	}
	maps.Copy(all, r.Export)
	return slices.Sorted(maps.Keys(all))
}

// Status merges the sources and reads the export to report progress.
func (m *Manager) Status() (*Report, error) {
	c, err := m.Collect()
	if err != nil {
		return nil, err
	}
	r := &Report{Sources: c.Stats()}

	exported, err := m.export.LoadAll()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.logger.Debug("no export yet", "export", m.export.Name())
	case err != nil:
		return nil, fmt.Errorf("loading export %s: %w", m.export.Name(), err)
	default:
		r.Export = exported.Stats()
	}
	return r, nil
}
