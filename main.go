// i18nsync keeps translation fragments spread over a project in sync with
// one consolidated export that translators work on.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/minios-linux/i18nsync/catalog"
	"github.com/minios-linux/i18nsync/config"
	"github.com/minios-linux/i18nsync/i18n"
	"github.com/minios-linux/i18nsync/manager"
	"github.com/minios-linux/i18nsync/merge"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	header  = color.New(color.FgBlue, color.Bold).SprintFunc()
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
	verbose    bool
	dryRun     bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "i18nsync",
		Short: i18n.T("Synchronize translation fragments with a consolidated export"),
		Long: i18n.T(`i18nsync merges translation files spread over a project into one export
per language, and writes translations made in the export back into the
original files.

Commands:
  export   Merge all sources into the export
  import   Write the export back into the sources
  check    Merge all sources and report conflicts without writing
  status   Show translation progress of sources and export`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger.SetLevel(level)
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", i18n.T("Project root directory"))
	root.PersistentFlags().StringVar(&configPath, "config", "", i18n.T("Config file (default <root>/.i18nsync.yaml)"))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, i18n.T("Log every file read and written"))
	root.PersistentFlags().BoolVar(&dryRun, "dry-run", false, i18n.T("Show what would be written without writing"))

	root.AddCommand(
		newExportCmd(),
		newImportCmd(),
		newCheckCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	i18n.Init("")
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Shared setup
// ---------------------------------------------------------------------------

// recorder stands in for file writes on --dry-run.
type recorder struct {
	files []string
}

func (r *recorder) write(path string, data []byte) error {
	r.files = append(r.files, path)
	logger.Info(i18n.T("would write"), "file", path, "bytes", len(data))
	return nil
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(rootDir, config.FileName)
}

// load reads the config and builds the manager. The returned recorder is
// nil unless --dry-run is set.
func load(cmd *cobra.Command) (*config.File, *manager.Manager, *recorder, error) {
	f, err := config.Load(configFile(), cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	var rec *recorder
	var m *manager.Manager
	if dryRun {
		rec = &recorder{}
		m, err = f.Manager(logger, rec.write)
	} else {
		m, err = f.Manager(logger, nil)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	return f, m, rec, nil
}

// reportConflict prints both competing translations of a merge conflict.
func reportConflict(w io.Writer, err error) {
	var conflict *merge.ConflictError
	if !errors.As(err, &conflict) {
		return
	}
	t := conflict.Translations()
	fmt.Fprintf(w, "%s\n", failure(i18n.T("Conflicting translations")))
	fmt.Fprintf(w, "  %-10s %s\n", i18n.T("language:"), conflict.Language)
	fmt.Fprintf(w, "  %-10s %s\n", i18n.T("category:"), conflict.Category)
	fmt.Fprintf(w, "  %-10s %s\n", i18n.T("message:"), conflict.Message)
	fmt.Fprintf(w, "  1: %q\n  2: %q\n", t[0], t[1])
}

func summarize(rec *recorder, done string) {
	if rec == nil {
		logger.Info(done)
		return
	}
	logger.Info(i18n.N("Dry run: %d file would be written", "Dry run: %d files would be written", len(rec.files), len(rec.files)))
}

// ---------------------------------------------------------------------------
// export
// ---------------------------------------------------------------------------

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: i18n.T("Merge all sources into the export"),
		Long: i18n.T(`Load every source in configuration order, merge them and write the
export. A message translated differently in two sources aborts the export
before anything is written.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, m, rec, err := load(cmd)
			if err != nil {
				return err
			}
			if err := m.Export(); err != nil {
				reportConflict(cmd.ErrOrStderr(), err)
				return err
			}
			summarize(rec, i18n.T("Export written to %s", f.Export.Path))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// import
// ---------------------------------------------------------------------------

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: i18n.T("Write the export back into the sources"),
		Long: i18n.T(`Update the sources with the translations from the export. Only messages
a source already has are touched and no files are created. Without
--overwrite the updated files are written next to the originals with the
".new" suffix.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, rec, err := load(cmd)
			if err != nil {
				return err
			}
			if err := m.Import(); err != nil {
				return err
			}
			done := i18n.T("Sources updated in place")
			if m.Suffix() != "" {
				done = i18n.T("Sources updated into *%s files", m.Suffix())
			}
			summarize(rec, done)
			return nil
		},
	}
	cmd.Flags().Bool("overwrite", false, i18n.T("Overwrite source files instead of writing *.new files"))
	return cmd
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: i18n.T("Merge all sources and report conflicts without writing"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, _, err := load(cmd)
			if err != nil {
				return err
			}
			c, err := m.Check()
			if err != nil {
				reportConflict(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), success(i18n.N(
				"No conflicts in %d language", "No conflicts in %d languages", len(c), len(c))))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// status
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show translation progress of sources and export"),
		Long: i18n.T(`Merge the sources and read the export, then show per language how many
messages exist and how many are translated. Does not modify any files.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, _, err := load(cmd)
			if err != nil {
				return err
			}
			r, err := m.Status()
			if err != nil {
				reportConflict(cmd.ErrOrStderr(), err)
				return err
			}
			showStatus(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func showStatus(w io.Writer, r *manager.Report) {
	langs := r.Languages()
	if len(langs) == 0 {
		fmt.Fprintln(w, i18n.T("No translations found"))
		return
	}

	fmt.Fprintln(w, header(i18n.T("Translation Statistics")))
	fmt.Fprintln(w, strings.Repeat("─", 64))
	fmt.Fprintf(w, "%-8s %-20s %-10s %-10s %-9s %s\n",
		i18n.T("Lang"), i18n.T("Language"), i18n.T("Messages"), i18n.T("Untrans."), i18n.T("Sources"), i18n.T("Export"))
	fmt.Fprintln(w, strings.Repeat("─", 64))

	for _, lang := range langs {
		src, ok := r.Sources[lang]
		messages, untranslated, srcPercent := "-", "-", fmt.Sprintf("%-9s", "-")
		if ok {
			messages = fmt.Sprint(src.Messages)
			untranslated = fmt.Sprint(src.Untranslated())
			srcPercent = percentCell(src, 9)
		}
		exportPercent := "-"
		if exp, ok := r.Export[lang]; ok {
			exportPercent = percentCell(exp, 0)
		}
		fmt.Fprintf(w, "%-8s %-20s %-10s %-10s %s %s\n",
			lang, languageName(lang), messages, untranslated, srcPercent, exportPercent)
	}
	fmt.Fprintln(w, strings.Repeat("─", 64))
	if r.Export == nil {
		fmt.Fprintln(w, warning(i18n.T("Nothing exported yet")))
	}
}

// percentCell pads before coloring so escape codes do not break alignment.
func percentCell(s catalog.Stats, width int) string {
	p := s.Percent()
	cell := fmt.Sprintf("%-*s", width, fmt.Sprintf("%d%%", p))
	switch {
	case p < 50:
		return failure(cell)
	case p < 100:
		return warning(cell)
	}
	return success(cell)
}

// languageName returns the language's name in itself, or "" for codes that
// are not language tags.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.Self.Name(tag)
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "i18nsync %s\n", version)
			fmt.Fprintf(out, "  %-9s %s\n", i18n.T("commit:"), commit)
			fmt.Fprintf(out, "  %-9s %s\n", i18n.T("built:"), date)
			fmt.Fprintf(out, "  %-9s %s\n", i18n.T("locale:"), i18n.Language())
		},
	}
}
