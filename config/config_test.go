package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/minios-linux/i18nsync/codec"
	"github.com/minios-linux/i18nsync/driver"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaultsAndResolution(t *testing.T) {
	clearEnv(t, "I18NSYNC_OVERWRITE")
	dir := t.TempDir()
	path := writeConfig(t, dir, FileName, `
sources:
  - name: app
    layout: subdir
    path: messages
    extension: php
    category_prefix: app/
    sort_empty_first: true
    header: "/* generated */"
  - layout: directory
    path: ./web/i18n
export:
  path: i18n
  pretty_print: false
`)

	f, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if f.Path != path {
		t.Fatalf("Path = %q, want %q", f.Path, path)
	}
	if f.Overwrite {
		t.Fatal("Overwrite = true, want false")
	}

	pretty := false
	want := []DriverConfig{
		{
			Name:           "app",
			Layout:         "subdir",
			Path:           filepath.Join(dir, "messages"),
			Extension:      "php",
			CategoryPrefix: "app/",
			SortEmptyFirst: true,
			Header:         "/* generated */",
		},
		{
			Name:   "source #2",
			Layout: "directory",
			Path:   filepath.Join(dir, "web", "i18n"),
		},
	}
	if diff := cmp.Diff(want, f.Sources); diff != "" {
		t.Fatalf("Sources mismatch (-want +got):\n%s", diff)
	}
	wantExport := DriverConfig{
		Name:        "export",
		Layout:      "flat",
		Path:        filepath.Join(dir, "i18n"),
		PrettyPrint: &pretty,
	}
	if diff := cmp.Diff(wantExport, f.Export); diff != "" {
		t.Fatalf("Export mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "no sources",
			content: "export:\n  path: i18n\n",
			want:    "no sources declared",
		},
		{
			name:    "source without layout",
			content: "sources:\n  - name: app\n    path: messages\nexport:\n  path: i18n\n",
			want:    `"app" has no layout`,
		},
		{
			name:    "unknown layout",
			content: "sources:\n  - name: app\n    layout: nested\n    path: messages\nexport:\n  path: i18n\n",
			want:    `unknown layout "nested"`,
		},
		{
			name:    "export without path",
			content: "sources:\n  - name: app\n    layout: flat\n    path: messages\n",
			want:    `"export" has no path`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t, "I18NSYNC_EXPORT_PATH")
			path := writeConfig(t, t.TempDir(), FileName, tc.content)
			_, err := Load(path, nil)
			if !errors.Is(err, driver.ErrInvalidConfig) {
				t.Fatalf("Load error = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %q, want it to contain %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName), nil)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadOverwritePrecedence(t *testing.T) {
	const content = "overwrite: false\nsources:\n  - layout: flat\n    path: a\nexport:\n  path: b\n"

	t.Run("environment", func(t *testing.T) {
		t.Setenv("I18NSYNC_OVERWRITE", "true")
		f, err := Load(writeConfig(t, t.TempDir(), FileName, content), nil)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if !f.Overwrite {
			t.Fatal("Overwrite = false, want true from the environment")
		}
	})

	t.Run("flag", func(t *testing.T) {
		clearEnv(t, "I18NSYNC_OVERWRITE")
		flags := pflag.NewFlagSet("import", pflag.ContinueOnError)
		flags.Bool("overwrite", false, "")
		if err := flags.Parse([]string{"--overwrite"}); err != nil {
			t.Fatal(err)
		}
		f, err := Load(writeConfig(t, t.TempDir(), FileName, content), flags)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if !f.Overwrite {
			t.Fatal("Overwrite = false, want true from the flag")
		}
	})

	t.Run("unset flag keeps file value", func(t *testing.T) {
		clearEnv(t, "I18NSYNC_OVERWRITE")
		flags := pflag.NewFlagSet("import", pflag.ContinueOnError)
		flags.Bool("overwrite", false, "")
		f, err := Load(writeConfig(t, t.TempDir(), FileName, strings.Replace(content, "false", "true", 1)), flags)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if !f.Overwrite {
			t.Fatal("Overwrite = false, want true from the file")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t, "I18NSYNC_TEST_FRAGMENTS", "I18NSYNC_OVERWRITE")
	dir := t.TempDir()
	writeConfig(t, dir, DotEnvName, "I18NSYNC_TEST_FRAGMENTS=fragments\n")
	path := writeConfig(t, dir, FileName, "sources:\n  - layout: subdir\n    path: ${I18NSYNC_TEST_FRAGMENTS}/app\n    extension: json\nexport:\n  path: out\n")

	f, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got, want := f.Sources[0].Path, filepath.Join(dir, "fragments", "app"); got != want {
		t.Fatalf("source path = %q, want %q", got, want)
	}
}

func TestLoadOtherFormats(t *testing.T) {
	clearEnv(t, "I18NSYNC_OVERWRITE")
	dir := t.TempDir()
	path := writeConfig(t, dir, "i18nsync.toml", `
overwrite = true

[[sources]]
layout = "flat"
path = "src"

[export]
layout = "directory"
path = "/srv/i18n"
`)
	f, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !f.Overwrite || f.Export.Layout != "directory" || f.Export.Path != filepath.Clean("/srv/i18n") {
		t.Fatalf("Load = %+v", f)
	}
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("I18NSYNC_TEST_ROOT", "/opt/app")

	tests := []struct {
		in   string
		want string
	}{
		{"messages", filepath.Join("/base", "messages")},
		{"../shared/./i18n", filepath.Join("/", "shared", "i18n")},
		{"/abs/path/", filepath.Clean("/abs/path")},
		{"$I18NSYNC_TEST_ROOT/lang", filepath.Join("/opt/app", "lang")},
		{"~/i18n", filepath.Join(home, "i18n")},
	}
	for _, tc := range tests {
		got, err := ResolvePath("/base", tc.in)
		if err != nil {
			t.Fatalf("ResolvePath(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ResolvePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDriverConfig(t *testing.T) {
	off := false
	c := DriverConfig{
		Name:            "app",
		Layout:          "subdir",
		Path:            "/p",
		Extension:       "php",
		TrailingNewline: &off,
		Indent:          "  ",
		DocBlock:        "/** @return array */",
	}
	want := codec.Options{
		PrettyPrint: true,
		Indent:      "  ",
		DocBlock:    "/** @return array */",
	}
	got := c.Driver()
	if diff := cmp.Diff(want, got.Codec); diff != "" {
		t.Fatalf("codec options mismatch (-want +got):\n%s", diff)
	}
	if got.Layout != driver.LayoutSubdir || got.Extension != "php" || got.Path != "/p" {
		t.Fatalf("Driver() = %+v", got)
	}
}

func TestManagerBuildsDrivers(t *testing.T) {
	clearEnv(t, "I18NSYNC_OVERWRITE")
	dir := t.TempDir()
	path := writeConfig(t, dir, FileName, "overwrite: true\nsources:\n  - layout: flat\n    path: src\nexport:\n  path: out\n")
	f, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	m, err := f.Manager(nil, nil)
	if err != nil {
		t.Fatalf("Manager error: %v", err)
	}
	if m.Suffix() != "" {
		t.Fatalf("Suffix() = %q, want in-place writes", m.Suffix())
	}

	f.Sources[0].Format = "xml"
	if _, err := f.Manager(nil, nil); !errors.Is(err, driver.ErrInvalidConfig) {
		t.Fatalf("Manager error = %v, want ErrInvalidConfig", err)
	}
}
