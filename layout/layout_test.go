package layout

import (
	"errors"
	"testing"
)

type locateCase struct {
	name    string
	file    string
	want    Location
	wantOK  bool
	wantErr error
}

func runLocate(t *testing.T, s Strategy, tests []locateCase) {
	t.Helper()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := s.Locate(tc.file)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Locate(%q) error = %v, want %v", tc.file, err, tc.wantErr)
				}
				var layoutErr *Error
				if !errors.As(err, &layoutErr) || layoutErr.Path != tc.file {
					t.Fatalf("Locate(%q) error = %#v, want *Error with path", tc.file, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Locate(%q) unexpected error: %v", tc.file, err)
			}
			if ok != tc.wantOK {
				t.Fatalf("Locate(%q) ok = %v, want %v", tc.file, ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("Locate(%q) = %#v, want %#v", tc.file, got, tc.want)
			}
		})
	}
}

func TestFlatLocate(t *testing.T) {
	s := NewFlat("/root", "json")
	runLocate(t, s, []locateCase{
		{name: "language file", file: "/root/ru-RU.json", want: Location{Language: "ru-RU"}, wantOK: true},
		{name: "non-ascii language", file: "/root/язык.json", want: Location{Language: "язык"}, wantOK: true},
		{name: "bare extension skipped", file: "/root/.json"},
		{name: "nested directory", file: "/root/ru/app.json", wantErr: ErrNestedDirectory},
		{name: "nested bare extension is still nested", file: "/root/ru/.json", wantErr: ErrNestedDirectory},
		{name: "outside base", file: "/other/ru.json", wantErr: ErrOutsideBase},
		{name: "base prefix is not a directory match", file: "/rooted/ru.json", wantErr: ErrOutsideBase},
		{name: "windows separators", file: `/root\de.json`, want: Location{Language: "de"}, wantOK: true},
	})

	if got := s.Path(Location{Language: "ru-RU", Category: "ignored"}); got != "/root/ru-RU.json" {
		t.Fatalf("Path() = %q, want /root/ru-RU.json", got)
	}
	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", s.Depth())
	}
}

func TestDirectoryLocate(t *testing.T) {
	s := NewDirectory("/root/", "json")
	runLocate(t, s, []locateCase{
		{name: "file in language dir", file: "/root/ru-RU/app.json", want: Location{Language: "ru-RU"}, wantOK: true},
		{name: "deeper file keeps first segment", file: "/root/ru-RU/x/app.json", want: Location{Language: "ru-RU"}, wantOK: true},
		{name: "bare extension skipped", file: "/root/.json"},
		{name: "bare extension in language dir skipped", file: "/root/ru-RU/.json"},
		{name: "file directly in base skipped", file: "/root/app.json"},
		{name: "outside base", file: "/tmp/ru/app.json", wantErr: ErrOutsideBase},
	})

	if got := s.Path(Location{Language: "de"}); got != "/root/de/" {
		t.Fatalf("Path() = %q, want /root/de/", got)
	}
}

func TestSubdirLocate(t *testing.T) {
	s := NewSubdir("/root/", "json")
	runLocate(t, s, []locateCase{
		{name: "nested category", file: "/root/ru-RU/app/page.json", want: Location{Language: "ru-RU", Category: "app/page"}, wantOK: true},
		{name: "single level category", file: "/root/en/app.json", want: Location{Language: "en", Category: "app"}, wantOK: true},
		{name: "non-ascii", file: "/root/日本語/カテゴリ.json", want: Location{Language: "日本語", Category: "カテゴリ"}, wantOK: true},
		{name: "bare extension skipped", file: "/root/.json"},
		{name: "empty basename skipped", file: "/root/ru-RU/app/.json"},
		{name: "no category skipped", file: "/root/ru-RU.json"},
		{name: "outside base", file: "/elsewhere/ru-RU/app.json", wantErr: ErrOutsideBase},
	})

	tests := []struct {
		loc  Location
		want string
	}{
		{Location{Language: "ru-RU", Category: "app/page"}, "/root/ru-RU/app/page.json"},
		{Location{Language: "ru-RU", Category: `app\page`}, "/root/ru-RU/app/page.json"},
		{Location{Language: "en", Category: "app"}, "/root/en/app.json"},
	}
	for _, tc := range tests {
		if got := s.Path(tc.loc); got != tc.want {
			t.Fatalf("Path(%#v) = %q, want %q", tc.loc, got, tc.want)
		}
	}
}

func TestSubdirPathRoundTrip(t *testing.T) {
	s := NewSubdir("/srv/messages", "php")
	loc := Location{Language: "pt-BR", Category: "module/sub/page"}
	got, ok, err := s.Locate(s.Path(loc))
	if err != nil || !ok {
		t.Fatalf("Locate(Path()) = (%v, %v, %v)", got, ok, err)
	}
	if got != loc {
		t.Fatalf("round trip = %#v, want %#v", got, loc)
	}
}

func TestBase(t *testing.T) {
	tests := map[string]string{
		"/root":    "/root/",
		"/root/":   "/root/",
		"/root//":  "/root/",
		`C:\msgs\`: "C:/msgs/",
		"/":        "/",
	}
	for in, want := range tests {
		if got := Base(in); got != want {
			t.Fatalf("Base(%q) = %q, want %q", in, got, want)
		}
	}
}
