package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		t.Setenv(env, "")
	}
}

func restore(t *testing.T) {
	t.Helper()
	oldLocale, oldLang := locale, lang
	t.Cleanup(func() { locale, lang = oldLocale, oldLang })
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "LANGUAGE list wins",
			env:  map[string]string{"LANGUAGE": "ru_RU.UTF-8:en_US", "LC_ALL": "de_DE.UTF-8"},
			want: "ru_RU",
		},
		{
			name: "C and POSIX are skipped",
			env:  map[string]string{"LANGUAGE": "C", "LC_ALL": "POSIX", "LC_MESSAGES": "fr_FR.UTF-8"},
			want: "fr_FR",
		},
		{
			name: "modifier is dropped",
			env:  map[string]string{"LANG": "sr_RS@latin"},
			want: "sr_RS",
		},
		{
			name: "falls back to en",
			want: "en",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearLocaleEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if got := detectLanguage(); got != tc.want {
				t.Fatalf("detectLanguage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPassthroughBeforeInit(t *testing.T) {
	restore(t)
	locale = nil

	if got := T("Export written to %s", "/tmp/i18n"); got != "Export written to /tmp/i18n" {
		t.Fatalf("T = %q", got)
	}
	if got := T("100% done"); got != "100% done" {
		t.Fatalf("T without arguments = %q, want the msgid unchanged", got)
	}
	if got := N("%d file", "%d files", 1, 1); got != "1 file" {
		t.Fatalf("N(1) = %q", got)
	}
	if got := N("%d file", "%d files", 3, 3); got != "3 files" {
		t.Fatalf("N(3) = %q", got)
	}
}

func TestInitEmbeddedCatalog(t *testing.T) {
	restore(t)

	Init("ru")
	if Language() != "ru" {
		t.Fatalf("Language() = %q, want %q", Language(), "ru")
	}
	if got, want := T("Export written to %s", "i18n"), "Экспорт записан в i18n"; got != want {
		t.Fatalf("T = %q, want %q", got, want)
	}
	if got := T("not in the catalog"); got != "not in the catalog" {
		t.Fatalf("T(unknown) = %q", got)
	}
}
