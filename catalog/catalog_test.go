package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCloneIsIndependent(t *testing.T) {
	orig := Catalog{"en": {"app": {"Hi": "Hello"}}}
	clone := orig.Clone()

	clone["en"]["app"]["Hi"] = "Changed"
	clone["en"]["app"]["New"] = ""
	clone["de"] = CategoryMap{}

	if got := orig["en"]["app"]["Hi"]; got != "Hello" {
		t.Fatalf("original mutated through clone: Hi = %q", got)
	}
	if _, ok := orig["en"]["app"]["New"]; ok {
		t.Fatal("original gained a message added to the clone")
	}
	if _, ok := orig["de"]; ok {
		t.Fatal("original gained a language added to the clone")
	}
}

func TestEqualTreatsNilAndEmptyAlike(t *testing.T) {
	if !(MessageMap(nil)).Equal(MessageMap{}) {
		t.Fatal("nil and empty MessageMap should be equal")
	}
	a := Catalog{"en": {"app": {"Hi": ""}}}
	b := Catalog{"en": {"app": {"Hi": ""}}}
	if !a.Equal(b) {
		t.Fatal("identical catalogs reported unequal")
	}
	b["en"]["app"]["Hi"] = "Hello"
	if a.Equal(b) {
		t.Fatal("catalogs with different translations reported equal")
	}
	delete(b["en"]["app"], "Hi")
	if a.Equal(b) {
		t.Fatal("absent message reported equal to empty translation")
	}
}

func TestSetAndLookup(t *testing.T) {
	c := Catalog{}
	c.Set("ru-RU", "app/page", "Title", "Заголовок")

	got, ok := c.Lookup("ru-RU", "app/page", "Title")
	if !ok || got != "Заголовок" {
		t.Fatalf("Lookup = (%q, %v), want (Заголовок, true)", got, ok)
	}
	if _, ok := c.Lookup("ru-RU", "app/page", "Missing"); ok {
		t.Fatal("Lookup found a missing message")
	}
	if _, ok := c.Lookup("de", "app", "Title"); ok {
		t.Fatal("Lookup found a message in a missing language")
	}
}

func TestOrderedKeys(t *testing.T) {
	c := Catalog{
		"ru": {"b": {}, "a/x": {}},
		"en": {},
	}
	if diff := cmp.Diff([]string{"en", "ru"}, c.Languages()); diff != "" {
		t.Fatalf("Languages() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a/x", "b"}, c["ru"].Categories()); diff != "" {
		t.Fatalf("Categories() mismatch (-want +got):\n%s", diff)
	}
}

func TestStats(t *testing.T) {
	c := Catalog{
		"ru": {
			"app":  {"One": "Один", "Two": ""},
			"site": {"Three": "Три"},
		},
		"de": {},
	}
	stats := c.Stats()

	want := Stats{Categories: 2, Messages: 3, Translated: 2}
	if diff := cmp.Diff(want, stats["ru"]); diff != "" {
		t.Fatalf("ru stats mismatch (-want +got):\n%s", diff)
	}
	if got := stats["ru"].Percent(); got != 66 {
		t.Fatalf("Percent() = %d, want 66", got)
	}
	if got := stats["ru"].Untranslated(); got != 1 {
		t.Fatalf("Untranslated() = %d, want 1", got)
	}
	if got := stats["de"].Percent(); got != 0 {
		t.Fatalf("Percent() for empty language = %d, want 0", got)
	}
}
