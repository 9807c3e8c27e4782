package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSortedMessages(t *testing.T) {
	tests := []struct {
		name         string
		messages     MessageMap
		emptiesFirst bool
		want         []string
	}{
		{
			name:         "empty first already alphabetical",
			messages:     MessageMap{"b": "X", "a": ""},
			emptiesFirst: true,
			want:         []string{"a", "b"},
		},
		{
			name:     "plain order",
			messages: MessageMap{"b": "X", "a": ""},
			want:     []string{"a", "b"},
		},
		{
			name:         "empty bubbles above alphabetically earlier key",
			messages:     MessageMap{"a": "X", "z": ""},
			emptiesFirst: true,
			want:         []string{"z", "a"},
		},
		{
			name:     "case insensitive",
			messages: MessageMap{"banana": "1", "Apple": "2", "cherry": "3"},
			want:     []string{"Apple", "banana", "cherry"},
		},
		{
			name:         "groups keep case insensitive order",
			messages:     MessageMap{"Lorem": "L", "Bar": "", "foo": "F", "ipsum": ""},
			emptiesFirst: true,
			want:         []string{"Bar", "ipsum", "foo", "Lorem"},
		},
		{
			name:     "case-only difference falls back to byte order",
			messages: MessageMap{"abc": "", "ABC": "", "Abc": ""},
			want:     []string{"ABC", "Abc", "abc"},
		},
		{
			name:     "non-ascii",
			messages: MessageMap{"яблоко": "", "Арбуз": "", "банан": ""},
			want:     []string{"Арбуз", "банан", "яблоко"},
		},
		{
			name:     "empty map",
			messages: MessageMap{},
			want:     []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SortedMessages(tc.messages, tc.emptiesFirst)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("SortedMessages() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortedMessagesLeavesInputAlone(t *testing.T) {
	m := MessageMap{"b": "X", "a": ""}
	before := m.Clone()
	_ = SortedMessages(m, true)
	if !m.Equal(before) {
		t.Fatalf("input modified: %v", m)
	}
}
