package catalog

// Stats summarizes translation progress for one language.
type Stats struct {
	Categories int
	Messages   int
	Translated int
}

// Untranslated returns the number of messages without a translation.
func (s Stats) Untranslated() int {
	return s.Messages - s.Translated
}

// Percent returns the translated share rounded down to a whole percent.
func (s Stats) Percent() int {
	if s.Messages == 0 {
		return 0
	}
	return s.Translated * 100 / s.Messages
}

// Stats returns the progress of every category in c combined.
func (c CategoryMap) Stats() Stats {
	s := Stats{Categories: len(c)}
	for _, messages := range c {
		s.Messages += len(messages)
		s.Translated += messages.Translated()
	}
	return s
}

// Stats returns per-language progress.
func (c Catalog) Stats() map[string]Stats {
	out := make(map[string]Stats, len(c))
	for lang, categories := range c {
		out[lang] = categories.Stats()
	}
	return out
}
