// Package mood implements mood resolution: mapping free-form user text to one
// canonical mood label from a fixed closed set. It is intentionally small and
// dependency-free at its core, but engineered with production-grade ergonomics:
//
//   - No logging in the keyword classifier (callers decide how/what to log)
//   - Clear, documented types and functional options (Option pattern)
//   - Word-boundary-anchored stem matching (so "crying" matches stem "cry"
//     but "xcryptic" does not)
//   - Deterministic outcome: evaluation follows the declaration order of the
//     canonical mood list, and within a mood the declaration order of stems;
//     the first matching mood wins
//   - Immutable, read-only classifier after construction (safe for concurrent use)
//
// Two interchangeable resolution strategies implement the Resolver interface:
// the keyword classifier in this file and the external AI classifier in
// openai.go. Deployments select one (or a chain) via configuration.
package mood

import (
	"context"
	"regexp"
	"strings"
)

// Canonical is the fixed closed set of mood labels, in declaration order.
// The order is load-bearing: the keyword classifier breaks ties by it, and
// the mood catalog is seeded from it. Labels are stored verbatim, embedded
// slashes and spaces included.
var Canonical = []string{
	"Happy / Joyful",
	"Sad / Melancholic",
	"Romantic / Love",
	"Energetic / Excited",
	"Calm / Relaxed / Chill",
	"Serious / Thoughtful",
	"Scary / Fearful / Dark",
	"Motivational / Inspirational",
}

// IsCanonical reports whether label is exactly one of the canonical moods.
func IsCanonical(label string) bool {
	for _, m := range Canonical {
		if m == label {
			return true
		}
	}
	return false
}

// Keywords maps a canonical mood label to its ordered keyword stems. A stem
// matches when it appears at a word boundary, optionally followed by more
// word characters. The table is configuration data: the default below is
// hand-curated, and deployments may replace it via WithKeywords.
type Keywords struct {
	Mood  string
	Stems []string
}

// defaultKeywords is the curated default stem table, one entry per canonical
// mood in declaration order. Overlapping stems across moods ("focus" appears
// under both Serious and Motivational in earlier curation rounds) resolve by
// mood declaration order, so earlier moods own contested stems.
var defaultKeywords = []Keywords{
	{"Happy / Joyful", []string{"happy", "joy", "glad", "cheer", "delight", "smil", "laugh", "upbeat"}},
	{"Sad / Melancholic", []string{"sad", "cry", "depress", "melanchol", "grie", "lonely", "heartbroken", "down"}},
	{"Romantic / Love", []string{"love", "romanc", "romantic", "crush", "date", "valentine", "affection"}},
	{"Energetic / Excited", []string{"energ", "excit", "pump", "hype", "party", "danc", "workout", "adrenaline"}},
	{"Calm / Relaxed / Chill", []string{"calm", "relax", "chill", "peace", "sooth", "mellow", "unwind", "cozy"}},
	{"Serious / Thoughtful", []string{"serious", "thought", "focus", "study", "reflect", "contempl", "philosoph"}},
	{"Scary / Fearful / Dark", []string{"scar", "fear", "horror", "spook", "creep", "terrif", "dark", "haunt"}},
	{"Motivational / Inspirational", []string{"motivat", "inspir", "ambiti", "goal", "determin", "hustle", "grind"}},
}

// Option configures a KeywordClassifier at construction time.
type Option func(*classifierConfig)

type classifierConfig struct {
	table []Keywords
}

// WithKeywords replaces the default stem table. Entries are evaluated in the
// given order; entries whose Mood is blank or whose stem list is empty are
// dropped. Stems are lower-cased and trimmed.
func WithKeywords(table []Keywords) Option {
	return func(c *classifierConfig) {
		if len(table) > 0 {
			c.table = table
		}
	}
}

// moodEntry holds one mood's compiled stem patterns.
type moodEntry struct {
	label    string
	patterns []*regexp.Regexp
}

// KeywordClassifier maps free text to a canonical mood label by scanning for
// word-boundary-anchored stem prefixes. It performs no I/O, holds no mutable
// state after construction, and is safe for concurrent use.
type KeywordClassifier struct {
	entries []moodEntry
}

// NewKeywordClassifier builds a classifier from the default curated stem
// table, or from a table supplied via WithKeywords.
func NewKeywordClassifier(opts ...Option) *KeywordClassifier {
	cfg := classifierConfig{table: defaultKeywords}
	for _, o := range opts {
		o(&cfg)
	}

	entries := make([]moodEntry, 0, len(cfg.table))
	for _, kw := range cfg.table {
		label := strings.TrimSpace(kw.Mood)
		if label == "" {
			continue
		}
		pats := make([]*regexp.Regexp, 0, len(kw.Stems))
		for _, stem := range kw.Stems {
			stem = strings.ToLower(strings.TrimSpace(stem))
			if stem == "" {
				continue
			}
			pats = append(pats, regexp.MustCompile(stemPattern(stem)))
		}
		if len(pats) == 0 {
			continue
		}
		entries = append(entries, moodEntry{label: label, patterns: pats})
	}
	return &KeywordClassifier{entries: entries}
}

// stemPattern compiles a stem into a word-boundary-anchored prefix pattern.
// Trailing word characters are allowed so "cry" covers "crying". Stems ending
// in "y" additionally accept the "ie" inflection, so "cry" covers "cries" and
// "cried" while "xcryptic" still fails the boundary check.
func stemPattern(stem string) string {
	quoted := regexp.QuoteMeta(stem)
	if strings.HasSuffix(stem, "y") {
		return `\b(?:` + quoted + `|` + regexp.QuoteMeta(stem[:len(stem)-1]) + `ie)\w*`
	}
	return `\b` + quoted + `\w*`
}

// Classify returns the canonical mood label matched by text, or ok=false when
// no stem matches. Matching is case-insensitive; the first mood (in table
// order) with any matching stem wins.
func (k *KeywordClassifier) Classify(text string) (label string, ok bool) {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for _, e := range k.entries {
		for _, p := range e.patterns {
			if p.MatchString(text) {
				return e.label, true
			}
		}
	}
	return "", false
}

// Resolve implements the Resolver interface. The context is unused: the
// keyword classifier is a pure in-process function.
func (k *KeywordClassifier) Resolve(_ context.Context, text string) (string, bool) {
	return k.Classify(text)
}
