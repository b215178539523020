package normalize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"novelhub/pkg/models"
)

// Marker binds title keywords to the special type they indicate.
type Marker struct {
	Special  models.SpecialType `yaml:"special_type"`
	Keywords []string           `yaml:"keywords"`
}

// Classifier assigns each chapter a section and special type from its
// title and position. Classification is a total function: unmatched or
// ambiguous input always falls back to body/main_chapter.
type Classifier struct {
	// FrontWindow is K: lexical markers only apply within the first or
	// last K chapters. Zero derives K from the chapter count.
	FrontWindow  int      `yaml:"front_window"`
	FrontMarkers []Marker `yaml:"front"`
	BackMarkers  []Marker `yaml:"back"`
}

// DefaultClassifier carries the marker conventions of the wuxia corpus
// plus their common English equivalents.
func DefaultClassifier() *Classifier {
	return &Classifier{
		FrontMarkers: []Marker{
			{Special: models.SpecialPreface, Keywords: []string{"序", "序言", "自序", "代序", "preface", "foreword"}},
			{Special: models.SpecialIntroduction, Keywords: []string{"前言", "引言", "导读", "introduction"}},
			{Special: models.SpecialPrologue, Keywords: []string{"楔子", "引子", "序章", "prologue"}},
		},
		BackMarkers: []Marker{
			{Special: models.SpecialAfterword, Keywords: []string{"后记", "後記", "跋", "afterword", "postscript"}},
			{Special: models.SpecialAppendix, Keywords: []string{"附录", "附錄", "appendix"}},
			{Special: models.SpecialEpilogue, Keywords: []string{"尾声", "尾聲", "终章", "終章", "epilogue"}},
			{Special: models.SpecialAuthorNote, Keywords: []string{"作者的话", "作者的話", "author note", "author's note"}},
		},
	}
}

// LoadClassifier reads marker configuration from a YAML file.
// Thresholds and keyword sets are corpus-specific, so batch tooling can
// swap them without a rebuild.
func LoadClassifier(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier config: %w", err)
	}
	c := DefaultClassifier()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse classifier config: %w", err)
	}
	return c, nil
}

// window resolves K for a book of the given size.
func (c *Classifier) window(total int) int {
	if c.FrontWindow > 0 {
		return c.FrontWindow
	}
	k := total / 10
	if k < 1 {
		k = 1
	}
	return k
}

// Classify returns the section and special type for a chapter title at
// position index of total. Deterministic: identical input always yields
// identical output.
func (c *Classifier) Classify(title string, index, total int) (models.SectionType, models.SpecialType) {
	k := c.window(total)

	frontSpecial, frontOK := matchMarkers(c.FrontMarkers, title)
	backSpecial, backOK := matchMarkers(c.BackMarkers, title)

	// A title matching both front and back markers is impossible
	// positionally; resolve by which end of the book is closer.
	if frontOK && backOK {
		if index <= total-1-index {
			backOK = false
		} else {
			frontOK = false
		}
	}

	if frontOK && index < k {
		return models.SectionFrontMatter, frontSpecial
	}
	if backOK && index >= total-k {
		return models.SectionBackMatter, backSpecial
	}

	return models.SectionBody, models.SpecialMainChapter
}

// matchMarkers does a lexical scan of the title against each marker's
// keyword list. The longest matching keyword wins, so 序章 classifies as
// prologue even though 序 alone marks a preface; length ties go to the
// earlier marker.
func matchMarkers(markers []Marker, title string) (models.SpecialType, bool) {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return "", false
	}

	var (
		best    models.SpecialType
		bestLen int
	)
	for _, m := range markers {
		for _, kw := range m.Keywords {
			if kw == "" {
				continue
			}
			n := len([]rune(kw))
			if n > bestLen && strings.Contains(t, strings.ToLower(kw)) {
				best = m.Special
				bestLen = n
			}
		}
	}
	return best, bestLen > 0
}
