package normalize

import (
	"testing"

	"novelhub/pkg/models"
)

func TestClassifyFrontMarker(t *testing.T) {
	c := DefaultClassifier()

	section, special := c.Classify("序", 0, 3)
	if section != models.SectionFrontMatter {
		t.Errorf("section = %q, want front_matter", section)
	}
	if special != models.SpecialPreface {
		t.Errorf("special = %q, want preface", special)
	}
}

func TestClassifyBackMarker(t *testing.T) {
	c := DefaultClassifier()

	section, special := c.Classify("后记", 2, 3)
	if section != models.SectionBackMatter {
		t.Errorf("section = %q, want back_matter", section)
	}
	if special != models.SpecialAfterword {
		t.Errorf("special = %q, want afterword", special)
	}
}

func TestClassifyBodyDefault(t *testing.T) {
	c := DefaultClassifier()

	section, special := c.Classify("第一章 七剑下天山", 1, 3)
	if section != models.SectionBody {
		t.Errorf("section = %q, want body", section)
	}
	if special != models.SpecialMainChapter {
		t.Errorf("special = %q, want main_chapter", special)
	}
}

func TestClassifyMarkerOutsideWindow(t *testing.T) {
	c := &Classifier{
		FrontWindow:  2,
		FrontMarkers: DefaultClassifier().FrontMarkers,
		BackMarkers:  DefaultClassifier().BackMarkers,
	}

	// A body chapter in the middle of a long book that merely mentions
	// a marker word must stay in the body.
	section, special := c.Classify("序", 50, 100)
	if section != models.SectionBody || special != models.SpecialMainChapter {
		t.Errorf("got (%q, %q), want (body, main_chapter)", section, special)
	}
}

func TestClassifyPrologueBeatsPreface(t *testing.T) {
	c := DefaultClassifier()

	// 序章 contains 序, but the longer keyword must win.
	_, special := c.Classify("序章", 0, 20)
	if special != models.SpecialPrologue {
		t.Errorf("special = %q, want prologue", special)
	}
}

func TestClassifyEnglishMarkersCaseInsensitive(t *testing.T) {
	c := DefaultClassifier()

	_, special := c.Classify("Afterword", 19, 20)
	if special != models.SpecialAfterword {
		t.Errorf("special = %q, want afterword", special)
	}
}

func TestClassifyAmbiguousTieBreaksByPosition(t *testing.T) {
	c := &Classifier{
		FrontWindow: 3,
		FrontMarkers: []Marker{
			{Special: models.SpecialPreface, Keywords: []string{"note"}},
		},
		BackMarkers: []Marker{
			{Special: models.SpecialAuthorNote, Keywords: []string{"note"}},
		},
	}

	section, special := c.Classify("note", 0, 10)
	if section != models.SectionFrontMatter || special != models.SpecialPreface {
		t.Errorf("early note: got (%q, %q), want (front_matter, preface)", section, special)
	}

	section, special = c.Classify("note", 9, 10)
	if section != models.SectionBackMatter || special != models.SpecialAuthorNote {
		t.Errorf("late note: got (%q, %q), want (back_matter, author_note)", section, special)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := DefaultClassifier()

	titles := []string{"序", "第一章", "后记", "附录", "楔子", ""}
	for _, title := range titles {
		s1, sp1 := c.Classify(title, 1, 10)
		s2, sp2 := c.Classify(title, 1, 10)
		if s1 != s2 || sp1 != sp2 {
			t.Errorf("classification of %q not deterministic: (%q,%q) vs (%q,%q)",
				title, s1, sp1, s2, sp2)
		}
	}
}

func TestClassifyWindowDerivedFromTotal(t *testing.T) {
	c := DefaultClassifier()

	if got := c.window(3); got != 1 {
		t.Errorf("window(3) = %d, want 1", got)
	}
	if got := c.window(100); got != 10 {
		t.Errorf("window(100) = %d, want 10", got)
	}

	c.FrontWindow = 5
	if got := c.window(100); got != 5 {
		t.Errorf("explicit window = %d, want 5", got)
	}
}
