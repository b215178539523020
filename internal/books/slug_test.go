package books

import (
	"testing"

	"novelhub/pkg/models"
)

func TestSlugLatin(t *testing.T) {
	got := Slug("  Seven Swords of Mount Heaven! ")
	want := "seven-swords-of-mount-heaven"
	if got != want {
		t.Errorf("Slug() = %q, want %q", got, want)
	}
}

func TestSlugChineseTitle(t *testing.T) {
	// CJK runes are letters, so a Chinese title slugs to itself
	got := Slug("七剑下天山")
	if got != "七剑下天山" {
		t.Errorf("Slug() = %q, want unchanged title", got)
	}
}

func TestSlugMixedSeparators(t *testing.T) {
	got := Slug("白发魔女传 (1957)")
	want := "白发魔女传-1957"
	if got != want {
		t.Errorf("Slug() = %q, want %q", got, want)
	}
}

func TestIDForPrefersWorkNumber(t *testing.T) {
	b := &models.Book{}
	b.Meta.WorkNumber = "042"
	b.Meta.Title = "白发魔女传"

	if got := IDFor(b); got != "work-042" {
		t.Errorf("IDFor() = %q, want %q", got, "work-042")
	}
}

func TestIDForFallsBackToTitle(t *testing.T) {
	b := &models.Book{}
	b.Meta.Title = "七剑下天山"

	if got := IDFor(b); got != "七剑下天山" {
		t.Errorf("IDFor() = %q, want title slug", got)
	}
}

func TestIDForNoMetadataIsNonEmpty(t *testing.T) {
	b := &models.Book{}
	first := IDFor(b)
	second := IDFor(b)
	if first == "" {
		t.Fatal("IDFor() returned empty id for book without metadata")
	}
	if first == second {
		t.Errorf("random fallback ids should differ, got %q twice", first)
	}
}
