package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"novelhub/pkg/models"
)

func TestLoadClassifierOverridesWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	cfg := "front_window: 3\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := LoadClassifier(path)
	if err != nil {
		t.Fatalf("LoadClassifier() error: %v", err)
	}

	if c.FrontWindow != 3 {
		t.Errorf("FrontWindow = %d, want 3", c.FrontWindow)
	}
	// defaults survive when the file doesn't mention markers
	if len(c.FrontMarkers) == 0 || len(c.BackMarkers) == 0 {
		t.Error("default markers should survive a partial config")
	}

	// window 3 now lets a marker apply deeper into the book
	section, special := c.Classify("序", 2, 20)
	if section != models.SectionFrontMatter || special != models.SpecialPreface {
		t.Errorf("Classify(序, 2, 20) = (%s, %s), want front_matter/preface", section, special)
	}
}

func TestLoadClassifierReplacesMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	cfg := `
front:
  - special_type: preface
    keywords: ["卷首语"]
`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := LoadClassifier(path)
	if err != nil {
		t.Fatalf("LoadClassifier() error: %v", err)
	}

	section, special := c.Classify("卷首语", 0, 10)
	if section != models.SectionFrontMatter || special != models.SpecialPreface {
		t.Errorf("custom keyword not honored: got (%s, %s)", section, special)
	}

	// the config's front list replaces the default one wholesale
	if section, _ := c.Classify("楔子", 0, 10); section != models.SectionBody {
		t.Errorf("default front markers should be replaced, 楔子 classified as %s", section)
	}
}

func TestLoadClassifierMissingFile(t *testing.T) {
	if _, err := LoadClassifier(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadClassifier() on missing file should fail")
	}
}
