package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"cardsort/internal/logging"
)

func writeDictionary(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "card_names.txt")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write dictionary: %v", err)
	}
	return path
}

func TestNewCorrectorLoadsFile(t *testing.T) {
	path := writeDictionary(t, "Lightning Bolt\t500\nSol Ring\t900\n# comment\n\nIsland\n")
	c, err := NewCorrector(path, 2, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCorrector: %v", err)
	}
	if c.Size() != 3 {
		t.Fatalf("expected 3 terms, got %d", c.Size())
	}

	match, ok := c.Correct("Lightnin Bolt")
	if !ok || match.Name != "Lightning Bolt" || match.Distance != 1 {
		t.Fatalf("unexpected correction: %+v ok=%v", match, ok)
	}
}

func TestNewCorrectorMissingFile(t *testing.T) {
	if _, err := NewCorrector(filepath.Join(t.TempDir(), "absent.txt"), 2, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing dictionary")
	}
}

func TestCorrectTextPicksBestLine(t *testing.T) {
	path := writeDictionary(t, "Lightning Bolt\t500\nCounterspell\t700\n")
	c, err := NewCorrector(path, 2, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCorrector: %v", err)
	}

	raw := "zzzzzzzz\nCounterspel\n\nLightning Bolt\n"
	match, ok := c.CorrectText(raw)
	if !ok {
		t.Fatal("expected a match")
	}
	// The exact line beats the distance-1 line.
	if match.Name != "Lightning Bolt" || match.Distance != 0 {
		t.Fatalf("unexpected best line: %+v", match)
	}
}

func TestCorrectTextNoMatch(t *testing.T) {
	path := writeDictionary(t, "Lightning Bolt\t500\n")
	c, err := NewCorrector(path, 2, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCorrector: %v", err)
	}
	if _, ok := c.CorrectText("qqqqqqq\nwwwwwww"); ok {
		t.Fatal("expected no match")
	}
}

func TestReloadSwapsIndex(t *testing.T) {
	path := writeDictionary(t, "Island\n")
	c, err := NewCorrector(path, 2, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCorrector: %v", err)
	}
	if _, ok := c.Correct("Mountain"); ok {
		t.Fatal("Mountain should not match before reload")
	}

	if err := os.WriteFile(path, []byte("Island\nMountain\n"), 0o644); err != nil {
		t.Fatalf("rewrite dictionary: %v", err)
	}
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	match, ok := c.Correct("Montain")
	if !ok || match.Name != "Mountain" {
		t.Fatalf("expected Mountain after reload, got %+v ok=%v", match, ok)
	}
}

func TestLoadEntriesParsesFrequencies(t *testing.T) {
	path := writeDictionary(t, "Sol Ring\t900\nPlains\n")
	entries, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "Sol Ring" || entries[0].Frequency != 900 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Frequency != 0 {
		t.Fatalf("expected zero frequency for bare term, got %+v", entries[1])
	}
}
