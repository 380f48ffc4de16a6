package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTermSetMembershipIsCaseInsensitive(t *testing.T) {
	set := NewTermSet([]string{"Boston", "Springfield", " Chicago "})

	for _, present := range []string{"boston", "BOSTON", "Chicago"} {
		if !set.Contains(present) {
			t.Errorf("expected Contains(%q) = true", present)
		}
	}
	if set.Contains("Gotham") {
		t.Error("expected absent term to miss")
	}
	if set.Len() != 3 {
		t.Errorf("expected 3 terms, got %d", set.Len())
	}
}

func TestLoadTermSetSkipsBlankAndCommentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.txt")
	content := "# US cities\nBoston\n\nSpringfield\n  \n# trailing comment\nChicago\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadTermSet(path)
	if err != nil {
		t.Fatalf("LoadTermSet: %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("expected 3 terms, got %d", set.Len())
	}
	if !set.Contains("springfield") {
		t.Error("expected springfield present")
	}
}

func TestLoadTermSetMissingFile(t *testing.T) {
	if _, err := LoadTermSet(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
