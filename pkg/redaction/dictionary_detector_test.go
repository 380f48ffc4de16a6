package redaction

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vulpes/redact/pkg/dictionary"
)

func writeSurnameBloom(t *testing.T, dir string, names ...string) string {
	t.Helper()
	f := dictionary.New(8192, 4)
	for _, n := range names {
		f.Add(n)
	}
	path := filepath.Join(dir, "surnames.bloom")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	if err := f.Encode(out); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSurnameDetectorFindsKnownSurnames(t *testing.T) {
	path := writeSurnameBloom(t, t.TempDir(), "Smith", "Garcia")
	d := NewSurnameDetector(path)

	spans, err := d.Detect(context.Background(), "Seen by Smith near the lobby. No sign of Jones.", IdentifierConfig{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d: %+v", len(spans), spans)
	}
	s := spans[0]
	if s.Text != "Smith" || s.FilterType != FilterName {
		t.Errorf("unexpected span %+v", s)
	}
	if s.Start != 8 || s.End != 13 {
		t.Errorf("expected offsets [8,13), got [%d,%d)", s.Start, s.End)
	}
}

func TestSurnameDetectorLoadFailureIsRemembered(t *testing.T) {
	d := NewSurnameDetector(filepath.Join(t.TempDir(), "missing.bloom"))
	if _, err := d.Detect(context.Background(), "Smith", IdentifierConfig{}); err == nil {
		t.Fatal("expected load error for missing dictionary file")
	}
	// Second call hits the remembered error, not a second disk load.
	if _, err := d.Detect(context.Background(), "Smith", IdentifierConfig{}); err == nil {
		t.Fatal("expected remembered load error on second call")
	}
}

func TestCityDetectorFindsKnownCities(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.txt")
	if err := os.WriteFile(path, []byte("Boston\nSpringfield\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewCityDetector(path)
	spans, err := d.Detect(context.Background(), "Transferred from Boston yesterday.", IdentifierConfig{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(spans) != 1 || spans[0].Text != "Boston" || spans[0].FilterType != FilterAddress {
		t.Fatalf("expected one Boston ADDRESS span, got %+v", spans)
	}
}

func TestFactoryRegistersDictionaryDetectors(t *testing.T) {
	dir := t.TempDir()
	writeSurnameBloom(t, dir, "Smith")
	if err := os.WriteFile(filepath.Join(dir, "cities.txt"), []byte("Boston\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	factory := NewEngineFactory(FactoryConfig{DictionariesDir: dir}, nil)
	engine := factory.NewEngine()

	session := NewRedactionContext(7)
	redacted, err := engine.Redact(context.Background(), "Seen by Smith in Boston.", policyFor(FilterName, FilterAddress), session)
	if err != nil {
		t.Fatalf("Redact: %v", err)
	}
	if got := redacted; got == "Seen by Smith in Boston." {
		t.Errorf("expected dictionary-backed detections to redact, got %q", got)
	}
}
