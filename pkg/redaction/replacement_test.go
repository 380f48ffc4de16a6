package redaction

import "testing"

func TestReplacementContextScopeNoneNeverMemoizes(t *testing.T) {
	rc := NewReplacementContext()
	n := 0
	gen := func() string { n++; return "token" }

	rc.GetReplacement("v", FilterName, "", ScopeNone, gen)
	rc.GetReplacement("v", FilterName, "", ScopeNone, gen)

	if n != 2 {
		t.Errorf("expected generator called once per invocation under ScopeNone, got %d calls", n)
	}
}

func TestReplacementContextScopeDocumentMemoizes(t *testing.T) {
	rc := NewReplacementContext()
	calls := 0
	gen := func() string { calls++; return "{{NAME_1_1}}" }

	first := rc.GetReplacement("Smith", FilterName, "", ScopeDocument, gen)
	second := rc.GetReplacement("Smith", FilterName, "", ScopeDocument, gen)
	third := rc.GetReplacement("Smith", FilterName, "", ScopeDocument, gen)

	if calls != 1 {
		t.Errorf("expected generator invoked exactly once, got %d", calls)
	}
	if first != second || second != third {
		t.Errorf("expected identical replacement across calls, got %q, %q, %q", first, second, third)
	}

	entries := rc.Entries()
	if len(entries) != 1 || entries[0].Occurrences != 3 {
		t.Fatalf("expected one entry with 3 occurrences, got %+v", entries)
	}
}

func TestReplacementContextScopeDocumentDistinguishesTypeAndValue(t *testing.T) {
	rc := NewReplacementContext()
	a := rc.GetReplacement("Smith", FilterName, "", ScopeDocument, func() string { return "{{NAME_1_1}}" })
	b := rc.GetReplacement("Smith", FilterProviderName, "", ScopeDocument, func() string { return "{{PROVIDER_NAME_1_1}}" })
	c := rc.GetReplacement("Jones", FilterName, "", ScopeDocument, func() string { return "{{NAME_1_2}}" })

	if a == b {
		t.Error("expected different filter types to get different replacements even for the same value")
	}
	if a == c {
		t.Error("expected different values to get different replacements")
	}
}

func TestReplacementContextScopeContextKeyedByContextName(t *testing.T) {
	rc := NewReplacementContext()
	a := rc.GetReplacement("Smith", FilterName, "progress_note", ScopeContext, func() string { return "{{NAME_1_1}}" })
	b := rc.GetReplacement("Smith", FilterName, "discharge_summary", ScopeContext, func() string { return "{{NAME_1_2}}" })

	if a == b {
		t.Error("expected distinct context names to produce distinct replacements under ScopeContext")
	}

	same := rc.GetReplacement("Smith", FilterName, "progress_note", ScopeContext, func() string { return "should not be called" })
	if same != a {
		t.Errorf("expected reuse within the same context name, got %q want %q", same, a)
	}
}
