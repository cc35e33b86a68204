package textnorm

import "testing"

func TestNormalizeStripsVariationSelector(t *testing.T) {
	withSelector := "✅️ Done"
	without := "✅ Done"

	if Normalize(withSelector) != Normalize(without) {
		t.Errorf("expected %q and %q to normalize equally", withSelector, without)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("  Open   shift \t menu ")
	want := "open shift menu"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if Normalize("") != "" {
		t.Error("expected empty string for empty input")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"✅️ Готово",
		"  MIXED   Case️ text ",
		"ﬁnish", // compatibility ligature
		"plain",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("✅️  готово", "✅ ГОТОВО") {
		t.Error("expected labels to compare equal")
	}
	if Equal("back", "home") {
		t.Error("expected distinct labels to differ")
	}
}
