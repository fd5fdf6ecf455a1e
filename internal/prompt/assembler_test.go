package prompt

import (
	"strings"
	"testing"

	"github.com/lamim/clipwright/pkg/models"
)

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 6000)

	got, truncated := Truncate(long, 5000)
	if !truncated {
		t.Fatal("expected truncation")
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Error("expected truncation marker suffix")
	}
	prefix := strings.TrimSuffix(got, TruncationMarker)
	if len(prefix) != 5000 {
		t.Errorf("expected exactly 5000 retained chars, got %d", len(prefix))
	}
	if prefix != long[:5000] {
		t.Error("retained content must be the exact prefix of the input")
	}
}

func TestTruncateUnderBudget(t *testing.T) {
	short := strings.Repeat("a", 4000)

	got, truncated := Truncate(short, 5000)
	if truncated {
		t.Error("expected no truncation under budget")
	}
	if got != short {
		t.Error("content under budget must pass through unchanged")
	}
	if strings.Contains(got, TruncationMarker) {
		t.Error("no marker may appear without truncation")
	}
}

func TestTruncateExactBudget(t *testing.T) {
	exact := strings.Repeat("a", 5000)
	got, truncated := Truncate(exact, 5000)
	if truncated || got != exact {
		t.Error("content exactly at budget must pass through unchanged")
	}
}

func TestTruncateUnlimited(t *testing.T) {
	long := strings.Repeat("a", 100000)
	for _, budget := range []int{0, -1} {
		got, truncated := Truncate(long, budget)
		if truncated || got != long {
			t.Errorf("budget %d must mean unlimited", budget)
		}
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	input := strings.Repeat("日", 10)
	got, truncated := Truncate(input, 5)
	if !truncated {
		t.Fatal("expected truncation")
	}
	prefix := strings.TrimSuffix(got, TruncationMarker)
	if prefix != strings.Repeat("日", 5) {
		t.Errorf("expected 5 runes retained, got %q", prefix)
	}
}

func TestAssembleClassification(t *testing.T) {
	out, err := Assemble(models.PhaseClassification, "Classify this: {{.Transcript}}", Inputs{
		Transcript: "[00:00] hello\n",
	}, 5000)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if out != "Classify this: [00:00] hello\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestAssembleClassificationTruncatesTranscript(t *testing.T) {
	long := strings.Repeat("x", 6000)
	out, err := Assemble(models.PhaseClassification, "{{.Transcript}}", Inputs{Transcript: long}, 5000)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.Contains(out, TruncationMarker) {
		t.Error("expected truncation marker in assembled prompt")
	}
	if strings.Contains(out, long) {
		t.Error("full transcript must not appear when over budget")
	}
}

func TestAssembleExtractionPrependsClassification(t *testing.T) {
	out, err := Assemble(models.PhaseExtraction, "Extract from: {{.Transcript}}", Inputs{
		Transcript:     "the transcript",
		Classification: "This is a tutorial.",
	}, 15000)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.HasPrefix(out, "This is a tutorial.\n\n") {
		t.Errorf("classification result must precede the template text, got %q", out)
	}
	if !strings.HasSuffix(out, "Extract from: the transcript") {
		t.Errorf("rendered template must follow the prior result, got %q", out)
	}
}

func TestAssembleExtractionRequiresClassification(t *testing.T) {
	_, err := Assemble(models.PhaseExtraction, "{{.Transcript}}", Inputs{Transcript: "text"}, 15000)
	if err == nil {
		t.Error("expected error without classification result")
	}
}

func TestAssembleWritingPrependsAndTruncatesExtraction(t *testing.T) {
	longExtraction := strings.Repeat("y", 200)
	out, err := Assemble(models.PhaseWriting, "Write the article.", Inputs{
		Transcript: "unused here",
		Extraction: longExtraction,
	}, 100)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	wantPrefix := strings.Repeat("y", 100) + TruncationMarker + "\n\n"
	if !strings.HasPrefix(out, wantPrefix) {
		t.Errorf("expected truncated extraction before template, got %q", out)
	}
	if !strings.HasSuffix(out, "Write the article.") {
		t.Errorf("expected template text at end, got %q", out)
	}
}

func TestAssembleWritingRequiresExtraction(t *testing.T) {
	_, err := Assemble(models.PhaseWriting, "Write.", Inputs{Transcript: "text"}, -1)
	if err == nil {
		t.Error("expected error without extraction result")
	}
}

func TestAssembleUnknownPhase(t *testing.T) {
	if _, err := Assemble(models.Phase("bogus"), "x", Inputs{}, -1); err == nil {
		t.Error("expected error for unknown phase")
	}
}

func TestAssembleInvalidTemplate(t *testing.T) {
	_, err := Assemble(models.PhaseClassification, "{{.Transcript", Inputs{Transcript: "x"}, -1)
	if err == nil {
		t.Error("expected error for malformed template")
	}
}
