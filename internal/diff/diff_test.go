package diff

import (
	"strings"
	"testing"
)

// countWords stands in for the tokenizer: one word, one token.
func countWords(s string) int { return len(strings.Fields(s)) }

const sampleDiff = `diff --git a/alpha.go b/alpha.go
index 111..222 100644
--- a/alpha.go
+++ b/alpha.go
@@ -1,3 +1,4 @@
 package alpha
+// added alpha comment
 func Alpha() {}
diff --git a/beta.go b/beta.go
index 333..444 100644
--- a/beta.go
+++ b/beta.go
@@ -1,3 +1,4 @@
 package beta
+// added beta comment
 func Beta() {}
diff --git a/gamma.go b/gamma.go
index 555..666 100644
--- a/gamma.go
+++ b/gamma.go
@@ -1,3 +1,4 @@
 package gamma
+// added gamma comment
 func Gamma() {}`

func TestSplit_FitsInOneChunk(t *testing.T) {
	chunks := Split(sampleDiff, 10000, countWords)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != sampleDiff {
		t.Error("small input should come back unchanged")
	}
	if chunks[0].Tokens != countWords(sampleDiff) {
		t.Errorf("token count: got %d, want %d", chunks[0].Tokens, countWords(sampleDiff))
	}
}

func TestSplit_FileSections(t *testing.T) {
	// Each file section is ~25 words; a limit of 30 forces one section
	// per chunk.
	chunks := Split(sampleDiff, 30, countWords)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !strings.HasPrefix(c.Content, "diff --git") {
			t.Errorf("chunk %d should start at a file boundary, got %q", i, firstLine(c.Content))
		}
		if c.Tokens > 30 {
			t.Errorf("chunk %d over limit: %d tokens", i, c.Tokens)
		}
	}

	// Order must match the input diff.
	for i, name := range []string{"alpha", "beta", "gamma"} {
		if !strings.Contains(chunks[i].Content, name) {
			t.Errorf("chunk %d should contain %q section", i, name)
		}
	}
}

func TestSplit_PacksAdjacentSections(t *testing.T) {
	// Two sections fit together under this limit, the third does not.
	chunks := Split(sampleDiff, 55, countWords)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks after packing, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Content, "alpha") || !strings.Contains(chunks[0].Content, "beta") {
		t.Error("first chunk should pack alpha and beta sections together")
	}
	if !strings.Contains(chunks[1].Content, "gamma") {
		t.Error("second chunk should hold the gamma section")
	}
}

func TestSplit_HunkFallback(t *testing.T) {
	oneFile := `diff --git a/big.go b/big.go
index 111..222 100644
--- a/big.go
+++ b/big.go
@@ -1,4 +1,5 @@ first hunk of changes here
 one two three four five
+six seven eight nine ten
@@ -10,4 +11,5 @@ second hunk of changes here
 eleven twelve thirteen fourteen
+fifteen sixteen seventeen eighteen`

	// The whole section is over the limit but each hunk fits, so the
	// splitter descends to hunk boundaries.
	chunks := Split(oneFile, 18, countWords)
	if len(chunks) < 2 {
		t.Fatalf("expected hunk-level split, got %d chunk(s)", len(chunks))
	}
	var hunkStarts int
	for _, c := range chunks {
		if strings.HasPrefix(c.Content, "@@") {
			hunkStarts++
		}
	}
	if hunkStarts == 0 {
		t.Error("expected at least one chunk to start at a hunk boundary")
	}
	if !strings.Contains(chunks[0].Content, "diff --git") {
		t.Error("file header should stay with the first chunk")
	}
}

func TestSplit_PlainTextParagraphs(t *testing.T) {
	text := "first summary paragraph with several words here\n\nsecond summary paragraph with several words here\n\nthird summary paragraph with several words here"

	chunks := Split(text, 8, countWords)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 paragraph chunks, got %d", len(chunks))
	}
	for i, want := range []string{"first", "second", "third"} {
		if !strings.Contains(chunks[i].Content, want) {
			t.Errorf("chunk %d: expected %q paragraph", i, want)
		}
	}
}

func TestSplit_IndivisibleLine(t *testing.T) {
	line := "one two three four five six seven eight nine ten"

	chunks := Split(line, 3, countWords)
	if len(chunks) != 1 {
		t.Fatalf("a single line cannot be split: got %d chunks", len(chunks))
	}
	if chunks[0].Tokens <= 3 {
		t.Errorf("oversized indivisible chunk should report its real count, got %d", chunks[0].Tokens)
	}
	if chunks[0].Content != line {
		t.Error("indivisible line should pass through unchanged")
	}
}

func TestSplit_NothingDropped(t *testing.T) {
	chunks := Split(sampleDiff, 30, countWords)
	var joined strings.Builder
	for i, c := range chunks {
		if i > 0 {
			joined.WriteString("\n")
		}
		joined.WriteString(c.Content)
	}
	for _, marker := range []string{"added alpha comment", "added beta comment", "added gamma comment"} {
		if !strings.Contains(joined.String(), marker) {
			t.Errorf("splitting lost content: %q missing", marker)
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
