// Package diff splits unified-diff text into token-budgeted chunks
// along its structural boundaries.
package diff

import "strings"

// Chunk is a contiguous piece of the input with its measured token
// count. Chunks are ephemeral: created by Split, consumed by
// summarization.
type Chunk struct {
	Content string
	Tokens  int
}

// boundaries is the cascade of split points, coarsest first: per-file
// diff sections, then hunks, then blank-line paragraphs. A level is
// only descended into when a piece still exceeds the limit at the
// coarser level. Splitting on structure rather than at arbitrary
// offsets keeps each chunk understandable in isolation.
var boundaries = []func(line string) bool{
	func(line string) bool { return strings.HasPrefix(line, "diff ") },
	func(line string) bool { return strings.HasPrefix(line, "@@") },
	func(line string) bool { return line == "" },
}

// Split cuts text into ordered chunks of at most limit tokens each, as
// measured by count. Adjacent pieces are packed back together greedily
// so chunks come out roughly equal and as large as the limit allows.
// A single line that alone exceeds the limit is indivisible and is
// returned oversized; the caller decides whether to truncate it.
func Split(text string, limit int, count func(string) int) []Chunk {
	parts := split(text, limit, count, 0)
	return pack(parts, limit, count)
}

// split recursively cuts text at ever finer boundaries until each
// piece fits the limit or no finer boundary exists.
func split(text string, limit int, count func(string) int, level int) []string {
	if count(text) <= limit {
		return []string{text}
	}
	if level >= len(boundaries) {
		// Finest level: every line on its own. A single line that is
		// still too long is indivisible and passed through as is.
		return strings.Split(text, "\n")
	}

	parts := splitBefore(text, boundaries[level])
	if len(parts) == 1 {
		// This boundary does not occur in the text; try the next one.
		return split(text, limit, count, level+1)
	}

	var out []string
	for _, p := range parts {
		if count(p) > limit {
			out = append(out, split(p, limit, count, level+1)...)
		} else {
			out = append(out, p)
		}
	}
	return out
}

// splitBefore cuts text into parts, starting a new part at every line
// for which match is true. Text before the first matching line stays
// in the first part, so nothing is dropped.
func splitBefore(text string, match func(line string) bool) []string {
	lines := strings.Split(text, "\n")
	var parts []string
	var cur []string
	for _, line := range lines {
		if match(line) && len(cur) > 0 {
			parts = append(parts, strings.Join(cur, "\n"))
			cur = nil
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		parts = append(parts, strings.Join(cur, "\n"))
	}
	return parts
}

// pack merges adjacent parts back together while the merged piece
// still fits the limit, re-measuring each candidate so the counts stay
// honest. Order is preserved throughout.
func pack(parts []string, limit int, count func(string) int) []Chunk {
	var chunks []Chunk
	for _, p := range parts {
		if len(chunks) > 0 {
			merged := chunks[len(chunks)-1].Content + "\n" + p
			if n := count(merged); n <= limit {
				chunks[len(chunks)-1] = Chunk{Content: merged, Tokens: n}
				continue
			}
		}
		chunks = append(chunks, Chunk{Content: p, Tokens: count(p)})
	}
	return chunks
}
