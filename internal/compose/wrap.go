package compose

import "strings"

// Wrap re-wraps each line of msg to at most width columns, breaking at
// spaces. Blank lines survive, so the summary/body separation stays
// intact. Continuation lines keep the original line's indentation,
// which keeps bullet lists readable. A width of zero or less disables
// wrapping.
func Wrap(msg string, width int) string {
	if width <= 0 {
		return msg
	}
	var out []string
	for _, line := range strings.Split(msg, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if len(line) <= width {
		return []string{line}
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	words := strings.Fields(line)
	if len(words) <= 1 {
		// A single unbreakable run stays on its own line.
		return []string{line}
	}

	var wrapped []string
	cur := indent + words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) <= width {
			cur += " " + w
		} else {
			wrapped = append(wrapped, cur)
			cur = indent + w
		}
	}
	return append(wrapped, cur)
}
