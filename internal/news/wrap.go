package news

import (
	"strings"
	"unicode/utf8"
)

// DefaultWidth is the column limit used when wrapping NEWS entries.
const DefaultWidth = 70

// fill wraps text into lines no longer than width and joins them with
// newlines. Continuation lines are prefixed with indent, which counts towards
// the width. Whitespace is collapsed at line boundaries but kept at the very
// start of the paragraph. Words may be broken after an embedded hyphen, and
// words longer than a whole line are split.
func fill(text string, width int, indent string) string {
	return strings.Join(wrapLines(text, width, indent), "\n")
}

func wrapLines(text string, width int, indent string) []string {
	chunks := splitChunks(normalizeWhitespace(text))

	var lines []string
	for len(chunks) > 0 {
		prefix := ""
		if len(lines) > 0 {
			prefix = indent
		}
		avail := width - len(prefix)

		if len(lines) > 0 && isBlank(chunks[0]) {
			chunks = chunks[1:]
		}

		var cur []string
		curLen := 0
		for len(chunks) > 0 && curLen+len(chunks[0]) <= avail {
			cur = append(cur, chunks[0])
			curLen += len(chunks[0])
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && len(chunks[0]) > avail {
			spaceLeft := avail - curLen
			if avail < 1 {
				spaceLeft = 1
			}
			// An empty head still counts as the last chunk, so a line
			// that is already full keeps its trailing space.
			head, tail := splitAt(chunks[0], spaceLeft)
			cur = append(cur, head)
			chunks[0] = tail
		}

		if len(cur) > 0 && isBlank(cur[len(cur)-1]) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			lines = append(lines, prefix+strings.Join(cur, ""))
		}
	}
	return lines
}

// splitAt cuts s after at most n bytes without splitting a UTF-8 sequence.
// At least one rune is always taken when n > 0.
func splitAt(s string, n int) (string, string) {
	if n >= len(s) {
		return s, ""
	}
	if n <= 0 {
		return "", s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(s)
		cut = size
	}
	return s[:cut], s[cut:]
}

// normalizeWhitespace expands tabs to 8-column stops and turns every other
// whitespace character into a single space.
func normalizeWhitespace(s string) string {
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n', '\r':
			b.WriteByte(' ')
			col = 0
		case '\v', '\f':
			b.WriteByte(' ')
			col++
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isLetterByte(c byte) bool {
	return isWordByte(c) && (c < '0' || c > '9')
}

// splitChunks divides text into runs of spaces and words. Hyphenated words
// are further divided after each hyphen that joins two alphabetic parts, and
// runs of two or more hyphens used as a dash become their own chunk.
func splitChunks(text string) []string {
	var chunks []string
	for len(text) > 0 {
		end := 1
		space := text[0] == ' '
		for end < len(text) && (text[end] == ' ') == space {
			end++
		}
		if space {
			chunks = append(chunks, text[:end])
		} else {
			chunks = append(chunks, splitWord(text[:end])...)
		}
		text = text[end:]
	}
	return chunks
}

func splitWord(word string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(word); i++ {
		if word[i] != '-' {
			continue
		}

		// A dash: two or more hyphens between a word and what follows.
		j := i
		for j < len(word) && word[j] == '-' {
			j++
		}
		if j-i >= 2 {
			if i > 0 && strings.IndexByte(`!"'&.,?`, word[i-1]) >= 0 || i > 0 && isWordByte(word[i-1]) {
				if j < len(word) && isWordByte(word[j]) {
					if i > start {
						parts = append(parts, word[start:i])
					}
					parts = append(parts, word[i:j])
					start = j
				}
			}
			i = j - 1
			continue
		}

		// A single hyphen joining two words.
		if !hyphenBreaks(word, i) {
			continue
		}
		segStart := i - 1
		for segStart > start && isWordByte(word[segStart-1]) {
			segStart--
		}
		for segStart > start && word[segStart-1] != ' ' && !isWordByte(word[segStart-1]) {
			segStart--
		}
		if segStart > start {
			parts = append(parts, word[start:segStart])
		}
		parts = append(parts, word[segStart:i+1])
		start = i + 1
	}
	if start < len(word) {
		parts = append(parts, word[start:])
	}
	return parts
}

// hyphenBreaks reports whether a line may break after the hyphen at i: it
// must follow at least two word characters ending in a letter and precede a
// word of at least two characters containing a letter after its first.
func hyphenBreaks(word string, i int) bool {
	if i < 2 || !isLetterByte(word[i-1]) || !isWordByte(word[i-2]) {
		return false
	}
	k := i + 1
	if k >= len(word) || !isWordByte(word[k]) {
		return false
	}
	for k++; k < len(word) && isWordByte(word[k]); k++ {
		if isLetterByte(word[k]) {
			return true
		}
	}
	return false
}
