package chunker

import (
	"strings"
	"unicode/utf8"
)

// merges small pieces back into chunks of up to ChunkSize runes, carrying the
// trailing pieces of each emitted chunk into the next one while they fit
// within ChunkOverlap
func (s *Splitter) merge(pieces []string, separator string) []string {
	size, overlap := s.opts.ChunkSize, s.opts.ChunkOverlap
	sepLen := runeLen(separator)

	var chunks []string
	var window []string
	total := 0

	joinedLen := func(pieceLen int) int {
		if len(window) == 0 {
			return pieceLen
		}
		return total + sepLen + pieceLen
	}

	for _, piece := range pieces {
		pieceLen := runeLen(piece)

		if len(window) > 0 && joinedLen(pieceLen) > size {
			chunks = append(chunks, strings.Join(window, separator))

			for len(window) > 0 && (total > overlap || joinedLen(pieceLen) > size) {
				total -= runeLen(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}

		total = joinedLen(pieceLen)
		window = append(window, piece)
	}

	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, separator))
	}

	return chunks
}

// cuts text into fixed windows of size runes that advance by size-overlap;
// the last window always reaches the end of text
func hardSplit(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	var chunks []string

	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
