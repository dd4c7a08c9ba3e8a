package chunker

import "strings"

// separators tried in order; the empty separator means a hard rune cut
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

func DefaultOptions() ChunkOptions {
	return ChunkOptions{
		ChunkSize:    800,
		ChunkOverlap: 100,
	}
}

// New returns a Splitter. Non-positive sizes fall back to the defaults and an
// overlap that would not let the window advance is clamped to ChunkSize-1.
func New(opts ChunkOptions) *Splitter {
	defaults := DefaultOptions()

	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaults.ChunkSize
	}

	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = 0
	}

	if opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = opts.ChunkSize - 1
	}

	return &Splitter{opts: opts, separators: defaultSeparators}
}

// Split cuts text into chunks of at most ChunkSize runes, preferring
// paragraph, line, sentence and word boundaries in that order. Consecutive
// chunks share up to ChunkOverlap runes. The output depends only on text and
// the options.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string

	for _, chunk := range s.split(text, s.separators) {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}

func (s *Splitter) Options() ChunkOptions {
	return s.opts
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := ""
	var remaining []string

	for i, candidate := range separators {
		if candidate == "" {
			break
		}

		if strings.Contains(text, candidate) {
			separator = candidate
			remaining = separators[i+1:]
			break
		}
	}

	if separator == "" {
		return hardSplit(text, s.opts.ChunkSize, s.opts.ChunkOverlap)
	}

	var final, pending []string

	for _, piece := range strings.Split(text, separator) {
		if piece == "" {
			continue
		}

		if runeLen(piece) <= s.opts.ChunkSize {
			pending = append(pending, piece)
			continue
		}

		if len(pending) > 0 {
			final = append(final, s.merge(pending, separator)...)
			pending = nil
		}

		final = append(final, s.split(piece, remaining)...)
	}

	if len(pending) > 0 {
		final = append(final, s.merge(pending, separator)...)
	}

	return final
}
