package chunker

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handbookText(paragraphs int) (string, []string) {
	var paras []string

	for i := 1; i <= paragraphs; i++ {
		sentence := fmt.Sprintf("Section %d explains a company policy in plain words.", i)
		paras = append(paras, strings.TrimSpace(strings.Repeat(sentence+" ", 5)))
	}

	return strings.Join(paras, "\n\n"), paras
}

func TestSplitEmptyText(t *testing.T) {
	s := New(DefaultOptions())

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\n  "))
}

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	s := New(DefaultOptions())

	chunks := s.Split("  Vacation requests go to your manager.  ")
	assert.Equal(t, []string{"Vacation requests go to your manager."}, chunks)
}

func TestSplitRespectsChunkSizeAndKeepsEveryParagraph(t *testing.T) {
	text, paras := handbookText(20)
	s := New(DefaultOptions())

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 800, "chunk %d too long", i)
	}

	for i, para := range paras {
		found := false
		for _, chunk := range chunks {
			if strings.Contains(chunk, para) {
				found = true
				break
			}
		}
		assert.True(t, found, "paragraph %d missing from chunks", i+1)
	}

	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], paras[len(paras)-1]))
}

func TestSplitCarriesOverlapBetweenChunks(t *testing.T) {
	var words []string
	for i := 0; i < 300; i++ {
		words = append(words, fmt.Sprintf("w%04d", i))
	}

	s := New(DefaultOptions())
	chunks := s.Split(strings.Join(words, " "))
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1])
		first := strings.Fields(chunks[i])[0]
		assert.Contains(t, prev, first, "chunk %d does not overlap its predecessor", i)
	}

	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(last, "w0299"))
}

func TestSplitHardCutsUnbrokenText(t *testing.T) {
	s := New(DefaultOptions())

	chunks := s.Split(strings.Repeat("a", 2000))
	require.Len(t, chunks, 3)

	assert.Len(t, chunks[0], 800)
	assert.Len(t, chunks[1], 800)
	assert.Len(t, chunks[2], 600)
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	s := New(DefaultOptions())

	chunks := s.Split(strings.Repeat("é", 1000))
	require.Len(t, chunks, 2)

	assert.Equal(t, 800, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 300, utf8.RuneCountInString(chunks[1]))
}

func TestSplitIsDeterministic(t *testing.T) {
	text, _ := handbookText(12)
	s := New(DefaultOptions())

	assert.Equal(t, s.Split(text), s.Split(text))
	assert.Equal(t, s.Split(text), New(DefaultOptions()).Split(text))
}

func TestNewNormalizesOptions(t *testing.T) {
	assert.Equal(t, DefaultOptions(), New(ChunkOptions{}).Options())
	assert.Equal(t, ChunkOptions{ChunkSize: 10, ChunkOverlap: 9}, New(ChunkOptions{ChunkSize: 10, ChunkOverlap: 50}).Options())
	assert.Equal(t, ChunkOptions{ChunkSize: 10, ChunkOverlap: 0}, New(ChunkOptions{ChunkSize: 10, ChunkOverlap: -1}).Options())
}
