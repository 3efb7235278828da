package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 100, 20)
	assert.Equal(t, []string{"short text"}, chunks)
}

func TestSplitTextChunksWithOverlap(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := SplitText(text, 100, 20)

	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
	assert.Len(t, chunks[2], 90)

	// Consecutive chunks share the overlap region
	assert.Equal(t, chunks[0][80:], chunks[1][:20])
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("b", 50)
	chunks := SplitText(text, 10, 10)

	// Falls back to non-overlapping steps instead of looping forever
	assert.Len(t, chunks, 5)
	for _, c := range chunks {
		assert.Len(t, c, 10)
	}
}

func TestSplitTextPreservesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("日本語テキスト", 30)
	chunks := SplitText(text, 50, 10)

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(string([]rune(c)[10:]))
	}
	assert.Equal(t, text, rebuilt.String())
}
