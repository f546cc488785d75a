package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTitle_FirstHeading(t *testing.T) {
	title, ok := ExtractTitle([]byte("# Build Pipeline\n\nSome text.\n\n## Later\n"))
	require.True(t, ok)
	require.Equal(t, "Build Pipeline", title)
}

func TestExtractTitle_SkipsLeadingParagraph(t *testing.T) {
	title, ok := ExtractTitle([]byte("Intro paragraph.\n\n## Setup\n"))
	require.True(t, ok)
	require.Equal(t, "Setup", title)
}

func TestExtractTitle_InlineMarkup(t *testing.T) {
	title, ok := ExtractTitle([]byte("# Using `docsplit` *well*\n"))
	require.True(t, ok)
	require.Equal(t, "Using docsplit well", title)
}

func TestExtractTitle_NoHeading(t *testing.T) {
	_, ok := ExtractTitle([]byte("Just a paragraph.\n"))
	require.False(t, ok)

	_, ok = ExtractTitle(nil)
	require.False(t, ok)
}
