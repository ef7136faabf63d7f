package report

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidentia/threadloom/pkg/mailthread"
)

func TestRenderOutline(t *testing.T) {
	tree, err := loadedProcessor(t).BuildThreadTree("t1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderOutline(&buf, tree, OutlineOptions{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "t1: 2 messages")
	assert.Contains(t, lines[0], "3 participants")
	assert.Contains(t, lines[0], "2023-01-15T10:30:00Z to 2023-01-15T11:00:00Z")

	assert.True(t, strings.HasPrefix(lines[1], "- [ACME0000001] Q3 forecast"), "got %q", lines[1])
	assert.Contains(t, lines[1], "jane.smith@acme.com")
	assert.Contains(t, lines[1], "Numbers attached.")

	assert.True(t, strings.HasPrefix(lines[2], "  - [ACME0000002] Re: Q3 forecast"), "got %q", lines[2])
	assert.Contains(t, lines[2], "Looks good.")
}

func TestRenderOutlineBadges(t *testing.T) {
	tree, err := loadedProcessor(t).BuildThreadTree("t2")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderOutline(&buf, tree, OutlineOptions{}))
	assert.Contains(t, buf.String(), "Fwd: Vendor intro [FWD] [EXT]")
}

func TestRenderOutlineSnippetsDisabled(t *testing.T) {
	tree, err := loadedProcessor(t).BuildThreadTree("t1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderOutline(&buf, tree, OutlineOptions{SnippetLen: -1}))
	assert.NotContains(t, buf.String(), "Numbers attached.")
}

func TestRenderOutlineTruncatesSnippets(t *testing.T) {
	tree, err := loadedProcessor(t).BuildThreadTree("t1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderOutline(&buf, tree, OutlineOptions{SnippetLen: 7}))
	assert.Contains(t, buf.String(), "Numbers...")
	assert.NotContains(t, buf.String(), "Numbers attached.")
}

func TestRenderOutlineMissingSubject(t *testing.T) {
	p, err := mailthread.NewProcessor(log.New(io.Discard))
	require.NoError(t, err)
	_, err = p.Load([]mailthread.Row{
		reportRow("ACME0000009", "MSG-ID:m9|THREAD:t9", "", "jane.smith@acme.com", "2023-01-15T10:30:00Z", ""),
	})
	require.NoError(t, err)
	p.GroupByThreads()

	tree, err := p.BuildThreadTree("t9")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderOutline(&buf, tree, OutlineOptions{}))
	assert.Contains(t, buf.String(), "(no subject)")
}

func TestSnippetCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "Line one. Line two.", snippet("Line one.\n\n  Line two.\n", 100))
	assert.Equal(t, "", snippet("", 10))
}

func TestSnippetTruncatesRunes(t *testing.T) {
	assert.Equal(t, "Line on...", snippet("Line one.", 7))
	assert.Equal(t, "héllo...", snippet("héllo wörld", 5))
}

func TestSnippetStripsMarkup(t *testing.T) {
	s := snippet("<html><body><p>Hello <b>world</b></p></body></html>", 100)
	assert.Contains(t, s, "Hello")
	assert.Contains(t, s, "world")
	assert.NotContains(t, s, "<")
}
