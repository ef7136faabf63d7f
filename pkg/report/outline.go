package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jaytaylor/html2text"

	"github.com/evidentia/threadloom/pkg/mailthread"
)

const defaultSnippetLen = 80

type OutlineOptions struct {
	// SnippetLen caps the body excerpt per node, in runes. Zero picks the
	// default, negative disables snippets.
	SnippetLen int
}

// RenderOutline writes a thread as an indented text outline, one line per
// node: bates marker, subject, FWD/EXT badges, sender, sent date, and a
// body snippet.
func RenderOutline(w io.Writer, tree *mailthread.ThreadTree, opts OutlineOptions) error {
	limit := opts.SnippetLen
	if limit == 0 {
		limit = defaultSnippetLen
	}

	_, err := fmt.Fprintf(w, "%s: %d messages, %d participants, %s to %s\n",
		tree.ThreadID, tree.TotalEmails, len(tree.Participants),
		tree.DateRange.Start.Format(time.RFC3339), tree.DateRange.End.Format(time.RFC3339))
	if err != nil {
		return err
	}

	for _, root := range tree.Roots {
		if err := renderNode(w, root, limit); err != nil {
			return err
		}
	}
	return nil
}

func renderNode(w io.Writer, node *mailthread.ThreadNode, limit int) error {
	subject := node.Email.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	var badges string
	if node.Email.IsForward {
		badges += " [FWD]"
	}
	if node.Email.IsExternal {
		badges += " [EXT]"
	}

	line := fmt.Sprintf("%s- [%s] %s%s | %s | %s",
		strings.Repeat("  ", node.Depth), node.Email.ID, subject, badges,
		node.Email.From, node.Email.DateSent.Format(time.RFC3339))
	if limit > 0 {
		if s := snippet(node.Email.FullText, limit); s != "" {
			line += " | " + s
		}
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := renderNode(w, child, limit); err != nil {
			return err
		}
	}
	return nil
}

// snippet flattens a message body to a single excerpt line. Bodies that
// still carry markup go through html2text first.
func snippet(body string, limit int) string {
	if strings.Contains(body, "</") || strings.Contains(body, "<br") {
		if t, err := html2text.FromString(body, html2text.Options{OmitLinks: true, TextOnly: true}); err == nil {
			body = t
		}
	}

	body = strings.Join(strings.Fields(body), " ")
	r := []rune(body)
	if len(r) > limit {
		return string(r[:limit]) + "..."
	}
	return body
}
