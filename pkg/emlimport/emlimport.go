// Package emlimport converts a directory of raw .eml files into load-file
// rows so loose email collections can flow through the same thread
// reconstruction pipeline as a production export. Threading headers are
// re-encoded into the column_history micro-format and synthetic EML-prefixed
// markers stand in for Bates numbers.
package emlimport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jaytaylor/html2text"
	"github.com/mnako/letters"
	"github.com/pkg/errors"

	"github.com/evidentia/threadloom/pkg/mailthread"
)

type Options struct {
	// OrgDomain marks senders outside this domain as external. Empty
	// disables the check.
	OrgDomain string
}

type Importer struct {
	logger *log.Logger
	opts   Options
}

func NewImporter(logger *log.Logger, opts Options) (*Importer, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	return &Importer{logger: logger, opts: opts}, nil
}

// ImportDirectory walks dir for .eml files and synthesizes one Row per
// parseable message. Files that cannot be read or parsed are logged and
// skipped; marker numbering stays dense over the files that succeed.
func (im *Importer) ImportDirectory(ctx context.Context, dir string) ([]mailthread.Row, error) {
	var rows []mailthread.Row
	err := filepath.Walk(dir, func(p string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() || !strings.EqualFold(filepath.Ext(fi.Name()), ".eml") {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := im.importFile(p, fi, len(rows)+1)
		if err != nil {
			im.logger.Error("import", "path", p, "error", err)
			return nil
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to import directory %s", dir)
	}

	im.logger.Info("imported eml directory", "dir", dir, "messages", len(rows))
	return rows, nil
}

func (im *Importer) importFile(path string, fi os.FileInfo, seq int) (mailthread.Row, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return mailthread.Row{}, errors.Wrap(err, "failed to read eml file")
	}

	email, err := letters.ParseEmail(bytes.NewReader(raw))
	if err != nil {
		return mailthread.Row{}, errors.Wrap(err, "failed to parse eml file")
	}

	messageID := string(email.Headers.MessageID)
	inReplyTo := ""
	if len(email.Headers.InReplyTo) > 0 {
		inReplyTo = string(email.Headers.InReplyTo[0])
	}
	references := make([]string, 0, len(email.Headers.References))
	for _, ref := range email.Headers.References {
		references = append(references, string(ref))
	}

	sender := firstAddress(email.Headers.From)
	senderAddr := ""
	author := ""
	if sender != nil {
		senderAddr = sender.Address
		author = sender.Name
		if author == "" {
			author = sender.Address
		}
	}

	history := mailthread.ThreadInfo{
		MessageID:  messageID,
		InReplyTo:  inReplyTo,
		References: references,
		ThreadID:   deriveThreadID(messageID, inReplyTo, references),
		IsForward:  isForwardSubject(email.Headers.Subject),
		IsExternal: im.isExternalSender(senderAddr),
	}

	bates := fmt.Sprintf("EML%08d", seq)
	modified := fi.ModTime().UTC().Format(time.RFC3339)

	return mailthread.Row{
		BegBates:         bates,
		EndBates:         bates,
		From:             senderAddr,
		To:               joinAddresses(email.Headers.To),
		CC:               joinAddresses(email.Headers.Cc),
		BCC:              joinAddresses(email.Headers.Bcc),
		Subject:          email.Headers.Subject,
		DateSent:         email.Headers.Date.UTC().Format(time.RFC3339),
		FileName:         filepath.Base(path),
		FileType:         "Email",
		FileExtension:    "eml",
		ESIType:          "Email",
		DateCreated:      modified,
		DateLastModified: modified,
		Title:            email.Headers.Subject,
		Author:           author,
		Hash:             fmt.Sprintf("%x", sha256.Sum256(raw)),
		NativeLink:       path,
		FullText:         bodyText(email),
		ColumnHistory:    history.String(),
	}, nil
}

// deriveThreadID anchors a message to the conversation it belongs to: the
// oldest reference if any, else the direct parent, else the message itself.
func deriveThreadID(messageID, inReplyTo string, references []string) string {
	if len(references) > 0 {
		return references[0]
	}
	if inReplyTo != "" {
		return inReplyTo
	}
	return messageID
}

func isForwardSubject(subject string) bool {
	s := strings.ToLower(strings.TrimSpace(subject))
	return strings.HasPrefix(s, "fwd:") || strings.HasPrefix(s, "fw:")
}

func (im *Importer) isExternalSender(addr string) bool {
	if im.opts.OrgDomain == "" || addr == "" {
		return false
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return false
	}
	return !strings.EqualFold(addr[at+1:], im.opts.OrgDomain)
}

func bodyText(email letters.Email) string {
	if email.Text != "" {
		return email.Text
	}
	if email.HTML != "" {
		if t, err := html2text.FromString(email.HTML, html2text.Options{OmitLinks: true, TextOnly: true}); err == nil {
			return t
		}
	}
	return ""
}

func firstAddress(addrs []*mail.Address) *mail.Address {
	if len(addrs) == 0 {
		return nil
	}
	return addrs[0]
}

func joinAddresses(addrs []*mail.Address) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a == nil || a.Address == "" {
			continue
		}
		parts = append(parts, a.Address)
	}
	return strings.Join(parts, ", ")
}
