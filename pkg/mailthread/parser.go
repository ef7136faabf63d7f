package mailthread

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. Exports write RFC 3339; some older batches
// carry bare UTC stamps that only the second layout accepts.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
}

// ParseRow normalizes one raw row into an EmailMessage. Threading metadata
// (message id, reply linkage, thread id, flags) comes from the packed history
// column; the stable identifier is the row's begin-bates marker. A date that
// fails both accepted layouts fails the row with a *RowParseError naming the
// field.
func ParseRow(row Row) (EmailMessage, error) {
	info := ParseHistory(row.ColumnHistory)

	dateSent, err := parseDate(row.DateSent)
	if err != nil {
		return EmailMessage{}, &RowParseError{Field: "DateSent", Err: err}
	}

	dateCreated, err := parseDate(row.DateCreated)
	if err != nil {
		return EmailMessage{}, &RowParseError{Field: "DateCreated", Err: err}
	}

	dateLastModified, err := parseDate(row.DateLastModified)
	if err != nil {
		return EmailMessage{}, &RowParseError{Field: "DateLastModified", Err: err}
	}

	return EmailMessage{
		ID:               row.BegBates,
		MessageID:        info.MessageID,
		InReplyTo:        info.InReplyTo,
		References:       info.References,
		ThreadID:         info.ThreadID,
		From:             row.From,
		To:               splitRecipients(row.To),
		CC:               splitRecipients(row.CC),
		BCC:              splitRecipients(row.BCC),
		Subject:          row.Subject,
		DateSent:         dateSent,
		Custodian:        row.Custodian,
		FileName:         row.FileName,
		FullText:         row.FullText,
		Confidentiality:  row.Confidentiality,
		IsForward:        info.IsForward,
		IsExternal:       info.IsExternal,
		BegBates:         row.BegBates,
		EndBates:         row.EndBates,
		FileType:         row.FileType,
		Hash:             row.Hash,
		NativeLink:       row.NativeLink,
		Author:           row.Author,
		Title:            row.Title,
		DateCreated:      dateCreated,
		DateLastModified: dateLastModified,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// splitRecipients splits a comma-separated address list, trimming whitespace
// and dropping entries that end up empty. Order and duplicates are preserved.
func splitRecipients(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
