// Package loadfile reads tabular e-discovery export files (CSV with the
// fixed production header set) into mailthread rows.
package loadfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/ssor/bom"

	"github.com/evidentia/threadloom/pkg/mailthread"
)

// requiredColumns must all appear in the header row. Optional columns
// (BegAttach, EndAttach, DuplicateCustodian, FileExtension, ESIType,
// DeDuplicatedPath, EndAttach_Left) default to empty when absent.
var requiredColumns = []string{
	"BegBates", "EndBates", "Custodian", "From", "To", "CC", "BCC",
	"Subject", "DateSent", "FileName", "FileType", "DateCreated",
	"DateLastModified", "Title", "author", "Confidentiality", "Hash",
	"nativelink", "FullText", "column_history",
}

type Reader struct {
	logger *log.Logger
}

func NewReader(logger *log.Logger) (*Reader, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	return &Reader{logger: logger}, nil
}

// ReadFile opens a load file on disk and reads every row.
func (r *Reader) ReadFile(path string) ([]mailthread.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open load file")
	}
	defer func() { _ = f.Close() }()

	rows, err := r.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read load file %s", path)
	}
	return rows, nil
}

// ReadAll consumes a CSV stream and returns one Row per record. Header names
// are matched exactly after trimming surrounding whitespace; missing required
// columns fail the whole read. Records csv cannot parse are logged and
// skipped, and short records pad their missing cells with empty strings, so
// malformed lines surface later as row parse errors rather than aborting the
// file here.
func (r *Reader) ReadAll(src io.Reader) ([]mailthread.Row, error) {
	clean, err := bom.NewReaderWithoutBom(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to strip byte order mark")
	}

	cr := csv.NewReader(clean)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header row")
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("load file missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []mailthread.Row
	skipped := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			r.logger.Warn("skipping unreadable record", "error", err)
			continue
		}

		rows = append(rows, mailthread.Row{
			BegBates:           cell(record, "BegBates"),
			EndBates:           cell(record, "EndBates"),
			BegAttach:          cell(record, "BegAttach"),
			EndAttach:          cell(record, "EndAttach"),
			Custodian:          cell(record, "Custodian"),
			DuplicateCustodian: cell(record, "DuplicateCustodian"),
			From:               cell(record, "From"),
			To:                 cell(record, "To"),
			CC:                 cell(record, "CC"),
			BCC:                cell(record, "BCC"),
			Subject:            cell(record, "Subject"),
			DateSent:           cell(record, "DateSent"),
			FileName:           cell(record, "FileName"),
			FileType:           cell(record, "FileType"),
			FileExtension:      cell(record, "FileExtension"),
			ESIType:            cell(record, "ESIType"),
			DeDuplicatedPath:   cell(record, "DeDuplicatedPath"),
			DateCreated:        cell(record, "DateCreated"),
			DateLastModified:   cell(record, "DateLastModified"),
			Title:              cell(record, "Title"),
			Author:             cell(record, "author"),
			Confidentiality:    cell(record, "Confidentiality"),
			Hash:               cell(record, "Hash"),
			NativeLink:         cell(record, "nativelink"),
			FullText:           cell(record, "FullText"),
			EndAttachLeft:      cell(record, "EndAttach_Left"),
			ColumnHistory:      cell(record, "column_history"),
		})
	}

	r.logger.Info("read load file", "rows", len(rows), "skippedRecords", skipped)
	return rows, nil
}
