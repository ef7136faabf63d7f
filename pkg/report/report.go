// Package report renders and serializes reconstructed threads for host
// consumers: per-thread tree/stats bundles, a run summary, text outlines,
// and JSON/JSONL persistence.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/evidentia/threadloom/pkg/mailthread"
)

// ThreadReport pairs one thread's tree with its statistics.
type ThreadReport struct {
	ThreadID string                  `json:"thread_id"`
	Tree     *mailthread.ThreadTree  `json:"tree"`
	Stats    *mailthread.ThreadStats `json:"stats"`
}

// Summary describes a whole processing run.
type Summary struct {
	TotalThreads        int       `json:"total_threads"`
	TotalMessages       int       `json:"total_messages"`
	ProcessingTimestamp time.Time `json:"processing_timestamp"`
}

// Export is the full-report document shape: every thread plus the summary.
type Export struct {
	Threads []ThreadReport `json:"threads"`
	Summary Summary        `json:"summary"`
}

// Collect builds a report for every thread the processor currently knows,
// in discovery order.
func Collect(p *mailthread.Processor) ([]ThreadReport, error) {
	ids := p.ThreadIDs()
	reports := make([]ThreadReport, 0, len(ids))
	for _, id := range ids {
		tree, err := p.BuildThreadTree(id)
		if err != nil {
			return nil, err
		}
		stats, err := p.GenerateThreadStats(id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, ThreadReport{ThreadID: id, Tree: tree, Stats: stats})
	}
	return reports, nil
}

func Summarize(reports []ThreadReport) Summary {
	return Summary{
		TotalThreads:        len(reports),
		TotalMessages:       lo.SumBy(reports, func(r ThreadReport) int { return r.Tree.TotalEmails }),
		ProcessingTimestamp: time.Now().UTC(),
	}
}

// Save writes the report to path, picking the format from the extension:
// .json holds one Export document, .jsonl holds one ThreadReport per line.
func Save(path string, reports []ThreadReport, summary Summary) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return WriteJSON(path, Export{Threads: reports, Summary: summary})
	case ".jsonl":
		return WriteJSONL(path, reports)
	default:
		return fmt.Errorf("unsupported output format: %s (use .json or .jsonl)", ext)
	}
}

func WriteJSON(filePath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal json")
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write json file")
	}
	return nil
}

func WriteJSONL[T any](filePath string, items []T) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "failed to close file")
		}
	}()

	w := bufio.NewWriter(file)
	for _, item := range items {
		line, err := json.Marshal(item)
		if err != nil {
			return errors.Wrap(err, "failed to marshal item")
		}
		if _, err := w.Write(line); err != nil {
			return errors.Wrap(err, "failed to write line")
		}
		if err := w.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "failed to write line")
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush file")
	}
	return nil
}

func ReadJSONL[T any](filePath string) (results []T, err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "failed to close file")
		}
	}()

	scanner := bufio.NewScanner(file)
	// Reports carry whole message bodies; one line can outgrow the default
	// scanner limit.
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		var item T
		if err := json.Unmarshal(scanner.Bytes(), &item); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal line")
		}
		results = append(results, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanner error")
	}

	return results, nil
}
