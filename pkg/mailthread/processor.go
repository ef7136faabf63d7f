// Package mailthread reconstructs email conversation threads from
// e-discovery load-file rows: it parses the packed threading metadata each
// row carries, groups messages by thread id, assembles reply trees, and
// computes structural statistics over those trees.
package mailthread

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Processor owns one loaded batch of messages and its thread grouping.
// Load and GroupByThreads replace state wholesale; tree and stats queries
// are read-only and allocate fresh values, so they may run concurrently with
// each other but are serialized against mutation.
type Processor struct {
	logger *log.Logger

	mu      sync.RWMutex
	emails  []EmailMessage
	threads *ThreadGroup
	loadID  string
}

// NewProcessor returns an empty processor. The logger is required; it only
// observes, it never alters results.
func NewProcessor(logger *log.Logger) (*Processor, error) {
	if logger == nil {
		return nil, errors.New("logger is nil")
	}
	return &Processor{
		logger:  logger,
		threads: NewThreadGroup(nil),
	}, nil
}

// Load parses rows into the processor, replacing any previously loaded
// batch. Rows that fail to parse are logged and skipped while at most
// maxRowFailures of them accumulate; one more aborts with *BatchAbortError,
// as does a batch where nothing parses at all. An aborted load leaves the
// previous batch intact. On success Load returns the number of messages
// parsed.
func (p *Processor) Load(rows []Row) (int, error) {
	if len(rows) == 0 {
		return 0, ErrEmptyInput
	}

	loadID := uuid.New().String()
	logger := p.logger.With("loadId", loadID)
	logger.Info("loading batch", "rows", len(rows))

	parsed := make([]EmailMessage, 0, len(rows))
	var rowErrs []*RowParseError

	for i, row := range rows {
		msg, err := ParseRow(row)
		if err != nil {
			var rowErr *RowParseError
			if !errors.As(err, &rowErr) {
				rowErr = &RowParseError{Err: err}
			}
			rowErr.Row = i + 1
			rowErrs = append(rowErrs, rowErr)
			logger.Warn("skipping row", "row", i+1, "error", err)

			if len(rowErrs) > maxRowFailures {
				logger.Error("too many row errors, aborting load", "failures", len(rowErrs))
				return 0, &BatchAbortError{Failures: len(rowErrs), Parsed: len(parsed), RowErrors: rowErrs}
			}
			continue
		}
		parsed = append(parsed, msg)
	}

	if len(parsed) == 0 {
		logger.Error("no rows parsed", "failures", len(rowErrs))
		return 0, &BatchAbortError{Failures: len(rowErrs), RowErrors: rowErrs}
	}

	p.mu.Lock()
	p.emails = parsed
	p.loadID = loadID
	p.mu.Unlock()

	logger.Info("batch loaded", "messages", len(parsed), "failedRows", len(rowErrs))
	return len(parsed), nil
}

// GroupByThreads rebuilds the thread grouping from the loaded batch and
// returns the number of distinct threads found. Call it again after every
// Load; it is the only way new messages become visible to queries.
func (p *Processor) GroupByThreads() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.threads = NewThreadGroup(p.emails)
	p.logger.Info("grouped messages", "threads", p.threads.Len())
	return p.threads.Len()
}

// BuildThreadTree reconstructs the reply forest for one thread.
func (p *Processor) BuildThreadTree(threadID string) (*ThreadTree, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	msgs, ok := p.threads.Messages(threadID)
	if !ok {
		return nil, &ThreadNotFoundError{ThreadID: threadID}
	}

	p.logger.Debug("building thread tree", "threadId", threadID, "messages", len(msgs))
	return buildTree(threadID, msgs, p.logger), nil
}

// GenerateThreadStats computes structural statistics for one thread.
func (p *Processor) GenerateThreadStats(threadID string) (*ThreadStats, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	msgs, ok := p.threads.Messages(threadID)
	if !ok {
		return nil, &ThreadNotFoundError{ThreadID: threadID}
	}

	p.logger.Debug("computing thread stats", "threadId", threadID, "messages", len(msgs))
	return computeStats(threadID, msgs, p.logger), nil
}

// ThreadIDs lists the known thread ids in discovery order.
func (p *Processor) ThreadIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.threads.ThreadIDs()
}

// EmailCount is the size of the loaded batch.
func (p *Processor) EmailCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.emails)
}

// ThreadCount is the number of threads in the current grouping.
func (p *Processor) ThreadCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.threads.Len()
}

// LoadID identifies the batch currently held, for correlating log lines.
// Empty until the first successful Load.
func (p *Processor) LoadID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadID
}
