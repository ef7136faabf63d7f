package mailthread

import (
	"errors"
	"fmt"
)

// maxRowFailures is how many bad rows one load call tolerates; one more
// aborts the batch. Fixed by the load contract, not configurable.
const maxRowFailures = 5

// ErrEmptyInput is returned by Load when no rows are supplied at all.
var ErrEmptyInput = errors.New("no rows supplied")

// RowParseError reports a single row that failed field validation. Row is
// 1-based within the batch, zero when the error is detached from one.
type RowParseError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: invalid %s: %v", e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }

// BatchAbortError rejects an entire load: either more than maxRowFailures
// rows failed, or every row did. RowErrors holds the individual failures in
// input order. The previously loaded batch survives an aborted load.
type BatchAbortError struct {
	Failures  int
	Parsed    int
	RowErrors []*RowParseError
}

func (e *BatchAbortError) Error() string {
	if e.Failures > maxRowFailures {
		return fmt.Sprintf("too many row errors (%d), load aborted", e.Failures)
	}
	return fmt.Sprintf("no valid messages parsed (%d rows failed)", e.Failures)
}

// ThreadNotFoundError reports a tree or stats query for a thread id absent
// from the current grouping.
type ThreadNotFoundError struct {
	ThreadID string
}

func (e *ThreadNotFoundError) Error() string {
	return fmt.Sprintf("thread %q not found", e.ThreadID)
}
