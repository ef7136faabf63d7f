package mailthread

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ThreadGroup partitions messages by thread id. Thread ids keep the order in
// which they were first seen; within a thread, messages are sorted ascending
// by sent date with ties keeping input order.
type ThreadGroup struct {
	threads *orderedmap.OrderedMap[string, []EmailMessage]
}

// NewThreadGroup groups msgs by thread id, dropping messages whose thread id
// is empty. The group is a snapshot of msgs; picking up a newer batch means
// building a new group.
func NewThreadGroup(msgs []EmailMessage) *ThreadGroup {
	threads := orderedmap.New[string, []EmailMessage]()

	for _, msg := range msgs {
		if msg.ThreadID == "" {
			continue
		}
		cur, _ := threads.Get(msg.ThreadID)
		threads.Set(msg.ThreadID, append(cur, msg))
	}

	for pair := threads.Oldest(); pair != nil; pair = pair.Next() {
		slices.SortStableFunc(pair.Value, func(a, b EmailMessage) int {
			return a.DateSent.Compare(b.DateSent)
		})
	}

	return &ThreadGroup{threads: threads}
}

// Messages returns one thread's messages in chronological order. The slice is
// shared with the group; callers must not modify it.
func (g *ThreadGroup) Messages(threadID string) ([]EmailMessage, bool) {
	return g.threads.Get(threadID)
}

// ThreadIDs lists every thread id in discovery order.
func (g *ThreadGroup) ThreadIDs() []string {
	ids := make([]string, 0, g.threads.Len())
	for pair := g.threads.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Len is the number of distinct threads.
func (g *ThreadGroup) Len() int {
	return g.threads.Len()
}
