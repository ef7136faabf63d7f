package mailthread

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

// ThreadNode is one message in a reconstructed tree. A node exclusively owns
// its children; depth is 0 for roots.
type ThreadNode struct {
	Email    EmailMessage  `json:"email"`
	Children []*ThreadNode `json:"children"`
	Depth    int           `json:"depth"`
}

// DateRange spans the earliest and latest sent dates in a thread.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ThreadTree is the reconstructed conversation for one thread id.
type ThreadTree struct {
	ThreadID     string        `json:"thread_id"`
	Roots        []*ThreadNode `json:"roots"`
	TotalEmails  int           `json:"total_emails"`
	Participants []string      `json:"participants"`
	DateRange    DateRange     `json:"date_range"`
}

// buildTree assembles the reply forest for one thread. msgs must be in
// chronological order, as stored by ThreadGroup. A message is a root when it
// has no in-reply-to or when its parent id is not in this thread; a reply to
// a message outside the thread does not fabricate a parent.
func buildTree(threadID string, msgs []EmailMessage, logger *log.Logger) *ThreadTree {
	emailByID := make(map[string]EmailMessage, len(msgs))
	childrenByParent := make(map[string][]string)

	for _, msg := range msgs {
		// Duplicate message ids collide here and the latest wins. Empty ids
		// land under "" and are unreachable as parents.
		emailByID[msg.MessageID] = msg

		if msg.InReplyTo != "" {
			childrenByParent[msg.InReplyTo] = append(childrenByParent[msg.InReplyTo], msg.MessageID)
		}
	}

	var roots []*ThreadNode
	for _, msg := range msgs {
		if _, ok := emailByID[msg.InReplyTo]; msg.InReplyTo == "" || !ok {
			roots = append(roots, buildNode(emailByID, childrenByParent, msg.MessageID, 0))
		}
	}

	var dateRange DateRange
	if len(msgs) > 0 {
		dateRange.Start = msgs[0].DateSent
		dateRange.End = msgs[len(msgs)-1].DateSent
	} else {
		// The group never stores empty threads, so reaching this means an
		// invariant broke upstream.
		logger.Warn("empty thread, date range defaults to now", "threadId", threadID)
		now := time.Now().UTC()
		dateRange = DateRange{Start: now, End: now}
	}

	return &ThreadTree{
		ThreadID:     threadID,
		Roots:        roots,
		TotalEmails:  len(msgs),
		Participants: uniqueParticipants(msgs),
		DateRange:    dateRange,
	}
}

// buildNode resolves the node's message through the id lookup, so of two
// messages sharing an id, the one holding the map slot supplies the content.
// Children carry the parent's depth plus one, in chronological order.
func buildNode(emailByID map[string]EmailMessage, childrenByParent map[string][]string, messageID string, depth int) *ThreadNode {
	node := &ThreadNode{
		Email: emailByID[messageID],
		Depth: depth,
	}
	for _, childID := range childrenByParent[messageID] {
		node.Children = append(node.Children, buildNode(emailByID, childrenByParent, childID, depth+1))
	}
	return node
}

// uniqueParticipants collects senders and visible recipients (to, cc) across
// the thread. Bcc addresses are never participants.
func uniqueParticipants(msgs []EmailMessage) []string {
	var all []string
	for _, msg := range msgs {
		all = append(all, msg.From)
		all = append(all, msg.To...)
		all = append(all, msg.CC...)
	}
	return lo.Uniq(all)
}
