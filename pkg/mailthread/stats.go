package mailthread

import "github.com/charmbracelet/log"

// ThreadStats summarizes the structure of one thread.
type ThreadStats struct {
	ThreadID         string    `json:"thread_id"`
	TotalEmails      int       `json:"total_emails"`
	Participants     []string  `json:"participants"`
	ParticipantCount int       `json:"participant_count"`
	MaxDepth         int       `json:"max_depth"`
	BranchCount      int       `json:"branch_count"`
	ForwardCount     int       `json:"forward_count"`
	ReplyCount       int       `json:"reply_count"`
	ExternalCount    int       `json:"external_count"`
	DateRange        DateRange `json:"date_range"`
}

// computeStats rebuilds the thread's tree and takes the structural metrics
// from it; the categorical counts come from a flat pass over the messages and
// are independent of tree shape.
func computeStats(threadID string, msgs []EmailMessage, logger *log.Logger) *ThreadStats {
	tree := buildTree(threadID, msgs, logger)

	var forwards, replies, externals int
	for _, msg := range msgs {
		if msg.IsForward {
			forwards++
		}
		if msg.InReplyTo != "" {
			replies++
		}
		if msg.IsExternal {
			externals++
		}
	}

	return &ThreadStats{
		ThreadID:         threadID,
		TotalEmails:      len(msgs),
		Participants:     tree.Participants,
		ParticipantCount: len(tree.Participants),
		MaxDepth:         maxDepth(tree.Roots),
		BranchCount:      branchCount(tree.Roots),
		ForwardCount:     forwards,
		ReplyCount:       replies,
		ExternalCount:    externals,
		DateRange:        tree.DateRange,
	}
}

// maxDepth is the deepest leaf across all roots; a forest of childless roots
// has depth 0.
func maxDepth(roots []*ThreadNode) int {
	deepest := 0
	for _, root := range roots {
		if d := nodeMaxDepth(root, 0); d > deepest {
			deepest = d
		}
	}
	return deepest
}

func nodeMaxDepth(node *ThreadNode, depth int) int {
	deepest := depth
	for _, child := range node.Children {
		if d := nodeMaxDepth(child, depth+1); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// branchCount sums fan-out over every node with more than one direct reply:
// a node with three children contributes three, not one.
func branchCount(roots []*ThreadNode) int {
	total := 0
	for _, root := range roots {
		total += nodeBranchCount(root)
	}
	return total
}

func nodeBranchCount(node *ThreadNode) int {
	count := 0
	if len(node.Children) > 1 {
		count = len(node.Children)
	}
	for _, child := range node.Children {
		count += nodeBranchCount(child)
	}
	return count
}
