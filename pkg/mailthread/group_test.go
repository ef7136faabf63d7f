package mailthread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThreadGroupDiscoveryOrder(t *testing.T) {
	base := time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC)
	group := NewThreadGroup([]EmailMessage{
		{MessageID: "m1", ThreadID: "t2", DateSent: base},
		{MessageID: "m2", ThreadID: "t1", DateSent: base.Add(time.Minute)},
		{MessageID: "m3", ThreadID: "t2", DateSent: base.Add(2 * time.Minute)},
	})

	// Thread ids keep first-seen order, not lexical order.
	assert.Equal(t, []string{"t2", "t1"}, group.ThreadIDs())
	assert.Equal(t, 2, group.Len())

	msgs, ok := group.Messages("t2")
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestNewThreadGroupDropsEmptyThreadID(t *testing.T) {
	base := time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC)
	group := NewThreadGroup([]EmailMessage{
		{MessageID: "m1", ThreadID: "", DateSent: base},
		{MessageID: "m2", ThreadID: "t1", DateSent: base},
	})

	assert.Equal(t, 1, group.Len())
	_, ok := group.Messages("")
	assert.False(t, ok)
}

func TestNewThreadGroupSortsChronologically(t *testing.T) {
	base := time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC)
	group := NewThreadGroup([]EmailMessage{
		{MessageID: "late", ThreadID: "t1", DateSent: base.Add(time.Hour)},
		{MessageID: "early", ThreadID: "t1", DateSent: base},
		{MessageID: "middle", ThreadID: "t1", DateSent: base.Add(time.Minute)},
	})

	msgs, ok := group.Messages("t1")
	require.True(t, ok)

	var order []string
	for _, m := range msgs {
		order = append(order, m.MessageID)
	}
	assert.Equal(t, []string{"early", "middle", "late"}, order)

	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].DateSent.Before(msgs[i-1].DateSent))
	}
}

func TestNewThreadGroupStableOnTies(t *testing.T) {
	sent := time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC)
	group := NewThreadGroup([]EmailMessage{
		{MessageID: "first", ThreadID: "t1", DateSent: sent},
		{MessageID: "second", ThreadID: "t1", DateSent: sent},
		{MessageID: "third", ThreadID: "t1", DateSent: sent},
	})

	msgs, ok := group.Messages("t1")
	require.True(t, ok)
	assert.Equal(t, "first", msgs[0].MessageID)
	assert.Equal(t, "second", msgs[1].MessageID)
	assert.Equal(t, "third", msgs[2].MessageID)
}

func TestNewThreadGroupIdempotent(t *testing.T) {
	base := time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC)
	msgs := []EmailMessage{
		{MessageID: "m1", ThreadID: "t2", DateSent: base.Add(time.Minute)},
		{MessageID: "m2", ThreadID: "t1", DateSent: base},
		{MessageID: "m3", ThreadID: "t1", DateSent: base},
	}

	first := NewThreadGroup(msgs)
	second := NewThreadGroup(msgs)

	assert.Equal(t, first.ThreadIDs(), second.ThreadIDs())
	for _, id := range first.ThreadIDs() {
		a, _ := first.Messages(id)
		b, _ := second.Messages(id)
		assert.Equal(t, a, b)
	}
}
