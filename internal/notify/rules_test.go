package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoro/amoro-server/internal/db"
	"github.com/amoro/amoro-server/internal/notify"
)

func pair(a, b db.MatchStatus) *db.Match {
	return &db.Match{ID: "m-1-2", UserAID: 1, UserBID: 2, StatusA: a, StatusB: b, Active: true}
}

func TestMatchEventsMutualNotifiesBoth(t *testing.T) {
	prev := pair(db.StatusRequest, db.StatusNone)
	next := pair(db.StatusMatch, db.StatusMatch)
	next.Matched = true

	got := notify.MatchEvents(prev, next)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].UserID)
	assert.Equal(t, uint64(2), got[1].UserID)
	for _, d := range got {
		assert.Equal(t, notify.EventMatchStatus, d.Event.Type)
		assert.Equal(t, "You have a new match", d.Event.Text)
		assert.Equal(t, []uint64{1, 2}, d.Event.Users)
	}
}

func TestMatchEventsRequestNotifiesPeerOnly(t *testing.T) {
	got := notify.MatchEvents(nil, pair(db.StatusRequest, db.StatusNone))
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].UserID)
	assert.Equal(t, "You have a new match request", got[0].Event.Text)

	// mirrored orientation
	got = notify.MatchEvents(nil, pair(db.StatusNone, db.StatusRequest))
	require.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].UserID)
}

func TestMatchEventsUnseenToggleIsSilent(t *testing.T) {
	prev := pair(db.StatusMatch, db.StatusMatch)
	prev.NewA = true
	next := pair(db.StatusMatch, db.StatusMatch)

	// statuses unchanged, only the unseen flag flipped: a read, not a swipe
	assert.Nil(t, notify.MatchEvents(prev, next))
}

func TestMatchEventsSilentSwipes(t *testing.T) {
	assert.Nil(t, notify.MatchEvents(nil, pair(db.StatusLeft, db.StatusNone)))
	assert.Nil(t, notify.MatchEvents(nil, pair(db.StatusRight, db.StatusNone)))
	assert.Nil(t, notify.MatchEvents(nil, pair(db.StatusRight, db.StatusRequest)))
}

func TestMatchEventsRejectIsSilent(t *testing.T) {
	prev := pair(db.StatusRequest, db.StatusNone)
	assert.Nil(t, notify.MatchEvents(prev, pair(db.StatusNone, db.StatusReject)))
}

func TestMatchEventsInactiveOrMissing(t *testing.T) {
	assert.Nil(t, notify.MatchEvents(nil, nil))

	gone := pair(db.StatusMatch, db.StatusMatch)
	gone.Active = false
	assert.Nil(t, notify.MatchEvents(nil, gone))
}

func TestMessageEvent(t *testing.T) {
	msg := &db.Message{SenderID: 7, ReceiverID: 3, Content: "hej"}

	d := notify.MessageEvent(msg, "Kasia", 1)
	assert.Equal(t, uint64(3), d.UserID)
	assert.Equal(t, notify.EventMessageReceive, d.Event.Type)
	assert.Equal(t, "Kasia sends you a message", d.Event.Text)
	assert.Equal(t, uint64(7), d.Event.Sender)

	// backlog gets the unread counter appended
	d = notify.MessageEvent(msg, "Kasia", 4)
	assert.Equal(t, "Kasia sends you a message (4)", d.Event.Text)
}
