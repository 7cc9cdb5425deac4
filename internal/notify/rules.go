package notify

import (
	"fmt"

	"github.com/amoro/amoro-server/internal/db"
)

// Event is a realtime payload pushed to a connected client.
type Event struct {
	Type   string   `json:"type"`
	Text   string   `json:"text"`
	Users  []uint64 `json:"users,omitempty"`
	Sender uint64   `json:"sender,omitempty"`
}

const (
	EventMatchStatus    = "match-status"
	EventMessageReceive = "msg-receive"
)

// Delivery is an event addressed to a single user. Delivery is best-effort
// and at-most-once: offline users receive nothing.
type Delivery struct {
	UserID uint64
	Event  Event
}

// MatchEvents derives realtime deliveries from a persisted match transition.
// prev is nil on first insert. Pure function; unit-testable without a live
// change stream.
//
// Rules:
//   - writes that only toggle unseen flags never notify (read receipts);
//   - silent swipes (either side left/right) never notify;
//   - both sides match → "new match" to both participants;
//   - a pending request with the peer still undecided → "new match request"
//     to the peer only.
func MatchEvents(prev, next *db.Match) []Delivery {
	if next == nil || !next.Active {
		return nil
	}

	// Pure unseen-flag toggle: statuses unchanged.
	if prev != nil && prev.StatusA == next.StatusA && prev.StatusB == next.StatusB {
		return nil
	}

	// Silent swipe directions are invisible to the peer until mutual.
	for _, s := range []db.MatchStatus{next.StatusA, next.StatusB} {
		if s == db.StatusLeft || s == db.StatusRight {
			return nil
		}
	}

	users := []uint64{next.UserAID, next.UserBID}

	if next.StatusA == db.StatusMatch && next.StatusB == db.StatusMatch {
		return []Delivery{
			{UserID: next.UserAID, Event: Event{Type: EventMatchStatus, Text: "You have a new match", Users: users}},
			{UserID: next.UserBID, Event: Event{Type: EventMatchStatus, Text: "You have a new match", Users: users}},
		}
	}

	if next.StatusA == db.StatusRequest && next.StatusB == db.StatusNone {
		return []Delivery{
			{UserID: next.UserBID, Event: Event{Type: EventMatchStatus, Text: "You have a new match request", Users: users}},
		}
	}
	if next.StatusB == db.StatusRequest && next.StatusA == db.StatusNone {
		return []Delivery{
			{UserID: next.UserAID, Event: Event{Type: EventMatchStatus, Text: "You have a new match request", Users: users}},
		}
	}

	return nil
}

// MessageEvent derives the receiver-side delivery for a newly inserted
// message. unread is the current count of unread messages from this sender.
func MessageEvent(msg *db.Message, senderName string, unread int64) Delivery {
	text := fmt.Sprintf("%s sends you a message", senderName)
	if unread > 1 {
		text = fmt.Sprintf("%s (%d)", text, unread)
	}
	return Delivery{
		UserID: msg.ReceiverID,
		Event: Event{
			Type:   EventMessageReceive,
			Text:   text,
			Sender: msg.SenderID,
		},
	}
}
