package match

import (
	"github.com/amoro/amoro-server/internal/db"
)

// IsMutual reports whether a pair of intents forms a match: both must be in
// the positive set {right, request}. A request answered by right (or another
// request) matches, in either direction.
func IsMutual(peer, action db.MatchStatus) bool {
	return peer.Positive() && action.Positive()
}

// NewPairMatch builds the match row created by the first swipe between a
// pair. The actor's entry carries the action; the target's entry defaults to
// none. Only a request flags the target as having something new to see;
// plain swipes stay silent until mutual.
func NewPairMatch(actorID, targetID uint64, action db.MatchStatus) *db.Match {
	lo, hi := db.NormalizePair(actorID, targetID)
	m := &db.Match{
		UserAID: lo,
		UserBID: hi,
		StatusA: db.StatusNone,
		StatusB: db.StatusNone,
		Active:  true,
	}
	m.SetStatus(actorID, action)
	m.SetNew(targetID, action == db.StatusRequest)
	return m
}

// Apply computes the next state of an existing match given the actor's new
// action, mutating m in place. Returns whether a mutual match formed.
//
// Transition rules:
//   - mutual (peer intent and action both positive): both entries become
//     match, both flagged unseen, the denormalized matched bit is set;
//   - reject: actor becomes reject, peer resets to none silently, flags and
//     matched bit cleared, the peer is not alerted of a rejection;
//   - request: actor becomes request, peer's status is untouched until they
//     respond, peer flagged unseen;
//   - plain left/right swipe: actor's entry updated, both flags cleared.
func Apply(m *db.Match, actorID uint64, action db.MatchStatus) bool {
	peerID := m.PeerID(actorID)
	peerStatus := m.StatusOf(peerID)

	switch {
	case IsMutual(peerStatus, action):
		m.SetStatus(actorID, db.StatusMatch)
		m.SetStatus(peerID, db.StatusMatch)
		m.SetNew(actorID, true)
		m.SetNew(peerID, true)
		m.Matched = true
		return true

	case action == db.StatusReject:
		m.SetStatus(actorID, db.StatusReject)
		m.SetStatus(peerID, db.StatusNone)
		m.SetNew(actorID, false)
		m.SetNew(peerID, false)
		m.Matched = false

	case action == db.StatusRequest:
		m.SetStatus(actorID, db.StatusRequest)
		m.SetNew(peerID, true)

	default:
		m.SetStatus(actorID, action)
		m.SetNew(actorID, false)
		m.SetNew(peerID, false)
	}

	return false
}

// ValidAction reports whether s is an action a client may submit. The match
// status itself is only ever derived, never submitted.
func ValidAction(s db.MatchStatus) bool {
	switch s {
	case db.StatusLeft, db.StatusRight, db.StatusRequest, db.StatusReject:
		return true
	}
	return false
}
