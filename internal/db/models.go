package db

import (
	"time"
)

// MatchStatus is one participant's position in a pairwise match.
type MatchStatus string

const (
	StatusNone    MatchStatus = "none"
	StatusLeft    MatchStatus = "left"
	StatusRight   MatchStatus = "right"
	StatusRequest MatchStatus = "request"
	StatusReject  MatchStatus = "reject"
	StatusMatch   MatchStatus = "match"
)

// Valid reports whether s is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusNone, StatusLeft, StatusRight, StatusRequest, StatusReject, StatusMatch:
		return true
	}
	return false
}

// Positive reports whether s expresses accepted intent toward the peer.
// A match forms when both sides resolve to a positive status.
func (s MatchStatus) Positive() bool {
	return s == StatusRight || s == StatusRequest
}

// User lifecycle states.
const (
	UserActive      = "active"
	UserBlocked     = "blocked"
	UserInactive    = "inactive"
	UserUnconfirmed = "unconfirmed"
)

// Interested-gender filter tokens as stored on the user's saved filters.
const (
	GendersBoth    = "femalesAndMales"
	GendersFemales = "females"
	GendersMales   = "males"
)

// City is immutable reference data used for geo-radius filtering.
type City struct {
	ID       uint64  `gorm:"primaryKey;autoIncrement"`
	Name     string  `gorm:"size:128;not null"`
	Province string  `gorm:"size:128"`
	Lat      float64 `gorm:"not null"`
	Lng      float64 `gorm:"not null"`
}

// User table. Owned by the account subsystem; this core reads the fields
// needed for filtering and display and cascades deactivation into matches.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:64;not null"`
	Surname      string `gorm:"size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:16;default:user"`
	Gender       string `gorm:"size:16;not null"`
	BirthDate    time.Time
	Status       string `gorm:"size:16;default:active;index"`
	ProfileImage string `gorm:"size:512"`
	Description  string `gorm:"size:1024"`
	Hobbies      string `gorm:"size:512"`
	HomeCityID   *uint64
	Home         *City `gorm:"foreignKey:HomeCityID"`

	// Random point used purely for stable pseudo-random feed ordering.
	RandomLat float64 `gorm:"not null;default:0"`
	RandomLng float64 `gorm:"not null;default:0"`

	// Saved discovery preferences.
	FilterGenders       string `gorm:"size:32"`
	FilterAgeRange      string `gorm:"size:16"`
	FilterCityID        *uint64
	FilterMaxDistanceKm int

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Match is the pairwise relationship record between exactly two users.
//
// The pair is stored normalized (UserAID < UserBID) with a unique composite
// index, which enforces at-most-one row per unordered pair at the schema
// level. Each side carries its own status and unseen flag; entries are always
// addressed by user id, never by side.
//
// Fields:
//   - Matched: denormalized "both sides accepted" bit for cheap mutual lookups.
//   - Active: false once either account is deactivated or blocked; inactive
//     matches are neither re-displayed nor notified.
//   - Version: optimistic-concurrency counter; every update is a compare-and-set
//     on (id, version) so concurrent swipes on the same pair cannot lose writes.
type Match struct {
	ID      string      `gorm:"primaryKey;size:36"`
	UserAID uint64      `gorm:"uniqueIndex:idx_match_pair,priority:1;not null;index:idx_match_a_status"`
	UserBID uint64      `gorm:"uniqueIndex:idx_match_pair,priority:2;not null;index:idx_match_b_status"`
	StatusA MatchStatus `gorm:"size:16;not null;default:none"`
	StatusB MatchStatus `gorm:"size:16;not null;default:none"`
	NewA    bool        `gorm:"not null;default:false"`
	NewB    bool        `gorm:"not null;default:false"`
	Matched bool        `gorm:"not null;default:false;index"`
	Active  bool        `gorm:"not null;default:true"`
	Version uint64      `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// NormalizePair orders a user pair for storage lookup.
func NormalizePair(x, y uint64) (lo, hi uint64) {
	if x < y {
		return x, y
	}
	return y, x
}

// Contains reports whether userID is one of the two participants.
func (m *Match) Contains(userID uint64) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// PeerID returns the other participant's id.
func (m *Match) PeerID(userID uint64) uint64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// StatusOf returns the status entry owned by userID.
func (m *Match) StatusOf(userID uint64) MatchStatus {
	if m.UserAID == userID {
		return m.StatusA
	}
	return m.StatusB
}

// NewOf returns the unseen flag owned by userID.
func (m *Match) NewOf(userID uint64) bool {
	if m.UserAID == userID {
		return m.NewA
	}
	return m.NewB
}

// SetStatus writes the status entry owned by userID.
func (m *Match) SetStatus(userID uint64, s MatchStatus) {
	if m.UserAID == userID {
		m.StatusA = s
	} else {
		m.StatusB = s
	}
}

// SetNew writes the unseen flag owned by userID.
func (m *Match) SetNew(userID uint64, v bool) {
	if m.UserAID == userID {
		m.NewA = v
	} else {
		m.NewB = v
	}
}

// Message is a direct message between two matched users. Modeled here only as
// far as the notification dispatcher and unread counters need it.
type Message struct {
	ID           string `gorm:"primaryKey;size:36"`
	MatchID      string `gorm:"size:36;not null;index"`
	SenderID     uint64 `gorm:"not null;index:idx_msg_sender_receiver,priority:1"`
	ReceiverID   uint64 `gorm:"not null;index:idx_msg_sender_receiver,priority:2"`
	Content      string `gorm:"size:2048;not null"`
	ReceiverRead bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
