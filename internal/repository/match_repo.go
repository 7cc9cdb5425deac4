package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amoro/amoro-server/internal/db"
)

// ErrVersionConflict is returned when a compare-and-set update loses a race
// with a concurrent writer on the same match row.
var ErrVersionConflict = errors.New("match was modified concurrently")

// MatchRepository provides data access for the pairwise Match model.
// The unique (user_a_id, user_b_id) index enforces at-most-one row per
// unordered pair; every update is a compare-and-set on the row version.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// GetByPair returns the match between two users, if any.
// The pair is normalized before lookup, so argument order does not matter.
func (r *MatchRepository) GetByPair(ctx context.Context, x, y uint64) (*db.Match, error) {
	lo, hi := db.NormalizePair(x, y)

	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", lo, hi).
		First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetByID returns a match by primary key.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*db.Match, error) {
	var match db.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&match).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// Create inserts a new match row. The pair must already be normalized in the
// model (UserAID < UserBID). A concurrent insert for the same pair surfaces
// as gorm.ErrDuplicatedKey; callers re-read and retry as an update.
func (r *MatchRepository) Create(ctx context.Context, m *db.Match) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// UpdateVersioned persists the match's mutable fields with a compare-and-set
// on the version the caller read. Returns ErrVersionConflict when the row was
// modified in between; the caller must re-read and re-derive the transition
// rather than retry the same write.
func (r *MatchRepository) UpdateVersioned(ctx context.Context, m *db.Match) error {
	res := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ? AND version = ?", m.ID, m.Version).
		Updates(map[string]interface{}{
			"status_a": m.StatusA,
			"status_b": m.StatusB,
			"new_a":    m.NewA,
			"new_b":    m.NewB,
			"matched":  m.Matched,
			"active":   m.Active,
			"version":  m.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	m.Version++
	return nil
}

// SwipedUserIDs returns every peer id the user's swipe history makes
// undiscoverable: pairs where the user already acted (own status != none) or
// where the peer rejected them.
func (r *MatchRepository) SwipedUserIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where(
			`(user_a_id = ? AND (status_a <> ? OR status_b = ?))
			 OR (user_b_id = ? AND (status_b <> ? OR status_a = ?))`,
			userID, db.StatusNone, db.StatusReject,
			userID, db.StatusNone, db.StatusReject,
		).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(matches))
	for i := range matches {
		ids = append(ids, matches[i].PeerID(userID))
	}
	return ids, nil
}

// ListVisible returns the user's currently relevant matches: mutual matches,
// requests they sent, requests they received, and anything still flagged
// unseen for them. Inactive matches are never returned.
func (r *MatchRepository) ListVisible(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where(
			`matched = ?
			 OR (user_a_id = ? AND (status_a = ? OR status_b = ? OR new_a = ?))
			 OR (user_b_id = ? AND (status_b = ? OR status_a = ? OR new_b = ?))`,
			true,
			userID, db.StatusRequest, db.StatusRequest, true,
			userID, db.StatusRequest, db.StatusRequest, true,
		).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ClearNew resets the unseen flag owned by userID on the given matches.
func (r *MatchRepository) ClearNew(ctx context.Context, userID uint64, matchIDs []string) error {
	if len(matchIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id IN ? AND user_a_id = ?", matchIDs, userID).
		Update("new_a", false).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id IN ? AND user_b_id = ?", matchIDs, userID).
		Update("new_b", false).Error
}

// CountUnseen returns how many matches carry an unseen flag for the user.
func (r *MatchRepository) CountUnseen(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where(
			"(user_a_id = ? AND new_a = ?) OR (user_b_id = ? AND new_b = ?)",
			userID, true, userID, true,
		).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeactivateForUser marks every match involving the user inactive. Called
// when an account becomes inactive or blocked; inactive matches are neither
// re-displayed nor notified.
func (r *MatchRepository) DeactivateForUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Update("active", false).Error
}
