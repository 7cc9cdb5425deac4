package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amoro/amoro-server/internal/db"
)

// UserRepository provides read access to the user directory. The directory is
// owned by the account subsystem; this core only queries it for discovery and
// display.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByID returns a user regardless of lifecycle state.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs returns the users for the given id set, keyed by id.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]db.User, error) {
	out := make(map[uint64]db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// GetActive returns a user only if their account is in the active state.
func (r *UserRepository) GetActive(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, db.UserActive).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CandidateQuery is the composed discovery predicate over the user directory.
// Zero values mean "no restriction" for the optional fields.
type CandidateQuery struct {
	RequesterID uint64
	Gender      string // singular gender value, "" = any
	BirthAfter  *time.Time
	BirthBefore *time.Time
	CityIDs     []uint64
	ExcludeIDs  []uint64
	Seed        float64 // x coordinate of the session ordering point
	Offset      int
	Limit       int
}

func (r *UserRepository) candidateScope(ctx context.Context, q CandidateQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&db.User{}).
		Where("id <> ?", q.RequesterID).
		Where("status = ?", db.UserActive)

	if q.Gender != "" {
		query = query.Where("gender = ?", q.Gender)
	}
	if q.BirthAfter != nil && q.BirthBefore != nil {
		query = query.Where("birth_date BETWEEN ? AND ?", *q.BirthAfter, *q.BirthBefore)
	}
	if len(q.CityIDs) > 0 {
		query = query.Where("home_city_id IN ?", q.CityIDs)
	}
	if len(q.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", q.ExcludeIDs)
	}
	return query
}

// FindCandidates returns one page of discoverable users ordered by proximity
// of their stored random point to the session point (seed, 0). The ordering is
// stable for a given seed, so pagination within one browsing session is
// consistent.
func (r *UserRepository) FindCandidates(ctx context.Context, q CandidateQuery) ([]db.User, error) {
	var users []db.User

	err := r.candidateScope(ctx, q).
		Preload("Home").
		Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:                "((random_lat - ?) * (random_lat - ?) + random_lng * random_lng)",
				Vars:               []interface{}{q.Seed, q.Seed},
				WithoutParentheses: true,
			},
		}).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountCandidates counts users matching the predicate, ignoring pagination.
func (r *UserRepository) CountCandidates(ctx context.Context, q CandidateQuery) (int64, error) {
	var count int64
	if err := r.candidateScope(ctx, q).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SetStatus updates a user's lifecycle state.
func (r *UserRepository) SetStatus(ctx context.Context, id uint64, status string) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Update("status", status).Error
}
