package feed

import (
	"context"
	"time"

	"github.com/amoro/amoro-server/internal/app"
	svcErr "github.com/amoro/amoro-server/internal/errors"
	"github.com/amoro/amoro-server/internal/repository"
	"github.com/amoro/amoro-server/internal/utils/pagination"
)

// Service produces the paginated, filtered candidate feed. It composes the
// requester's swipe history (sticky exclusion) with the resolved directory
// predicate.
type Service struct {
	appCtx    *app.AppContext
	userRepo  *repository.UserRepository
	cityRepo  *repository.CityRepository
	matchRepo *repository.MatchRepository
}

// NewFeedService creates a new feed service with dependencies from AppContext.
func NewFeedService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		userRepo:  repository.NewUserRepository(appCtx.DB),
		cityRepo:  repository.NewCityRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
	}
}

// CityView is the candidate's home city as exposed to clients.
type CityView struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Candidate is one feed entry. The swipe feed carries the fuller profile
// (description, hobbies); generic browsing carries the lightweight one
// (with surname).
type Candidate struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname,omitempty"`
	BirthDate    time.Time `json:"birthDate"`
	ProfileImage string    `json:"profileImage"`
	Home         *CityView `json:"home,omitempty"`
	Description  string    `json:"description,omitempty"`
	Hobbies      string    `json:"hobbies,omitempty"`
}

// Result is one page of the candidate feed.
type Result struct {
	Candidates  []Candidate `json:"data"`
	Results     int64       `json:"results"`
	HasNextPage bool        `json:"hasNextPage"`
}

// GetCandidates returns one page of discoverable candidates for the requester.
//
// Behavior:
//   - excludes the requester, non-active accounts, and everyone in the
//     requester's sticky swipe history (own status != none, or peer reject);
//   - applies gender / age / city-radius restrictions from params;
//   - orders by proximity of each user's random point to the session seed
//     point, so the same seed yields the same order across pages;
//   - Results counts matching users without the swipe-history exclusion;
//   - HasNextPage is true iff page*limit < total matching candidates.
func (s *Service) GetCandidates(ctx context.Context, requesterID uint64, p Params, page pagination.Page) (*Result, error) {
	s.appCtx.Logger.Debug("GetCandidates called", "requester", requesterID, "page", page.Page, "swipe", p.IsSwipe)

	swipedIDs, err := s.matchRepo.SwipedUserIDs(ctx, requesterID)
	if err != nil {
		return nil, svcErr.Unavailable("failed to load swipe history", err)
	}

	filter, err := s.buildFilter(ctx, p)
	if err != nil {
		return nil, err
	}

	query := repository.CandidateQuery{
		RequesterID: requesterID,
		Gender:      filter.Gender,
		BirthAfter:  filter.BirthAfter,
		BirthBefore: filter.BirthBefore,
		CityIDs:     filter.CityIDs,
		ExcludeIDs:  swipedIDs,
		Seed:        filter.Seed,
		Offset:      page.Offset(),
		Limit:       page.Limit,
	}

	users, err := s.userRepo.FindCandidates(ctx, query)
	if err != nil {
		return nil, svcErr.Unavailable("failed to query candidates", err)
	}

	total, err := s.userRepo.CountCandidates(ctx, query)
	if err != nil {
		return nil, svcErr.Unavailable("failed to count candidates", err)
	}

	// Analytics count ignores the swipe-history exclusion.
	openQuery := query
	openQuery.ExcludeIDs = nil
	results, err := s.userRepo.CountCandidates(ctx, openQuery)
	if err != nil {
		return nil, svcErr.Unavailable("failed to count candidates", err)
	}

	res := &Result{
		Candidates:  make([]Candidate, 0, len(users)),
		Results:     results,
		HasNextPage: page.HasNext(total),
	}

	for i := range users {
		u := &users[i]
		c := Candidate{
			ID:           u.ID,
			Name:         u.Name,
			BirthDate:    u.BirthDate,
			ProfileImage: u.ProfileImage,
		}
		if u.Home != nil {
			c.Home = &CityView{ID: u.Home.ID, Name: u.Home.Name}
		}
		if p.IsSwipe {
			c.Description = u.Description
			c.Hobbies = u.Hobbies
		} else {
			c.Surname = u.Surname
		}
		res.Candidates = append(res.Candidates, c)
	}

	s.appCtx.Logger.Debug("GetCandidates result",
		"candidates", len(res.Candidates), "results", res.Results, "has_next", res.HasNextPage)

	return res, nil
}
