package match

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/amoro/amoro-server/internal/app"
	"github.com/amoro/amoro-server/internal/db"
	svcErr "github.com/amoro/amoro-server/internal/errors"
	"github.com/amoro/amoro-server/internal/notify"
	"github.com/amoro/amoro-server/internal/repository"
)

// Service implements the matching state machine and match-list queries on top
// of the repository and cache layers.
type Service struct {
	appCtx    *app.AppContext
	matchRepo *repository.MatchRepository
	userRepo  *repository.UserRepository
}

// NewMatchService creates a new match service with dependencies from AppContext.
func NewMatchService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		matchRepo: repository.NewMatchRepository(appCtx.DB),
		userRepo:  repository.NewUserRepository(appCtx.DB),
	}
}

// ApplySwipe records the actor's reaction toward the target and returns
// whether it completed a mutual match.
//
// Concurrency: the pair lookup and the write can race with the peer swiping
// back at the same moment (or the actor double-tapping). Creation races
// surface as duplicate-key errors on the unique pair index; update races
// surface as version conflicts. Either way the state is re-read once and the
// transition re-derived from the freshly committed row, never replayed from
// the stale snapshot.
func (s *Service) ApplySwipe(ctx context.Context, actorID, targetID uint64, action db.MatchStatus) (bool, error) {
	s.appCtx.Logger.Debug("ApplySwipe called", "actor", actorID, "target", targetID, "action", action)

	if !ValidAction(action) {
		return false, svcErr.InvalidArgument("status must be one of left, right, request, reject")
	}
	if actorID == targetID {
		return false, svcErr.InvalidArgument("cannot swipe on yourself")
	}

	if _, err := s.userRepo.GetActive(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, svcErr.NotFound("swipe target does not exist")
		}
		return false, svcErr.Unavailable("failed to load swipe target", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		existing, err := s.matchRepo.GetByPair(ctx, actorID, targetID)

		if errors.Is(err, gorm.ErrRecordNotFound) {
			created := NewPairMatch(actorID, targetID, action)
			if err := s.matchRepo.Create(ctx, created); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Peer created the pair first; retry as an update.
					continue
				}
				return false, svcErr.Unavailable("failed to create match", err)
			}
			s.afterWrite(ctx, nil, created)
			return false, nil
		}
		if err != nil {
			return false, svcErr.Unavailable("failed to load match", err)
		}

		prev := *existing
		mutual := Apply(existing, actorID, action)

		if err := s.matchRepo.UpdateVersioned(ctx, existing); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				continue
			}
			return false, svcErr.Unavailable("failed to update match", err)
		}
		s.afterWrite(ctx, &prev, existing)
		return mutual, nil
	}

	return false, svcErr.Conflict("match was modified concurrently, please retry")
}

// afterWrite publishes the committed transition to the notification feed and
// drops both participants' cached unseen counters.
func (s *Service) afterWrite(ctx context.Context, prev, next *db.Match) {
	s.appCtx.Feed.Publish(notify.Change{
		Kind:      notify.ChangeMatch,
		MatchPrev: prev,
		MatchNext: next,
	})
	_ = s.appCtx.RedisCache.InvalidateUnseenMatchCount(ctx, next.UserAID)
	_ = s.appCtx.RedisCache.InvalidateUnseenMatchCount(ctx, next.UserBID)
}

// PeerView is the other participant as exposed in the match list.
type PeerView struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	ProfileImage string `json:"profileImage"`
}

// Item is one match-list entry. Status is the PEER's entry: "match" for a
// mutual match, "request" for a request the peer sent to the viewer, "none"
// for a request the viewer sent that the peer has not answered.
type Item struct {
	ID     string         `json:"id"`
	Peer   PeerView       `json:"match"`
	Status db.MatchStatus `json:"status"`
}

// ListResult is the viewer's match list with derived counters.
type ListResult struct {
	Matches      []Item `json:"matches"`
	AllCount     int    `json:"allCount"`
	ReceiveCount int    `json:"receiveCount"`
	SendCount    int    `json:"sendCount"`
	MatchCount   int    `json:"matchCount"`
}

// ListMatches returns every match currently relevant to the viewer and, as a
// side effect, clears the viewer's unseen flags on the returned entries.
// Fetching the list twice with no intervening swipes yields the same set with
// all unseen flags false.
func (s *Service) ListMatches(ctx context.Context, viewerID uint64) (*ListResult, error) {
	s.appCtx.Logger.Debug("ListMatches called", "viewer", viewerID)

	matches, err := s.matchRepo.ListVisible(ctx, viewerID)
	if err != nil {
		return nil, svcErr.Unavailable("failed to load matches", err)
	}

	peerIDs := make([]uint64, 0, len(matches))
	matchIDs := make([]string, 0, len(matches))
	for i := range matches {
		peerIDs = append(peerIDs, matches[i].PeerID(viewerID))
		matchIDs = append(matchIDs, matches[i].ID)
	}

	peers, err := s.userRepo.GetByIDs(ctx, peerIDs)
	if err != nil {
		return nil, svcErr.Unavailable("failed to load match peers", err)
	}

	res := &ListResult{Matches: make([]Item, 0, len(matches))}
	for i := range matches {
		m := &matches[i]
		peerID := m.PeerID(viewerID)
		peerStatus := m.StatusOf(peerID)

		item := Item{ID: m.ID, Status: peerStatus}
		if peer, ok := peers[peerID]; ok {
			item.Peer = PeerView{
				ID:           peer.ID,
				Name:         peer.Name,
				Surname:      peer.Surname,
				ProfileImage: peer.ProfileImage,
			}
		}
		res.Matches = append(res.Matches, item)

		switch peerStatus {
		case db.StatusMatch:
			res.MatchCount++
		case db.StatusRequest:
			res.ReceiveCount++
		case db.StatusNone:
			res.SendCount++
		}
	}
	res.AllCount = len(res.Matches)

	if err := s.matchRepo.ClearNew(ctx, viewerID, matchIDs); err != nil {
		return nil, svcErr.Unavailable("failed to clear unseen flags", err)
	}
	_ = s.appCtx.RedisCache.InvalidateUnseenMatchCount(ctx, viewerID)

	return res, nil
}

// CountUnseen returns how many matches carry an unseen flag for the viewer.
// Cache-first strategy:
//  1. Attempts to read from Redis (matches:new:userID).
//  2. On cache miss, falls back to the DB.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountUnseen(ctx context.Context, viewerID uint64) (int64, error) {
	if cached, ok, err := s.appCtx.RedisCache.GetUnseenMatchCount(ctx, viewerID); err == nil && ok {
		return cached, nil
	}

	count, err := s.matchRepo.CountUnseen(ctx, viewerID)
	if err != nil {
		return 0, svcErr.Unavailable("failed to count unseen matches", err)
	}

	_ = s.appCtx.RedisCache.SetUnseenMatchCount(ctx, viewerID, count)
	return count, nil
}

// DeactivateUser cascades an account becoming inactive into its matches:
// every pair involving the user is marked inactive so it is neither
// re-displayed nor notified again.
func (s *Service) DeactivateUser(ctx context.Context, userID uint64) error {
	if err := s.userRepo.SetStatus(ctx, userID, db.UserInactive); err != nil {
		return svcErr.Unavailable("failed to deactivate account", err)
	}
	if err := s.matchRepo.DeactivateForUser(ctx, userID); err != nil {
		return svcErr.Unavailable("failed to deactivate matches", err)
	}
	_ = s.appCtx.RedisCache.InvalidateUnseenMatchCount(ctx, userID)
	return nil
}
