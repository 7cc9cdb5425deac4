package message

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/amoro/amoro-server/internal/app"
	"github.com/amoro/amoro-server/internal/db"
	svcErr "github.com/amoro/amoro-server/internal/errors"
	"github.com/amoro/amoro-server/internal/notify"
	"github.com/amoro/amoro-server/internal/repository"
)

// Service handles direct messages between matched users. Messaging is only
// unlocked by a mutual match; each insert feeds the notification dispatcher.
type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	messageRepo *repository.MessageRepository
}

// NewMessageService creates a new message service with dependencies from AppContext.
func NewMessageService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
	}
}

// Send persists a message on an active mutual match the sender belongs to and
// publishes the insert to the notification feed.
func (s *Service) Send(ctx context.Context, senderID uint64, matchID, content string) (*db.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, svcErr.InvalidArgument("message content must not be empty")
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("match not found")
	}
	if err != nil {
		return nil, svcErr.Unavailable("failed to load match", err)
	}

	if !match.Contains(senderID) {
		return nil, svcErr.NotFound("match not found")
	}
	if !match.Active || !match.Matched {
		return nil, svcErr.InvalidArgument("messaging requires an active mutual match")
	}

	msg := &db.Message{
		MatchID:    match.ID,
		SenderID:   senderID,
		ReceiverID: match.PeerID(senderID),
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, svcErr.Unavailable("failed to store message", err)
	}

	s.appCtx.Feed.Publish(notify.Change{Kind: notify.ChangeMessage, Message: msg})

	return msg, nil
}

// List returns the messages of a match the viewer belongs to, marking
// everything the viewer received as read.
func (s *Service) List(ctx context.Context, viewerID uint64, matchID string) ([]db.Message, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("match not found")
	}
	if err != nil {
		return nil, svcErr.Unavailable("failed to load match", err)
	}
	if !match.Contains(viewerID) {
		return nil, svcErr.NotFound("match not found")
	}

	if err := s.messageRepo.MarkRead(ctx, matchID, viewerID); err != nil {
		return nil, svcErr.Unavailable("failed to mark messages read", err)
	}

	messages, err := s.messageRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, svcErr.Unavailable("failed to load messages", err)
	}
	return messages, nil
}
