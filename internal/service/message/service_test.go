package message_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amoro/amoro-server/internal/app"
	"github.com/amoro/amoro-server/internal/cache"
	"github.com/amoro/amoro-server/internal/config"
	"github.com/amoro/amoro-server/internal/db"
	svcErr "github.com/amoro/amoro-server/internal/errors"
	"github.com/amoro/amoro-server/internal/notify"
	"github.com/amoro/amoro-server/internal/service/message"
)

// setupService wires a message service over an in-memory SQLite DB seeded with
// a mutual match (users 1 and 2), a pending request (users 1 and 3), and an
// inactive mutual match (users 2 and 3).
func setupService(t *testing.T) (*message.Service, *gorm.DB, *notify.Feed) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(&db.City{}, &db.User{}, &db.Match{}, &db.Message{}))

	bd := time.Now().AddDate(-30, 0, 0)
	users := []db.User{
		{ID: 1, Name: "Adam", Surname: "A", Email: "1@t.c", PasswordHash: "x", Gender: "male", Status: db.UserActive, BirthDate: bd},
		{ID: 2, Name: "Beata", Surname: "B", Email: "2@t.c", PasswordHash: "x", Gender: "female", Status: db.UserActive, BirthDate: bd},
		{ID: 3, Name: "Celina", Surname: "C", Email: "3@t.c", PasswordHash: "x", Gender: "female", Status: db.UserActive, BirthDate: bd},
	}
	require.NoError(t, dbase.Create(&users).Error)

	matches := []db.Match{
		{ID: "mutual-1-2", UserAID: 1, UserBID: 2, StatusA: db.StatusMatch, StatusB: db.StatusMatch, Matched: true, Active: true},
		{ID: "pending-1-3", UserAID: 1, UserBID: 3, StatusA: db.StatusRequest, StatusB: db.StatusNone, Active: true},
		{ID: "gone-2-3", UserAID: 2, UserBID: 3, StatusA: db.StatusMatch, StatusB: db.StatusMatch, Matched: true, Active: false},
	}
	require.NoError(t, dbase.Create(&matches).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
	feed := notify.NewFeed(16, logger)
	appCtx := app.New(dbase, cache.NewRedisCache(cfg), feed, logger)

	return message.NewMessageService(appCtx), dbase, feed
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	svc, _, feed := setupService(t)

	msg, err := svc.Send(ctx, 1, "mutual-1-2", "  hej  ")
	require.NoError(t, err)

	assert.Equal(t, "hej", msg.Content)
	assert.Equal(t, uint64(1), msg.SenderID)
	assert.Equal(t, uint64(2), msg.ReceiverID)
	assert.False(t, msg.ReceiverRead)

	c := <-feed.Changes()
	assert.Equal(t, notify.ChangeMessage, c.Kind)
	require.NotNil(t, c.Message)
	assert.Equal(t, msg.ID, c.Message.ID)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Send(ctx, 1, "mutual-1-2", "   ")
	var e *svcErr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 400, e.Code)
}

func TestSendRequiresMutualMatch(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	var e *svcErr.Error

	// a pending request does not unlock messaging
	_, err := svc.Send(ctx, 1, "pending-1-3", "hi")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 400, e.Code)

	// neither does an inactive match
	_, err = svc.Send(ctx, 2, "gone-2-3", "hi")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 400, e.Code)
}

func TestSendRequiresMembership(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	var e *svcErr.Error

	_, err := svc.Send(ctx, 3, "mutual-1-2", "hi")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 404, e.Code)

	_, err = svc.Send(ctx, 1, "no-such-match", "hi")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 404, e.Code)
}

func TestListMarksRead(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	_, err := svc.Send(ctx, 1, "mutual-1-2", "first")
	require.NoError(t, err)
	_, err = svc.Send(ctx, 1, "mutual-1-2", "second")
	require.NoError(t, err)
	_, err = svc.Send(ctx, 2, "mutual-1-2", "reply")
	require.NoError(t, err)

	messages, err := svc.List(ctx, 2, "mutual-1-2")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "reply", messages[2].Content)

	// everything addressed to the viewer is now read; the viewer's own
	// outgoing message stays unread on the peer's side
	var unread int64
	require.NoError(t, gdb.Model(&db.Message{}).
		Where("receiver_id = ? AND receiver_read = ?", 2, false).
		Count(&unread).Error)
	assert.Equal(t, int64(0), unread)

	require.NoError(t, gdb.Model(&db.Message{}).
		Where("receiver_id = ? AND receiver_read = ?", 1, false).
		Count(&unread).Error)
	assert.Equal(t, int64(1), unread)
}

func TestListRequiresMembership(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	var e *svcErr.Error
	_, err := svc.List(ctx, 3, "mutual-1-2")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 404, e.Code)
}
