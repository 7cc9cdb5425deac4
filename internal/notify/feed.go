package notify

import (
	"context"
	"log/slog"

	"github.com/amoro/amoro-server/internal/db"
)

// ChangeKind identifies which entity a persisted change belongs to.
type ChangeKind int

const (
	ChangeMatch ChangeKind = iota
	ChangeMessage
)

// Change is one committed persistence mutation. For matches it carries the
// before/after snapshots; for messages the inserted row.
type Change struct {
	Kind      ChangeKind
	MatchPrev *db.Match
	MatchNext *db.Match
	Message   *db.Message
}

// Feed is the in-process change stream the services publish committed writes
// to. Per-user delivery order follows publish (commit) order; cross-user
// ordering is not guaranteed.
type Feed struct {
	ch  chan Change
	log *slog.Logger
}

// NewFeed creates a buffered change feed.
func NewFeed(buffer int, log *slog.Logger) *Feed {
	if buffer <= 0 {
		buffer = 256
	}
	return &Feed{ch: make(chan Change, buffer), log: log}
}

// Publish enqueues a committed change. Delivery is at-most-once: when the
// buffer is full the change is dropped rather than blocking the write path.
func (f *Feed) Publish(c Change) {
	select {
	case f.ch <- c:
	default:
		f.log.Warn("notification feed full, dropping change", "kind", c.Kind)
	}
}

// Changes exposes the consume side of the feed.
func (f *Feed) Changes() <-chan Change {
	return f.ch
}

// SenderDirectory resolves display data for message notifications.
type SenderDirectory interface {
	GetByID(ctx context.Context, id uint64) (*db.User, error)
}

// UnreadCounter reports unread message counts between a sender/receiver pair.
type UnreadCounter interface {
	UnreadCount(ctx context.Context, senderID, receiverID uint64) (int64, error)
}

// Dispatcher consumes the change feed, derives events via the pure reaction
// rules and pushes them to currently connected users.
type Dispatcher struct {
	feed     *Feed
	registry *Registry
	users    SenderDirectory
	messages UnreadCounter
	log      *slog.Logger
}

// NewDispatcher wires a dispatcher over the given feed and registry.
func NewDispatcher(feed *Feed, registry *Registry, users SenderDirectory, messages UnreadCounter, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		feed:     feed,
		registry: registry,
		users:    users,
		messages: messages,
		log:      log,
	}
}

// Run consumes changes until ctx is done. Intended to run on its own
// goroutine next to the HTTP server.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-d.feed.Changes():
			d.handle(ctx, c)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, c Change) {
	switch c.Kind {
	case ChangeMatch:
		for _, delivery := range MatchEvents(c.MatchPrev, c.MatchNext) {
			if d.registry.Send(delivery.UserID, delivery.Event) {
				d.log.Debug("pushed match event", "user", delivery.UserID, "type", delivery.Event.Type)
			}
		}

	case ChangeMessage:
		msg := c.Message
		if msg == nil || !d.registry.Online(msg.ReceiverID) {
			return
		}

		sender, err := d.users.GetByID(ctx, msg.SenderID)
		if err != nil {
			d.log.Error("failed to resolve message sender", "sender", msg.SenderID, "err", err)
			return
		}
		unread, err := d.messages.UnreadCount(ctx, msg.SenderID, msg.ReceiverID)
		if err != nil {
			d.log.Error("failed to count unread messages", "err", err)
			unread = 0
		}

		delivery := MessageEvent(msg, sender.Name+" "+sender.Surname, unread)
		d.registry.Send(delivery.UserID, delivery.Event)
	}
}
