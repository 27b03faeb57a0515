package orch

import (
	"context"
	"time"

	"github.com/dkeye/Dicode/internal/app"
	"github.com/dkeye/Dicode/internal/app/media"
	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/dkeye/Dicode/internal/metrics"
	"github.com/rs/zerolog/log"
)

const DefaultStoreTimeout = 5 * time.Second

// Client identifies the connection an event arrived on.
type Client struct {
	UserID domain.UserID
	ConnID core.ConnID
	Conn   core.SignalConnection
}

// Orchestrator applies client events to presence, persisted rooms and the
// media session. Handlers are safe to call from any connection goroutine.
type Orchestrator struct {
	Registry     *app.Registry
	Locks        *app.RoomLocks
	Hosts        *app.HostWatch
	Rooms        core.RoomStore
	Users        core.UserDirectory
	Media        *media.Bridge
	Policy       app.Policy
	Metrics      *metrics.Metrics
	StoreTimeout time.Duration
}

func (o *Orchestrator) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := o.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// current is the presence entry of c, provided c still owns it. Events from
// a connection that was replaced by a newer one are treated as unregistered.
func (o *Orchestrator) current(c Client) (app.Entry, bool) {
	e, ok := o.Registry.Lookup(c.UserID)
	if !ok || e.ConnID != c.ConnID {
		log.Debug().Str("module", "orch").Str("user", string(c.UserID)).Str("conn", string(c.ConnID)).Msg("event without presence")
		return app.Entry{}, false
	}
	return e, true
}

func (o *Orchestrator) loadRoom(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	ctx, cancel := o.storeCtx(ctx)
	defer cancel()
	return o.Rooms.GetRoom(ctx, id)
}

func (o *Orchestrator) saveRoom(ctx context.Context, room *domain.Room) error {
	ctx, cancel := o.storeCtx(ctx)
	defer cancel()
	room.UpdatedAt = time.Now()
	return o.Rooms.SaveMembers(ctx, room)
}

func (o *Orchestrator) loadUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	ctx, cancel := o.storeCtx(ctx)
	defer cancel()
	return o.Users.GetUser(ctx, id)
}
