package orch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Dicode/internal/app"
	"github.com/dkeye/Dicode/internal/app/media"
	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/dkeye/Dicode/internal/metrics"
	"github.com/dkeye/Dicode/internal/store"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []map[string]json.RawMessage
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrBufferFull
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(f, &m); err != nil {
		panic(err)
	}
	c.frames = append(c.frames, m)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// of returns every received frame with the given type.
func (c *fakeConn) of(typ string) []map[string]json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []map[string]json.RawMessage
	for _, f := range c.frames {
		var got string
		_ = json.Unmarshal(f["type"], &got)
		if got == typ {
			out = append(out, f)
		}
	}
	return out
}

func (c *fakeConn) count(typ string) int { return len(c.of(typ)) }

func (c *fakeConn) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

type fakeMedia struct {
	mu      sync.Mutex
	grants  []domain.UserID
	closed  []domain.RoomID
	removed []domain.UserID
}

func (m *fakeMedia) Grant(_ context.Context, _ domain.RoomID, user *domain.User, _ bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants = append(m.grants, user.ID)
	return "tok-" + string(user.ID), nil
}

func (m *fakeMedia) CloseRoom(_ context.Context, room domain.RoomID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = append(m.closed, room)
	return nil
}

func (m *fakeMedia) RemoveParticipant(_ context.Context, _ domain.RoomID, user domain.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, user)
	return nil
}

func (m *fakeMedia) closedRooms() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.closed)
}

func (m *fakeMedia) removedUsers() []domain.UserID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.UserID(nil), m.removed...)
}

const (
	roomID domain.RoomID = "room-1"
	host   domain.UserID = "host"
	alice  domain.UserID = "alice"
	bob    domain.UserID = "bob"
)

type harness struct {
	t       *testing.T
	o       *Orchestrator
	store   *store.Memory
	media   *fakeMedia
	metrics *metrics.Metrics
	seq     int
}

func newHarness(t *testing.T, grace time.Duration) *harness {
	t.Helper()
	st := store.NewMemory()
	st.PutRoom(&domain.Room{
		ID:        roomID,
		Name:      "Pairing",
		CreatorID: host,
		Members:   []domain.Member{domain.NewMember(host, domain.RoleEditor)},
	})
	for _, id := range []domain.UserID{host, alice, bob} {
		st.PutUser(domain.User{ID: id, Name: string(id) + " name", Username: string(id)})
	}

	m := metrics.Discard()
	fm := &fakeMedia{}
	locks := app.NewRoomLocks()
	hosts := app.NewHostWatch(locks, grace)
	t.Cleanup(hosts.Stop)

	return &harness{
		t:       t,
		store:   st,
		media:   fm,
		metrics: m,
		o: &Orchestrator{
			Registry: app.NewRegistry(),
			Locks:    locks,
			Hosts:    hosts,
			Rooms:    st,
			Users:    st,
			Media:    media.NewBridge(fm, time.Second, m),
			Policy:   app.SimplePolicy{},
			Metrics:  m,
		},
	}
}

// connect registers a fresh connection of uid in the test room.
func (h *harness) connect(uid domain.UserID) (Client, *fakeConn) {
	h.seq++
	conn := &fakeConn{}
	c := Client{UserID: uid, ConnID: core.ConnID(fmt.Sprintf("%s-%d", uid, h.seq)), Conn: conn}
	h.o.Register(c, roomID)
	return c, conn
}

// join connects uid and resolves it as a member of the test room.
func (h *harness) join(uid domain.UserID) (Client, *fakeConn) {
	c, conn := h.connect(uid)
	h.o.JoinRequest(context.Background(), c)
	return c, conn
}

func (h *harness) room() *domain.Room {
	r, err := h.store.GetRoom(context.Background(), roomID)
	require.NoError(h.t, err)
	return r
}

// admit makes uid a persisted viewer of the test room.
func (h *harness) admit(uid domain.UserID) {
	r := h.room()
	r.AddMember(uid, domain.RoleViewer)
	require.NoError(h.t, h.store.SaveMembers(context.Background(), r))
}

func field(t *testing.T, frame map[string]json.RawMessage, key string) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(frame[key], &s))
	return s
}
