package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func TestRegistryRegisterDefaultsToViewer(t *testing.T) {
	r := NewRegistry()
	_, replaced := r.Register("u1", "c1", nopConn{}, "room")
	assert.False(t, replaced)

	e, ok := r.Lookup("u1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleViewer, e.Role)
	assert.Equal(t, domain.RoomID("room"), e.RoomID)
	assert.Equal(t, core.ConnID("c1"), e.ConnID)
}

func TestRegistryLastWriterWins(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", "c1", nopConn{}, "a")
	r.SetRole("u1", domain.RoleEditor)

	old, replaced := r.Register("u1", "c2", nopConn{}, "b")
	require.True(t, replaced)
	assert.Equal(t, core.ConnID("c1"), old.ConnID)

	e, _ := r.Lookup("u1")
	assert.Equal(t, core.ConnID("c2"), e.ConnID)
	assert.Equal(t, domain.RoomID("b"), e.RoomID)
	assert.Equal(t, domain.RoleViewer, e.Role, "role resets on re-register")
	assert.Equal(t, 1, r.Count())
}

func TestRegistryRemoveIfConnIgnoresStaleConnection(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", "c1", nopConn{}, "a")
	r.Register("u1", "c2", nopConn{}, "a")

	_, removed := r.RemoveIfConn("u1", "c1")
	assert.False(t, removed)
	_, ok := r.Lookup("u1")
	assert.True(t, ok)

	_, removed = r.RemoveIfConn("u1", "c2")
	assert.True(t, removed)
	_, ok = r.Lookup("u1")
	assert.False(t, ok)
}

func TestRegistryMembersOfRoom(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", "c1", nopConn{}, "a")
	r.Register("u2", "c2", nopConn{}, "a")
	r.Register("u3", "c3", nopConn{}, "b")

	assert.Len(t, r.MembersOfRoom("a"), 2)
	assert.Len(t, r.MembersOfRoom("b"), 1)
	assert.Empty(t, r.MembersOfRoom("c"))

	_, ok := r.InRoom("u3", "a")
	assert.False(t, ok)
	_, ok = r.InRoom("u3", "b")
	assert.True(t, ok)
}

func TestRegistrySetRoleUnknownUser(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.SetRole("ghost", domain.RoleEditor))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uid := domain.UserID(fmt.Sprintf("u%d", i%26))
			r.Register(uid, core.ConnID(fmt.Sprintf("c%d", i)), nopConn{}, "room")
			r.SetRole(uid, domain.RoleEditor)
			r.MembersOfRoom("room")
			r.Lookup(uid)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 26, r.Count())
}
