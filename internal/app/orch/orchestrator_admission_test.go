package orch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dkeye/Dicode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostJoinGetsGrantAndEditorRole(t *testing.T) {
	h := newHarness(t, time.Minute)
	_, hostConn := h.join(host)

	tokens := hostConn.of("livekit-token")
	require.Len(t, tokens, 1)
	assert.Equal(t, "tok-host", field(t, tokens[0], "token"))
	assert.Equal(t, 1, hostConn.count("joined-room"))

	e, ok := h.o.Registry.Lookup(host)
	require.True(t, ok)
	assert.Equal(t, domain.RoleEditor, e.Role)
}

func TestAdmissionScenario(t *testing.T) {
	h := newHarness(t, time.Minute)
	hc, hostConn := h.join(host)
	hostConn.reset()

	bc, bobConn := h.join(bob)
	reqs := hostConn.of("give-req")
	require.Len(t, reqs, 1)
	var profile domain.User
	require.NoError(t, json.Unmarshal(reqs[0]["userData"], &profile))
	assert.Equal(t, bob, profile.ID)
	assert.Equal(t, "bob name", profile.Name)
	assert.Equal(t, 0, bobConn.total(), "requester hears nothing while pending")

	h.o.Approve(context.Background(), hc, bob)
	assert.Equal(t, 1, hostConn.count("joined-room"))
	assert.Equal(t, 1, bobConn.count("joined-room"))
	assert.Equal(t, 1, bobConn.count("joine-room"))
	assert.Equal(t, 0, hostConn.count("joine-room"))

	m, ok := h.room().Member(bob)
	require.True(t, ok)
	assert.Equal(t, domain.RoleViewer, m.Role)

	h.o.JoinRequest(context.Background(), bc)
	assert.Equal(t, 1, bobConn.count("livekit-token"))
	e, _ := h.o.Registry.Lookup(bob)
	assert.Equal(t, domain.RoleViewer, e.Role)

	hostConn.reset()
	h.o.Relay(bc, codeChange(`{"from":1}`))
	assert.Equal(t, 0, hostConn.total(), "viewer mutations are not relayed")

	h.o.Relay(hc, codeChange(`{"from":2}`))
	got := bobConn.of("incomming-code-change")
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"from":2}`, string(got[0]["changes"]))
}

func TestJoinRequestWithoutHost(t *testing.T) {
	h := newHarness(t, time.Minute)
	_, bobConn := h.join(bob)
	assert.Equal(t, 1, bobConn.count("no-host"))
}

func TestApproveIsIdempotent(t *testing.T) {
	h := newHarness(t, time.Minute)
	hc, hostConn := h.join(host)
	h.join(bob)
	hostConn.reset()

	h.o.Approve(context.Background(), hc, bob)
	h.o.Approve(context.Background(), hc, bob)

	members := h.room().Members
	assert.Len(t, members, 2)
	seen := map[domain.UserID]int{}
	for _, m := range members {
		seen[m.UserID]++
	}
	assert.Equal(t, 1, seen[bob])
	assert.Equal(t, 2, hostConn.count("joined-room"), "each approval is announced once")
}

func TestApproveFromNonCreatorIgnored(t *testing.T) {
	h := newHarness(t, time.Minute)
	h.admit(alice)
	ac, _ := h.join(alice)
	_, bobConn := h.connect(bob)

	h.o.Approve(context.Background(), ac, bob)
	_, ok := h.room().Member(bob)
	assert.False(t, ok)
	assert.Equal(t, 0, bobConn.total())
}

func TestApproveSaveFailureRepliesError(t *testing.T) {
	h := newHarness(t, time.Minute)
	hc, hostConn := h.join(host)
	_, bobConn := h.connect(bob)
	hostConn.reset()
	h.store.FailSaves(errors.New("db down"))

	h.o.Approve(context.Background(), hc, bob)
	assert.Equal(t, 1, hostConn.count("error"))
	assert.Equal(t, 0, bobConn.count("joine-room"))
}

func TestKick(t *testing.T) {
	h := newHarness(t, time.Minute)
	hc, hostConn := h.join(host)
	h.admit(bob)
	_, bobConn := h.join(bob)
	hostConn.reset()

	h.o.Kick(context.Background(), hc, bob)

	_, member := h.room().Member(bob)
	assert.False(t, member)
	updates := hostConn.of("room-updated")
	require.Len(t, updates, 1)
	assert.Equal(t, "bob", field(t, updates[0], "userId"))
	assert.Equal(t, 1, bobConn.count("navigate-room"))
	_, present := h.o.Registry.Lookup(bob)
	assert.False(t, present)
	assert.Eventually(t, func() bool {
		return len(h.media.removedUsers()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestKickGuards(t *testing.T) {
	h := newHarness(t, time.Minute)
	hc, _ := h.join(host)
	h.admit(alice)
	h.admit(bob)
	ac, _ := h.join(alice)
	_, bobConn := h.join(bob)

	h.o.Kick(context.Background(), ac, bob)
	h.o.Kick(context.Background(), hc, host)

	r := h.room()
	assert.Len(t, r.Members, 3)
	assert.Equal(t, 0, bobConn.count("navigate-room"))
	_, present := h.o.Registry.Lookup(host)
	assert.True(t, present)
}

func TestLeaveByMember(t *testing.T) {
	h := newHarness(t, time.Minute)
	_, hostConn := h.join(host)
	h.admit(bob)
	bc, _ := h.join(bob)
	hostConn.reset()

	h.o.Leave(context.Background(), bc)

	_, member := h.room().Member(bob)
	assert.False(t, member)
	assert.Equal(t, 1, hostConn.count("room-updated"))
	_, present := h.o.Registry.Lookup(bob)
	assert.False(t, present)
	assert.Eventually(t, func() bool {
		return len(h.media.removedUsers()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestLeaveByCreatorCollapses(t *testing.T) {
	h := newHarness(t, time.Minute)
	hc, hostConn := h.join(host)
	h.admit(alice)
	h.admit(bob)
	_, aliceConn := h.join(alice)
	_, bobConn := h.join(bob)

	h.o.Leave(context.Background(), hc)

	assert.Equal(t, []domain.Member{domain.NewMember(host, domain.RoleEditor)}, h.room().Members)
	assert.Equal(t, 1, aliceConn.count("navigate-room"))
	assert.Equal(t, 1, bobConn.count("navigate-room"))
	assert.Equal(t, 0, hostConn.count("navigate-room"))
	assert.Equal(t, 0, h.o.Registry.Count())
	assert.Eventually(t, func() bool { return h.media.closedRooms() == 1 }, time.Second, 5*time.Millisecond)
}
