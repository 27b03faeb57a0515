package protocol

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/Dicode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRegister(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"register","roomId":"r1"}`))
	require.NoError(t, err)

	reg, ok := msg.(*Register)
	require.True(t, ok, "expected *Register, got %T", msg)
	assert.Equal(t, domain.RoomID("r1"), reg.RoomID)
}

func TestDecodeJoinRoomAcceptsBothIDKeys(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"join-room","user":{"_id":"u1","name":"B"}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), msg.(*JoinRoom).User.UserID())

	msg, err = Decode([]byte(`{"type":"join-room","user":{"id":"u2"}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u2"), msg.(*JoinRoom).User.UserID())
}

func TestDecodeUnknownEvent(t *testing.T) {
	_, err := Decode([]byte(`{"type":"teleport"}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestMutationsMapToRelayedKinds(t *testing.T) {
	cases := []struct {
		frame string
		want  EventType
	}{
		{`{"type":"code-change","changes":[{"text":"a"}]}`, TypeIncomingCodeChange},
		{`{"type":"add-node","node":{"id":"n1"}}`, TypeNodeAdded},
		{`{"type":"delete-node","nodeId":"n1"}`, TypeNodeDeleted},
		{`{"type":"rename-node","nodeId":"n1","label":"x"}`, TypeNodeRenamed},
		{`{"type":"connect-nodes","edge":{"source":"a","target":"b"}}`, TypeEdgeConnected},
		{`{"type":"delete-edge","edgeId":"e1"}`, TypeEdgeDeleted},
	}
	for _, tc := range cases {
		t.Run(string(tc.want), func(t *testing.T) {
			msg, err := Decode([]byte(tc.frame))
			require.NoError(t, err)
			mut, ok := msg.(Mutation)
			require.True(t, ok)
			assert.Equal(t, tc.want, mut.Relayed().Type())
		})
	}
}

func TestEncodeKeepsPayloadVerbatim(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"code-change","changes":{"range":[1,2],"text":"héllo"}}`))
	require.NoError(t, err)

	frame, err := Encode(msg.(Mutation).Relayed())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"incomming-code-change","changes":{"range":[1,2],"text":"héllo"}}`, string(frame))
}

func TestEncodeEmptyEvent(t *testing.T) {
	frame, err := Encode(&NavigateRoom{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"navigate-room"}`, string(frame))
}

func TestEncodeGiveReqCarriesProfileOnly(t *testing.T) {
	frame, err := Encode(&GiveReq{UserData: &domain.User{ID: "u1", Name: "Bee", Username: "bee"}})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(frame, &out))
	assert.Equal(t, "give-req", out["type"])
	data := out["userData"].(map[string]any)
	assert.Equal(t, "u1", data["_id"])
	assert.NotContains(t, data, "password")
}
