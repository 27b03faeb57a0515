package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoomDocConversion(t *testing.T) {
	roomOID := primitive.NewObjectID()
	creator := primitive.NewObjectID()
	guest := primitive.NewObjectID()

	r := roomFromDoc(roomDoc{
		ID:      roomOID,
		Name:    "Pairing",
		Creator: creator,
		Members: []memberDoc{
			{User: creator, Role: "editor"},
			{User: guest, Role: "owner"},
		},
	})
	assert.Equal(t, domain.RoomID(roomOID.Hex()), r.ID)
	assert.True(t, r.IsCreator(domain.UserID(creator.Hex())))
	require.Len(t, r.Members, 2)
	assert.Equal(t, domain.RoleEditor, r.Members[0].Role)
	assert.Equal(t, domain.RoleViewer, r.Members[1].Role, "unknown roles degrade to viewer")

	docs, err := membersToDocs(r.Members)
	require.NoError(t, err)
	assert.Equal(t, guest, docs[1].User)
	assert.Equal(t, "viewer", docs[1].Role)
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	_, err := objectID("room", "not-hex")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = membersToDocs([]domain.Member{domain.NewMember("bad", domain.RoleViewer)})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

// TestMongoLive runs against a real server when DICODE_TEST_MONGO_URI is set.
func TestMongoLive(t *testing.T) {
	uri := os.Getenv("DICODE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("DICODE_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m, err := ConnectMongo(ctx, uri, "dicode_test_"+primitive.NewObjectID().Hex())
	require.NoError(t, err)
	defer func() {
		_ = m.rooms.Database().Drop(ctx)
		_ = m.Close(ctx)
	}()

	creator := primitive.NewObjectID()
	roomOID := primitive.NewObjectID()
	_, err = m.users.InsertOne(ctx, bson.M{"_id": creator, "name": "Ada", "username": "ada", "password": "secret", "refreshToken": "rt"})
	require.NoError(t, err)
	_, err = m.rooms.InsertOne(ctx, bson.M{"_id": roomOID, "name": "r", "creator": creator, "members": bson.A{}})
	require.NoError(t, err)

	u, err := m.GetUser(ctx, domain.UserID(creator.Hex()))
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)

	r, err := m.GetRoom(ctx, domain.RoomID(roomOID.Hex()))
	require.NoError(t, err)
	r.EnsureCreator()
	require.NoError(t, m.SaveMembers(ctx, r))

	r, err = m.GetRoom(ctx, domain.RoomID(roomOID.Hex()))
	require.NoError(t, err)
	assert.Equal(t, []domain.Member{domain.NewMember(domain.UserID(creator.Hex()), domain.RoleEditor)}, r.Members)

	_, err = m.GetRoom(ctx, domain.RoomID(primitive.NewObjectID().Hex()))
	assert.ErrorIs(t, err, core.ErrNotFound)
}
