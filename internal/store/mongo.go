package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	roomsCollection = "rooms"
	usersCollection = "users"
)

type memberDoc struct {
	User primitive.ObjectID `bson:"user"`
	Role string             `bson:"role"`
}

type roomDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Creator   primitive.ObjectID `bson:"creator"`
	Members   []memberDoc        `bson:"members"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Username string             `bson:"username"`
	Email    string             `bson:"email"`
	Avatar   string             `bson:"avatar"`
}

// publicUserFields keeps password and token fields out of every read.
var publicUserFields = bson.M{"name": 1, "username": 1, "email": 1, "avatar": 1}

// Mongo reads rooms and users from the application's MongoDB database.
type Mongo struct {
	client *mongo.Client
	rooms  *mongo.Collection
	users  *mongo.Collection
}

func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(database)
	log.Info().Str("module", "store.mongo").Str("database", database).Msg("connected")
	return &Mongo{
		client: client,
		rooms:  db.Collection(roomsCollection),
		users:  db.Collection(usersCollection),
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// objectID parses a hex id. Malformed ids cannot name a document.
func objectID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s %q: %w", kind, id, core.ErrNotFound)
	}
	return oid, nil
}

func roomFromDoc(d roomDoc) *domain.Room {
	r := &domain.Room{
		ID:        domain.RoomID(d.ID.Hex()),
		Name:      d.Name,
		CreatorID: domain.UserID(d.Creator.Hex()),
		Members:   make([]domain.Member, 0, len(d.Members)),
		UpdatedAt: d.UpdatedAt,
	}
	for _, md := range d.Members {
		role, err := domain.ParseRole(md.Role)
		if err != nil {
			role = domain.RoleViewer
		}
		r.Members = append(r.Members, domain.NewMember(domain.UserID(md.User.Hex()), role))
	}
	return r
}

func membersToDocs(members []domain.Member) ([]memberDoc, error) {
	out := make([]memberDoc, 0, len(members))
	for _, m := range members {
		oid, err := objectID("member", string(m.UserID))
		if err != nil {
			return nil, err
		}
		out = append(out, memberDoc{User: oid, Role: string(m.Role)})
	}
	return out, nil
}

func userFromDoc(d userDoc) *domain.User {
	return &domain.User{
		ID:       domain.UserID(d.ID.Hex()),
		Name:     d.Name,
		Username: d.Username,
		Email:    d.Email,
		Avatar:   d.Avatar,
	}
}

func (m *Mongo) GetRoom(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	oid, err := objectID("room", string(id))
	if err != nil {
		return nil, err
	}
	var doc roomDoc
	err = m.rooms.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("room %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find room %s: %w", id, err)
	}
	return roomFromDoc(doc), nil
}

// SaveMembers writes only the member list, leaving the rest of the
// document to the application that owns it.
func (m *Mongo) SaveMembers(ctx context.Context, room *domain.Room) error {
	oid, err := objectID("room", string(room.ID))
	if err != nil {
		return err
	}
	members, err := membersToDocs(room.Members)
	if err != nil {
		return err
	}
	updatedAt := room.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	res, err := m.rooms.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"members": members, "updatedAt": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("save members %s: %w", room.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("room %s: %w", room.ID, core.ErrNotFound)
	}
	return nil
}

func (m *Mongo) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	oid, err := objectID("user", string(id))
	if err != nil {
		return nil, err
	}
	var doc userDoc
	opts := options.FindOne().SetProjection(publicUserFields)
	err = m.users.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return userFromDoc(doc), nil
}
