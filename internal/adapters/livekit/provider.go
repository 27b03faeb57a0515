// Package livekit backs the room's audio/video session with a LiveKit server.
package livekit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Dicode/internal/domain"
	"github.com/livekit/protocol/auth"
	lkproto "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
)

const DefaultTokenTTL = 2 * time.Hour

const (
	sourceCamera      = "camera"
	sourceMicrophone  = "microphone"
	sourceScreenShare = "screen_share"
)

type roomService interface {
	DeleteRoom(ctx context.Context, req *lkproto.DeleteRoomRequest) (*lkproto.DeleteRoomResponse, error)
	RemoveParticipant(ctx context.Context, req *lkproto.RoomParticipantIdentity) (*lkproto.RemoveParticipantResponse, error)
}

// Provider issues LiveKit access tokens and tears rooms down through the
// LiveKit room service. LiveKit room names are the room ids.
type Provider struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
	rooms     roomService
}

func New(url, apiKey, apiSecret string, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Provider{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		ttl:       ttl,
		rooms:     lksdk.NewRoomServiceClient(url, apiKey, apiSecret),
	}
}

type participantMetadata struct {
	Avatar   string `json:"avatar,omitempty"`
	Username string `json:"username,omitempty"`
}

func (p *Provider) Grant(_ context.Context, room domain.RoomID, user *domain.User, isCreator bool) (string, error) {
	yes := true
	sources := []string{sourceCamera, sourceMicrophone}
	if isCreator {
		sources = append(sources, sourceScreenShare)
	}
	grant := &auth.VideoGrant{
		RoomJoin:          true,
		Room:              string(room),
		CanPublish:        &yes,
		CanSubscribe:      &yes,
		CanPublishData:    &yes,
		CanPublishSources: sources,
	}
	meta, err := json.Marshal(participantMetadata{Avatar: user.Avatar, Username: user.Username})
	if err != nil {
		return "", fmt.Errorf("participant metadata: %w", err)
	}

	token, err := auth.NewAccessToken(p.apiKey, p.apiSecret).
		AddGrant(grant).
		SetIdentity(string(user.ID)).
		SetName(user.DisplayName()).
		SetMetadata(string(meta)).
		SetValidFor(p.ttl).
		ToJWT()
	if err != nil {
		return "", fmt.Errorf("sign livekit token: %w", err)
	}
	return token, nil
}

func (p *Provider) CloseRoom(ctx context.Context, room domain.RoomID) error {
	if _, err := p.rooms.DeleteRoom(ctx, &lkproto.DeleteRoomRequest{Room: string(room)}); err != nil {
		return fmt.Errorf("delete livekit room %s: %w", room, err)
	}
	return nil
}

func (p *Provider) RemoveParticipant(ctx context.Context, room domain.RoomID, user domain.UserID) error {
	_, err := p.rooms.RemoveParticipant(ctx, &lkproto.RoomParticipantIdentity{
		Room:     string(room),
		Identity: string(user),
	})
	if err != nil {
		return fmt.Errorf("remove livekit participant %s from %s: %w", user, room, err)
	}
	return nil
}
