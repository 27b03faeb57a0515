package protocol

import (
	"encoding/json"

	"github.com/dkeye/Dicode/internal/domain"
)

// Outbound is any event the server may send.
type Outbound interface {
	Type() EventType
	outbound()
}

// GiveReq forwards a join request to the host. Only the public profile travels.
type GiveReq struct {
	UserData *domain.User `json:"userData"`
}

type JoinedRoom struct {
	User *domain.User `json:"user"`
}

// Admitted is sent to the newly approved connection only.
type Admitted struct {
	User *domain.User `json:"user"`
}

type RoleChanged struct {
	UserID domain.UserID `json:"userId"`
	Role   domain.Role   `json:"role"`
}

type RoleUpdated struct {
	Role domain.Role `json:"role"`
}

type RoomUpdated struct {
	UserID domain.UserID `json:"userId"`
}

type NavigateRoom struct{}

type NoHost struct{}

type FindLatestCode struct {
	UserID domain.UserID `json:"userId"`
}

type SentLatestCode struct {
	Code json.RawMessage `json:"code"`
}

type IncomingCodeChange struct {
	Changes json.RawMessage `json:"changes"`
}

type NodeAdded struct {
	Node json.RawMessage `json:"node"`
}

type NodeDeleted struct {
	NodeID json.RawMessage `json:"nodeId"`
}

type NodeRenamed struct {
	NodeID json.RawMessage `json:"nodeId"`
	Label  json.RawMessage `json:"label"`
}

type EdgeConnected struct {
	Edge json.RawMessage `json:"edge"`
}

type EdgeDeleted struct {
	EdgeID json.RawMessage `json:"edgeId"`
}

// SessionToken delivers a signed grant for the audio/video session.
type SessionToken struct {
	Token string `json:"token"`
}

type Pong struct{}

type Error struct {
	Reason string `json:"reason"`
}

func (*GiveReq) Type() EventType            { return TypeGiveReq }
func (*JoinedRoom) Type() EventType         { return TypeJoinedRoom }
func (*Admitted) Type() EventType           { return TypeAdmitted }
func (*RoleChanged) Type() EventType        { return TypeRoleChanged }
func (*RoleUpdated) Type() EventType        { return TypeRoleUpdated }
func (*RoomUpdated) Type() EventType        { return TypeRoomUpdated }
func (*NavigateRoom) Type() EventType       { return TypeNavigateRoom }
func (*NoHost) Type() EventType             { return TypeNoHost }
func (*FindLatestCode) Type() EventType     { return TypeFindLatestCode }
func (*SentLatestCode) Type() EventType     { return TypeSentLatestCode }
func (*IncomingCodeChange) Type() EventType { return TypeIncomingCodeChange }
func (*NodeAdded) Type() EventType          { return TypeNodeAdded }
func (*NodeDeleted) Type() EventType        { return TypeNodeDeleted }
func (*NodeRenamed) Type() EventType        { return TypeNodeRenamed }
func (*EdgeConnected) Type() EventType      { return TypeEdgeConnected }
func (*EdgeDeleted) Type() EventType        { return TypeEdgeDeleted }
func (*SessionToken) Type() EventType       { return TypeSessionToken }
func (*Pong) Type() EventType               { return TypePong }
func (*Error) Type() EventType              { return TypeError }

func (*GiveReq) outbound()            {}
func (*JoinedRoom) outbound()         {}
func (*Admitted) outbound()           {}
func (*RoleChanged) outbound()        {}
func (*RoleUpdated) outbound()        {}
func (*RoomUpdated) outbound()        {}
func (*NavigateRoom) outbound()       {}
func (*NoHost) outbound()             {}
func (*FindLatestCode) outbound()     {}
func (*SentLatestCode) outbound()     {}
func (*IncomingCodeChange) outbound() {}
func (*NodeAdded) outbound()          {}
func (*NodeDeleted) outbound()        {}
func (*NodeRenamed) outbound()        {}
func (*EdgeConnected) outbound()      {}
func (*EdgeDeleted) outbound()        {}
func (*SessionToken) outbound()       {}
func (*Pong) outbound()               {}
func (*Error) outbound()              {}
