package protocol

import (
	"encoding/json"

	"github.com/dkeye/Dicode/internal/domain"
)

// Inbound is any event a client may send.
type Inbound interface {
	Type() EventType
	inbound()
}

// Mutation is an editor-only event that is relayed verbatim to the room.
type Mutation interface {
	Inbound
	Relayed() Outbound
}

// UserRef carries a user id as sent by clients, which use either "_id" or "id".
type UserRef struct {
	MongoID domain.UserID `json:"_id"`
	ID      domain.UserID `json:"id"`
}

func (u UserRef) UserID() domain.UserID {
	if u.MongoID != "" {
		return u.MongoID
	}
	return u.ID
}

type Register struct {
	RoomID domain.RoomID `json:"roomId"`
}

type JoinReq struct{}

// JoinRoom is the host approving a pending requester.
type JoinRoom struct {
	User UserRef `json:"user"`
}

type KickRoom struct {
	UserID domain.UserID `json:"userId"`
}

type LeaveRoom struct{}

type ChangeRole struct {
	UserID domain.UserID `json:"userId"`
}

type NeedLatestCode struct{}

// GotCode is the host answering a FindLatestCode for UserID.
type GotCode struct {
	Code   json.RawMessage `json:"code"`
	UserID domain.UserID   `json:"userId"`
}

type CodeChange struct {
	Changes json.RawMessage `json:"changes"`
}

type AddNode struct {
	Node json.RawMessage `json:"node"`
}

type DeleteNode struct {
	NodeID json.RawMessage `json:"nodeId"`
}

type RenameNode struct {
	NodeID json.RawMessage `json:"nodeId"`
	Label  json.RawMessage `json:"label"`
}

type ConnectNodes struct {
	Edge json.RawMessage `json:"edge"`
}

type DeleteEdge struct {
	EdgeID json.RawMessage `json:"edgeId"`
}

// Detach is a client telling the server it is leaving the room view
// without closing the socket.
type Detach struct{}

type Ping struct{}

func (*Register) Type() EventType       { return TypeRegister }
func (*JoinReq) Type() EventType        { return TypeJoinReq }
func (*JoinRoom) Type() EventType       { return TypeJoinRoom }
func (*KickRoom) Type() EventType       { return TypeKickRoom }
func (*LeaveRoom) Type() EventType      { return TypeLeaveRoom }
func (*ChangeRole) Type() EventType     { return TypeChangeRole }
func (*NeedLatestCode) Type() EventType { return TypeNeedLatestCode }
func (*GotCode) Type() EventType        { return TypeGotCode }
func (*CodeChange) Type() EventType     { return TypeCodeChange }
func (*AddNode) Type() EventType        { return TypeAddNode }
func (*DeleteNode) Type() EventType     { return TypeDeleteNode }
func (*RenameNode) Type() EventType     { return TypeRenameNode }
func (*ConnectNodes) Type() EventType   { return TypeConnectNodes }
func (*DeleteEdge) Type() EventType     { return TypeDeleteEdge }
func (*Detach) Type() EventType         { return TypeDetach }
func (*Ping) Type() EventType           { return TypePing }

func (*Register) inbound()       {}
func (*JoinReq) inbound()        {}
func (*JoinRoom) inbound()       {}
func (*KickRoom) inbound()       {}
func (*LeaveRoom) inbound()      {}
func (*ChangeRole) inbound()     {}
func (*NeedLatestCode) inbound() {}
func (*GotCode) inbound()        {}
func (*CodeChange) inbound()     {}
func (*AddNode) inbound()        {}
func (*DeleteNode) inbound()     {}
func (*RenameNode) inbound()     {}
func (*ConnectNodes) inbound()   {}
func (*DeleteEdge) inbound()     {}
func (*Detach) inbound()         {}
func (*Ping) inbound()           {}

func (m *CodeChange) Relayed() Outbound   { return &IncomingCodeChange{Changes: m.Changes} }
func (m *AddNode) Relayed() Outbound      { return &NodeAdded{Node: m.Node} }
func (m *DeleteNode) Relayed() Outbound   { return &NodeDeleted{NodeID: m.NodeID} }
func (m *RenameNode) Relayed() Outbound   { return &NodeRenamed{NodeID: m.NodeID, Label: m.Label} }
func (m *ConnectNodes) Relayed() Outbound { return &EdgeConnected{Edge: m.Edge} }
func (m *DeleteEdge) Relayed() Outbound   { return &EdgeDeleted{EdgeID: m.EdgeID} }
