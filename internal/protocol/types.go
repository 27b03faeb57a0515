// Package protocol defines the WebSocket wire format: one flat JSON object per
// text frame, tagged by "type". Inbound and Outbound are sealed so that every
// event kind is a distinct Go type.
package protocol

// EventType is the "type" tag of a frame.
type EventType string

// Client -> server.
const (
	TypeRegister       EventType = "register"
	TypeJoinReq        EventType = "join-req"
	TypeJoinRoom       EventType = "join-room"
	TypeKickRoom       EventType = "kick-room"
	TypeLeaveRoom      EventType = "leave-room"
	TypeChangeRole     EventType = "change-role"
	TypeNeedLatestCode EventType = "need-latest-code"
	TypeGotCode        EventType = "got-code"
	TypeCodeChange     EventType = "code-change"
	TypeAddNode        EventType = "add-node"
	TypeDeleteNode     EventType = "delete-node"
	TypeRenameNode     EventType = "rename-node"
	TypeConnectNodes   EventType = "connect-nodes"
	TypeDeleteEdge     EventType = "delete-edge"
	TypeDetach         EventType = "discc"
	TypePing           EventType = "ping"
)

// Server -> client.
const (
	TypeGiveReq            EventType = "give-req"
	TypeJoinedRoom         EventType = "joined-room"
	TypeAdmitted           EventType = "joine-room"
	TypeRoleChanged        EventType = "role-changed"
	TypeRoleUpdated        EventType = "role-updated"
	TypeRoomUpdated        EventType = "room-updated"
	TypeNavigateRoom       EventType = "navigate-room"
	TypeNoHost             EventType = "no-host"
	TypeFindLatestCode     EventType = "find-latest-code"
	TypeSentLatestCode     EventType = "sent-latest-code"
	TypeIncomingCodeChange EventType = "incomming-code-change"
	TypeNodeAdded          EventType = "node-added"
	TypeNodeDeleted        EventType = "node-deleted"
	TypeNodeRenamed        EventType = "node-renamed"
	TypeEdgeConnected      EventType = "edge-connected"
	TypeEdgeDeleted        EventType = "edge-deleted"
	TypeSessionToken       EventType = "livekit-token"
	TypePong               EventType = "pong"
	TypeError              EventType = "error"
)
