package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Dicode/internal/core"
)

var ErrUnknownEvent = errors.New("unknown event")

func newInbound(t EventType) (Inbound, bool) {
	switch t {
	case TypeRegister:
		return &Register{}, true
	case TypeJoinReq:
		return &JoinReq{}, true
	case TypeJoinRoom:
		return &JoinRoom{}, true
	case TypeKickRoom:
		return &KickRoom{}, true
	case TypeLeaveRoom:
		return &LeaveRoom{}, true
	case TypeChangeRole:
		return &ChangeRole{}, true
	case TypeNeedLatestCode:
		return &NeedLatestCode{}, true
	case TypeGotCode:
		return &GotCode{}, true
	case TypeCodeChange:
		return &CodeChange{}, true
	case TypeAddNode:
		return &AddNode{}, true
	case TypeDeleteNode:
		return &DeleteNode{}, true
	case TypeRenameNode:
		return &RenameNode{}, true
	case TypeConnectNodes:
		return &ConnectNodes{}, true
	case TypeDeleteEdge:
		return &DeleteEdge{}, true
	case TypeDetach:
		return &Detach{}, true
	case TypePing:
		return &Ping{}, true
	}
	return nil, false
}

// Decode parses one frame into its typed inbound event.
func Decode(data []byte) (Inbound, error) {
	var env struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	msg, ok := newInbound(env.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return msg, nil
}

// Encode renders an outbound event as a flat object with its "type" tag.
func Encode(m Outbound) (core.Frame, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Type(), err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Type(), err)
	}
	tag, err := json.Marshal(m.Type())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}
