package app

import "github.com/dkeye/Dicode/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	Disconnect
)

// Policy decides what happens to a receiver whose send buffer is full.
type Policy interface {
	OnBackPressure(room domain.RoomID, member Entry) BackpressureAction
}

// SimplePolicy disconnects slow receivers: a client that missed a delta is
// out of sync, and reconnecting makes it ask the host for fresh content.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room domain.RoomID, member Entry) BackpressureAction {
	return Disconnect
}
