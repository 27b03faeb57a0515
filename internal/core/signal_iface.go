package core

import "errors"

var (
	// ErrBufferFull is returned by TrySend when the receiver is not draining.
	ErrBufferFull = errors.New("send buffer full")
	ErrConnClosed = errors.New("connection closed")
)

// Frame is a raw encoded message.
type Frame []byte

// ConnID identifies one live connection. A user reconnecting gets a new one.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// TrySend never blocks; Close is idempotent.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
