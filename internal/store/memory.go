// Package store holds the persisted rooms and user profiles.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
)

// Memory is an in-process RoomStore and UserDirectory for development and
// tests. Callers always receive copies.
type Memory struct {
	mu      sync.RWMutex
	rooms   map[domain.RoomID]*domain.Room
	users   map[domain.UserID]domain.User
	saveErr error
	saves   int
}

func NewMemory() *Memory {
	return &Memory{
		rooms: make(map[domain.RoomID]*domain.Room),
		users: make(map[domain.UserID]domain.User),
	}
}

func (m *Memory) PutRoom(r *domain.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.ID] = r.Clone()
}

func (m *Memory) PutUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// FailSaves makes every following SaveMembers return err. nil restores.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves is the number of successful SaveMembers calls.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *Memory) GetRoom(_ context.Context, id domain.RoomID) (*domain.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", id, core.ErrNotFound)
	}
	return r.Clone(), nil
}

func (m *Memory) SaveMembers(_ context.Context, room *domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	r, ok := m.rooms[room.ID]
	if !ok {
		return fmt.Errorf("room %s: %w", room.ID, core.ErrNotFound)
	}
	r.Members = append([]domain.Member(nil), room.Members...)
	r.UpdatedAt = room.UpdatedAt
	m.saves++
	return nil
}

func (m *Memory) GetUser(_ context.Context, id domain.UserID) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return &u, nil
}
