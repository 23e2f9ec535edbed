// registry.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the live-games registry: the map from room id
// to room handle shared by every connection handler.

package scrabble

import (
	"sync"
	"sync/atomic"
)

// Rooms is the registry of live rooms. Readers take a shared guard;
// creating a room is the only write.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[int32]*Room
	nextId int32
}

// NewRooms returns an empty registry.
func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[int32]*Room)}
}

// Room looks up a live room by id.
func (rs *Rooms) Room(id int32) (*Room, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	room, ok := rs.rooms[id]
	return room, ok
}

// Len returns the number of live rooms.
func (rs *Rooms) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.rooms)
}

// Create starts a new room and registers it. The room removes itself
// from the registry when it shuts down.
func (rs *Rooms) Create(fsm Fsm, cfg RoomConfig) *Room {
	id := atomic.AddInt32(&rs.nextId, 1)

	room := newRoom(id, fsm, cfg)
	room.onClose = rs.remove

	rs.mu.Lock()
	rs.rooms[id] = room
	rs.mu.Unlock()

	go room.run()
	return room
}

func (rs *Rooms) remove(room *Room) {
	rs.mu.Lock()
	delete(rs.rooms, room.Id)
	rs.mu.Unlock()
}
