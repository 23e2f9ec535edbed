// live_test.go
//
// Copyright (C) 2024 The scrabble authors

// Tests for the live room: joining, the authoritative game loop, AI
// turns, timeouts and reconnection.

package scrabble

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An unplayable lexicon: no first move can place more than 7 tiles,
// so an 8 letter word keeps every seat passing. This makes the room
// flow deterministic.
func unplayableFsm(t *testing.T) *FastFsm {
	t.Helper()
	return buildFsm(t, "ABCDEFGH")
}

func testRoom(t *testing.T, fsm Fsm, humans, ais int, timeout time.Duration) (*Rooms, *Room) {
	t.Helper()
	rooms := NewRooms()
	room := rooms.Create(fsm, RoomConfig{
		HumanCount:   humans,
		AiCount:      ais,
		AiDifficulty: AiEasy,
		TurnTimeout:  timeout,
		Log:          zerolog.Nop(),
	})
	return rooms, room
}

func recv(t *testing.T, ch <-chan ServerMsg) ServerMsg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a server message")
		return ServerMsg{}
	}
}

// recvType drains messages until one of the wanted type arrives.
func recvType(t *testing.T, ch <-chan ServerMsg, want ServerMsgType) ServerMsg {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-ch:
			if msg.Type == want {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func pass() ClientMsg {
	return ClientMsg{Type: ClientPlay, Play: &PlayMsg{Kind: "pass"}}
}

// TestRoomFlow drives a 2 human + 1 AI room to completion: the AI
// plays between the human turns without any client input.
func TestRoomFlow(t *testing.T) {
	fsm := unplayableFsm(t)
	_, room := testRoom(t, fsm, 2, 1, time.Minute)
	require.Equal(t, 3, room.Capacity())

	ch1, lerr := room.Join(1)
	require.Nil(t, lerr)
	joined1 := recvType(t, ch1, ServerJoined)
	assert.Equal(t, 3, joined1.Joined.Capacity)
	assert.Len(t, joined1.Joined.Rack, RackSize)
	assert.Len(t, joined1.Joined.Players, 3)
	assert.Equal(t, "AI (easy)", joined1.Joined.Players[2].Username)

	ch2, lerr := room.Join(2)
	require.Nil(t, lerr)
	recvType(t, ch2, ServerJoined)

	// with every human seat bound the game starts
	recvType(t, ch1, ServerStarting)
	recvType(t, ch2, ServerStarting)
	recvType(t, ch1, ServerRack)

	// player 0 passes
	room.Deliver(1, pass())
	play := recvType(t, ch2, ServerPlay)
	assert.Equal(t, int32(0), play.Play.Player.IdPlayer)
	assert.Equal(t, "pass", play.Play.Play.Kind)
	require.NotNil(t, play.Play.Next)
	assert.Equal(t, int32(1), play.Play.Next.IdPlayer)
	// player 0's own copy of the broadcast
	recvType(t, ch1, ServerPlay)

	// player 1 passes; the AI then plays without any client input
	room.Deliver(2, pass())
	play = recvType(t, ch1, ServerPlay)
	assert.Equal(t, int32(1), play.Play.Player.IdPlayer)

	aiPlay := recvType(t, ch1, ServerPlay)
	assert.Equal(t, int32(2), aiPlay.Play.Player.IdPlayer)
	assert.Equal(t, "AI (easy)", aiPlay.Play.Player.Username)

	// player 0's second consecutive pass ends the game
	room.Deliver(1, pass())
	recvType(t, ch1, ServerPlay)
	over := recvType(t, ch2, ServerOver)
	require.NotNil(t, over.Reason)
	assert.Equal(t, TwoPasses, *over.Reason)
}

func TestNotYourTurn(t *testing.T) {
	fsm := unplayableFsm(t)
	_, room := testRoom(t, fsm, 2, 0, time.Minute)

	ch1, lerr := room.Join(1)
	require.Nil(t, lerr)
	ch2, lerr := room.Join(2)
	require.Nil(t, lerr)
	recvType(t, ch1, ServerStarting)
	recvType(t, ch2, ServerStarting)

	// player 1 tries to play out of turn; only they hear about it
	room.Deliver(2, pass())
	errMsg := recvType(t, ch2, ServerError)
	require.NotNil(t, errMsg.Error)
	assert.Equal(t, LiveNotYourTurn, errMsg.Error.Kind)

	// player 0's turn proceeds normally afterwards
	room.Deliver(1, pass())
	play := recvType(t, ch1, ServerPlay)
	assert.Equal(t, int32(0), play.Play.Player.IdPlayer)
}

func TestPlayErrorReturnsRack(t *testing.T) {
	fsm := buildFsm(t, "CAT")
	_, room := testRoom(t, fsm, 2, 0, time.Minute)

	ch1, lerr := room.Join(1)
	require.Nil(t, lerr)
	_, lerr = room.Join(2)
	require.Nil(t, lerr)
	recvType(t, ch1, ServerStarting)

	// an illegal placement: off in a corner, missing the start square
	room.Deliver(1, ClientMsg{Type: ClientPlay, Play: &PlayMsg{
		Kind: "place",
		Placements: []TilePlacement{
			{Pos: PosAt(0, 0), Tile: mustTile(t, '?')},
			{Pos: PosAt(0, 1), Tile: mustTile(t, '?')},
		},
	}})

	errMsg := recvType(t, ch1, ServerError)
	require.NotNil(t, errMsg.Error)
	assert.Equal(t, LivePlayError, errMsg.Error.Kind)
	require.NotNil(t, errMsg.Error.Play)

	rackMsg := recvType(t, ch1, ServerRack)
	assert.Len(t, rackMsg.Rack, RackSize)
}

func TestTimeoutSubstitutesAi(t *testing.T) {
	fsm := unplayableFsm(t)
	_, room := testRoom(t, fsm, 2, 0, 100*time.Millisecond)

	ch1, lerr := room.Join(1)
	require.Nil(t, lerr)
	ch2, lerr := room.Join(2)
	require.Nil(t, lerr)
	recvType(t, ch1, ServerStarting)
	recvType(t, ch2, ServerStarting)

	// nobody plays: player 0 times out and an easy AI passes for them
	timeout := recvType(t, ch2, ServerTimeout)
	require.NotNil(t, timeout.Player)
	assert.Equal(t, int32(0), timeout.Player.IdPlayer)

	play := recvType(t, ch2, ServerPlay)
	assert.Equal(t, int32(0), play.Play.Player.IdPlayer)

	// the timed-out seat can no longer play for itself
	room.Deliver(1, pass())
	errMsg := recvType(t, ch1, ServerError)
	assert.Equal(t, LiveNotYourTurn, errMsg.Error.Kind)

	// left alone, the substituted seats pass the game to its end
	over := recvType(t, ch1, ServerOver)
	require.NotNil(t, over.Reason)
	assert.Equal(t, TwoPasses, *over.Reason)
}

func TestReconnectReclaimsSeat(t *testing.T) {
	fsm := unplayableFsm(t)
	_, room := testRoom(t, fsm, 2, 0, time.Minute)

	ch1, lerr := room.Join(1)
	require.Nil(t, lerr)
	first := recvType(t, ch1, ServerJoined)

	room.Disconnect(1)

	ch1b, lerr := room.Join(1)
	require.Nil(t, lerr)
	second := recvType(t, ch1b, ServerJoined)

	assert.Equal(t, first.Joined.IdPlayer, second.Joined.IdPlayer)
	assert.Equal(t, first.Joined.Rack, second.Joined.Rack)

	// the room still has one vacant seat, so a third user can join,
	// but a fourth cannot
	_, lerr = room.Join(3)
	require.Nil(t, lerr)
	_, lerr = room.Join(4)
	require.NotNil(t, lerr)
	assert.Equal(t, LiveFailedToJoin, lerr.Kind)
}

func TestChatBroadcast(t *testing.T) {
	fsm := unplayableFsm(t)
	_, room := testRoom(t, fsm, 2, 0, time.Minute)

	ch1, lerr := room.Join(1)
	require.Nil(t, lerr)
	ch2, lerr := room.Join(2)
	require.Nil(t, lerr)

	room.Deliver(2, ClientMsg{Type: ClientChat, Chat: "hello"})

	msg := recvType(t, ch1, ServerChat)
	assert.Equal(t, "hello", msg.Chat)
	require.NotNil(t, msg.Player)
	assert.Equal(t, int32(1), msg.Player.IdPlayer)

	msg = recvType(t, ch2, ServerChat)
	assert.Equal(t, "hello", msg.Chat)
}

func TestCreateRoomValidation(t *testing.T) {
	fsm := unplayableFsm(t)
	server := NewLiveServer(fsm, NewRooms(), nil, nil, nil, time.Minute, zerolog.Nop())

	_, lerr := server.createRoom(1, nil)
	require.NotNil(t, lerr)
	assert.Equal(t, LiveZeroPlayers, lerr.Kind)

	_, lerr = server.createRoom(1, &CreateRoom{PlayerCount: 0, AiCount: 3})
	require.NotNil(t, lerr)
	assert.Equal(t, LiveZeroPlayers, lerr.Kind)

	_, lerr = server.createRoom(1, &CreateRoom{PlayerCount: 1, AiCount: 0})
	require.NotNil(t, lerr)
	assert.Equal(t, LiveIllegalPlayerCount, lerr.Kind)

	_, lerr = server.createRoom(1, &CreateRoom{PlayerCount: 3, AiCount: 2})
	require.NotNil(t, lerr)
	assert.Equal(t, LiveIllegalPlayerCount, lerr.Kind)

	room, lerr := server.createRoom(1, &CreateRoom{PlayerCount: 2, AiCount: 1})
	require.Nil(t, lerr)
	assert.Equal(t, 3, room.Capacity())
}

func TestRegistry(t *testing.T) {
	fsm := unplayableFsm(t)
	rooms, room := testRoom(t, fsm, 2, 0, time.Minute)

	got, ok := rooms.Room(room.Id)
	require.True(t, ok)
	assert.Equal(t, room, got)

	_, ok = rooms.Room(room.Id + 1)
	assert.False(t, ok)
	assert.Equal(t, 1, rooms.Len())
}
