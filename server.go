// server.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the network surface of the live game system:
// the WebSocket endpoint that authenticates a connection, routes it
// into a room, and pumps frames in both directions, plus a compact
// JSON word-check endpoint.

package scrabble

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Authenticator turns the token of an Auth frame into a user id. The
// token format (JWT issuance, hashing, user storage) belongs to the
// external auth collaborator.
type Authenticator interface {
	Authenticate(token string) (int32, error)
}

// LiveServer is the WebSocket endpoint for live games.
type LiveServer struct {
	fsm      Fsm
	rooms    *Rooms
	auth     Authenticator
	events   EventSink
	friends  FriendsFunc
	log      zerolog.Logger
	timeout  time.Duration
	upgrader websocket.Upgrader
}

// NewLiveServer wires the endpoint together. events and friends may
// be nil; turnTimeout of zero uses the default.
func NewLiveServer(
	fsm Fsm,
	rooms *Rooms,
	auth Authenticator,
	events EventSink,
	friends FriendsFunc,
	turnTimeout time.Duration,
	log zerolog.Logger,
) *LiveServer {
	return &LiveServer{
		fsm:     fsm,
		rooms:   rooms,
		auth:    auth,
		events:  events,
		friends: friends,
		log:     log,
		timeout: turnTimeout,
		upgrader: websocket.Upgrader{
			// Origin enforcement sits with the outer router.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleLive upgrades the connection and serves it until it closes.
func (s *LiveServer) HandleLive(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	s.serveConn(conn)
}

// serveConn drives one client connection: Auth, then Join or Create,
// then the read loop. The write side runs in its own pump goroutine.
func (s *LiveServer) serveConn(conn *websocket.Conn) {
	// The first frame must authenticate the principal.
	msg, err := readClientFrame(conn)
	if err != nil {
		s.log.Error().Err(err).Msg("auth frame not received")
		return
	}
	if msg.Type != ClientAuth {
		s.log.Error().Str("type", string(msg.Type)).Msg("expected auth frame")
		return
	}
	idUser, err := s.auth.Authenticate(msg.Token)
	if err != nil {
		s.log.Error().Err(err).Msg("invalid token")
		writeServerFrame(conn, ServerMsg{Type: ServerError, Error: &LiveError{Kind: LiveInvalidToken}})
		return
	}

	// The next frame routes the connection into a room.
	msg, err = readClientFrame(conn)
	if err != nil {
		s.log.Error().Err(err).Int32("id_user", idUser).Msg("join frame not received")
		return
	}

	var room *Room
	switch msg.Type {
	case ClientJoin:
		existing, ok := s.rooms.Room(msg.Room)
		if !ok {
			writeServerFrame(conn, ServerMsg{Type: ServerError, Error: &LiveError{Kind: LiveFailedToJoin}})
			return
		}
		room = existing
	case ClientCreate:
		created, lerr := s.createRoom(idUser, msg.Create)
		if lerr != nil {
			writeServerFrame(conn, ServerMsg{Type: ServerError, Error: lerr})
			return
		}
		room = created
	default:
		s.log.Error().Str("type", string(msg.Type)).Msg("expected join or create frame")
		return
	}

	outbound, lerr := room.Join(idUser)
	if lerr != nil {
		writeServerFrame(conn, ServerMsg{Type: ServerError, Error: lerr})
		return
	}

	// Writer pump: frames committed by the room flow to the socket.
	done := make(chan struct{})
	go func() {
		for {
			select {
			case frame := <-outbound:
				if err := writeServerFrame(conn, frame); err != nil {
					conn.Close()
					return
				}
			case <-done:
				return
			case <-room.Closed():
				conn.Close()
				return
			}
		}
	}()
	defer close(done)
	defer room.Disconnect(idUser)

	// Read loop: client frames flow to the room queue. Malformed
	// frames drop the connection; they never reach the room.
	for {
		inMsg, err := readClientFrame(conn)
		if err != nil {
			s.log.Info().Int32("id_user", idUser).Msg("connection closed")
			return
		}
		if inMsg.Type == ClientDisconnect {
			return
		}
		room.Deliver(idUser, inMsg)
	}
}

// createRoom validates a create request and starts the room.
func (s *LiveServer) createRoom(idUser int32, req *CreateRoom) (*Room, *LiveError) {
	if req == nil || req.PlayerCount < 1 {
		return nil, &LiveError{Kind: LiveZeroPlayers}
	}
	total := req.PlayerCount + req.AiCount
	if total < 2 || total > 4 {
		return nil, &LiveError{Kind: LiveIllegalPlayerCount}
	}

	room := s.rooms.Create(s.fsm, RoomConfig{
		HumanCount:   req.PlayerCount,
		AiCount:      req.AiCount,
		AiDifficulty: req.AiDifficulty(),
		FriendsOnly:  req.FriendsOnly,
		Host:         idUser,
		TurnTimeout:  s.timeout,
		Events:       s.events,
		Friends:      s.friends,
		Log:          s.log,
	})
	return room, nil
}

// readClientFrame reads and decodes one client frame.
func readClientFrame(conn *websocket.Conn) (ClientMsg, error) {
	var msg ClientMsg
	_, data, err := conn.ReadMessage()
	if err != nil {
		return msg, err
	}
	if err := DecodeFrame(data, &msg); err != nil {
		return msg, err
	}
	return msg, nil
}

// writeServerFrame encodes and writes one server frame.
func writeServerFrame(conn *websocket.Conn, msg ServerMsg) error {
	frame, err := EncodeFrame(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, frame)
}

// WordCheckRequest is the body of a /wordcheck request.
type WordCheckRequest struct {
	Words []string `json:"words"`
}

// WordCheckResultPair is one (word, valid) result.
type WordCheckResultPair [2]interface{}

// HandleWordCheck validates a list of words against the dictionary,
// returning per-word validity and an overall flag.
func (s *LiveServer) HandleWordCheck(w http.ResponseWriter, req *http.Request) {
	var body WordCheckRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// One play forms at most the major-axis word plus one cross word
	// per placed tile; requests of more than BoardSize+1 words are
	// refused.
	if len(body.Words) == 0 || len(body.Words) > BoardSize+1 {
		json.NewEncoder(w).Encode(map[string]bool{"ok": false})
		return
	}

	allValid := true
	valid := make([]WordCheckResultPair, len(body.Words))
	for i, word := range body.Words {
		found := Accepts(s.fsm, word)
		valid[i] = WordCheckResultPair{word, found}
		if !found {
			allValid = false
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":    allValid,
		"valid": valid,
	})
}
