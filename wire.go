// wire.go
//
// Copyright (C) 2024 The scrabble authors

// This file defines the frames exchanged between clients and a live
// room, and the length-prefixed binary codec that carries them.

package scrabble

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ClientMsgType tags a client frame.
type ClientMsgType string

const (
	ClientAuth       ClientMsgType = "auth"
	ClientJoin       ClientMsgType = "join"
	ClientCreate     ClientMsgType = "create"
	ClientPlay       ClientMsgType = "play"
	ClientChat       ClientMsgType = "chat"
	ClientDisconnect ClientMsgType = "disconnect"
)

// CreateRoom are the parameters of a create request.
type CreateRoom struct {
	AiCount     int  `json:"ai_count"`
	PlayerCount int  `json:"player_count"`
	FriendsOnly bool `json:"friends_only"`
	// Difficulty of the AI seats: "easy", "medium" or "hard".
	// Defaults to medium.
	Difficulty string `json:"difficulty,omitempty"`
}

// AiDifficulty resolves the requested difficulty.
func (c *CreateRoom) AiDifficulty() AiDifficulty {
	switch c.Difficulty {
	case "easy":
		return AiEasy
	case "hard":
		return AiHard
	default:
		return AiMedium
	}
}

// ClientMsg is a frame sent from a client. Type selects which of the
// payload fields is meaningful.
type ClientMsg struct {
	Type   ClientMsgType `json:"type"`
	Token  string        `json:"token,omitempty"`
	Room   int32         `json:"room,omitempty"`
	Create *CreateRoom   `json:"create,omitempty"`
	Play   *PlayMsg      `json:"play,omitempty"`
	Chat   string        `json:"chat,omitempty"`
}

// PlayMsg is the wire form of a Play.
type PlayMsg struct {
	Kind       string          `json:"kind"`
	Tiles      []Tile          `json:"tiles,omitempty"`
	Placements []TilePlacement `json:"placements,omitempty"`
}

// PlayToMsg converts a Play to its wire form.
func PlayToMsg(play Play) PlayMsg {
	switch p := play.(type) {
	case RedrawPlay:
		return PlayMsg{Kind: "redraw", Tiles: p.Tiles}
	case PlacePlay:
		return PlayMsg{Kind: "place", Placements: p.Placements}
	default:
		return PlayMsg{Kind: "pass"}
	}
}

// Play converts the wire form back to a Play.
func (m *PlayMsg) Play() (Play, error) {
	switch m.Kind {
	case "pass":
		return PassPlay{}, nil
	case "redraw":
		return RedrawPlay{Tiles: m.Tiles}, nil
	case "place":
		for _, tp := range m.Placements {
			if tp.Pos < 0 || tp.Pos >= BoardCells {
				return nil, fmt.Errorf("position %d out of range", tp.Pos)
			}
		}
		return PlacePlay{Placements: m.Placements}, nil
	default:
		return nil, fmt.Errorf("unknown play kind %q", m.Kind)
	}
}

// ServerMsgType tags a server frame.
type ServerMsgType string

const (
	ServerJoined           ServerMsgType = "joined"
	ServerStarting         ServerMsgType = "starting"
	ServerOver             ServerMsgType = "over"
	ServerPlay             ServerMsgType = "play"
	ServerUserConnected    ServerMsgType = "user_connected"
	ServerUserDisconnected ServerMsgType = "user_disconnected"
	ServerTimeout          ServerMsgType = "timeout"
	ServerRack             ServerMsgType = "rack"
	ServerChat             ServerMsgType = "chat"
	ServerError            ServerMsgType = "error"
)

// PlayerInfo identifies one seat of a room to clients.
type PlayerInfo struct {
	IdPlayer int32  `json:"id_player"`
	Username string `json:"username"`
}

// JoinedMsg is the snapshot a client receives after joining.
type JoinedMsg struct {
	IdGame   int32        `json:"id_game"`
	IdPlayer int32        `json:"id_player"`
	Capacity int          `json:"capacity"`
	Players  []PlayerInfo `json:"players"`
	Tiles    []*Tile      `json:"tiles"`
	Rack     []Tile       `json:"rack"`
	Scores   []int        `json:"scores"`
	Next     *int         `json:"next,omitempty"`
}

// PlayBroadcast announces a committed play to every seat.
type PlayBroadcast struct {
	Player       PlayerInfo  `json:"player"`
	PrevTiles    []*Tile     `json:"prev_tiles"`
	Play         PlayMsg     `json:"play"`
	LetterBagLen int         `json:"letter_bag_len"`
	Next         *PlayerInfo `json:"next,omitempty"`
	Scores       []int       `json:"scores"`
}

// LiveErrorKind discriminates room-level errors.
type LiveErrorKind string

const (
	LivePlayError          LiveErrorKind = "Play"
	LiveNotYourTurn        LiveErrorKind = "NotYourTurn"
	LiveZeroPlayers        LiveErrorKind = "ZeroPlayers"
	LiveIllegalPlayerCount LiveErrorKind = "IllegalPlayerCount"
	LiveFailedToJoin       LiveErrorKind = "FailedToJoin"
	LiveInvalidToken       LiveErrorKind = "InvalidToken"
)

// LiveError is an error surfaced to a single client at the live
// boundary. Game errors are carried in Play.
type LiveError struct {
	Kind LiveErrorKind `json:"kind"`
	Play *GameError    `json:"play,omitempty"`
}

// Error implements the error interface.
func (e *LiveError) Error() string {
	if e.Kind == LivePlayError && e.Play != nil {
		return string(e.Kind) + ": " + e.Play.Error()
	}
	return string(e.Kind)
}

// NewPlayError wraps a GameError for the live boundary.
func NewPlayError(err GameError) *LiveError {
	return &LiveError{Kind: LivePlayError, Play: &err}
}

// ServerMsg is a frame sent from the server. Type selects which of
// the payload fields is meaningful.
type ServerMsg struct {
	Type   ServerMsgType   `json:"type"`
	Joined *JoinedMsg      `json:"joined,omitempty"`
	Play   *PlayBroadcast  `json:"play,omitempty"`
	Player *PlayerInfo     `json:"player,omitempty"`
	Chat   string          `json:"chat,omitempty"`
	Rack   []Tile          `json:"rack,omitempty"`
	Reason *GameOverReason `json:"reason,omitempty"`
	Error  *LiveError      `json:"error,omitempty"`
}

// maxFrameSize bounds inbound frames; a full board snapshot fits in
// a fraction of this.
const maxFrameSize = 1 << 20

// EncodeFrame serialises a frame as a length-prefixed binary record:
// a big-endian uint32 byte count followed by the JSON body.
func EncodeFrame(v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[4:], body)
	return frame, nil
}

// DecodeFrame parses a length-prefixed binary record.
func DecodeFrame(frame []byte, v interface{}) error {
	if len(frame) < 4 {
		return errors.New("frame too short")
	}
	length := binary.BigEndian.Uint32(frame)
	if length > maxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds limit", length)
	}
	if int(length) != len(frame)-4 {
		return fmt.Errorf("frame length mismatch: header %d, body %d", length, len(frame)-4)
	}
	if err := json.Unmarshal(frame[4:], v); err != nil {
		return fmt.Errorf("decoding frame: %w", err)
	}
	return nil
}

// WriteFrame writes a frame to a byte stream.
func WriteFrame(w io.Writer, v interface{}) error {
	frame, err := EncodeFrame(v)
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}

// ReadFrame reads a frame from a byte stream.
func ReadFrame(r io.Reader, v interface{}) error {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > maxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds limit", length)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding frame: %w", err)
	}
	return nil
}
