// live.go
//
// Copyright (C) 2024 The scrabble authors

// This file implements the live game room: a fixed set of seats
// multiplexed over one Game. A single goroutine owns all mutable
// room state; connections talk to it through a command queue, which
// gives single-writer semantics without a lock.

package scrabble

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultTurnTimeout is how long a seat may hold its turn before the
// room substitutes an easy AI for it.
const defaultTurnTimeout = 60 * time.Second

// outboundBuffer is the per-seat broadcast queue size. A seat that
// falls further behind than this has its frames dropped.
const outboundBuffer = 64

// eventTimeout bounds each fire-and-log persistence call.
const eventTimeout = 5 * time.Second

// FriendsFunc decides whether a guest may join a friends-only room
// hosted by host. The friends data itself lives with an external
// collaborator.
type FriendsFunc func(host, guest int32) bool

// Seat is one fixed slot of a room: an AI, or a human identified by
// their user id. A disconnected human seat keeps its binding: the
// outbound sink drops to nil and is rebound when the same user
// reconnects.
type Seat struct {
	PlayerNum  PlayerNum
	IsAi       bool
	Difficulty AiDifficulty
	IdUser     int32

	outbound chan ServerMsg
	// timedOut marks a human seat that an easy AI plays for, for the
	// rest of the game. The human stays addressable for chat.
	timedOut bool
	robot    *RobotWrapper
}

// vacant reports whether the seat is a human slot with no user bound.
func (s *Seat) vacant() bool {
	return !s.IsAi && s.IdUser == 0
}

// connected reports whether a sink is attached.
func (s *Seat) connected() bool {
	return s.outbound != nil
}

// playerInfo describes the seat to clients.
func (s *Seat) playerInfo() PlayerInfo {
	info := PlayerInfo{IdPlayer: int32(s.PlayerNum)}
	switch {
	case s.IsAi:
		info.Username = fmt.Sprintf("AI (%s)", s.Difficulty)
	case s.connected():
		info.Username = fmt.Sprintf("user-%d", s.IdUser)
	default:
		info.Username = fmt.Sprintf("Disconnected (user-%d)", s.IdUser)
	}
	return info
}

// RoomConfig carries the parameters of a new room.
type RoomConfig struct {
	HumanCount   int
	AiCount      int
	AiDifficulty AiDifficulty
	FriendsOnly  bool
	Host         int32
	TurnTimeout  time.Duration
	Events       EventSink
	Friends      FriendsFunc
	Log          zerolog.Logger
}

// roomCmd is a message to the room goroutine.
type roomCmd interface{ roomCmd() }

type joinCmd struct {
	idUser   int32
	outbound chan ServerMsg
	reply    chan *LiveError
}

type clientCmd struct {
	idUser int32
	msg    ClientMsg
}

type disconnectCmd struct {
	idUser int32
}

func (joinCmd) roomCmd()       {}
func (clientCmd) roomCmd()     {}
func (disconnectCmd) roomCmd() {}

// Room owns one Game and the seats playing it. All game state
// mutation happens inside the room goroutine; connection goroutines
// never touch the game directly.
type Room struct {
	Id int32

	fsm     Fsm
	game    *Game
	seats   []*Seat
	inbound chan roomCmd

	events      EventSink
	friends     FriendsFunc
	log         zerolog.Logger
	turnTimeout time.Duration
	friendsOnly bool
	host        int32

	idGame    string
	started   bool
	startTime time.Time

	closed  chan struct{}
	onClose func(*Room)
}

// newRoom builds a room with its AI seats filled and its human seats
// vacant. The caller starts the goroutine with run.
func newRoom(id int32, fsm Fsm, cfg RoomConfig) *Room {
	total := cfg.HumanCount + cfg.AiCount
	seats := make([]*Seat, total)
	for i := 0; i < cfg.HumanCount; i++ {
		seats[i] = &Seat{PlayerNum: PlayerNum(i)}
	}
	for i := cfg.HumanCount; i < total; i++ {
		seats[i] = &Seat{
			PlayerNum:  PlayerNum(i),
			IsAi:       true,
			Difficulty: cfg.AiDifficulty,
			robot:      NewRobotForDifficulty(cfg.AiDifficulty),
		}
	}

	timeout := cfg.TurnTimeout
	if timeout <= 0 {
		timeout = defaultTurnTimeout
	}

	return &Room{
		Id:          id,
		fsm:         fsm,
		game:        NewGame(total),
		seats:       seats,
		inbound:     make(chan roomCmd, outboundBuffer),
		events:      cfg.Events,
		friends:     cfg.Friends,
		log:         cfg.Log.With().Int32("id_room", id).Logger(),
		turnTimeout: timeout,
		friendsOnly: cfg.FriendsOnly,
		host:        cfg.Host,
		idGame:      uuid.NewString(),
		closed:      make(chan struct{}),
	}
}

// Capacity returns the total number of seats.
func (r *Room) Capacity() int {
	return len(r.seats)
}

// Closed is closed when the room goroutine has shut down.
func (r *Room) Closed() <-chan struct{} {
	return r.closed
}

// Join binds the user to a seat, or rebinds a returning user to
// their existing seat, and returns the channel on which the seat's
// frames are delivered.
func (r *Room) Join(idUser int32) (<-chan ServerMsg, *LiveError) {
	outbound := make(chan ServerMsg, outboundBuffer)
	reply := make(chan *LiveError, 1)

	select {
	case r.inbound <- joinCmd{idUser: idUser, outbound: outbound, reply: reply}:
	case <-r.closed:
		return nil, &LiveError{Kind: LiveFailedToJoin}
	}

	if lerr := <-reply; lerr != nil {
		return nil, lerr
	}
	return outbound, nil
}

// Deliver queues a client message for the room goroutine.
func (r *Room) Deliver(idUser int32, msg ClientMsg) {
	select {
	case r.inbound <- clientCmd{idUser: idUser, msg: msg}:
	case <-r.closed:
	}
}

// Disconnect detaches the user's sink. The seat keeps its binding
// and can be reclaimed by the same user.
func (r *Room) Disconnect(idUser int32) {
	select {
	case r.inbound <- disconnectCmd{idUser: idUser}:
	case <-r.closed:
	}
}

// run is the room goroutine: it serialises every mutation of the
// game, arbitrates the turn timer and fans out broadcasts.
func (r *Room) run() {
	timer := time.NewTimer(r.turnTimeout)
	disarmTimer(timer)
	defer timer.Stop()

	r.log.Info().Int("capacity", len(r.seats)).Msg("room open")

	for {
		select {
		case cmd := <-r.inbound:
			switch c := cmd.(type) {
			case joinCmd:
				r.handleJoin(c, timer)
			case clientCmd:
				r.handleClientMsg(c, timer)
			case disconnectCmd:
				r.handleDisconnect(c.idUser)
			}
		case <-timer.C:
			r.handleTimeout(timer)
		}

		if r.shouldClose() {
			r.log.Info().Msg("room closing")
			close(r.closed)
			if r.onClose != nil {
				r.onClose(r)
			}
			return
		}
	}
}

func (r *Room) seatByUser(idUser int32) *Seat {
	for _, seat := range r.seats {
		if !seat.IsAi && seat.IdUser == idUser {
			return seat
		}
	}
	return nil
}

func (r *Room) handleJoin(c joinCmd, timer *time.Timer) {
	if seat := r.seatByUser(c.idUser); seat != nil {
		// Reclaim on reconnect: rebind the sink, never the seat.
		seat.outbound = c.outbound
		c.reply <- nil
		r.sendTo(seat, r.joinedMsg(seat))
		r.broadcastExcept(seat, ServerMsg{Type: ServerUserConnected, Player: ptrInfo(seat.playerInfo())})
		return
	}

	if r.friendsOnly && c.idUser != r.host && r.friends != nil && !r.friends(r.host, c.idUser) {
		c.reply <- &LiveError{Kind: LiveFailedToJoin}
		return
	}

	var seat *Seat
	for _, s := range r.seats {
		if s.vacant() {
			seat = s
			break
		}
	}
	if seat == nil {
		c.reply <- &LiveError{Kind: LiveFailedToJoin}
		return
	}

	// Joining binds the user id once; it never unbinds.
	seat.IdUser = c.idUser
	seat.outbound = c.outbound
	c.reply <- nil

	r.log.Info().Int32("id_user", c.idUser).Int("player", int(seat.PlayerNum)).Msg("user joined")

	r.sendTo(seat, r.joinedMsg(seat))
	r.broadcastExcept(seat, ServerMsg{Type: ServerUserConnected, Player: ptrInfo(seat.playerInfo())})

	r.maybeStart(timer)
}

// maybeStart begins the game loop once every human seat is bound.
func (r *Room) maybeStart(timer *time.Timer) {
	if r.started {
		return
	}
	for _, seat := range r.seats {
		if seat.vacant() {
			return
		}
	}

	r.started = true
	r.startTime = time.Now()

	r.emitGameRecord(false)
	r.broadcast(ServerMsg{Type: ServerStarting})
	for _, seat := range r.seats {
		if !seat.IsAi {
			r.sendTo(seat, ServerMsg{Type: ServerRack, Rack: r.game.Player(seat.PlayerNum).Rack().Tiles()})
		}
	}

	r.runAiTurns(timer)
}

func (r *Room) handleClientMsg(c clientCmd, timer *time.Timer) {
	seat := r.seatByUser(c.idUser)
	if seat == nil {
		r.log.Error().Int32("id_user", c.idUser).Msg("message from unseated user")
		return
	}

	switch c.msg.Type {
	case ClientPlay:
		r.handlePlay(seat, c.msg.Play, timer)
	case ClientChat:
		r.broadcast(ServerMsg{Type: ServerChat, Player: ptrInfo(seat.playerInfo()), Chat: c.msg.Chat})
	case ClientDisconnect:
		r.handleDisconnect(c.idUser)
	default:
		r.log.Error().Str("type", string(c.msg.Type)).Msg("unexpected message")
	}
}

func (r *Room) handlePlay(seat *Seat, msg *PlayMsg, timer *time.Timer) {
	if msg == nil {
		r.log.Error().Int("player", int(seat.PlayerNum)).Msg("play frame without payload")
		r.dropSeat(seat)
		return
	}

	next, ok := r.game.ToPlay()
	if !ok {
		r.sendTo(seat, ServerMsg{Type: ServerError, Error: NewPlayError(ErrGameOver)})
		return
	}
	if !r.started || next != seat.PlayerNum || seat.timedOut {
		r.sendTo(seat, ServerMsg{Type: ServerError, Error: &LiveError{Kind: LiveNotYourTurn}})
		return
	}

	play, err := msg.Play()
	if err != nil {
		r.log.Error().Err(err).Int("player", int(seat.PlayerNum)).Msg("malformed play")
		r.dropSeat(seat)
		return
	}

	// The turn is resolving: a timer firing after this point must not
	// steal it.
	disarmTimer(timer)

	rackBefore := r.game.Player(seat.PlayerNum).Rack().Tiles()
	prevTiles := r.game.Board().Tiles()

	if err := r.game.MakePlay(play, r.fsm); err != nil {
		gameErr, isGameErr := err.(GameError)
		if !isGameErr {
			r.log.Error().Err(err).Msg("unexpected play failure")
			gameErr = ErrInvalidWord
		}
		// Return the rack so the client can roll back any tentative
		// placement, and give the turn its full time again.
		r.sendTo(seat, ServerMsg{Type: ServerError, Error: NewPlayError(gameErr)})
		r.sendTo(seat, ServerMsg{Type: ServerRack, Rack: rackBefore})
		armTimer(timer, r.turnTimeout)
		return
	}

	r.afterPlay(seat, play, rackBefore, prevTiles)
	r.sendTo(seat, ServerMsg{Type: ServerRack, Rack: r.game.Player(seat.PlayerNum).Rack().Tiles()})
	r.runAiTurns(timer)
}

// afterPlay emits the event records and the broadcast for a play
// that the game accepted.
func (r *Room) afterPlay(seat *Seat, play Play, rackBefore []Tile, prevTiles []*Tile) {
	r.emitPlayEvents(seat, play, rackBefore)

	var nextInfo *PlayerInfo
	if next, ok := r.game.ToPlay(); ok {
		info := r.seats[next].playerInfo()
		nextInfo = &info
	}

	r.broadcast(ServerMsg{Type: ServerPlay, Play: &PlayBroadcast{
		Player:       seat.playerInfo(),
		PrevTiles:    prevTiles,
		Play:         PlayToMsg(play),
		LetterBagLen: r.game.LetterBagLen(),
		Next:         nextInfo,
		Scores:       r.game.Scores(),
	}})

	if over := r.game.Over(); over != nil {
		reason := over.Reason()
		r.broadcast(ServerMsg{Type: ServerOver, Reason: &reason})
		r.emitGameRecord(true)
	}
}

// runAiTurns lets AI seats (and timed-out seats) play until the turn
// reaches a live human or the game ends, then arms the turn timer.
func (r *Room) runAiTurns(timer *time.Timer) {
	for {
		next, ok := r.game.ToPlay()
		if !ok {
			disarmTimer(timer)
			return
		}
		seat := r.seats[next]
		if !seat.IsAi && !seat.timedOut {
			armTimer(timer, r.turnTimeout)
			return
		}

		rackBefore := r.game.Player(next).Rack().Tiles()
		prevTiles := r.game.Board().Tiles()

		play := seat.robot.GeneratePlay(r.game.Board(), r.game.Player(next).Rack(), r.fsm)
		if err := r.game.MakePlay(play, r.fsm); err != nil {
			// The generator's plays always apply; a failure means the
			// strategy produced something the board rejected, so the
			// seat passes rather than wedging the room.
			r.log.Error().Err(err).Int("player", int(next)).Msg("ai play rejected")
			play = PassPlay{}
			if err := r.game.MakePlay(play, r.fsm); err != nil {
				r.log.Error().Err(err).Msg("ai pass rejected")
				disarmTimer(timer)
				return
			}
		}

		r.afterPlay(seat, play, rackBefore, prevTiles)
	}
}

func (r *Room) handleTimeout(timer *time.Timer) {
	next, ok := r.game.ToPlay()
	if !ok {
		return
	}
	seat := r.seats[next]
	if seat.IsAi || seat.timedOut {
		return
	}

	r.log.Info().Int("player", int(next)).Msg("turn timeout")
	r.broadcast(ServerMsg{Type: ServerTimeout, Player: ptrInfo(seat.playerInfo())})

	// The seat is downgraded to an easy AI for the rest of the game;
	// its human keeps receiving broadcasts and may still chat.
	seat.timedOut = true
	seat.robot = NewEasyRobot()

	r.runAiTurns(timer)
}

func (r *Room) handleDisconnect(idUser int32) {
	seat := r.seatByUser(idUser)
	if seat == nil || !seat.connected() {
		return
	}
	seat.outbound = nil
	r.log.Info().Int32("id_user", idUser).Msg("user disconnected")
	r.broadcast(ServerMsg{Type: ServerUserDisconnected, Player: ptrInfo(seat.playerInfo())})
}

// dropSeat disconnects a seat that sent a malformed frame.
func (r *Room) dropSeat(seat *Seat) {
	if seat.connected() {
		seat.outbound = nil
		r.broadcast(ServerMsg{Type: ServerUserDisconnected, Player: ptrInfo(seat.playerInfo())})
	}
}

// shouldClose is true when the game is over and no human remains
// connected.
func (r *Room) shouldClose() bool {
	if !r.started || !r.game.IsOver() {
		return false
	}
	for _, seat := range r.seats {
		if !seat.IsAi && seat.connected() {
			return false
		}
	}
	return true
}

func (r *Room) joinedMsg(seat *Seat) ServerMsg {
	players := make([]PlayerInfo, len(r.seats))
	for i, s := range r.seats {
		players[i] = s.playerInfo()
	}

	var next *int
	if n, ok := r.game.ToPlay(); ok && r.started {
		v := int(n)
		next = &v
	}

	return ServerMsg{Type: ServerJoined, Joined: &JoinedMsg{
		IdGame:   r.Id,
		IdPlayer: int32(seat.PlayerNum),
		Capacity: len(r.seats),
		Players:  players,
		Tiles:    r.game.Board().Tiles(),
		Rack:     r.game.Player(seat.PlayerNum).Rack().Tiles(),
		Scores:   r.game.Scores(),
		Next:     next,
	}}
}

// sendTo delivers a frame to one seat. A missing sink, or a sink
// that has fallen too far behind, drops the frame silently.
func (r *Room) sendTo(seat *Seat, msg ServerMsg) {
	if seat.outbound == nil {
		return
	}
	select {
	case seat.outbound <- msg:
	default:
		r.log.Error().Int("player", int(seat.PlayerNum)).Msg("outbound queue full, dropping frame")
	}
}

// broadcast delivers a frame to every seat.
func (r *Room) broadcast(msg ServerMsg) {
	for _, seat := range r.seats {
		r.sendTo(seat, msg)
	}
}

// broadcastExcept delivers a frame to every seat but one.
func (r *Room) broadcastExcept(except *Seat, msg ServerMsg) {
	for _, seat := range r.seats {
		if seat != except {
			r.sendTo(seat, msg)
		}
	}
}

// emitGameRecord persists the game metadata row, fire-and-log.
func (r *Room) emitGameRecord(over bool) {
	if r.events == nil {
		return
	}
	players := make([]string, len(r.seats))
	for i, seat := range r.seats {
		players[i] = seat.playerInfo().Username
	}
	record := &GameRecord{
		IdGame:    r.idGame,
		Players:   players,
		StartTime: r.startTime,
		IsOver:    over,
	}
	if over {
		record.EndTime = time.Now()
	}

	log := r.log
	events := r.events
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		if err := events.RecordGame(ctx, record); err != nil {
			log.Error().Err(err).Msg("recording game")
		}
	}()
}

// emitPlayEvents persists the play, tile and word rows, fire-and-log.
func (r *Room) emitPlayEvents(seat *Seat, play Play, rackBefore []Tile) {
	if r.events == nil {
		return
	}

	idPlay := uuid.NewString()
	record := &PlayRecord{
		IdPlay:   idPlay,
		IdGame:   r.idGame,
		IdPlayer: int32(seat.PlayerNum),
	}

	var tiles []TileRecord
	var words []WordRecord

	switch p := play.(type) {
	case PassPlay:
		record.Kind = "pass"
	case RedrawPlay:
		record.Kind = "redraw"
		record.Removed = tileStrings(p.Tiles)
		record.Added = rackGained(rackBefore, p.Tiles, r.game.Player(seat.PlayerNum).Rack().Tiles())
	case PlacePlay:
		record.Kind = "place"
		record.Removed = tileStrings(PlacedTiles(play))
		record.Added = rackGained(rackBefore, PlacedTiles(play), r.game.Player(seat.PlayerNum).Rack().Tiles())
		for _, tp := range p.Placements {
			letter := "?"
			if l, err := tp.Tile.Letter(); err == nil {
				letter = l.String()
			}
			tiles = append(tiles, TileRecord{
				IdPlay:  idPlay,
				Pos:     int(tp.Pos),
				Letter:  letter,
				IsBlank: tp.Tile.IsBlank(),
			})
		}
		for _, w := range r.game.LastWords() {
			words = append(words, WordRecord{IdPlay: idPlay, Word: w.Word, Score: w.Score})
		}
	}

	log := r.log
	events := r.events
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		if err := events.RecordPlay(ctx, record, tiles, words); err != nil {
			log.Error().Err(err).Msg("recording play")
		}
	}()
}

// rackGained computes the tiles drawn by a play: the rack after,
// minus what remained of the rack before once the played tiles left.
func rackGained(before, played, after []Tile) []string {
	remaining := NewTileCounts(before)
	for _, t := range played {
		if remaining.Any(t) {
			remaining.Remove(t)
		}
	}
	gained := NewTileCounts(after)
	for _, t := range remaining.Tiles() {
		gained.Remove(t)
	}
	return tileStrings(gained.Tiles())
}

func tileStrings(tiles []Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.String()
	}
	return out
}

func ptrInfo(info PlayerInfo) *PlayerInfo {
	return &info
}

// disarmTimer stops a timer and drains a pending fire.
func disarmTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

// armTimer restarts a timer from a known-disarmed or fired state.
func armTimer(t *time.Timer, d time.Duration) {
	disarmTimer(t)
	t.Reset(d)
}
