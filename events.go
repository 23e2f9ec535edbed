// events.go
//
// Copyright (C) 2024 The scrabble authors

// This file defines the append-only event records that live games
// emit, and the sinks that persist them. Persistence never blocks
// the room loop: records are written fire-and-log.

package scrabble

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/rs/zerolog"
)

// GameRecord is the per-game metadata row.
type GameRecord struct {
	IdGame    string    `json:"id_game"`
	Players   []string  `json:"players"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsOver    bool      `json:"is_over"`
}

// PlayRecord is the per-play row.
type PlayRecord struct {
	IdPlay   string   `json:"id_play"`
	IdGame   string   `json:"id_game"`
	IdPlayer int32    `json:"id_player"`
	Kind     string   `json:"kind"`
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
}

// TileRecord is the row for one placed tile of a play.
type TileRecord struct {
	IdPlay  string `json:"id_play"`
	Pos     int    `json:"pos"`
	Letter  string `json:"letter"`
	IsBlank bool   `json:"is_blank"`
}

// WordRecord is the row for one word formed by a play.
type WordRecord struct {
	IdPlay string `json:"id_play"`
	Word   string `json:"word"`
	Score  int    `json:"score"`
}

// EventSink receives append-only game event records. The core treats
// the records as opaque; the persistence collaborator decides the
// schema. Sinks must be safe for concurrent use.
type EventSink interface {
	RecordGame(ctx context.Context, game *GameRecord) error
	RecordPlay(ctx context.Context, play *PlayRecord, tiles []TileRecord, words []WordRecord) error
}

// LogSink is an EventSink that just logs the records. It is the
// default sink when no persistence backend is configured.
type LogSink struct {
	Log zerolog.Logger
}

// RecordGame logs a game record.
func (s LogSink) RecordGame(_ context.Context, game *GameRecord) error {
	s.Log.Debug().
		Str("id_game", game.IdGame).
		Bool("is_over", game.IsOver).
		Msg("game record")
	return nil
}

// RecordPlay logs a play record.
func (s LogSink) RecordPlay(_ context.Context, play *PlayRecord, tiles []TileRecord, words []WordRecord) error {
	s.Log.Debug().
		Str("id_play", play.IdPlay).
		Str("kind", play.Kind).
		Int("tiles", len(tiles)).
		Int("words", len(words)).
		Msg("play record")
	return nil
}

// DatastoreSink persists event records to Google Cloud Datastore.
// Games and plays are keyed by their ids; tile and word rows hang off
// their play.
type DatastoreSink struct {
	client *datastore.Client
}

// NewDatastoreSink connects a sink to the given project.
func NewDatastoreSink(ctx context.Context, projectID string) (*DatastoreSink, error) {
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("connecting datastore: %w", err)
	}
	return &DatastoreSink{client: client}, nil
}

// Close releases the underlying client.
func (s *DatastoreSink) Close() error {
	return s.client.Close()
}

// RecordGame upserts the game metadata row.
func (s *DatastoreSink) RecordGame(ctx context.Context, game *GameRecord) error {
	key := datastore.NameKey("Game", game.IdGame, nil)
	if _, err := s.client.Put(ctx, key, game); err != nil {
		return fmt.Errorf("putting game record: %w", err)
	}
	return nil
}

// RecordPlay writes the play row and its tile and word rows.
func (s *DatastoreSink) RecordPlay(ctx context.Context, play *PlayRecord, tiles []TileRecord, words []WordRecord) error {
	playKey := datastore.NameKey("Play", play.IdPlay, nil)
	if _, err := s.client.Put(ctx, playKey, play); err != nil {
		return fmt.Errorf("putting play record: %w", err)
	}

	keys := make([]*datastore.Key, 0, len(tiles)+len(words))
	rows := make([]interface{}, 0, len(tiles)+len(words))
	for i := range tiles {
		keys = append(keys, datastore.IncompleteKey("PlayTile", playKey))
		rows = append(rows, &tiles[i])
	}
	for i := range words {
		keys = append(keys, datastore.IncompleteKey("PlayWord", playKey))
		rows = append(rows, &words[i])
	}
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.client.PutMulti(ctx, keys, rows); err != nil {
		return fmt.Errorf("putting play rows: %w", err)
	}
	return nil
}
