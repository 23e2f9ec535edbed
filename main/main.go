// main.go
//
// Copyright (C) 2024 The scrabble authors

// Server executable: loads the dictionary, wires the live game
// endpoint and listens for connections.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	scrabble "github.com/upsidedown8/scrabble"
)

// devAuthenticator accepts tokens of the form "user:<id>". The real
// deployment sits behind the auth collaborator, which issues JWTs
// and verifies them before handing over the user id.
type devAuthenticator struct{}

func (devAuthenticator) Authenticate(token string) (int32, error) {
	var id int32
	if _, err := fmt.Sscanf(token, "user:%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid token")
	}
	return id, nil
}

func main() {
	// .env is optional; the environment always wins.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	dictPath := os.Getenv("DICT_PATH")
	if dictPath == "" {
		log.Fatal().Msg("DICT_PATH is required")
	}
	f, err := os.Open(dictPath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening dictionary")
	}
	fsm, err := scrabble.LoadDictionary(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("loading dictionary")
	}
	log.Info().
		Int("states", fsm.StateCount()).
		Int("transitions", fsm.TransitionCount()).
		Msg("dictionary loaded")

	turnTimeout := time.Duration(0)
	if v := os.Getenv("TURN_TIMEOUT"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal().Str("TURN_TIMEOUT", v).Msg("invalid turn timeout")
		}
		turnTimeout = time.Duration(seconds) * time.Second
	}

	var events scrabble.EventSink = scrabble.LogSink{Log: log}
	if project := os.Getenv("DATASTORE_PROJECT"); project != "" {
		sink, err := scrabble.NewDatastoreSink(context.Background(), project)
		if err != nil {
			log.Fatal().Err(err).Msg("connecting datastore")
		}
		defer sink.Close()
		events = sink
		log.Info().Str("project", project).Msg("datastore sink enabled")
	}

	rooms := scrabble.NewRooms()
	server := scrabble.NewLiveServer(
		fsm,
		rooms,
		devAuthenticator{},
		events,
		nil, // friends-only rooms are open until the friends collaborator is wired
		turnTimeout,
		log,
	)

	http.HandleFunc("/api/live", server.HandleLive)
	http.HandleFunc("/api/wordcheck", server.HandleWordCheck)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("listening")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
