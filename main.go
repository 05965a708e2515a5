package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/schmordle/go-server/internal/dictionary"
	"github.com/schmordle/go-server/internal/httpserver"
	"github.com/schmordle/go-server/internal/hub"
	"github.com/schmordle/go-server/internal/rooms"
	"github.com/schmordle/go-server/internal/store"
	"github.com/schmordle/go-server/internal/words"

	dailypkg "github.com/schmordle/go-server/internal/daily"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load rhyme sets")
	}

	db, err := openDB(getEnv("DB_PATH", "./data/schmordle.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}

	roomStore, err := rooms.NewSQLiteStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("init room store")
	}
	dailyStore, err := dailypkg.NewStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("init daily store")
	}

	lifecycle := rooms.NewLifecycle(roomStore, nil)
	oracle := dictionary.New(os.Getenv("DICTIONARY_URL"), words.IsDictionaryWord)

	srv := httpserver.New(httpserver.Deps{
		DB:        db,
		Sessions:  store.NewMemoryStore(),
		RoomStore: roomStore,
		Rooms:     lifecycle,
		Hub:       hub.New(),
		Daily:     dailyStore,
		Oracle:    oracle.IsWord,
	})

	// Background sweep: flip expired rounds to completed and prune old rooms.
	sweepEvery := 30 * time.Second
	if v := os.Getenv("ROOM_SWEEP_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sweepEvery = time.Duration(n) * time.Second
		}
	}
	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for range ticker.C {
			completed, deleted := lifecycle.Sweep(context.Background())
			if completed > 0 || deleted > 0 {
				log.Info().Int("completed", completed).Int("deleted", deleted).Msg("room sweep")
			}
		}
	}()

	port := getEnv("PORT", "3001")
	log.Info().Str("port", port).Msg("starting schmordle server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
