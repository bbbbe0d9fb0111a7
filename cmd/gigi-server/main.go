package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lorenzosim/gigibot/internal/logging"
	"github.com/lorenzosim/gigibot/internal/server"
	"github.com/lorenzosim/gigibot/internal/storage"
)

var (
	addr         = flag.String("addr", logging.Env("GIGI_ADDR", ":8080"), "listen address")
	dbDir        = flag.String("db", logging.Env("GIGI_DB", "default"), `archive directory ("default" for the per-user archive or $GIGIBOT_ARCHIVE, empty for in-memory)`)
	logLevel     = flag.String("log-level", logging.Env("GIGI_LOG_LEVEL", "info"), "log level")
	maxDepth     = flag.Int("max-depth", logging.EnvInt("GIGI_MAX_DEPTH", 0), "maximum search depth (0 = no limit)")
	allowOrigins = flag.String("cors", logging.Env("GIGI_CORS", "*"), "allowed CORS origins")
)

const shutdownTimeout = 10 * time.Second

func main() {
	flag.Parse()

	if err := logging.Setup(*logLevel, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	dir, err := storage.ResolveDir(*dbDir)
	if err != nil {
		log.Fatal().Err(err).Msg("could not locate archive directory")
	}
	archive, err := storage.Open(dir)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open archive")
	}
	defer archive.Close()

	srv := server.New(server.Config{
		MaxDepth:     *maxDepth,
		Archive:      archive,
		AllowOrigins: *allowOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Listen(*addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting-down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped")
	}
}
