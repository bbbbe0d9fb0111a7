package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog/log"

	"github.com/lorenzosim/gigibot/internal/logging"
	"github.com/lorenzosim/gigibot/internal/storage"
	"github.com/lorenzosim/gigibot/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", logging.Env("CPUPROFILE", ""), "write cpu profile to file")
	logFile    = flag.String("log", logging.Env("GIGI_LOG", ""), "append every protocol line received and sent to file")
	logLevel   = flag.String("log-level", logging.Env("GIGI_LOG_LEVEL", "warn"), "log level written to stderr")
	dbDir      = flag.String("db", logging.Env("GIGI_DB", ""), `archive directory for completed searches ("default" for the per-user archive or $GIGIBOT_ARCHIVE, empty to disable)`)
	maxDepth   = flag.Int("max-depth", logging.EnvInt("GIGI_MAX_DEPTH", 0), "maximum search depth (0 = no limit)")
)

func main() {
	flag.Parse()

	if err := logging.Setup(*logLevel, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", *cpuprofile).Msg("cpu-profiling-enabled")
	}

	opts := uci.Options{MaxDepth: *maxDepth}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open protocol log")
		}
		defer f.Close()
		opts.Transcript = f
	}

	if *dbDir != "" {
		dir, err := storage.ResolveDir(*dbDir)
		if err != nil {
			log.Fatal().Err(err).Msg("could not locate archive directory")
		}
		archive, err := storage.Open(dir)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open archive")
		}
		defer archive.Close()
		opts.Archive = archive
	}

	protocol := uci.New(os.Stdin, os.Stdout, opts)
	if err := protocol.Run(); err != nil {
		log.Error().Err(err).Msg("reading commands")
	}
}
