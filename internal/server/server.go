// Package server exposes the engine over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"

	"github.com/lorenzosim/gigibot/internal/board"
	"github.com/lorenzosim/gigibot/internal/engine"
	"github.com/lorenzosim/gigibot/internal/storage"
)

// errBadRequest marks malformed request input.
var errBadRequest = errors.New("bad request")

// Config configures a Server.
type Config struct {
	// MaxDepth caps every search (0 = no cap).
	MaxDepth int

	// Archive, if set, stores completed searches and serves /api/analysis.
	Archive *storage.Archive

	// AllowOrigins is the CORS origin list; empty allows all.
	AllowOrigins string

	// MaxPerftDepth bounds /perft requests (default 6).
	MaxPerftDepth int
}

// Server is the HTTP front-end.
type Server struct {
	app     *fiber.App
	games   *GameManager
	archive *storage.Archive
	cfg     Config
}

// New creates a server with all routes registered.
func New(cfg Config) *Server {
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	if cfg.MaxPerftDepth <= 0 {
		cfg.MaxPerftDepth = 6
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "gigibot",
			ErrorHandler:          errorHandler,
			DisableStartupMessage: true,
		}),
		games:   NewGameManager(cfg.MaxDepth, cfg.Archive),
		archive: cfg.Archive,
		cfg:     cfg,
	}

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	s.app.Use(requestLogger)

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	games := api.Group("/games")
	games.Post("/", s.createGame)
	games.Get("/:id", s.getGame)
	games.Delete("/:id", s.deleteGame)
	games.Get("/:id/moves", s.listMoves)
	games.Post("/:id/moves", s.playMove)
	games.Post("/:id/search", s.startSearch)
	games.Get("/:id/search", s.getSearch)
	games.Post("/:id/stop", s.stopSearch)
	games.Get("/:id/eval", s.evaluate)
	games.Get("/:id/perft", s.perft)

	analysis := api.Group("/analysis")
	analysis.Get("/", s.lookupAnalysis)
	analysis.Get("/recent", s.recentAnalysis)

	s.app.Get("/ws/games/:id", s.upgradeWebSocket, websocket.New(s.streamGame))
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Games returns the game manager.
func (s *Server) Games() *GameManager {
	return s.games
}

// Listen serves HTTP on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	log.Info().Str("addr", addr).Msg("server-listening")
	return s.app.Listen(addr)
}

// Shutdown stops every search and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.games.Close()
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler maps errors onto HTTP status codes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error

	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, ErrGameNotFound), errors.Is(err, storage.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, engine.ErrSearchInProgress):
		code = fiber.StatusConflict
	case errors.Is(err, engine.ErrIllegalMove):
		code = fiber.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest),
		errors.Is(err, board.ErrInvalidFEN),
		errors.Is(err, board.ErrInvalidMove),
		errors.Is(err, board.ErrInvalidSquare):
		code = fiber.StatusBadRequest
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request-failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// requestLogger logs every request once it is served.
func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	log.Debug().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("request")
	return err
}
