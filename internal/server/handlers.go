package server

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lorenzosim/gigibot/internal/board"
	"github.com/lorenzosim/gigibot/internal/engine"
	"github.com/lorenzosim/gigibot/internal/storage"
)

// parseBody decodes an optional JSON body into v.
func parseBody(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) createGame(c *fiber.Ctx) error {
	var req struct {
		FEN string `json:"fen"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	b := board.NewBoard()
	if req.FEN != "" {
		var err error
		if b, err = board.ParseFEN(req.FEN); err != nil {
			return err
		}
	}

	g := s.games.Create(b)
	return c.Status(fiber.StatusCreated).JSON(newGameState(g, b))
}

func (s *Server) getGame(c *fiber.Ctx) error {
	sess, err := s.games.session(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(newGameState(sess.game, sess.start))
}

func (s *Server) deleteGame(c *fiber.Ctx) error {
	if err := s.games.Delete(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listMoves lists the moves of the current position. Query parameters:
// square restricts to the piece on it, captures=1 to captures only and
// pseudo=1 skips the self-check filter.
func (s *Server) listMoves(c *fiber.Ctx) error {
	g, err := s.games.Get(c.Params("id"))
	if err != nil {
		return err
	}
	b := g.Board()
	captures := c.QueryBool("captures")

	var moves []board.Move
	if sq := c.Query("square"); sq != "" {
		from, err := board.ParseSquare(sq)
		if err != nil {
			return err
		}
		moves = board.GenerateSquareMoves(b, from, captures)
	} else {
		moves = board.GenerateMoves(b, captures)
	}

	if !c.QueryBool("pseudo") {
		legal := moves[:0]
		for _, m := range moves {
			if board.IsLegal(b, m) {
				legal = append(legal, m)
			}
		}
		moves = legal
	}

	return c.JSON(fiber.Map{
		"fen":   b.FEN(),
		"moves": moveStrings(moves),
	})
}

// playMove plays a move given in long algebraic ("move") or SAN ("san").
func (s *Server) playMove(c *fiber.Ctx) error {
	sess, err := s.games.session(c.Params("id"))
	if err != nil {
		return err
	}
	var req struct {
		Move string `json:"move"`
		SAN  string `json:"san"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}

	var m board.Move
	switch {
	case req.Move != "":
		if m, err = board.ParseMove(req.Move); err != nil {
			return err
		}
	case req.SAN != "":
		if m, err = board.ParseSAN(sess.game.Board(), req.SAN); err != nil {
			return fmt.Errorf("%w: %w", engine.ErrIllegalMove, err)
		}
	default:
		return fmt.Errorf("%w: move or san required", errBadRequest)
	}

	if err := sess.game.Move(m); err != nil {
		return err
	}
	return c.JSON(newGameState(sess.game, sess.start))
}

func (s *Server) startSearch(c *fiber.Ctx) error {
	g, err := s.games.Get(c.Params("id"))
	if err != nil {
		return err
	}
	var req SearchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := s.games.StartSearch(c.Params("id"), req.Limits(g.Board().SideToMove())); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"id":        g.ID().String(),
		"searching": true,
	})
}

// getSearch returns the result of the last completed search.
func (s *Server) getSearch(c *fiber.Ctx) error {
	sess, err := s.games.session(c.Params("id"))
	if err != nil {
		return err
	}
	r := sess.lastResult()
	if r == nil {
		return fiber.NewError(fiber.StatusNotFound, "no search completed")
	}
	return c.JSON(fiber.Map{
		"searching": sess.game.Searching(),
		"result":    r,
	})
}

// stopSearch stops the running search and returns its result.
func (s *Server) stopSearch(c *fiber.Ctx) error {
	sess, err := s.games.session(c.Params("id"))
	if err != nil {
		return err
	}
	sess.game.StopSearch()
	sess.game.Wait()

	r := sess.lastResult()
	if r == nil {
		return fiber.NewError(fiber.StatusNotFound, "no search completed")
	}
	return c.JSON(r)
}

func (s *Server) evaluate(c *fiber.Ctx) error {
	g, err := s.games.Get(c.Params("id"))
	if err != nil {
		return err
	}
	b := g.Board()
	return c.JSON(fiber.Map{
		"fen":           b.FEN(),
		"score":         engine.Evaluate(b),
		"material":      engine.EvaluateMaterial(b),
		"endgame_white": engine.IsEndgame(b, board.White),
		"endgame_black": engine.IsEndgame(b, board.Black),
	})
}

// perft counts leaf nodes below each move of the current position.
func (s *Server) perft(c *fiber.Ctx) error {
	g, err := s.games.Get(c.Params("id"))
	if err != nil {
		return err
	}
	depth, err := strconv.Atoi(c.Query("depth", "1"))
	if err != nil || depth < 1 || depth > s.cfg.MaxPerftDepth {
		return fmt.Errorf("%w: depth must be between 1 and %d", errBadRequest, s.cfg.MaxPerftDepth)
	}

	entries, err := board.Divide(c.UserContext(), g.Board(), depth)
	if err != nil {
		return err
	}
	moves := make(map[string]uint64, len(entries))
	for _, e := range entries {
		moves[e.Move.String()] = e.Nodes
	}
	return c.JSON(fiber.Map{
		"depth": depth,
		"nodes": board.DivideTotal(entries),
		"moves": moves,
	})
}

// lookupAnalysis returns the archived analysis of ?fen=, with its whole
// history when history=1.
func (s *Server) lookupAnalysis(c *fiber.Ctx) error {
	if s.archive == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "archive disabled")
	}
	b, err := board.ParseFEN(c.Query("fen"))
	if err != nil {
		return err
	}

	if c.QueryBool("history") {
		records, err := s.archive.History(b.FEN())
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return storage.ErrNotFound
		}
		return c.JSON(records)
	}

	r, err := s.archive.Lookup(b.FEN())
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (s *Server) recentAnalysis(c *fiber.Ctx) error {
	if s.archive == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "archive disabled")
	}
	records, err := s.archive.Recent(c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	if records == nil {
		records = []storage.Record{}
	}
	return c.JSON(records)
}
