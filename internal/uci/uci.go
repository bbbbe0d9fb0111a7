// Package uci implements the Universal Chess Interface protocol on top of
// the engine.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lorenzosim/gigibot/internal/board"
	"github.com/lorenzosim/gigibot/internal/engine"
	"github.com/lorenzosim/gigibot/internal/storage"
)

// Version is reported in the "uci" response.
const Version = "1.0"

// Options configures a UCI handler.
type Options struct {
	// MaxDepth caps every search (0 = no cap).
	MaxDepth int

	// Archive, if set, receives every completed search.
	Archive *storage.Archive

	// Transcript, if set, receives a copy of every line read and written.
	Transcript io.Writer
}

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	in   io.Reader
	out  io.Writer
	opts Options

	outMu sync.Mutex

	// game is replaced by every position and ucinewgame command. Results of
	// searches started on an older game are dropped.
	mu   sync.Mutex
	game *engine.Game
}

// New creates a new UCI protocol handler reading commands from in and
// writing responses to out.
func New(in io.Reader, out io.Writer, opts Options) *UCI {
	return &UCI{
		in:   in,
		out:  out,
		opts: opts,
		game: engine.NewGame(board.NewBoard(), opts.MaxDepth),
	}
}

// Run runs the UCI main loop until "quit" or the end of input. Any running
// search is stopped, and its result written, before Run returns.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)
	defer u.handleStop()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		u.transcribe(">", line)

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.send("readyok")
		case "ucinewgame":
			u.setGame(engine.NewGame(board.NewBoard(), u.opts.MaxDepth))
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.send("%s", strings.TrimRight(u.current().Board().String(), "\n"))
		case "eval":
			u.handleEval()
		case "perft":
			u.handlePerft(args)
		default:
			u.send("info string Unknown command: %s", cmd)
		}
	}

	return scanner.Err()
}

// send writes one response line.
func (u *UCI) send(format string, args ...any) {
	line := fmt.Sprintf(format, args...)

	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintln(u.out, line)
	u.transcribeLocked("<", line)
}

func (u *UCI) transcribe(dir, line string) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	u.transcribeLocked(dir, line)
}

func (u *UCI) transcribeLocked(dir, line string) {
	if u.opts.Transcript != nil {
		fmt.Fprintf(u.opts.Transcript, "%s %s %s\n", time.Now().Format(time.TimeOnly), dir, line)
	}
}

func (u *UCI) current() *engine.Game {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.game
}

// setGame makes g the current game. A search still running on the previous
// game is stopped and its result dropped.
func (u *UCI) setGame(g *engine.Game) {
	u.mu.Lock()
	old := u.game
	u.game = g
	u.mu.Unlock()

	old.StopSearch()
}

func (u *UCI) isCurrent(g *engine.Game) bool {
	return u.current().ID() == g.ID()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.send("id name Gigi %s", Version)
	u.send("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// The position is left unchanged if the FEN or any move is invalid.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		u.send("info string Missing position")
		return
	}

	// Find "moves" keyword
	moveStart := len(args)
	for i, arg := range args {
		if arg == "moves" {
			moveStart = i + 1
			break
		}
	}
	setupEnd := min(moveStart, len(args))
	if setupEnd > 0 && args[setupEnd-1] == "moves" {
		setupEnd--
	}

	var b board.Board
	switch args[0] {
	case "startpos":
		b = board.NewBoard()
	case "fen":
		fenStr := strings.Join(args[1:setupEnd], " ")
		var err error
		b, err = board.ParseFEN(fenStr)
		if err != nil {
			u.send("info string Invalid FEN: %v", err)
			return
		}
	default:
		u.send("info string Invalid position: %s", args[0])
		return
	}

	g := engine.NewGame(b, u.opts.MaxDepth)
	for _, moveStr := range args[moveStart:] {
		m, err := board.ParseMove(moveStr)
		if err == nil {
			err = g.Move(m)
		}
		if err != nil {
			u.send("info string Invalid move: %s", moveStr)
			return
		}
	}

	u.setGame(g)
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	HasWTime  bool // wtime was given, possibly as zero or negative
	HasBTime  bool
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	Perft     int
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	opts, err := parseGoOptions(args)
	if err != nil {
		u.send("info string %v", err)
		return
	}

	g := u.current()
	if opts.Perft > 0 {
		start := time.Now()
		nodes := board.Perft(g.Board(), opts.Perft)
		u.sendPerft(nodes, time.Since(start))
		return
	}

	limits := calculateLimits(opts, g.Board().SideToMove())
	fen := g.Board().FEN()

	// Progress and result callbacks run on the search goroutine, in order.
	var last engine.SearchInfo
	progress := func(info engine.SearchInfo) {
		last = info
		if u.isCurrent(g) {
			u.sendInfo(info)
		}
	}

	err = g.FindBestMove(limits, progress, func(pv engine.PrincipalVariation) {
		if !u.isCurrent(g) {
			log.Debug().Str("game", g.ID().String()).Msg("dropping-stale-result")
			return
		}
		u.archive(fen, last)
		u.send("bestmove %s", pv.FirstMove())
	})
	if errors.Is(err, engine.ErrSearchInProgress) {
		u.send("info string Search already in progress")
	}
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) (GoOptions, error) {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		key := args[i]
		if key == "infinite" {
			opts.Infinite = true
			continue
		}

		var target *time.Duration
		var count *int
		// A clock may run below zero when the GUI charges lag to the engine.
		signed := false
		switch key {
		case "depth":
			count = &opts.Depth
		case "movestogo":
			count = &opts.MovesToGo
		case "perft":
			count = &opts.Perft
		case "movetime":
			target = &opts.MoveTime
		case "wtime":
			target, signed = &opts.WTime, true
			opts.HasWTime = true
		case "btime":
			target, signed = &opts.BTime, true
			opts.HasBTime = true
		case "winc":
			target = &opts.WInc
		case "binc":
			target = &opts.BInc
		default:
			// Ignore
			continue
		}

		if i+1 >= len(args) {
			return opts, fmt.Errorf("missing value for %s", key)
		}
		i++
		n, err := strconv.Atoi(args[i])
		if err != nil || (n < 0 && !signed) {
			return opts, fmt.Errorf("invalid value for %s: %s", key, args[i])
		}
		if count != nil {
			*count = n
		} else {
			*target = time.Duration(n) * time.Millisecond
		}
	}

	return opts, nil
}

// calculateLimits converts GoOptions to engine.SearchLimits for the side to move.
func calculateLimits(opts GoOptions, us board.Color) engine.SearchLimits {
	limits := engine.SearchLimits{
		Depth:     opts.Depth,
		MoveTime:  opts.MoveTime,
		MovesToGo: opts.MovesToGo,
		Infinite:  opts.Infinite,
	}
	if us == board.White {
		limits.Clock, limits.TimeLeft, limits.Increment = opts.HasWTime, opts.WTime, opts.WInc
	} else {
		limits.Clock, limits.TimeLeft, limits.Increment = opts.HasBTime, opts.BTime, opts.BInc
	}
	return limits
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{fmt.Sprintf("depth %d", info.Depth)}

	// Score
	if info.PV.IsMate() {
		mateIn := info.PV.MovesToMate()
		if info.Score < 0 {
			mateIn = -mateIn
		}
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if len(info.PV.Moves) > 0 {
		parts = append(parts, "pv "+info.PV.String())
	}

	u.send("info %s", strings.Join(parts, " "))
}

// archive stores the last completed depth of a search, if an archive is set.
func (u *UCI) archive(fen string, info engine.SearchInfo) {
	if u.opts.Archive == nil || info.Depth == 0 {
		return
	}

	pv := make([]string, len(info.PV.Moves))
	for i, m := range info.PV.Moves {
		pv[i] = m.String()
	}
	err := u.opts.Archive.Save(storage.Record{
		FEN:      fen,
		Depth:    info.Depth,
		Score:    info.Score,
		Mate:     info.PV.IsMate(),
		BestMove: info.PV.FirstMove().String(),
		PV:       pv,
		Nodes:    info.Nodes,
		Elapsed:  info.Time,
	})
	if err != nil {
		log.Error().Err(err).Str("fen", fen).Msg("archive-save-failed")
	}
}

// handleStop stops the current search and waits for its result.
func (u *UCI) handleStop() {
	g := u.current()
	g.StopSearch()
	g.Wait()
}

// handleSetOption processes "setoption" commands. The engine has no options.
func (u *UCI) handleSetOption(args []string) {
	log.Debug().Strs("args", args).Msg("setoption-ignored")
	u.send("No such option")
}

// handleEval prints the static evaluation of the current position.
func (u *UCI) handleEval() {
	b := u.current().Board()
	u.send("info string Evaluation: %d (%s to move)", engine.Evaluate(b), b.SideToMove())
	u.send("info string Material: %d", engine.EvaluateMaterial(b))
	u.send("info string Status: %s", board.Status(b))
}

// handlePerft runs a perft test, listing the node count below each move.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		var err error
		depth, err = strconv.Atoi(args[0])
		if err != nil || depth < 1 {
			u.send("info string Invalid perft depth: %s", args[0])
			return
		}
	}

	start := time.Now()
	entries, err := board.Divide(context.Background(), u.current().Board(), depth)
	if err != nil {
		u.send("info string Perft failed: %v", err)
		return
	}
	for _, e := range entries {
		u.send("%s: %d", e.Move, e.Nodes)
	}
	u.send("")
	u.sendPerft(board.DivideTotal(entries), time.Since(start))
}

func (u *UCI) sendPerft(nodes uint64, elapsed time.Duration) {
	u.send("Nodes: %d", nodes)
	u.send("Time: %v", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		u.send("NPS: %.0f", float64(nodes)/elapsed.Seconds())
	}
}
