package board

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
// This is the standard way to verify move generation correctness.
func Perft(b Board, depth int) uint64 {
	n, _ := perft(context.Background(), b, depth)
	return n
}

func perft(ctx context.Context, b Board, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	if depth > 2 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}

	us := b.sideToMove
	var nodes uint64
	for _, m := range GenerateMoves(b, false) {
		next := Apply(b, m)
		if IsInCheck(next, us) {
			continue
		}
		if depth == 1 {
			nodes++
			continue
		}
		n, err := perft(ctx, next, depth-1)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// DivideEntry is the subtree count under one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs perft below each legal root move concurrently and returns the
// per-move counts sorted by move string. The sum of Nodes equals Perft(b, depth).
func Divide(ctx context.Context, b Board, depth int) ([]DivideEntry, error) {
	if depth < 1 {
		return nil, nil
	}

	moves := LegalMoves(b)
	entries := make([]DivideEntry, len(moves))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range moves {
		g.Go(func() error {
			n, err := perft(ctx, Apply(b, m), depth-1)
			if err != nil {
				return err
			}
			entries[i] = DivideEntry{Move: m, Nodes: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries, nil
}

// DivideTotal sums the node counts of a divide.
func DivideTotal(entries []DivideEntry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	return total
}
