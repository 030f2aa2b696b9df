// Package perft counts the leaf nodes of the legal move tree. The counts are the
// standard check of a move generator against published values.
package perft

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// Perft returns the number of leaf nodes at depth plies below pos. The position is
// restored before returning.
func Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	ml := pos.GenerateMoves(false)
	var nodes uint64
	for _, m := range ml.Slice() {
		snap := pos.Snapshot()
		if !pos.MakeMove(m, board.AllMoves) {
			continue
		}
		if depth == 1 {
			nodes++
		} else {
			nodes += Perft(pos, depth-1)
		}
		pos.Restore(snap)
	}
	return nodes
}

// hashedPerft is Perft with subtree counts shared through t. hash is the Zobrist
// key of pos and is carried down with board.HashDelta.
func hashedPerft(pos *board.Position, hash uint64, depth int, t *Table) uint64 {
	if depth <= 1 {
		return Perft(pos, depth)
	}
	if n, ok := t.Probe(hash, depth); ok {
		return n
	}

	ml := pos.GenerateMoves(false)
	var nodes uint64
	for _, m := range ml.Slice() {
		before := pos.Snapshot()
		if !pos.MakeMove(m, board.AllMoves) {
			continue
		}
		after := pos.Snapshot()
		nodes += hashedPerft(pos, hash^board.HashDelta(&before, &after), depth-1, t)
		pos.Restore(before)
	}

	t.Store(hash, depth, nodes)
	return nodes
}

// RootCount is the subtree size below one root move.
type RootCount struct {
	Move  board.Move
	Nodes uint64
}

// Result is the outcome of a perft run.
type Result struct {
	FEN   string
	Depth int
	Nodes uint64
	// Divide lists the root moves in coordinate notation order.
	Divide []RootCount
}

// Divide returns the subtree size for every legal root move, sorted by move text.
func Divide(pos *board.Position, depth int) []RootCount {
	if depth < 1 {
		return nil
	}

	var out []RootCount
	for _, m := range pos.LegalMoves() {
		snap := pos.Snapshot()
		pos.MakeMove(m, board.AllMoves)
		out = append(out, RootCount{Move: m, Nodes: Perft(pos, depth-1)})
		pos.Restore(snap)
	}
	sortDivide(out)
	return out
}

func sortDivide(d []RootCount) {
	sort.Slice(d, func(i, j int) bool { return d[i].Move.String() < d[j].Move.String() })
}

// Run counts the tree below pos with the root moves split across workers. Every
// worker walks its own copy of the position. workers <= 0 uses GOMAXPROCS. When t
// is not nil the workers share subtree counts through it.
func Run(ctx context.Context, pos *board.Position, depth, workers int, t *Table) (*Result, error) {
	if depth < 0 {
		return nil, fmt.Errorf("perft: negative depth %d", depth)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := &Result{FEN: pos.ToFEN(), Depth: depth}
	if depth == 0 {
		res.Nodes = 1
		return res, nil
	}

	roots := pos.LegalMoves()
	rootHash := pos.ComputeHash()
	res.Divide = make([]RootCount, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var total atomic.Uint64
	for i, m := range roots {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			local := pos.Copy()
			before := local.Snapshot()
			local.MakeMove(m, board.AllMoves)

			var n uint64
			if t != nil {
				after := local.Snapshot()
				n = hashedPerft(local, rootHash^board.HashDelta(&before, &after), depth-1, t)
			} else {
				n = Perft(local, depth-1)
			}
			res.Divide[i] = RootCount{Move: m, Nodes: n}
			total.Add(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("perft: %w", err)
	}

	res.Nodes = total.Load()
	sortDivide(res.Divide)
	return res, nil
}
