// Package uci implements a small text protocol front end in the style of the
// Universal Chess Interface, limited to position setup, perft and diagnostics.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
)

// UCI reads commands and writes responses.
type UCI struct {
	game    *game.Game
	out     io.Writer
	cache   *storage.Store
	table   *perft.Table
	workers int
}

// DefaultHashMB is the initial perft table size.
const DefaultHashMB = 16

// New creates a protocol handler writing to out. cache may be nil.
func New(out io.Writer, cache *storage.Store, workers int) *UCI {
	return &UCI{
		game:    game.New(),
		out:     out,
		cache:   cache,
		table:   perft.NewTable(DefaultHashMB),
		workers: workers,
	}
}

// Game returns the game being driven.
func (u *UCI) Game() *game.Game {
	return u.game
}

// Run processes commands from in until quit or end of input.
func (u *UCI) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Fprintln(u.out, "readyok")
		case "ucinewgame":
			u.game.Reset(board.NewPosition())
		case "position":
			if board.DebugMoveValidation {
				log.Printf("position %s", strings.Join(args, " "))
			}
			if err := u.game.SetPosition(args); err != nil {
				fmt.Fprintf(u.out, "info string %v\n", err)
			}
		case "go":
			u.handleGo(ctx, args)
		case "perft":
			u.handlePerft(ctx, args)
		case "setoption":
			u.handleSetOption(args)
		case "d":
			u.handleDisplay(args)
		case "quit":
			return nil
		default:
			fmt.Fprintf(u.out, "info string unknown command %s\n", cmd)
		}
	}

	return scanner.Err()
}

func (u *UCI) handleUCI() {
	fmt.Fprintln(u.out, "id name chesscore")
	fmt.Fprintln(u.out, "id author chesscore authors")
	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "option name Hash type spin default %d min 0 max 4096\n", DefaultHashMB)
	fmt.Fprintln(u.out, "option name Debug type check default false")
	fmt.Fprintln(u.out, "option name Threads type spin default 0 min 0 max 256")
	fmt.Fprintln(u.out, "uciok")
}

// handleGo supports "go perft <depth>".
func (u *UCI) handleGo(ctx context.Context, args []string) {
	if len(args) >= 1 && args[0] == "perft" {
		u.handlePerft(ctx, args[1:])
		return
	}
	fmt.Fprintln(u.out, "info string only go perft <depth> is supported")
}

// handlePerft prints the divide and the total for the current position.
func (u *UCI) handlePerft(ctx context.Context, args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			fmt.Fprintf(u.out, "info string bad perft depth %q\n", args[0])
			return
		}
		depth = d
	}

	res, elapsed, cached, err := Perft(ctx, u.cache, u.table, u.game.Pos, depth, u.workers)
	if err != nil {
		fmt.Fprintf(u.out, "info string perft: %v\n", err)
		return
	}

	for _, rc := range res.Divide {
		fmt.Fprintf(u.out, "%s: %d\n", rc.Move, rc.Nodes)
	}
	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "Nodes searched: %d\n", res.Nodes)
	if cached {
		fmt.Fprintln(u.out, "info string result from cache")
		return
	}
	if u.table != nil {
		fmt.Fprintf(u.out, "info string hash hits %.1f%%\n", 100*u.table.HitRate())
	}
	fmt.Fprintf(u.out, "info string time %v nodes %s\n", elapsed.Round(time.Millisecond), humanize.Comma(int64(res.Nodes)))
	if elapsed > 0 {
		nps := float64(res.Nodes) / elapsed.Seconds()
		fmt.Fprintf(u.out, "info string nps %s\n", humanize.SIWithDigits(nps, 2, "nps"))
	}
}

// Perft runs a perft through the result cache when one is given. table may be nil.
func Perft(ctx context.Context, cache *storage.Store, table *perft.Table, pos *board.Position, depth, workers int) (*perft.Result, time.Duration, bool, error) {
	fen := pos.ToFEN()
	if cache != nil {
		e, ok, err := cache.Get(fen, depth)
		if err != nil {
			log.Printf("perft cache: %v", err)
		}
		if ok {
			return resultFromEntry(pos, e), e.Elapsed, true, nil
		}
	}

	start := time.Now()
	res, err := perft.Run(ctx, pos, depth, workers, table)
	if err != nil {
		return nil, 0, false, err
	}
	elapsed := time.Since(start)

	if cache != nil {
		if err := cache.Put(entryFromResult(res, elapsed)); err != nil {
			log.Printf("perft cache: %v", err)
		}
	}
	return res, elapsed, false, nil
}

func entryFromResult(res *perft.Result, elapsed time.Duration) *storage.Entry {
	e := &storage.Entry{
		FEN:     res.FEN,
		Depth:   res.Depth,
		Nodes:   res.Nodes,
		Elapsed: elapsed,
	}
	if len(res.Divide) > 0 {
		e.Divide = make(map[string]uint64, len(res.Divide))
		for _, rc := range res.Divide {
			e.Divide[rc.Move.String()] = rc.Nodes
		}
	}
	return e
}

// resultFromEntry rebuilds a result, resolving the divide keys against the
// legal moves of pos.
func resultFromEntry(pos *board.Position, e *storage.Entry) *perft.Result {
	res := &perft.Result{FEN: e.FEN, Depth: e.Depth, Nodes: e.Nodes}
	for _, m := range pos.LegalMoves() {
		if n, ok := e.Divide[m.String()]; ok {
			res.Divide = append(res.Divide, perft.RootCount{Move: m, Nodes: n})
		}
	}
	sort.Slice(res.Divide, func(i, j int) bool {
		return res.Divide[i].Move.String() < res.Divide[j].Move.String()
	})
	return res
}

// handleDisplay prints the board. "d attacks" adds the squares attacked by each side
// and "d moves" the pseudo-legal move table.
func (u *UCI) handleDisplay(args []string) {
	pos := u.game.Pos
	fmt.Fprintln(u.out, pos.String())
	fmt.Fprintf(u.out, "Fen: %s\n", pos.ToFEN())
	fmt.Fprintf(u.out, "Key: %016X\n", u.game.Hash)
	if u.game.IsRepetition() {
		fmt.Fprintln(u.out, "Repetition: yes")
	}

	for _, arg := range args {
		switch arg {
		case "attacks":
			for c := board.White; c <= board.Black; c++ {
				fmt.Fprintf(u.out, "Squares attacked by %v:\n%s\n", c, pos.AttackMap(c))
			}
		case "moves":
			fmt.Fprint(u.out, pos.GenerateMoves(false).String())
		}
	}
}

func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "debug":
		board.DebugMoveValidation = strings.ToLower(value) == "true"
		if board.DebugMoveValidation {
			log.Printf("debug mode enabled")
		}
	case "hash":
		mb, err := strconv.Atoi(value)
		switch {
		case err != nil || mb < 0:
			fmt.Fprintf(u.out, "info string bad hash size %q\n", value)
		case mb == 0:
			u.table = nil
		default:
			u.table = perft.NewTable(mb)
		}
	case "threads":
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			u.workers = n
		}
	default:
		fmt.Fprintf(u.out, "info string unknown option %q\n", name)
	}
}
