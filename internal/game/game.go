// Package game sits between text commands and the board core. It owns a position,
// keeps its hash key up to date move by move and records the hash history used for
// repetition detection.
package game

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

var (
	// ErrUnknownMove is returned for move text that matches no generated move.
	ErrUnknownMove = errors.New("unknown move")
	// ErrIllegalMove is returned when a generated move leaves the king in check.
	ErrIllegalMove = errors.New("illegal move")
)

// Game is a position plus the state the core does not track.
type Game struct {
	Pos  *board.Position
	Hash uint64

	// history holds the hash before every applied move.
	history []uint64
}

// New returns a game at the starting position.
func New() *Game {
	g := &Game{}
	g.Reset(board.NewPosition())
	return g
}

// Reset replaces the position and clears the history.
func (g *Game) Reset(pos *board.Position) {
	g.Pos = pos
	g.Hash = pos.ComputeHash()
	g.history = g.history[:0]
}

// History returns the recorded pre-move hashes, oldest first.
func (g *Game) History() []uint64 {
	return g.history
}

// ParseMove resolves coordinate notation such as "e2e4" or "e7e8q" against the
// moves generated for the current position.
func (g *Game) ParseMove(s string) (board.Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return board.NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, s)
	}
	from, err := board.ParseSquare(s[0:2])
	if err != nil {
		return board.NoMove, fmt.Errorf("%w: %q: %v", ErrUnknownMove, s, err)
	}
	to, err := board.ParseSquare(s[2:4])
	if err != nil {
		return board.NoMove, fmt.Errorf("%w: %q: %v", ErrUnknownMove, s, err)
	}

	promo := board.NoPieceType
	if len(s) == 5 {
		promo = board.PieceFromChar(s[4]).Type()
		if promo == board.NoPieceType || promo == board.Pawn || promo == board.King {
			return board.NoMove, fmt.Errorf("%w: %q: bad promotion piece", ErrUnknownMove, s)
		}
	}

	for _, m := range g.Pos.GenerateMoves(false).Slice() {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() {
			if m.Promotion().Type() == promo {
				return m, nil
			}
		} else if promo == board.NoPieceType {
			return m, nil
		}
	}

	return board.NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, s)
}

// Apply plays m, updating the hash and history. A move refused by the position
// leaves the game unchanged.
func (g *Game) Apply(m board.Move) error {
	before := g.Pos.Snapshot()
	if !g.Pos.MakeMove(m, board.AllMoves) {
		return fmt.Errorf("%w: %v", ErrIllegalMove, m)
	}
	after := g.Pos.Snapshot()

	g.history = append(g.history, g.Hash)
	g.Hash ^= board.HashDelta(&before, &after)

	if board.DebugMoveValidation && g.Hash != g.Pos.ComputeHash() {
		log.Printf("GAME: hash drift after %v: %016x != %016x", m, g.Hash, g.Pos.ComputeHash())
	}
	return nil
}

// Play parses and applies a coordinate move.
func (g *Game) Play(s string) error {
	m, err := g.ParseMove(s)
	if err != nil {
		return err
	}
	return g.Apply(m)
}

// IsRepetition reports whether the current position occurred earlier in the game.
func (g *Game) IsRepetition() bool {
	for _, h := range g.history {
		if h == g.Hash {
			return true
		}
	}
	return false
}

// SetPosition handles the arguments of a position command:
//
//	startpos [moves m1 m2 ...]
//	fen <fen> [moves m1 m2 ...]
//
// Moves are applied in order and application stops at the first move that fails;
// the moves before it stay applied and the error is returned.
func (g *Game) SetPosition(args []string) error {
	if len(args) == 0 {
		return errors.New("position: missing startpos or fen")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	switch args[0] {
	case "startpos":
		g.Reset(board.NewPosition())
	case "fen":
		pos, err := board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			return fmt.Errorf("position: %w", err)
		}
		g.Reset(pos)
	default:
		return fmt.Errorf("position: unknown keyword %q", args[0])
	}

	if movesAt == len(args) {
		return nil
	}
	for _, s := range args[movesAt+1:] {
		if err := g.Play(s); err != nil {
			return fmt.Errorf("position: %w", err)
		}
	}
	return nil
}
