package board

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// findMove returns the generated move with the given coordinate notation.
func findMove(t *testing.T, p *Position, uci string) Move {
	t.Helper()
	for _, m := range p.GenerateMoves(false).Slice() {
		if m.String() == uci {
			return m
		}
	}
	t.Fatalf("move %s not generated in %s", uci, p.ToFEN())
	return NoMove
}

func TestMakeMoveRefusals(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move func(p *Position) Move
		mode MoveMode
	}{
		{
			name: "quiet move in captures-only mode",
			fen:  StartFEN,
			move: func(p *Position) Move { return EncodeMove(E2, E4, WhitePawn, 0, FlagDoublePush) },
			mode: CapturesOnly,
		},
		{
			name: "pinned bishop",
			fen:  "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
			move: func(p *Position) Move { return EncodeMove(E2, D3, WhiteBishop, 0, NoFlags) },
			mode: AllMoves,
		},
		{
			name: "king steps into check",
			fen:  "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1",
			move: func(p *Position) Move { return EncodeMove(E1, E2, WhiteKing, 0, NoFlags) },
			mode: AllMoves,
		},
		{
			name: "castling onto attacked square",
			fen:  "r3k2r/8/8/8/8/8/6r1/R3K2R w KQkq - 0 1",
			move: func(p *Position) Move { return EncodeMove(E1, G1, WhiteKing, 0, FlagCastling) },
			mode: AllMoves,
		},
		{
			name: "en passant exposing the king",
			fen:  "8/8/8/K2pP2r/8/8/8/4k3 w - d6 0 1",
			move: func(p *Position) Move { return EncodeMove(E5, D6, WhitePawn, 0, FlagCapture|FlagEnPassant) },
			mode: AllMoves,
		},
		{
			name: "piece of the wrong color",
			fen:  StartFEN,
			move: func(p *Position) Move { return EncodeMove(E7, E5, BlackPawn, 0, FlagDoublePush) },
			mode: AllMoves,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			before := pos.Snapshot()
			if pos.MakeMove(tc.move(pos), tc.mode) {
				t.Fatal("move was accepted")
			}
			if diff := cmp.Diff(before, pos.Snapshot()); diff != "" {
				t.Errorf("position changed after refusal (-before +after):\n%s", diff)
			}
		})
	}
}

func TestMakeMoveEffects(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		mode MoveMode
		want string
	}{
		{"double push sets en passant", StartFEN, "e2e4", AllMoves,
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"black double push", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", "c7c5", AllMoves,
			"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 1"},
		{"quiet move clears en passant", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", "g8f6", AllMoves,
			"rnbqkb1r/pppppppp/5n2/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 1"},
		{"white en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", CapturesOnly,
			"4k3/8/3P4/8/8/8/8/4K3 b - - 0 1"},
		{"black en passant", "4k3/8/8/8/3Pp3/8/8/4K3 b - d3 0 1", "e4d3", AllMoves,
			"4k3/8/8/8/8/3p4/8/4K3 w - - 0 1"},
		{"white king side castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", AllMoves,
			"r3k2r/8/8/8/8/8/8/R4RK1 b kq - 0 1"},
		{"white queen side castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", AllMoves,
			"r3k2r/8/8/8/8/8/8/2KR3R b kq - 0 1"},
		{"black king side castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8", AllMoves,
			"r4rk1/8/8/8/8/8/8/R3K2R w KQ - 0 1"},
		{"black queen side castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", AllMoves,
			"2kr3r/8/8/8/8/8/8/R3K2R w KQ - 0 1"},
		{"rook move drops one right", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "a1b1", AllMoves,
			"r3k2r/8/8/8/8/8/8/1R2K2R b Kkq - 0 1"},
		{"rook capture drops both rights", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "h1h8", CapturesOnly,
			"r3k2R/8/8/8/8/8/8/R3K3 b Qq - 0 1"},
		{"promotion", "4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7b8n", AllMoves,
			"1N2k3/8/8/8/8/8/8/4K3 b - - 0 1"},
		{"capture promotion", "r3k3/1P6/8/8/8/8/8/4K3 w q - 0 1", "b7a8q", AllMoves,
			"Q3k3/8/8/8/8/8/8/4K3 b - - 0 1"},
		{"black promotion", "4k3/8/8/8/8/8/p7/4K3 b - - 0 1", "a2a1r", AllMoves,
			"4k3/8/8/8/8/8/8/r3K3 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParse(t, tc.fen)
			m := findMove(t, pos, tc.move)
			if !pos.MakeMove(m, tc.mode) {
				t.Fatalf("%v refused", m)
			}
			if got := pos.ToFEN(); got != tc.want {
				t.Errorf("after %s:\n got %s\nwant %s", tc.move, got, tc.want)
			}
		})
	}
}

// TestRandomWalkInvariants plays random legal games and checks the structural
// invariants and the incremental hash after every move.
func TestRandomWalkInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	games := 40
	if testing.Short() {
		games = 8
	}

	for g := 0; g < games; g++ {
		fen := testFENs[g%len(testFENs)]
		pos := mustParse(t, fen)
		hash := pos.ComputeHash()

		for ply := 0; ply < 120; ply++ {
			moves := pos.LegalMoves()
			if len(moves) == 0 {
				break
			}
			m := moves[rng.Intn(len(moves))]

			before := pos.Snapshot()
			if !pos.MakeMove(m, AllMoves) {
				t.Fatalf("%s: legal move %v refused", pos.ToFEN(), m)
			}
			after := pos.Snapshot()

			checkOccupancy(t, pos)
			if after.CastlingRights&^before.CastlingRights != 0 {
				t.Fatalf("%v gained castling rights %v -> %v", m, before.CastlingRights, after.CastlingRights)
			}
			if m.IsDoublePush() != (after.EnPassant != NoSquare) {
				t.Fatalf("%v left en passant square %v", m, after.EnPassant)
			}
			if pos.IsSquareAttacked(pos.KingSquare(before.SideToMove), pos.SideToMove) {
				t.Fatalf("%v left the mover in check", m)
			}

			hash ^= HashDelta(&before, &after)
			if want := pos.ComputeHash(); hash != want {
				t.Fatalf("after %v incremental hash %x, recomputed %x", m, hash, want)
			}
		}
	}
}

func checkOccupancy(t *testing.T, p *Position) {
	t.Helper()
	var all Bitboard
	for c := White; c <= Black; c++ {
		var side Bitboard
		for pt := Pawn; pt <= King; pt++ {
			if side&p.Pieces[c][pt] != 0 || all&p.Pieces[c][pt] != 0 {
				t.Fatalf("piece sets overlap at %v %v", c, pt)
			}
			side |= p.Pieces[c][pt]
		}
		if side != p.Occupied[c] {
			t.Fatalf("Occupied[%v] = %x, want %x", c, uint64(p.Occupied[c]), uint64(side))
		}
		all |= side
	}
	if all != p.AllOccupied {
		t.Fatalf("AllOccupied = %x, want %x", uint64(p.AllOccupied), uint64(all))
	}
}

func TestCheckmateAndStalemate(t *testing.T) {
	tests := []struct {
		fen       string
		mate      bool
		stalemate bool
	}{
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", true, false},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, true},
		{StartFEN, false, false},
	}

	for _, tc := range tests {
		pos := mustParse(t, tc.fen)
		if got := pos.IsCheckmate(); got != tc.mate {
			t.Errorf("%s: IsCheckmate() = %v", tc.fen, got)
		}
		if got := pos.IsStalemate(); got != tc.stalemate {
			t.Errorf("%s: IsStalemate() = %v", tc.fen, got)
		}
	}
}
