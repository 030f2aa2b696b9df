package board

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
}

func TestSquareLayout(t *testing.T) {
	tests := []struct {
		sq   Square
		name string
		file int
		rank int
	}{
		{A8, "a8", 0, 7},
		{H8, "h8", 7, 7},
		{A1, "a1", 0, 0},
		{H1, "h1", 7, 0},
		{E4, "e4", 4, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sq.String(); got != tc.name {
				t.Errorf("String() = %q, want %q", got, tc.name)
			}
			if tc.sq.File() != tc.file || tc.sq.Rank() != tc.rank {
				t.Errorf("file/rank = %d/%d, want %d/%d", tc.sq.File(), tc.sq.Rank(), tc.file, tc.rank)
			}
			if got := NewSquare(tc.file, tc.rank); got != tc.sq {
				t.Errorf("NewSquare = %d, want %d", got, tc.sq)
			}
			parsed, err := ParseSquare(tc.name)
			if err != nil || parsed != tc.sq {
				t.Errorf("ParseSquare(%q) = %d, %v", tc.name, parsed, err)
			}
		})
	}

	if A8 != 0 || H1 != 63 {
		t.Fatalf("A8=%d H1=%d, want 0 and 63", A8, H1)
	}
}

func TestBitOperations(t *testing.T) {
	var b Bitboard
	b.SetBit(E4)
	b.SetBit(C6)
	if !b.GetBit(E4) || !b.GetBit(C6) || b.GetBit(D5) {
		t.Fatalf("unexpected bits:\n%v", b)
	}
	if got := b.LowestSquare(); got != C6 {
		t.Errorf("LowestSquare() = %v, want c6", got)
	}
	b.PopBit(C6)
	if got := b.PopLowest(); got != E4 || b != 0 {
		t.Errorf("PopLowest() = %v, rest %x", got, uint64(b))
	}
	if got := Empty.LowestSquare(); got != NoSquare {
		t.Errorf("empty LowestSquare() = %v", got)
	}
}

func TestParseFEN(t *testing.T) {
	pos := mustParse(t, "r3k2r/8/8/3pP3/8/8/8/R3K2R w Kq d6 5 40")

	if pos.PieceAt(A8) != BlackRook || pos.PieceAt(E1) != WhiteKing || pos.PieceAt(D5) != BlackPawn {
		t.Errorf("unexpected placement:%v", pos)
	}
	if pos.SideToMove != White {
		t.Errorf("side = %v", pos.SideToMove)
	}
	if pos.CastlingRights != WhiteKingSideCastle|BlackQueenSideCastle {
		t.Errorf("castling = %v", pos.CastlingRights)
	}
	if pos.EnPassant != D6 {
		t.Errorf("en passant = %v", pos.EnPassant)
	}
	if got, want := pos.ToFEN(), "r3k2r/8/8/3pP3/8/8/8/R3K2R w Kq d6 0 1"; got != want {
		t.Errorf("ToFEN() = %q, want %q", got, want)
	}

	if _, err := ParseFEN("8/8/8 w"); err == nil {
		t.Error("expected error for missing fields")
	}
}

func TestSetFENResetsState(t *testing.T) {
	pos := NewPosition()
	if err := pos.SetFEN("4k3/8/8/8/8/8/8/4K3 b - - 0 1"); err != nil {
		t.Fatal(err)
	}
	if pos.AllOccupied.PopCount() != 2 {
		t.Errorf("stale pieces left after SetFEN:%v", pos)
	}
	if pos.CastlingRights != NoCastling || pos.EnPassant != NoSquare || pos.SideToMove != Black {
		t.Errorf("stale state after SetFEN:%v", pos)
	}
}

func TestMagicMatchesRayCasting(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for sq := A8; sq <= H1; sq++ {
		for i := 0; i < 200; i++ {
			occ := Bitboard(rng.Uint64() & rng.Uint64())
			if got, want := BishopAttacks(sq, occ), bishopAttacksSlow(sq, occ); got != want {
				t.Fatalf("bishop %v occ %x:\n%v\nwant\n%v", sq, uint64(occ), got, want)
			}
			if got, want := RookAttacks(sq, occ), rookAttacksSlow(sq, occ); got != want {
				t.Fatalf("rook %v occ %x:\n%v\nwant\n%v", sq, uint64(occ), got, want)
			}
			if got := QueenAttacks(sq, occ); got != BishopAttacks(sq, occ)|RookAttacks(sq, occ) {
				t.Fatalf("queen %v is not the union of bishop and rook", sq)
			}
		}
	}
}

func TestLeaperTables(t *testing.T) {
	tests := []struct {
		name string
		got  Bitboard
		want []Square
	}{
		{"knight a8", KnightAttacks(A8), []Square{C7, B6}},
		{"knight e4", KnightAttacks(E4), []Square{D6, F6, C5, G5, C3, G3, D2, F2}},
		{"king h1", KingAttacks(H1), []Square{G2, H2, G1}},
		{"white pawn e4", PawnAttacks(E4, White), []Square{D5, F5}},
		{"black pawn e4", PawnAttacks(E4, Black), []Square{D3, F3}},
		{"white pawn a2", PawnAttacks(A2, White), []Square{B3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.got.Squares()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsSquareAttacked(t *testing.T) {
	pos := mustParse(t, "4k3/8/8/3p4/8/5N2/8/R3K3 w - - 0 1")

	tests := []struct {
		sq   Square
		by   Color
		want bool
	}{
		{C4, Black, true},  // black pawn d5
		{E4, Black, true},  // black pawn d5
		{D4, Black, false}, // pawns do not attack forward
		{E5, White, true},  // knight f3
		{A8, White, true},  // rook a1 up the file
		{H1, White, false}, // rook blocked by own king
		{D1, White, true},  // king and rook
		{F7, Black, true},  // king e8
	}

	before := pos.Snapshot()
	for _, tc := range tests {
		for i := 0; i < 2; i++ {
			if got := pos.IsSquareAttacked(tc.sq, tc.by); got != tc.want {
				t.Errorf("IsSquareAttacked(%v, %v) = %v, want %v", tc.sq, tc.by, got, tc.want)
			}
		}
	}
	if diff := cmp.Diff(before, pos.Snapshot()); diff != "" {
		t.Errorf("query mutated position (-before +after):\n%s", diff)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	pos := NewPosition()
	cp := pos.Copy()
	if !cp.MakeMove(EncodeMove(E2, E4, WhitePawn, 0, FlagDoublePush), AllMoves) {
		t.Fatal("e2e4 rejected")
	}
	if pos.ToFEN() != StartFEN {
		t.Errorf("original changed: %s", pos.ToFEN())
	}
}

func TestStringDiagnostics(t *testing.T) {
	pos := NewPosition()
	if s := pos.String(); len(s) == 0 {
		t.Error("empty board printout")
	}
	if s := pos.AttackMap(White); len(s) == 0 {
		t.Error("empty attack map")
	}
}
