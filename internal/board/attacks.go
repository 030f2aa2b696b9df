package board

import "strings"

// Pre-computed attack tables for non-sliding pieces
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]
)

func init() {
	initKnightAttacks()
	initKingAttacks()
	initPawnAttacks()
	initMagics() // From magic.go
}

func initKnightAttacks() {
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)

		attacks := Empty

		// Two ranks, one file
		attacks |= (bb << 17) & NotFileA
		attacks |= (bb << 15) & NotFileH
		attacks |= (bb >> 17) & NotFileH
		attacks |= (bb >> 15) & NotFileA

		// One rank, two files
		attacks |= (bb << 10) & NotFileAB
		attacks |= (bb << 6) & NotFileGH
		attacks |= (bb >> 10) & NotFileGH
		attacks |= (bb >> 6) & NotFileAB

		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)

		attacks := bb.North() | bb.South()
		attacks |= bb.East() | bb.West()
		attacks |= bb.NorthEast() | bb.NorthWest()
		attacks |= bb.SouthEast() | bb.SouthWest()

		kingAttacks[sq] = attacks
	}
}

func initPawnAttacks() {
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)

		// White pawns capture toward the eighth rank, black toward the first.
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the pawn attack bitboard for a square and color.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// IsSquareAttacked returns true if the square is attacked by any piece of the given color.
// A pawn of byColor attacks sq exactly when a pawn of the other color standing on sq
// would attack that pawn, so the opposite color's pawn table is used.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	pieces := &p.Pieces[byColor]
	occupied := p.AllOccupied

	if pawnAttacks[byColor.Other()][sq]&pieces[Pawn] != 0 {
		return true
	}
	if knightAttacks[sq]&pieces[Knight] != 0 {
		return true
	}
	if BishopAttacks(sq, occupied)&(pieces[Bishop]|pieces[Queen]) != 0 {
		return true
	}
	if RookAttacks(sq, occupied)&(pieces[Rook]|pieces[Queen]) != 0 {
		return true
	}
	return kingAttacks[sq]&pieces[King] != 0
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	us := p.SideToMove
	kingBB := p.Pieces[us][King]
	if kingBB == 0 {
		return false
	}
	return p.IsSquareAttacked(kingBB.LowestSquare(), us.Other())
}

// AttackMap returns a diagnostic grid marking every square attacked by the given color.
func (p *Position) AttackMap(byColor Color) string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for sq := A8; sq <= H1; sq++ {
		if sq.File() == 0 {
			sb.WriteString("  ")
			sb.WriteByte(byte('1' + sq.Rank()))
			sb.WriteByte(' ')
		}
		if p.IsSquareAttacked(sq, byColor) {
			sb.WriteString(" 1")
		} else {
			sb.WriteString(" 0")
		}
		if sq.File() == 7 {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("\n     a b c d e f g h\n")
	return sb.String()
}
