package board

import (
	"math/bits"
	"strings"
)

// Bitboard represents a 64-bit board where each bit corresponds to a square.
// Bit 0 = A8, Bit 7 = H8, Bit 56 = A1, Bit 63 = H1.
type Bitboard uint64

// File masks
const (
	FileA Bitboard = 0x0101010101010101
	FileB Bitboard = 0x0202020202020202
	FileC Bitboard = 0x0404040404040404
	FileD Bitboard = 0x0808080808080808
	FileE Bitboard = 0x1010101010101010
	FileF Bitboard = 0x2020202020202020
	FileG Bitboard = 0x4040404040404040
	FileH Bitboard = 0x8080808080808080
)

// Rank masks
const (
	Rank8 Bitboard = 0x00000000000000FF
	Rank7 Bitboard = 0x000000000000FF00
	Rank6 Bitboard = 0x0000000000FF0000
	Rank5 Bitboard = 0x00000000FF000000
	Rank4 Bitboard = 0x000000FF00000000
	Rank3 Bitboard = 0x0000FF0000000000
	Rank2 Bitboard = 0x00FF000000000000
	Rank1 Bitboard = 0xFF00000000000000
)

// Special masks
const (
	Empty    Bitboard = 0
	Universe Bitboard = 0xFFFFFFFFFFFFFFFF

	NotFileA  Bitboard = ^FileA
	NotFileH  Bitboard = ^FileH
	NotFileAB Bitboard = ^(FileA | FileB)
	NotFileGH Bitboard = ^(FileG | FileH)

	edges Bitboard = FileA | FileH | Rank1 | Rank8
)

// RankMask returns the rank mask for a given rank (0-7, where 0 is the first rank).
var RankMask = [8]Bitboard{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// SetBit sets the bit at the given square.
func (b *Bitboard) SetBit(sq Square) {
	*b |= 1 << sq
}

// PopBit clears the bit at the given square.
func (b *Bitboard) PopBit(sq Square) {
	*b &^= 1 << sq
}

// GetBit returns true if the bit at the given square is set.
func (b Bitboard) GetBit(sq Square) bool {
	return b&(1<<sq) != 0
}

// PopCount returns the number of set bits (population count).
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LowestSquare returns the lowest-numbered occupied square, or NoSquare for an empty board.
func (b Bitboard) LowestSquare() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLowest removes and returns the lowest-numbered occupied square.
func (b *Bitboard) PopLowest() Square {
	sq := b.LowestSquare()
	*b &= *b - 1
	return sq
}

// North shifts the bitboard one rank up (toward rank 8).
func (b Bitboard) North() Bitboard {
	return b >> 8
}

// South shifts the bitboard one rank down (toward rank 1).
func (b Bitboard) South() Bitboard {
	return b << 8
}

// East shifts the bitboard one file right (toward file h).
func (b Bitboard) East() Bitboard {
	return (b << 1) & NotFileA
}

// West shifts the bitboard one file left (toward file a).
func (b Bitboard) West() Bitboard {
	return (b >> 1) & NotFileH
}

// NorthEast shifts the bitboard one square toward the h8 corner.
func (b Bitboard) NorthEast() Bitboard {
	return (b >> 7) & NotFileA
}

// NorthWest shifts the bitboard one square toward the a8 corner.
func (b Bitboard) NorthWest() Bitboard {
	return (b >> 9) & NotFileH
}

// SouthEast shifts the bitboard one square toward the h1 corner.
func (b Bitboard) SouthEast() Bitboard {
	return (b << 9) & NotFileA
}

// SouthWest shifts the bitboard one square toward the a1 corner.
func (b Bitboard) SouthWest() Bitboard {
	return (b << 7) & NotFileH
}

// String returns a visual representation of the bitboard.
func (b Bitboard) String() string {
	var sb strings.Builder
	for sq := A8; sq < NoSquare; sq++ {
		if sq.File() == 0 {
			sb.WriteByte(byte('1' + sq.Rank()))
			sb.WriteByte(' ')
		}
		if b.GetBit(sq) {
			sb.WriteString("1 ")
		} else {
			sb.WriteString(". ")
		}
		if sq.File() == 7 {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}

// Squares returns a slice of all squares that are set, in ascending order.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b != 0 {
		squares = append(squares, b.PopLowest())
	}
	return squares
}
