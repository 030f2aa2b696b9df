package board

import "math/bits"

// Magic bitboard implementation for sliding piece attacks.
// Magic multipliers are found at startup by seeded trial and error, so the tables
// are valid for this package's square layout by construction.

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask   Bitboard // Relevant occupancy mask (excludes edges)
	Magic  uint64   // Magic multiplier
	Shift  uint8    // Bits to shift right
	Offset uint32   // Index into attack table
}

// index hashes an occupancy into the square's slice of the attack table.
func (m *Magic) index(occupied Bitboard) uint32 {
	return uint32(((uint64(occupied) & uint64(m.Mask)) * m.Magic) >> m.Shift)
}

var (
	bishopMagics [64]Magic
	rookMagics   [64]Magic

	// Attack tables (fancy magic bitboards)
	bishopTable [5248]Bitboard
	rookTable   [102400]Bitboard
)

// magicSeeds seed the search per board row. Any non-zero seed converges;
// these converge in few trials.
var magicSeeds = [8]uint64{728, 10316, 55013, 32803, 12281, 15100, 16645, 255}

func initMagics() {
	initSliderMagics(bishopMagics[:], bishopTable[:], bishopMask, bishopAttacksSlow)
	initSliderMagics(rookMagics[:], rookTable[:], rookMask, rookAttacksSlow)
}

// initSliderMagics fills magics and table for one slider kind. For every square it
// enumerates all subsets of the relevant mask, then draws sparse candidates until one
// maps every subset to a slot holding the right attack set.
func initSliderMagics(magics []Magic, table []Bitboard, maskOf func(Square) Bitboard, slow func(Square, Bitboard) Bitboard) {
	var occupancy, reference [4096]Bitboard
	var epoch [4096]int
	attempt := 0
	var offset uint32

	for sq := A8; sq <= H1; sq++ {
		mask := maskOf(sq)
		n := mask.PopCount()
		m := &magics[sq]
		m.Mask = mask
		m.Shift = uint8(64 - n)
		m.Offset = offset
		size := 1 << n

		// Carry-Rippler walk over every subset of mask.
		var b Bitboard
		for i := 0; i < size; i++ {
			occupancy[i] = b
			reference[i] = slow(sq, b)
			b = (b - mask) & mask
		}

		rng := newPRNG(magicSeeds[sq>>3])
		for i := 0; i < size; {
			for m.Magic = 0; bits.OnesCount64((m.Magic*uint64(mask))>>56) < 6; {
				m.Magic = rng.sparse()
			}

			// epoch marks slots written during this attempt, so the table needs no reset.
			attempt++
			for i = 0; i < size; i++ {
				idx := m.index(occupancy[i])
				if epoch[idx] < attempt {
					epoch[idx] = attempt
					table[offset+idx] = reference[i]
				} else if table[offset+idx] != reference[i] {
					break
				}
			}
		}
		offset += uint32(size)
	}
}

// bishopMask returns the relevant occupancy mask for bishop at square.
// Excludes edge squares since they don't affect the result.
func bishopMask(sq Square) Bitboard {
	return bishopAttacksSlow(sq, 0) &^ edges
}

// rookMask returns the relevant occupancy mask for rook at square.
func rookMask(sq Square) Bitboard {
	file := sq.File()
	rank := sq.Rank()

	var mask Bitboard

	// Horizontal (exclude edges unless rook is on edge)
	for f := 1; f < 7; f++ {
		if f != file {
			mask |= SquareBB(NewSquare(f, rank))
		}
	}

	// Vertical (exclude edges unless rook is on edge)
	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= SquareBB(NewSquare(file, r))
		}
	}

	return mask
}

// slide casts rays from sq in the given (file, rank) directions, stopping on and
// including the first occupied square.
func slide(sq Square, occupied Bitboard, dirs [4][2]int) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			s := NewSquare(f, r)
			attacks |= SquareBB(s)
			if occupied.GetBit(s) {
				break
			}
			f, r = f+d[0], r+d[1]
		}
	}
	return attacks
}

// bishopAttacksSlow computes bishop attacks by ray casting (used during initialization).
func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slide(sq, occupied, [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}})
}

// rookAttacksSlow computes rook attacks by ray casting (used during initialization).
func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slide(sq, occupied, [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}})
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagics[sq]
	return bishopTable[m.Offset+m.index(occupied)]
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagics[sq]
	return rookTable[m.Offset+m.index(occupied)]
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}
