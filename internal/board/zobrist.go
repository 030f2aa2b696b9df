package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [16]uint64       // All 16 castling combinations
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys and magic search
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// sparse returns a value with roughly 1/8 of its bits set.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A8; sq <= H1; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// ComputeHash computes the Zobrist hash for the position from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				hash ^= zobristPiece[c][pt][bb.PopLowest()]
			}
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}

// HashDelta returns the value to XOR into a hash taken at before to obtain the hash
// of after. Only the piece squares and state fields that differ contribute.
func HashDelta(before, after *Snapshot) uint64 {
	var delta uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			changed := before.Pieces[c][pt] ^ after.Pieces[c][pt]
			for changed != 0 {
				delta ^= zobristPiece[c][pt][changed.PopLowest()]
			}
		}
	}

	if before.SideToMove != after.SideToMove {
		delta ^= zobristSideToMove
	}
	if before.CastlingRights != after.CastlingRights {
		delta ^= zobristCastling[before.CastlingRights] ^ zobristCastling[after.CastlingRights]
	}
	if before.EnPassant != NoSquare {
		delta ^= zobristEnPassant[before.EnPassant.File()]
	}
	if after.EnPassant != NoSquare {
		delta ^= zobristEnPassant[after.EnPassant.File()]
	}

	return delta
}
