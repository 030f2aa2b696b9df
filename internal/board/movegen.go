package board

// attackFuncs maps each non-pawn piece type to its attack lookup.
// Leapers ignore the occupancy argument.
var attackFuncs = [6]func(Square, Bitboard) Bitboard{
	Knight: func(sq Square, _ Bitboard) Bitboard { return knightAttacks[sq] },
	Bishop: BishopAttacks,
	Rook:   RookAttacks,
	Queen:  QueenAttacks,
	King:   func(sq Square, _ Bitboard) Bitboard { return kingAttacks[sq] },
}

// castlingRule describes one castling option.
type castlingRule struct {
	right    CastlingRights
	color    Color
	king     Square   // king home square
	transit  Square   // square the king crosses
	target   Square   // king landing square
	path     Bitboard // squares strictly between king and rook
	rookFrom Square
	rookTo   Square
}

var castlingRules = [4]castlingRule{
	{WhiteKingSideCastle, White, E1, F1, G1, SquareBB(F1) | SquareBB(G1), H1, F1},
	{WhiteQueenSideCastle, White, E1, D1, C1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), A1, D1},
	{BlackKingSideCastle, Black, E8, F8, G8, SquareBB(F8) | SquareBB(G8), H8, F8},
	{BlackQueenSideCastle, Black, E8, D8, C8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), A8, D8},
}

// pawnRules holds the per-color pawn geometry.
var pawnRules = [2]struct {
	push      int      // square offset of a single push
	startRank Bitboard // rank a double push starts from
	lastRank  Bitboard // rank a promoting pawn starts from
}{
	White: {-8, Rank2, Rank7},
	Black: {8, Rank7, Rank2},
}

// GenerateMoves returns the pseudo-legal moves for the side to move.
// With capturesOnly set, only captures and promotions are produced.
func (p *Position) GenerateMoves(capturesOnly bool) *MoveList {
	ml := NewMoveList()
	p.GenerateMovesInto(ml, capturesOnly)
	return ml
}

// GenerateMovesInto resets ml and fills it with pseudo-legal moves, piece type by
// piece type in ascending source square order. Moves may leave the mover's own king
// in check; MakeMove rejects those.
func (p *Position) GenerateMovesInto(ml *MoveList, capturesOnly bool) {
	ml.Clear()
	us := p.SideToMove

	p.generatePawnMoves(ml, us, capturesOnly)
	for pt := Knight; pt <= King; pt++ {
		p.generatePieceMoves(ml, pt, us, capturesOnly)
	}
	if !capturesOnly {
		p.generateCastlingMoves(ml, us)
	}
}

// generatePawnMoves generates pushes, captures, promotions and en passant.
// Promotions are emitted in captures-only mode even without a capture.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, capturesOnly bool) {
	rule := &pawnRules[us]
	piece := NewPiece(Pawn, us)
	enemies := p.Occupied[us.Other()]

	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLowest()
		promotes := rule.lastRank.GetBit(from)

		to := Square(int(from) + rule.push)
		if to < NoSquare && p.IsEmpty(to) {
			if promotes {
				addPromotions(ml, from, to, us, NoFlags)
			} else if !capturesOnly {
				ml.Add(EncodeMove(from, to, piece, 0, NoFlags))

				double := Square(int(to) + rule.push)
				if rule.startRank.GetBit(from) && p.IsEmpty(double) {
					ml.Add(EncodeMove(from, double, piece, 0, FlagDoublePush))
				}
			}
		}

		attacks := pawnAttacks[us][from] & enemies
		for attacks != 0 {
			to := attacks.PopLowest()
			if promotes {
				addPromotions(ml, from, to, us, FlagCapture)
			} else {
				ml.Add(EncodeMove(from, to, piece, 0, FlagCapture))
			}
		}

		if p.EnPassant != NoSquare && pawnAttacks[us][from].GetBit(p.EnPassant) {
			ml.Add(EncodeMove(from, p.EnPassant, piece, 0, FlagCapture|FlagEnPassant))
		}
	}
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *MoveList, from, to Square, us Color, flags MoveFlag) {
	pawn := NewPiece(Pawn, us)
	for _, pt := range promotionOrder {
		ml.Add(EncodeMove(from, to, pawn, NewPiece(pt, us), flags))
	}
}

// generatePieceMoves generates knight, bishop, rook, queen and king moves.
func (p *Position) generatePieceMoves(ml *MoveList, pt PieceType, us Color, capturesOnly bool) {
	piece := NewPiece(pt, us)
	enemies := p.Occupied[us.Other()]
	attacksOf := attackFuncs[pt]

	bb := p.Pieces[us][pt]
	for bb != 0 {
		from := bb.PopLowest()
		targets := attacksOf(from, p.AllOccupied) &^ p.Occupied[us]
		if capturesOnly {
			targets &= enemies
		}

		for targets != 0 {
			to := targets.PopLowest()
			flags := NoFlags
			if enemies.GetBit(to) {
				flags = FlagCapture
			}
			ml.Add(EncodeMove(from, to, piece, 0, flags))
		}
	}
}

// generateCastlingMoves generates castling moves. The landing square is not tested
// here; MakeMove's check test covers it once the king stands there.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	king := NewPiece(King, us)

	for i := range castlingRules {
		r := &castlingRules[i]
		if r.color != us || p.CastlingRights&r.right == 0 || p.AllOccupied&r.path != 0 {
			continue
		}
		if p.IsSquareAttacked(r.king, them) || p.IsSquareAttacked(r.transit, them) {
			continue
		}
		ml.Add(EncodeMove(r.king, r.target, king, 0, FlagCastling))
	}
}
