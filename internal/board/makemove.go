package board

import "log"

// DebugMoveValidation enables logging of moves that violate the encoder contract.
var DebugMoveValidation = false

// MoveMode selects which moves MakeMove accepts.
type MoveMode int

const (
	// AllMoves applies any move.
	AllMoves MoveMode = iota
	// CapturesOnly refuses moves whose capture flag is clear.
	CapturesOnly
)

// castlingMask[sq] is ANDed into the castling rights whenever a move leaves or
// lands on sq, so touching a king or rook home square revokes the matching rights.
var castlingMask = func() [64]CastlingRights {
	var m [64]CastlingRights
	for sq := range m {
		m[sq] = AllCastling
	}
	m[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	m[H1] &^= WhiteKingSideCastle
	m[A1] &^= WhiteQueenSideCastle
	m[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
	m[H8] &^= BlackKingSideCastle
	m[A8] &^= BlackQueenSideCastle
	return m
}()

// MakeMove applies m to the position and reports whether it was kept.
// A move is refused without any change when mode is CapturesOnly and m is not a
// capture. A move that leaves the mover's king attacked is undone and refused; the
// position is then bit-for-bit what it was before the call.
func (p *Position) MakeMove(m Move, mode MoveMode) bool {
	if mode == CapturesOnly && !m.IsCapture() {
		return false
	}

	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	piece := m.Piece()

	if piece.Color() != us {
		if DebugMoveValidation {
			log.Printf("MAKEMOVE: %v moving %v piece %v with %v to move", m, piece.Color(), piece, us)
		}
		return false
	}

	snap := p.Snapshot()
	pt := piece.Type()

	p.Pieces[us][pt].PopBit(from)
	p.Pieces[us][pt].SetBit(to)

	if m.IsCapture() {
		for t := Pawn; t <= King; t++ {
			if p.Pieces[them][t].GetBit(to) {
				p.Pieces[them][t].PopBit(to)
				break
			}
		}
	}

	if m.IsPromotion() {
		p.Pieces[us][Pawn].PopBit(to)
		p.Pieces[us][m.Promotion().Type()].SetBit(to)
	}

	// The pawn taken en passant stands behind the target square.
	if m.IsEnPassant() {
		if us == White {
			p.Pieces[Black][Pawn].PopBit(to + 8)
		} else {
			p.Pieces[White][Pawn].PopBit(to - 8)
		}
	}

	p.EnPassant = NoSquare
	if m.IsDoublePush() {
		p.EnPassant = Square((int(from) + int(to)) / 2)
	}

	if m.IsCastling() {
		for i := range castlingRules {
			if r := &castlingRules[i]; r.color == us && r.target == to {
				p.Pieces[us][Rook].PopBit(r.rookFrom)
				p.Pieces[us][Rook].SetBit(r.rookTo)
				break
			}
		}
	}

	p.CastlingRights &= castlingMask[from] & castlingMask[to]

	p.updateOccupied()
	p.SideToMove = them

	if king := p.Pieces[us][King]; king != 0 && p.IsSquareAttacked(king.LowestSquare(), them) {
		p.Restore(snap)
		return false
	}

	return true
}

// LegalMoves returns the moves MakeMove would keep, in generation order.
func (p *Position) LegalMoves() []Move {
	ml := p.GenerateMoves(false)
	legal := make([]Move, 0, ml.Len())
	for _, m := range ml.Slice() {
		snap := p.Snapshot()
		if p.MakeMove(m, AllMoves) {
			legal = append(legal, m)
			p.Restore(snap)
		}
	}
	return legal
}

// HasLegalMoves returns true if the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	ml := p.GenerateMoves(false)
	for _, m := range ml.Slice() {
		snap := p.Snapshot()
		if p.MakeMove(m, AllMoves) {
			p.Restore(snap)
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
