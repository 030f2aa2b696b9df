package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// Position represents the mutable board state of a chess position.
// A Position is not safe for concurrent use; parallel callers work on copies.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	// Occupancy bitboards, rebuilt from Pieces after every mutation
	Occupied    [2]Bitboard // All pieces of each color
	AllOccupied Bitboard    // All pieces on the board

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Square passed over by the last double push, NoSquare if none
}

// Snapshot is a value copy of every field MakeMove may change.
type Snapshot struct {
	Pieces         [2][6]Bitboard
	Occupied       [2]Bitboard
	AllOccupied    Bitboard
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates an independent copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// Snapshot captures the complete board state.
func (p *Position) Snapshot() Snapshot {
	return Snapshot{
		Pieces:         p.Pieces,
		Occupied:       p.Occupied,
		AllOccupied:    p.AllOccupied,
		SideToMove:     p.SideToMove,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
	}
}

// Restore returns the position to a previously captured state.
func (p *Position) Restore(s Snapshot) {
	p.Pieces = s.Pieces
	p.Occupied = s.Occupied
	p.AllOccupied = s.AllOccupied
	p.SideToMove = s.SideToMove
	p.CastlingRights = s.CastlingRights
	p.EnPassant = s.EnPassant
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	if !p.AllOccupied.GetBit(sq) {
		return NoPiece
	}

	c := White
	if p.Occupied[Black].GetBit(sq) {
		c = Black
	}

	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt].GetBit(sq) {
			return NewPiece(pt, c)
		}
	}

	return NoPiece
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return !p.AllOccupied.GetBit(sq)
}

// KingSquare returns the square of the given side's king, or NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LowestSquare()
}

// updateOccupied recalculates occupancy bitboards from piece bitboards.
func (p *Position) updateOccupied() {
	p.Occupied[White] = Empty
	p.Occupied[Black] = Empty

	for pt := Pawn; pt <= King; pt++ {
		p.Occupied[White] |= p.Pieces[White][pt]
		p.Occupied[Black] |= p.Pieces[Black][pt]
	}

	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for sq := A8; sq <= H1; sq++ {
		if sq.File() == 0 {
			fmt.Fprintf(&sb, "  %d ", sq.Rank()+1)
		}
		if piece := p.PieceAt(sq); piece == NoPiece {
			sb.WriteString(" .")
		} else {
			sb.WriteString(" " + piece.String())
		}
		if sq.File() == 7 {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("\n     a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "     Side:      %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "     Enpassant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "     Castling:  %s\n", p.CastlingRights)
	return sb.String()
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{EnPassant: NoSquare}
}
