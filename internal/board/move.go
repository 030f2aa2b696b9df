package board

import (
	"fmt"
	"strings"
)

// Move encodes a chess move in the low 24 bits of a uint32:
// bits 0-5:   source square (0-63)
// bits 6-11:  target square (0-63)
// bits 12-15: moving piece
// bits 16-19: promotion piece (0 = none; a pawn is never a promotion target)
// bit  20:    capture
// bit  21:    double pawn push
// bit  22:    en passant capture
// bit  23:    castling
type Move uint32

// MoveFlag is a set of the single-bit move flags.
type MoveFlag uint32

// Move flags
const (
	FlagCapture    MoveFlag = 1 << 20
	FlagDoublePush MoveFlag = 1 << 21
	FlagEnPassant  MoveFlag = 1 << 22
	FlagCastling   MoveFlag = 1 << 23
	NoFlags        MoveFlag = 0
)

const (
	targetShift    = 6
	pieceShift     = 12
	promotionShift = 16
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// EncodeMove packs a move. No consistency check is made between the fields;
// callers are responsible for passing a coherent combination.
func EncodeMove(from, to Square, piece, promotion Piece, flags MoveFlag) Move {
	return Move(from) |
		Move(to)<<targetShift |
		Move(piece)<<pieceShift |
		Move(promotion)<<promotionShift |
		Move(flags)
}

// From returns the source square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the target square.
func (m Move) To() Square {
	return Square((m >> targetShift) & 0x3F)
}

// Piece returns the moving piece.
func (m Move) Piece() Piece {
	return Piece((m >> pieceShift) & 0xF)
}

// Promotion returns the promoted piece, or WhitePawn (zero) when the move is not a promotion.
func (m Move) Promotion() Piece {
	return Piece((m >> promotionShift) & 0xF)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion() != 0
}

// IsCapture returns true if the capture flag is set (en passant included).
func (m Move) IsCapture() bool {
	return MoveFlag(m)&FlagCapture != 0
}

// IsDoublePush returns true for a two-square pawn advance.
func (m Move) IsDoublePush() bool {
	return MoveFlag(m)&FlagDoublePush != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return MoveFlag(m)&FlagEnPassant != 0
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return MoveFlag(m)&FlagCastling != 0
}

// String returns the coordinate format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Type().Char())
	}
	return s
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// String renders the list as a diagnostic table.
func (ml *MoveList) String() string {
	if ml.count == 0 {
		return "\n\tNo moves in the move list\n"
	}

	var sb strings.Builder
	sb.WriteString("\nmove   piece capture double enpassant castling\n\n")
	for _, m := range ml.Slice() {
		fmt.Fprintf(&sb, "%-6s %s     %d       %d      %d         %d\n",
			m, m.Piece(), bit(m.IsCapture()), bit(m.IsDoublePush()), bit(m.IsEnPassant()), bit(m.IsCastling()))
	}
	fmt.Fprintf(&sb, "\nNumber of moves: %d\n", ml.count)
	return sb.String()
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
