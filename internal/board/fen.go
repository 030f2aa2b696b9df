package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a new Position.
func ParseFEN(fen string) (*Position, error) {
	pos := &Position{}
	if err := pos.SetFEN(fen); err != nil {
		return nil, err
	}
	return pos, nil
}

// SetFEN resets the position and loads the first four FEN fields (placement, side to
// move, castling, en passant). Halfmove clock and fullmove number are ignored.
// Characters are consumed positionally; malformed content yields an unspecified
// but well-formed board rather than an error. Only a missing field is reported.
func (p *Position) SetFEN(fen string) error {
	p.Clear()

	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	parsePiecePlacement(p, parts[0])

	if parts[1] == "w" {
		p.SideToMove = White
	} else {
		p.SideToMove = Black
	}

	for i := 0; i < len(parts[2]); i++ {
		switch parts[2][i] {
		case 'K':
			p.CastlingRights |= WhiteKingSideCastle
		case 'Q':
			p.CastlingRights |= WhiteQueenSideCastle
		case 'k':
			p.CastlingRights |= BlackKingSideCastle
		case 'q':
			p.CastlingRights |= BlackQueenSideCastle
		}
	}

	if sq, err := ParseSquare(parts[3]); err == nil {
		p.EnPassant = sq
	}

	p.updateOccupied()
	return nil
}

// parsePiecePlacement walks the placement field square by square from a8.
// Rank separators carry no information in this square numbering.
func parsePiecePlacement(p *Position, placement string) {
	sq := A8
	for i := 0; i < len(placement) && sq < NoSquare; i++ {
		c := placement[i]
		switch {
		case c >= '1' && c <= '8':
			sq += Square(c - '0')
		case c == '/':
		default:
			if piece := PieceFromChar(c); piece != NoPiece {
				p.Pieces[piece.Color()][piece.Type()].SetBit(sq)
			}
			sq++
		}
	}
}

// ToFEN returns the FEN representation of the position. The move counters are
// not tracked by the board and are written as "0 1".
func (p *Position) ToFEN() string {
	var sb strings.Builder

	empty := 0
	for sq := A8; sq <= H1; sq++ {
		if piece := p.PieceAt(sq); piece == NoPiece {
			empty++
		} else {
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if sq.File() == 7 {
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			if sq != H1 {
				sb.WriteByte('/')
			}
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	sb.WriteString(" 0 1")

	return sb.String()
}
