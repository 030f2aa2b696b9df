package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a legal move to Standard Algebraic Notation.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	if m.IsCastling() {
		if m.To().File() > m.From().File() {
			return withCheckMarker(pos, m, "O-O")
		}
		return withCheckMarker(pos, m, "O-O-O")
	}

	from, to := m.From(), m.To()
	pt := m.Piece().Type()

	var sb strings.Builder
	if pt != Pawn {
		sb.WriteByte("PNBRQK"[pt])
		sb.WriteString(disambiguation(pos, m))
	}

	if m.IsCapture() {
		if pt == Pawn {
			sb.WriteByte('a' + byte(from.File()))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(to.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte("PNBRQK"[m.Promotion().Type()])
	}

	return withCheckMarker(pos, m, sb.String())
}

// withCheckMarker appends '+' or '#' when m gives check or mate.
func withCheckMarker(pos *Position, m Move, san string) string {
	next := pos.Copy()
	if !next.MakeMove(m, AllMoves) {
		return san
	}
	if next.IsCheckmate() {
		return san + "#"
	}
	if next.InCheck() {
		return san + "+"
	}
	return san
}

// disambiguation returns the origin file, rank or square needed to tell m apart
// from other legal moves of the same piece to the same square.
func disambiguation(pos *Position, m Move) string {
	from, to := m.From(), m.To()

	var others []Square
	for _, lm := range pos.LegalMoves() {
		if lm.To() == to && lm.From() != from && lm.Piece() == m.Piece() {
			others = append(others, lm.From())
		}
	}
	if len(others) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range others {
		sameFile = sameFile || sq.File() == from.File()
		sameRank = sameRank || sq.Rank() == from.Rank()
	}

	switch {
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN finds the legal move written as s in Standard Algebraic Notation.
func ParseSAN(s string, pos *Position) (Move, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		long := len(s) == 5
		for _, m := range pos.LegalMoves() {
			if m.IsCastling() && (m.To().File() < m.From().File()) == long {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("castling %q not legal in %s", s, pos.ToFEN())
	}

	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 && idx+1 < len(s) {
		promo = PieceFromChar(s[idx+1]).Type()
		s = s[:idx]
	}

	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && strings.IndexByte("NBRQK", s[0]) >= 0 {
		pt = PieceFromChar(s[0]).Type()
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("SAN move %q has no destination", s)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}

	file, rank := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		}
	}

	for _, m := range pos.LegalMoves() {
		from := m.From()
		switch {
		case m.To() != dest, m.Piece().Type() != pt, m.IsCastling():
			continue
		case file >= 0 && from.File() != file, rank >= 0 && from.Rank() != rank:
			continue
		case capture && !m.IsCapture():
			continue
		case m.IsPromotion() && m.Promotion().Type() != promo:
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("no legal move matches %q in %s", s, pos.ToFEN())
}

// MovesToSAN converts a sequence of moves played from pos to SAN.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.MakeMove(m, AllMoves)
	}

	return result
}
