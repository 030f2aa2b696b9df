package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSANRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		pos := mustParse(t, fen)
		for _, m := range pos.LegalMoves() {
			san := m.ToSAN(pos)
			got, err := ParseSAN(san, pos)
			if err != nil {
				t.Errorf("%s: ParseSAN(%q): %v", fen, san, err)
				continue
			}
			if got != m {
				t.Errorf("%s: %q parsed as %v, want %v", fen, san, got, m)
			}
		}
	}
}

func TestMovesToSAN(t *testing.T) {
	pos := NewPosition()
	var moves []Move
	for _, uci := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m := findMove(t, pos, uci)
		moves = append(moves, m)
		pos.MakeMove(m, AllMoves)
	}

	got := MovesToSAN(NewPosition(), moves)
	want := []string{"f3", "e5", "g4", "Qh4#"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SAN (-want +got):\n%s", diff)
	}
}

func TestSANSpecialMoves(t *testing.T) {
	tests := []struct {
		fen, uci, san string
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"r3k3/1P6/8/8/8/8/8/4K3 w q - 0 1", "b7a8q", "bxa8=Q+"},
		{"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", "exd6"},
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "a1d1", "Rad1"},
		{"4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
	}

	for _, tc := range tests {
		pos := mustParse(t, tc.fen)
		if got := findMove(t, pos, tc.uci).ToSAN(pos); got != tc.san {
			t.Errorf("%s %s: got %q, want %q", tc.fen, tc.uci, got, tc.san)
		}
	}
}
