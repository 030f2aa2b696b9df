package perft

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func mustParse(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return pos
}

func TestPerftCounts(t *testing.T) {
	tests := []struct {
		fen   string
		depth int
		nodes uint64
	}{
		{board.StartFEN, 0, 1},
		{board.StartFEN, 3, 8902},
		{kiwipete, 2, 2039},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
	}

	for _, tc := range tests {
		pos := mustParse(t, tc.fen)
		if got := Perft(pos, tc.depth); got != tc.nodes {
			t.Errorf("Perft(%s, %d) = %d, want %d", tc.fen, tc.depth, got, tc.nodes)
		}
		if pos.ToFEN() != mustParse(t, tc.fen).ToFEN() {
			t.Errorf("%s: position not restored", tc.fen)
		}
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	pos := mustParse(t, kiwipete)
	div := Divide(pos, 2)
	if len(div) != 48 {
		t.Fatalf("got %d root moves, want 48", len(div))
	}

	var sum uint64
	for i, rc := range div {
		sum += rc.Nodes
		if i > 0 && div[i-1].Move.String() >= rc.Move.String() {
			t.Errorf("divide not sorted at %v", rc.Move)
		}
	}
	if sum != 2039 {
		t.Errorf("divide sums to %d, want 2039", sum)
	}
}

func TestRunMatchesSerial(t *testing.T) {
	for _, fen := range []string{board.StartFEN, kiwipete} {
		pos := mustParse(t, fen)
		depth := 3
		if testing.Short() {
			depth = 2
		}

		res, err := Run(context.Background(), pos, depth, 4, nil)
		if err != nil {
			t.Fatal(err)
		}
		if want := Perft(pos, depth); res.Nodes != want {
			t.Errorf("%s: parallel %d, serial %d", fen, res.Nodes, want)
		}
		if diff := cmp.Diff(Divide(pos, depth), res.Divide); diff != "" {
			t.Errorf("%s: divide differs (-serial +parallel):\n%s", fen, diff)
		}
		if res.FEN != pos.ToFEN() || res.Depth != depth {
			t.Errorf("result header = %q %d", res.FEN, res.Depth)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, board.NewPosition(), 3, 1, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRunDepthZero(t *testing.T) {
	res, err := Run(context.Background(), board.NewPosition(), 0, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Nodes != 1 || res.Divide != nil {
		t.Errorf("depth 0 result = %+v", res)
	}
}

func TestRunWithTable(t *testing.T) {
	table := NewTable(4)
	tests := []struct {
		fen   string
		depth int
		nodes uint64
	}{
		{board.StartFEN, 4, 197281},
		{kiwipete, 3, 97862},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
	}

	for _, tc := range tests {
		pos := mustParse(t, tc.fen)
		for pass := 0; pass < 2; pass++ {
			res, err := Run(context.Background(), pos, tc.depth, 3, table)
			if err != nil {
				t.Fatal(err)
			}
			if res.Nodes != tc.nodes {
				t.Errorf("%s pass %d: %d nodes, want %d", tc.fen, pass, res.Nodes, tc.nodes)
			}
		}
	}
	if table.HitRate() == 0 {
		t.Error("table never hit")
	}

	table.Clear()
	if table.HitRate() != 0 {
		t.Error("Clear kept statistics")
	}
}

func TestTableReplacement(t *testing.T) {
	table := NewTable(1)
	table.Store(42, 3, 1000)
	if n, ok := table.Probe(42, 3); !ok || n != 1000 {
		t.Fatalf("Probe = %d, %v", n, ok)
	}
	if _, ok := table.Probe(42, 2); ok {
		t.Error("depth mismatch reported as a hit")
	}

	// Same slot, shallower, other position: keep the deeper entry.
	other := 42 + table.mask + 1
	table.Store(other, 2, 5)
	if _, ok := table.Probe(42, 3); !ok {
		t.Error("deeper entry replaced")
	}
	table.Store(other, 4, 7)
	if n, ok := table.Probe(other, 4); !ok || n != 7 {
		t.Error("deeper entry not stored")
	}
}
