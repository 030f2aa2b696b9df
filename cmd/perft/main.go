package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	fen      = flag.String("fen", board.StartFEN, "position to count from")
	moves    = flag.String("moves", "", "space separated moves to play first, e.g. \"e2e4 e7e5\"")
	depth    = flag.Int("depth", 4, "perft depth")
	divide   = flag.Bool("divide", false, "print the count below every root move")
	threads  = flag.Int("threads", 0, "worker goroutines (0 = GOMAXPROCS)")
	hashMB   = flag.Int("hash", 64, "subtree table size in MB (0 disables)")
	cacheDir = flag.String("cache", "", "result cache directory (default: $"+storage.CacheDirEnv+" or the user data dir)")
	noCache  = flag.Bool("nocache", false, "always walk the tree")
	verbose  = flag.Bool("v", false, "print the position before counting")
)

func main() {
	flag.Parse()

	g := game.New()
	args := append([]string{"fen"}, strings.Fields(*fen)...)
	if *moves != "" {
		args = append(args, "moves")
		args = append(args, strings.Fields(*moves)...)
	}
	if err := g.SetPosition(args); err != nil {
		log.Fatal(err)
	}
	if *verbose {
		fmt.Println(g.Pos.String())
	}

	var cache *storage.Store
	if !*noCache {
		var err error
		if cache, err = storage.Open(*cacheDir); err != nil {
			log.Printf("Warning: result cache disabled: %v", err)
		} else {
			defer cache.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var table *perft.Table
	if *hashMB > 0 {
		table = perft.NewTable(*hashMB)
	}

	res, elapsed, cached, err := uci.Perft(ctx, cache, table, g.Pos, *depth, *threads)
	if err != nil {
		log.Fatal(err)
	}

	if *divide {
		for _, rc := range res.Divide {
			fmt.Printf("%s: %s\n", rc.Move, humanize.Comma(int64(rc.Nodes)))
		}
		fmt.Println()
	}

	fmt.Printf("depth %d: %s nodes", res.Depth, humanize.Comma(int64(res.Nodes)))
	if cached {
		fmt.Printf(" (cached, computed in %v)\n", elapsed.Round(time.Millisecond))
		return
	}
	fmt.Printf(" in %v", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Printf(", %s", humanize.SIWithDigits(float64(res.Nodes)/elapsed.Seconds(), 2, "nps"))
	}
	fmt.Println()
}
