package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	cacheDir   = flag.String("cache", "", "perft result cache directory (default: $"+storage.CacheDirEnv+" or the user data dir)")
	noCache    = flag.Bool("nocache", false, "do not cache perft results")
	threads    = flag.Int("threads", 0, "perft worker goroutines (0 = GOMAXPROCS)")
	debug      = flag.Bool("debug", false, "log rejected moves and position commands")
)

func main() {
	flag.Parse()
	board.DebugMoveValidation = *debug

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	var cache *storage.Store
	if !*noCache {
		var err error
		if cache, err = storage.Open(*cacheDir); err != nil {
			log.Printf("Warning: perft cache disabled: %v", err)
		} else {
			defer cache.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	protocol := uci.New(os.Stdout, cache, *threads)
	if err := protocol.Run(ctx, os.Stdin); err != nil {
		log.Printf("input: %v", err)
	}
}
