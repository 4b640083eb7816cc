package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

func main() {
	fen := pflag.String("fen", "", "position to inspect (default: initial position)")
	perft := pflag.Int("perft", 2, "perft depth (0 = skip)")
	verify := pflag.Int("verify", 0, "compare alpha-beta with plain minimax at this depth")
	vcf := pflag.Int("vcf", 0, "look for a continuous-check mate within this many plies")
	pflag.Parse()

	pos := xiangqi.NewInitialPosition()
	if *fen != "" {
		var err error
		if pos, err = xiangqi.DecodePosition(*fen); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	fmt.Println(pos.Board.String())
	fmt.Println("FEN:", pos.Encode())
	fmt.Printf("Hash: %016x\n", pos.Hash)
	status, winner := pos.Status()
	fmt.Println("Status:", status, "winner:", winner, "in check:", pos.InCheck(pos.SideToMove))

	moves := pos.LegalMoves()
	fmt.Printf("Legal moves (%d):", len(moves))
	for _, m := range moves {
		fmt.Print(" ", m)
	}
	fmt.Println()

	for d := 1; d <= *perft; d++ {
		start := time.Now()
		n := xiangqi.Perft(pos, d)
		fmt.Printf("perft(%d) = %d  (%v)\n", d, n, time.Since(start))
	}

	if *vcf > 0 {
		res := engine.VCFSearch(pos, *vcf)
		fmt.Printf("vcf(%d): win=%v move=%s nodes=%d\n", *vcf, res.CanWin, res.Move, res.Nodes)
	}

	if *verify > 0 {
		start := time.Now()
		abMove, abScore := engine.NewEngine().SearchFixedDepth(pos, *verify)
		abTime := time.Since(start)
		start = time.Now()
		mmMove, mmScore := engine.Minimax(pos, *verify)
		mmTime := time.Since(start)

		fmt.Printf("alpha-beta: %s %d (%v)\n", abMove, abScore, abTime)
		fmt.Printf("minimax:    %s %d (%v)\n", mmMove, mmScore, mmTime)
		if abScore != mmScore || !abMove.SameSquares(mmMove) {
			fmt.Println("MISMATCH")
			os.Exit(1)
		}
		fmt.Println("ok")
	}
}
