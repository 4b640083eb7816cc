package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"lukechampine.com/frand"

	"xiangqi/internal/xiangqi"
)

const numSquares = xiangqi.Rows * xiangqi.Cols

// TestCase 给前端走法生成做对照用的一条数据。
// Stage 0：哪些格子上的子能走；Stage 1：选中 From 之后能落在哪些格子。
type TestCase struct {
	FEN   string `json:"fen"`
	Side  int    `json:"side"`
	Stage int    `json:"stage"`
	From  int    `json:"from"` // row*9+col，Stage 0 时为 -1
	Mask  []int8 `json:"mask"` // 90 格，1 表示可选
}

func sq(row, col int) int {
	return row*xiangqi.Cols + col
}

func main() {
	numGames := pflag.Int("games", 10, "number of random games")
	maxMoves := pflag.Int("maxmoves", 500, "max plies per game")
	out := pflag.String("out", "move_gen_test_data.json", "output file")
	pflag.Parse()

	var testCases []TestCase
	for g := 0; g < *numGames; g++ {
		pos := xiangqi.NewInitialPosition()
		for ply := 0; ply < *maxMoves; ply++ {
			legal := pos.LegalMoves()
			if len(legal) == 0 {
				break
			}
			fen := pos.Encode()
			side := int(pos.SideToMove)

			mask0 := make([]int8, numSquares)
			for _, mv := range legal {
				mask0[sq(mv.FromRow, mv.FromCol)] = 1
			}
			testCases = append(testCases, TestCase{FEN: fen, Side: side, Stage: 0, From: -1, Mask: mask0})

			// 随机选一步
			chosen := legal[frand.Intn(len(legal))]
			mask1 := make([]int8, numSquares)
			sameFrom := lo.Filter(legal, func(mv xiangqi.Move, _ int) bool {
				return mv.FromRow == chosen.FromRow && mv.FromCol == chosen.FromCol
			})
			for _, mv := range sameFrom {
				mask1[sq(mv.ToRow, mv.ToCol)] = 1
			}
			testCases = append(testCases, TestCase{
				FEN:   fen,
				Side:  side,
				Stage: 1,
				From:  sq(chosen.FromRow, chosen.FromCol),
				Mask:  mask1,
			})

			pos.MakeMove(chosen)
			if !pos.KingExists(pos.SideToMove) {
				break
			}
		}
	}

	data, err := json.MarshalIndent(testCases, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d test cases from %d random games to %s\n", len(testCases), *numGames, *out)
}
