package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

type PlayerConfig struct {
	Name string
	Cfg  engine.SearchConfig
}

// runMatch 两个配置轮流执红，打印总比分。
func runMatch(ctx context.Context, a, b PlayerConfig, games, maxMoves int) {
	wins := map[string]int{}
	draws := 0

	for g := 0; g < games && ctx.Err() == nil; g++ {
		red, black := a, b
		if g%2 == 1 {
			red, black = b, a
		}
		winner := playGame(ctx, red, black, maxMoves)
		switch winner {
		case xiangqi.Red:
			wins[red.Name]++
		case xiangqi.Black:
			wins[black.Name]++
		default:
			draws++
		}
		log.Info().
			Int("game", g+1).
			Str("red", red.Name).
			Str("black", black.Name).
			Stringer("winner", winner).
			Msg("game finished")
	}

	fmt.Printf("\n=== Final Score ===\n")
	fmt.Printf("%s (depth %d): %d\n", a.Name, a.Cfg.MaxDepth, wins[a.Name])
	fmt.Printf("%s (depth %d): %d\n", b.Name, b.Cfg.MaxDepth, wins[b.Name])
	fmt.Printf("Draws: %d\n", draws)
}

// playGame 返回胜方；走满 maxMoves 或中断算和（NoSide）。
func playGame(ctx context.Context, red, black PlayerConfig, maxMoves int) xiangqi.Side {
	pos := xiangqi.NewInitialPosition()
	engines := map[xiangqi.Side]*engine.Engine{
		xiangqi.Red:   engine.NewEngine(),
		xiangqi.Black: engine.NewEngine(),
	}
	cfgs := map[xiangqi.Side]engine.SearchConfig{
		xiangqi.Red:   red.Cfg,
		xiangqi.Black: black.Cfg,
	}

	for i := 0; i < maxMoves && ctx.Err() == nil; i++ {
		stm := pos.SideToMove
		res := engines[stm].Search(ctx, pos, cfgs[stm])
		if !res.Found {
			// 无子可动，当前方输
			return stm.Opponent()
		}
		if _, err := pos.Play(res.BestMove); err != nil {
			log.Error().Err(err).Str("move", res.BestMove.String()).Msg("invalid move")
			return xiangqi.NoSide
		}
		if status, winner := pos.Status(); status != xiangqi.StatusOngoing {
			return winner
		}
	}
	return xiangqi.NoSide
}
