package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"xiangqi/internal/engine"
	"xiangqi/internal/logging"
	"xiangqi/internal/xiangqi"
)

func main() {
	depth := pflag.Int("depth", 3, "search depth for single selfplay game")
	maxMoves := pflag.Int("maxmoves", 200, "max plies to play per game")
	timeLimit := pflag.Duration("time", 0, "time limit per move (0 = none)")
	games := pflag.Int("games", 0, "play a match of N games between red-depth and black-depth instead")
	redDepth := pflag.Int("red-depth", 2, "match: depth of player A")
	blackDepth := pflag.Int("black-depth", 3, "match: depth of player B")
	logLevel := pflag.String("log-level", "info", "debug / info / warn / error")
	pflag.Parse()

	logging.Setup(*logLevel, "console")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *games > 0 {
		a := PlayerConfig{Name: "A", Cfg: engine.SearchConfig{MaxDepth: *redDepth, TimeLimit: *timeLimit}}
		b := PlayerConfig{Name: "B", Cfg: engine.SearchConfig{MaxDepth: *blackDepth, TimeLimit: *timeLimit}}
		runMatch(ctx, a, b, *games, *maxMoves)
		return
	}

	e := engine.NewEngine()
	pos := xiangqi.NewInitialPosition()
	cfg := engine.SearchConfig{MaxDepth: *depth, TimeLimit: *timeLimit}

	for i := 0; i < *maxMoves && ctx.Err() == nil; i++ {
		start := time.Now()
		res := e.Search(ctx, pos, cfg)
		took := time.Since(start)

		if !res.Found {
			log.Info().Stringer("loser", pos.SideToMove).Msg("game over: no moves")
			break
		}
		nps := int64(0)
		if took > 0 {
			nps = int64(float64(res.Nodes) / took.Seconds())
		}
		log.Info().
			Int("ply", i+1).
			Stringer("side", pos.SideToMove).
			Str("move", res.BestMove.String()).
			Int("score", res.Score).
			Int("depth", res.Depth).
			Int64("nodes", res.Nodes).
			Int64("nps", nps).
			Dur("took", took).
			Msg("move")

		if _, err := pos.Play(res.BestMove); err != nil {
			log.Fatal().Err(err).Str("move", res.BestMove.String()).Msg("engine produced a bad move")
		}
		if !pos.KingExists(xiangqi.Red) || !pos.KingExists(xiangqi.Black) {
			log.Info().Msg("game over: king captured")
			break
		}
	}
	log.Info().Str("fen", pos.Encode()).Msg("selfplay finished")
}
