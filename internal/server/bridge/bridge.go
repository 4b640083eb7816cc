package main

/*
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"time"
	"unsafe"

	"github.com/rs/zerolog/log"

	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

// C 接口：局面一律用 FEN 传，着法用 ICCS（如 "h2e2"）。
// 编译：go build -buildmode=c-shared -o libxiangqi.so ./internal/server/bridge

const (
	numSquares   = xiangqi.Rows * xiangqi.Cols
	winnerNone   = 3
	winnerBadFEN = -1
	slowCall     = 100 * time.Millisecond
)

func decode(fen *C.char) (*xiangqi.Position, bool) {
	pos, err := xiangqi.DecodePosition(C.GoString(fen))
	if err != nil {
		log.Debug().Err(err).Msg("bridge: bad fen")
		return nil, false
	}
	return pos, true
}

//export XqIsLegal
func XqIsLegal(fen *C.char, move *C.char) C.bool {
	pos, ok := decode(fen)
	if !ok {
		return C.bool(false)
	}
	mv, err := xiangqi.ParseMove(C.GoString(move))
	if err != nil {
		return C.bool(false)
	}
	return C.bool(pos.IsLegal(mv))
}

// XqLegalMask 写 90 格的掩码（row*9+col）。stage 0：能走的子；stage 1：from 上的子能去的格。
// 返回置 1 的格数，FEN 不合法返回 -1。
//
//export XqLegalMask
func XqLegalMask(fen *C.char, stage C.int, from C.int, maskOut *C.int8_t) C.int {
	start := time.Now()
	mask := unsafe.Slice((*int8)(unsafe.Pointer(maskOut)), numSquares)
	for i := range mask {
		mask[i] = 0
	}
	pos, ok := decode(fen)
	if !ok {
		return -1
	}

	count := 0
	set := func(sq int) {
		if mask[sq] == 0 {
			mask[sq] = 1
			count++
		}
	}
	for _, mv := range pos.LegalMoves() {
		fromSq := mv.FromRow*xiangqi.Cols + mv.FromCol
		if stage == 0 {
			set(fromSq)
		} else if fromSq == int(from) {
			set(mv.ToRow*xiangqi.Cols + mv.ToCol)
		}
	}

	if elapsed := time.Since(start); elapsed > slowCall {
		log.Warn().Int("stage", int(stage)).Int("count", count).Dur("took", elapsed).Msg("bridge: slow call")
	}
	return C.int(count)
}

// XqCheckWinner 0 红胜，1 黑胜，3 未分胜负，-1 FEN 不合法。
//
//export XqCheckWinner
func XqCheckWinner(fen *C.char) C.int8_t {
	pos, ok := decode(fen)
	if !ok {
		return winnerBadFEN
	}
	status, winner := pos.Status()
	if status == xiangqi.StatusOngoing {
		return winnerNone
	}
	return C.int8_t(winner)
}

// XqBestMove 返回 ICCS 着法，无棋可走返回 "none"。返回值要用 XqFree 释放。
//
//export XqBestMove
func XqBestMove(fen *C.char, depth C.int, timeMs C.int) *C.char {
	pos, ok := decode(fen)
	if !ok {
		return C.CString("none")
	}
	res := engine.NewEngine().Search(context.Background(), pos, engine.SearchConfig{
		MaxDepth:  int(depth),
		TimeLimit: time.Duration(timeMs) * time.Millisecond,
	})
	return C.CString(res.BestMove.String())
}

//export XqFree
func XqFree(p *C.char) {
	C.free(unsafe.Pointer(p))
}

func main() {}
