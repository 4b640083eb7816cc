package xiangqi

import (
	"fmt"
	"strings"
	"unicode"
)

var letterToKind = map[rune]Kind{
	'k': King,
	'a': Advisor,
	'b': Elephant,
	'e': Elephant, // 有的界面用 e
	'n': Horse,
	'h': Horse,
	'r': Rook,
	'c': Cannon,
	'p': Pawn,
}

var kindToLetter = [numKinds]rune{0, 'k', 'a', 'b', 'n', 'r', 'c', 'p'}

func charToPiece(ch rune) (Side, Kind, bool) {
	kind, ok := letterToKind[unicode.ToLower(ch)]
	if !ok {
		return NoSide, KindNone, false
	}
	if unicode.IsUpper(ch) {
		return Red, kind, true
	}
	return Black, kind, true
}

func pieceToChar(p *Piece) rune {
	if p == nil || p.Kind <= KindNone || int(p.Kind) >= numKinds {
		return '.'
	}
	ch := kindToLetter[p.Kind]
	if p.Side == Red {
		return unicode.ToUpper(ch)
	}
	return ch
}

// Encode 输出标准象棋 FEN：第 0 行（黑方底线）在前，空位用数字压缩，后跟 w/b。
func (p *Position) Encode() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Cols; c++ {
			pc := p.Board.cells[r][c]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteRune(pieceToChar(pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	if p.SideToMove == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}
	return sb.String()
}

// DecodePosition 解析 FEN。每方最多一个王；走子方缺省为红。
func DecodePosition(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return nil, ErrInvalidFEN
	}
	rows := strings.Split(parts[0], "/")
	if len(rows) != Rows {
		return nil, fmt.Errorf("%w: want %d ranks, got %d", ErrInvalidFEN, Rows, len(rows))
	}
	pos := &Position{SideToMove: Red}
	kings := [2]int{}
	for r, row := range rows {
		c := 0
		for _, ch := range row {
			if c >= Cols {
				return nil, fmt.Errorf("%w: rank %d too long", ErrInvalidFEN, r)
			}
			if ch >= '1' && ch <= '9' {
				c += int(ch - '0')
				continue
			}
			side, kind, ok := charToPiece(ch)
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if kind == King {
				kings[side]++
				if kings[side] > 1 {
					return nil, fmt.Errorf("%w: more than one %s king", ErrInvalidFEN, side)
				}
			}
			pos.Board.cells[r][c] = NewPiece(side, kind, r, c)
			c++
		}
		if c != Cols {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, r, c)
		}
	}
	if len(parts) > 1 {
		switch parts[1] {
		case "w", "r":
			pos.SideToMove = Red
		case "b":
			pos.SideToMove = Black
		default:
			return nil, fmt.Errorf("%w: side %q", ErrInvalidFEN, parts[1])
		}
	}
	pos.Hash = pos.CalculateHash()
	return pos, nil
}
