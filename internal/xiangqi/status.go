package xiangqi

type Status string

const (
	StatusOngoing      Status = "ongoing"
	StatusNoMoves      Status = "no_moves"      // 走子方无棋可走，判负
	StatusKingCaptured Status = "king_captured" // 走子方的王已经被吃
)

// Status 从走子方的角度给出对局状态，以及（若已结束）胜方。
func (p *Position) Status() (Status, Side) {
	stm := p.SideToMove
	if !p.KingExists(stm) {
		return StatusKingCaptured, stm.Opponent()
	}
	if len(p.GenerateLegalMoves(stm)) == 0 {
		return StatusNoMoves, stm.Opponent()
	}
	return StatusOngoing, NoSide
}
