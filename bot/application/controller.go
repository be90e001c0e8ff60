package application

import (
	"math/rand/v2"

	"tronbot/bot/domain"
)

// RuleBotController は1手先だけを読む貪欲なボットAIです。
// 現在の進行方向を維持し、塞がっていれば左右に曲がります。反転は自分の軌跡に衝突するため選びません。
type RuleBotController struct {
	// Default は自分の方向がまだ分からないときに進む方向です。
	Default domain.Direction

	// rand が nil の場合は常に時計回りを先に試します。
	rand *rand.Rand
}

var _ BotController = (*RuleBotController)(nil)

// NewRuleBotController はボットAIを生成します。
// jitter が true の場合、左右どちらにも曲がれるときの選択をランダムにします。
func NewRuleBotController(def domain.Direction, jitter bool) *RuleBotController {
	if !def.Known() {
		def = domain.DirLeft
	}
	r := &RuleBotController{Default: def}
	if jitter {
		r.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

func (r *RuleBotController) Decide(w *World) domain.Direction {
	dir := r.choose(w)
	w.RecordMove(dir)
	return dir
}

func (r *RuleBotController) choose(w *World) domain.Direction {
	self := w.Self()
	if self == nil {
		return r.Default
	}

	base := self.Direction
	if !base.Known() {
		base = r.Default
	}

	var safe []domain.Direction
	last := domain.DirUnknown
	for _, d := range candidates(self.Direction, base) {
		if reverses(self, d) {
			continue
		}
		last = d
		if !w.Blocked(d.Step(self.Position)) {
			safe = append(safe, d)
		}
	}

	switch {
	case len(safe) == 0 && last.Known():
		// 合法手なし: 最後の候補をそのまま出す
		return last
	case len(safe) == 0:
		return r.Default
	case safe[0] == base || r.rand == nil:
		return safe[0]
	}

	var turns []domain.Direction
	for _, d := range safe {
		if d == base.Clockwise() || d == base.CounterClockwise() {
			turns = append(turns, d)
		}
	}
	if len(turns) == 0 {
		return safe[0]
	}
	return turns[r.rand.IntN(len(turns))]
}

// candidates は試す順の方向一覧です。方向が未知の場合のみ base の反対方向も含めます。
func candidates(heading, base domain.Direction) []domain.Direction {
	list := []domain.Direction{base, base.Clockwise(), base.CounterClockwise()}
	if !heading.Known() {
		list = append(list, base.Opposite())
	}
	return list
}

// reverses は d が直前の進行方向または直前に送信した方向の反転かを返します。
func reverses(self *Player, d domain.Direction) bool {
	if self.Direction.Known() && d == self.Direction.Opposite() {
		return true
	}
	return self.LastMove.Known() && d == self.LastMove.Opposite()
}
