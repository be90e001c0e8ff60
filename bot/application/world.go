package application

import "tronbot/bot/domain"

// GridKind は World が持つ2つのグリッドを区別します。
type GridKind uint8

const (
	// GridCurrent は報告済みの位置（軌跡）のみを持つグリッドです。
	GridCurrent GridKind = iota
	// GridPredicted は軌跡に加えて各プレイヤーの1手先の予測セルを持つグリッドです。
	GridPredicted
)

// World はマッチ1回分のマップとプレイヤーを管理する構造体です。
// 1つのセッションだけが読み書きするためロックは持ちません。
type World struct {
	width  int
	height int
	selfID string

	current   *Grid
	predicted *Grid

	players    map[string]*Player
	nextMarker Marker
}

func NewWorld() *World {
	return &World{
		current:   NewGrid(0, 0),
		predicted: NewGrid(0, 0),
		players:   make(map[string]*Player),
	}
}

// OnGame は新しいマッチを開始します。前のマッチの状態はすべて破棄されます。
func (w *World) OnGame(width, height int, selfID string) {
	w.width = width
	w.height = height
	w.selfID = selfID
	w.current = NewGrid(width, height)
	w.predicted = NewGrid(width, height)
	w.players = make(map[string]*Player)
	w.nextMarker = Empty
}

// OnPos はプレイヤーの位置を反映します。範囲外の座標は無視して false を返します。
func (w *World) OnPos(id string, pos domain.Coord) bool {
	if !w.current.InBounds(pos) {
		return false
	}
	p, ok := w.players[id]
	if !ok {
		w.nextMarker++
		p = newPlayer(id, w.nextMarker, pos)
		w.players[id] = p
	} else {
		p.moveTo(pos)
	}
	w.current.Set(pos, p.Marker)
	w.predicted.Set(pos, p.Marker)
	w.predict(p)
	return true
}

// OnDie は各プレイヤーの全セルを両方のグリッドから消去します。未知のIDは無視します。
// 消去したセル数を返します。
func (w *World) OnDie(ids ...string) int {
	cleared := 0
	for _, id := range ids {
		p, ok := w.players[id]
		if !ok {
			continue
		}
		cleared += w.current.ClearOwner(p.Marker)
		w.predicted.ClearOwner(p.Marker)
		delete(w.players, id)
		w.restorePredictions()
	}
	return cleared
}

// RecordMove は自分が選んだ方向を記録し、予測セルを更新します。
func (w *World) RecordMove(dir domain.Direction) {
	self := w.Self()
	if self == nil {
		return
	}
	self.LastMove = dir
	self.PrevDirection = self.Direction
	self.Direction = dir
	w.predict(self)
}

// predict は p の前回の予測を取り消し、既知の方向の1マス先を予測グリッドに書き込みます。
// 範囲外と軌跡のあるセルには書き込みません。
// 取り消したセルを他のプレイヤーも予測していれば、そのプレイヤーの予測として残します。
func (w *World) predict(p *Player) {
	if p.hasPrediction {
		owner, _ := w.predicted.Owner(p.prediction)
		cur, _ := w.current.Owner(p.prediction)
		if owner == p.Marker && cur == Empty {
			w.predicted.Set(p.prediction, w.predictorOf(p.prediction, p))
		}
		p.hasPrediction = false
	}
	if !p.Direction.Known() {
		return
	}
	next := p.Direction.Step(p.Position)
	owner, ok := w.predicted.Owner(next)
	if !ok {
		return
	}
	if owner != Empty {
		// 他人の予測セルは上書きできるが、軌跡と、自分による上書きは不可
		cur, _ := w.current.Owner(next)
		if cur != Empty || p.ID == w.selfID {
			return
		}
	}
	w.predicted.Set(next, p.Marker)
	p.prediction = next
	p.hasPrediction = true
}

// predictorOf は except 以外で c を予測しているプレイヤーのマーカーを返します。
// 自分以外を優先し、誰もいなければ Empty です。
func (w *World) predictorOf(c domain.Coord, except *Player) Marker {
	marker := Empty
	for _, q := range w.players {
		if q == except || !q.hasPrediction || q.prediction != c {
			continue
		}
		if q.ID != w.selfID {
			return q.Marker
		}
		marker = q.Marker
	}
	return marker
}

// restorePredictions は生存プレイヤーの予測セルが空になっていれば書き戻します。
func (w *World) restorePredictions() {
	for _, q := range w.players {
		if !q.hasPrediction {
			continue
		}
		if owner, _ := w.predicted.Owner(q.prediction); owner == Empty {
			w.predicted.Set(q.prediction, w.predictorOf(q.prediction, nil))
		}
	}
}

// Occupied は指定したグリッドのセルが埋まっているかを返します。範囲外は埋まっている扱いです。
func (w *World) Occupied(kind GridKind, c domain.Coord) bool {
	if kind == GridPredicted {
		return w.predicted.Occupied(c)
	}
	return w.current.Occupied(c)
}

// Blocked は自分がそのセルへ進むと衝突しうるかを返します。
// 軌跡（自分のものを含む）と、自分以外のプレイヤーの予測セルを障害物とみなします。
func (w *World) Blocked(c domain.Coord) bool {
	if w.current.Occupied(c) {
		return true
	}
	owner, _ := w.predicted.Owner(c)
	if owner == Empty {
		return false
	}
	self := w.Self()
	return self == nil || owner != self.Marker
}

func (w *World) Bounds() (width, height int) {
	return w.width, w.height
}

func (w *World) SelfID() string {
	return w.selfID
}

// Self は自分のプレイヤーを返します。まだ位置が報告されていなければ nil です。
func (w *World) Self() *Player {
	if w.selfID == "" {
		return nil
	}
	return w.players[w.selfID]
}

func (w *World) SelfPosition() (domain.Coord, bool) {
	self := w.Self()
	if self == nil {
		return domain.Coord{}, false
	}
	return self.Position, true
}

func (w *World) SelfDirection() domain.Direction {
	self := w.Self()
	if self == nil {
		return domain.DirUnknown
	}
	return self.Direction
}

func (w *World) Player(id string) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// Alive は生存中（位置報告済みかつ未脱落）のプレイヤー数を返します。
func (w *World) Alive() int {
	return len(w.players)
}

func (w *World) Current() *Grid   { return w.current }
func (w *World) Predicted() *Grid { return w.predicted }
