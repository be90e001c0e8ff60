package application

import (
	"testing"

	"pgregory.net/rapid"

	"tronbot/bot/domain"
)

func TestWorld_OnGame(t *testing.T) {
	w := NewWorld()
	w.OnGame(10, 8, "3")

	width, height := w.Bounds()
	if width != 10 || height != 8 {
		t.Errorf("Bounds = %dx%d, want 10x8", width, height)
	}
	if w.SelfID() != "3" {
		t.Errorf("SelfID = %q, want 3", w.SelfID())
	}
	if w.Self() != nil {
		t.Error("self exists before any pos")
	}
	if w.Current().Count() != 0 || w.Predicted().Count() != 0 {
		t.Error("grids not empty after game")
	}
}

func TestWorld_OnGameResetsPreviousMatch(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")
	w.OnPos("1", domain.Coord{X: 1, Y: 1})
	w.OnPos("2", domain.Coord{X: 3, Y: 3})

	w.OnGame(6, 4, "9")
	if w.Alive() != 0 {
		t.Errorf("Alive = %d, want 0", w.Alive())
	}
	if w.Current().Count() != 0 || w.Predicted().Count() != 0 {
		t.Error("previous match cells survived")
	}
	if w.Current().Width() != 6 || w.Current().Height() != 4 {
		t.Errorf("grid size = %dx%d, want 6x4", w.Current().Width(), w.Current().Height())
	}
}

func TestWorld_OnPosFirstSighting(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")

	if !w.OnPos("2", domain.Coord{X: 2, Y: 2}) {
		t.Fatal("OnPos in bounds returned false")
	}
	p, ok := w.Player("2")
	if !ok {
		t.Fatal("player not created")
	}
	if p.Direction != domain.DirUnknown {
		t.Errorf("Direction = %s, want unknown", p.Direction)
	}
	if !w.Occupied(GridCurrent, domain.Coord{X: 2, Y: 2}) {
		t.Error("position not marked in current grid")
	}
	if _, ok := p.Prediction(); ok {
		t.Error("prediction made without a known direction")
	}
	if w.Predicted().Count() != 1 {
		t.Errorf("predicted Count = %d, want 1", w.Predicted().Count())
	}
}

func TestWorld_OnPosInfersDirectionAndPredicts(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")
	w.OnPos("2", domain.Coord{X: 2, Y: 2})
	w.OnPos("2", domain.Coord{X: 2, Y: 1})

	p, _ := w.Player("2")
	if p.Direction != domain.DirUp {
		t.Errorf("Direction = %s, want up", p.Direction)
	}
	if p.PrevPosition != (domain.Coord{X: 2, Y: 2}) {
		t.Errorf("PrevPosition = %s", p.PrevPosition)
	}
	next := domain.Coord{X: 2, Y: 0}
	if got, ok := p.Prediction(); !ok || got != next {
		t.Errorf("Prediction = (%s, %v), want (%s, true)", got, ok, next)
	}
	if !w.Occupied(GridPredicted, next) {
		t.Error("predicted cell not marked")
	}
	if w.Occupied(GridCurrent, next) {
		t.Error("predicted cell leaked into current grid")
	}

	// 曲がると古い予測は取り消される
	w.OnPos("2", domain.Coord{X: 3, Y: 1})
	if w.Occupied(GridPredicted, next) {
		t.Error("stale prediction was not dropped")
	}
	if !w.Occupied(GridPredicted, domain.Coord{X: 4, Y: 1}) {
		t.Error("new prediction not marked")
	}
}

func TestWorld_PredictionClippedAtEdge(t *testing.T) {
	w := NewWorld()
	w.OnGame(3, 3, "1")
	w.OnPos("2", domain.Coord{X: 1, Y: 0})
	w.OnPos("2", domain.Coord{X: 2, Y: 0})

	p, _ := w.Player("2")
	if _, ok := p.Prediction(); ok {
		t.Error("prediction outside the grid was written")
	}
	if w.Predicted().Count() != 2 {
		t.Errorf("predicted Count = %d, want 2", w.Predicted().Count())
	}
}

func TestWorld_OnPosOutOfBounds(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")
	if w.OnPos("2", domain.Coord{X: 5, Y: 0}) {
		t.Error("OnPos out of bounds returned true")
	}
	if _, ok := w.Player("2"); ok {
		t.Error("player created from out of bounds position")
	}

	before := NewWorld()
	if before.OnPos("2", domain.Coord{}) {
		t.Error("OnPos before game accepted a position")
	}
}

func TestWorld_OnDie(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")
	w.OnPos("2", domain.Coord{X: 0, Y: 0})
	w.OnPos("2", domain.Coord{X: 1, Y: 0})
	w.OnPos("3", domain.Coord{X: 4, Y: 4})

	marker := w.players["2"].Marker
	if n := w.OnDie("2"); n != 2 {
		t.Errorf("OnDie cleared %d cells, want 2", n)
	}
	if w.Current().CountOwner(marker) != 0 || w.Predicted().CountOwner(marker) != 0 {
		t.Error("cells of dead player remain")
	}
	if _, ok := w.Player("2"); ok {
		t.Error("dead player still in roster")
	}
	if !w.Occupied(GridCurrent, domain.Coord{X: 4, Y: 4}) {
		t.Error("other player's cell cleared")
	}
}

func TestWorld_OnDieUnknownPlayer(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")
	w.OnPos("2", domain.Coord{X: 1, Y: 1})
	current, predicted := w.Current().Count(), w.Predicted().Count()

	if n := w.OnDie("7"); n != 0 {
		t.Errorf("OnDie(unknown) cleared %d cells", n)
	}
	if w.Current().Count() != current || w.Predicted().Count() != predicted {
		t.Error("grids changed by die of unknown player")
	}
}

func TestWorld_BlockedIgnoresOwnPrediction(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")
	w.OnPos("1", domain.Coord{X: 2, Y: 2})
	w.OnPos("1", domain.Coord{X: 3, Y: 2})
	w.OnPos("2", domain.Coord{X: 1, Y: 4})
	w.OnPos("2", domain.Coord{X: 1, Y: 3})

	if w.Blocked(domain.Coord{X: 4, Y: 2}) {
		t.Error("own prediction blocks the bot")
	}
	if !w.Blocked(domain.Coord{X: 1, Y: 2}) {
		t.Error("other player's prediction is not blocking")
	}
	if !w.Blocked(domain.Coord{X: 2, Y: 2}) {
		t.Error("own trail is not blocking")
	}
	if !w.Blocked(domain.Coord{X: 5, Y: 2}) {
		t.Error("outside of the grid is not blocking")
	}
}

func TestWorld_RecordMove(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")
	w.OnPos("1", domain.Coord{X: 2, Y: 2})
	w.RecordMove(domain.DirDown)

	self := w.Self()
	if self.Direction != domain.DirDown || self.LastMove != domain.DirDown {
		t.Errorf("Direction/LastMove = %s/%s, want down/down", self.Direction, self.LastMove)
	}
	if got, ok := self.Prediction(); !ok || got != (domain.Coord{X: 2, Y: 3}) {
		t.Errorf("Prediction = (%s, %v)", got, ok)
	}
}

// 2人が同じセルを予測したとき、片方が曲がっても、もう片方の予測が残ることを確認
func TestWorld_SharedPredictionSurvivesTurn(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")
	w.OnPos("2", domain.Coord{X: 0, Y: 2})
	w.OnPos("2", domain.Coord{X: 1, Y: 2})
	w.OnPos("3", domain.Coord{X: 2, Y: 0})
	w.OnPos("3", domain.Coord{X: 2, Y: 1})

	shared := domain.Coord{X: 2, Y: 2}
	a, _ := w.Player("2")
	if got, ok := a.Prediction(); !ok || got != shared {
		t.Fatalf("Prediction of 2 = (%s, %v), want (%s, true)", got, ok, shared)
	}

	w.OnPos("3", domain.Coord{X: 3, Y: 1})
	if owner, _ := w.Predicted().Owner(shared); owner != a.Marker {
		t.Errorf("shared cell owner = %d, want %d", owner, a.Marker)
	}
	if !w.Blocked(shared) {
		t.Error("cell still predicted by player 2 is not blocking")
	}
}

func TestWorld_SharedPredictionSurvivesDie(t *testing.T) {
	w := NewWorld()
	w.OnGame(5, 5, "1")
	w.OnPos("2", domain.Coord{X: 0, Y: 2})
	w.OnPos("2", domain.Coord{X: 1, Y: 2})
	w.OnPos("3", domain.Coord{X: 2, Y: 0})
	w.OnPos("3", domain.Coord{X: 2, Y: 1})

	w.OnDie("3")
	a, _ := w.Player("2")
	if owner, _ := w.Predicted().Owner(domain.Coord{X: 2, Y: 2}); owner != a.Marker {
		t.Errorf("shared cell owner = %d, want %d", owner, a.Marker)
	}
}

// World を単純なモデルと比較し、軌跡の整合性と脱落時の消去を確認します。
func TestWorld_ConsistencyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, 8).Draw(t, "width")
		height := rapid.IntRange(1, 8).Draw(t, "height")
		ids := []string{"1", "2", "3", "4"}

		w := NewWorld()
		w.OnGame(width, height, "1")
		model := make(map[domain.Coord]string)

		steps := rapid.IntRange(0, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(ids).Draw(t, "id")
			if rapid.IntRange(0, 4).Draw(t, "op") == 0 {
				w.OnDie(id)
				for c, owner := range model {
					if owner == id {
						delete(model, c)
					}
				}
				continue
			}
			c := domain.Coord{
				X: rapid.IntRange(-1, width).Draw(t, "x"),
				Y: rapid.IntRange(-1, height).Draw(t, "y"),
			}
			if w.OnPos(id, c) {
				model[c] = id
			}
		}

		if got := w.Current().Count(); got != len(model) {
			t.Fatalf("current Count = %d, want %d", got, len(model))
		}
		for c, id := range model {
			p, ok := w.Player(id)
			if !ok {
				t.Fatalf("cell %s owned by dead player %s", c, id)
			}
			if owner, _ := w.Current().Owner(c); owner != p.Marker {
				t.Fatalf("cell %s owner = %d, want %d", c, owner, p.Marker)
			}
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := domain.Coord{X: x, Y: y}
				cur, _ := w.Current().Owner(c)
				pred, _ := w.Predicted().Owner(c)
				if cur != Empty && !ownedByAlive(w, cur) {
					t.Fatalf("current cell %s owned by dead marker %d", c, cur)
				}
				if pred != Empty && !ownedByAlive(w, pred) {
					t.Fatalf("predicted cell %s owned by dead marker %d", c, pred)
				}
			}
		}
		for _, p := range w.players {
			if c, ok := p.Prediction(); ok && !w.Occupied(GridPredicted, c) {
				t.Fatalf("prediction %s of player %s is not marked", c, p.ID)
			}
		}
	})
}

func ownedByAlive(w *World, m Marker) bool {
	for _, p := range w.players {
		if p.Marker == m {
			return true
		}
	}
	return false
}
