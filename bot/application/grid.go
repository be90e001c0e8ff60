package application

import "tronbot/bot/domain"

// Marker はセルの所有者を表します。0 は空きセルです。
type Marker uint32

const Empty Marker = 0

// Grid は width×height のセル所有者マップです。
type Grid struct {
	width  int
	height int
	cells  []Marker
}

// NewGrid は全セルが空のグリッドを生成します。
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Marker, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) InBounds(c domain.Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// Owner はセルの所有者を返します。範囲外の場合は false を返します。
func (g *Grid) Owner(c domain.Coord) (Marker, bool) {
	if !g.InBounds(c) {
		return Empty, false
	}
	return g.cells[g.index(c)], true
}

// Occupied はセルが埋まっているかを返します。範囲外は壁として埋まっている扱いです。
func (g *Grid) Occupied(c domain.Coord) bool {
	owner, ok := g.Owner(c)
	return !ok || owner != Empty
}

// Set はセルに所有者を書き込みます。範囲外への書き込みは拒否して false を返します。
func (g *Grid) Set(c domain.Coord, owner Marker) bool {
	if !g.InBounds(c) {
		return false
	}
	g.cells[g.index(c)] = owner
	return true
}

// ClearOwner は owner が所有する全セルを空にし、空にしたセル数を返します。
func (g *Grid) ClearOwner(owner Marker) int {
	if owner == Empty {
		return 0
	}
	n := 0
	for i, m := range g.cells {
		if m == owner {
			g.cells[i] = Empty
			n++
		}
	}
	return n
}

// Count は空でないセル数を返します。
func (g *Grid) Count() int {
	n := 0
	for _, m := range g.cells {
		if m != Empty {
			n++
		}
	}
	return n
}

// CountOwner は owner が所有するセル数を返します。
func (g *Grid) CountOwner(owner Marker) int {
	n := 0
	for _, m := range g.cells {
		if m == owner && owner != Empty {
			n++
		}
	}
	return n
}

func (g *Grid) index(c domain.Coord) int {
	return c.Y*g.width + c.X
}
