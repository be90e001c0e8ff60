package domain

import "fmt"

// Coord はグリッド上のセル座標です。原点は左上です。
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
