package domain

import (
	"errors"
	"fmt"
)

// Direction は移動方向です。DirUnknown は方向がまだ観測されていない状態を表します。
type Direction uint8

const (
	DirUnknown Direction = iota
	DirUp
	DirRight
	DirDown
	DirLeft
)

// Directions は時計回り順の全方向です。
var Directions = [4]Direction{DirUp, DirRight, DirDown, DirLeft}

var ErrUnknownDirection = errors.New("unknown direction")

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// ParseDirection はワイヤ上の方向文字列を Direction に変換します。
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "right":
		return DirRight, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	default:
		return DirUnknown, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

func (d Direction) Known() bool {
	return d >= DirUp && d <= DirLeft
}

// Opposite は 180 度反対の方向を返します。
func (d Direction) Opposite() Direction {
	if !d.Known() {
		return DirUnknown
	}
	return Directions[(d.index()+2)%4]
}

func (d Direction) Clockwise() Direction {
	if !d.Known() {
		return DirUnknown
	}
	return Directions[(d.index()+1)%4]
}

func (d Direction) CounterClockwise() Direction {
	if !d.Known() {
		return DirUnknown
	}
	return Directions[(d.index()+3)%4]
}

// Step は c から d 方向に1マス進んだ座標を返します。範囲チェックは行いません。
func (d Direction) Step(c Coord) Coord {
	switch d {
	case DirUp:
		c.Y--
	case DirDown:
		c.Y++
	case DirLeft:
		c.X--
	case DirRight:
		c.X++
	}
	return c
}

func (d Direction) index() int {
	return int(d - DirUp)
}

// DirectionBetween は from から to への移動方向を推定します。
// 両軸が同時に変化した場合（プロトコル上は起こらない）はX軸を優先します。
func DirectionBetween(from, to Coord) Direction {
	switch {
	case to.X > from.X:
		return DirRight
	case to.X < from.X:
		return DirLeft
	case to.Y > from.Y:
		return DirDown
	case to.Y < from.Y:
		return DirUp
	default:
		return DirUnknown
	}
}
