package application

import "tronbot/bot/domain"

// Player はグリッド上のプレイヤーを表す構造体です。
type Player struct {
	ID     string
	Marker Marker

	Position      domain.Coord
	PrevPosition  domain.Coord
	Direction     domain.Direction
	PrevDirection domain.Direction

	// LastMove は自分が最後に送信した移動方向です。自分以外では常に DirUnknown です。
	LastMove domain.Direction

	prediction    domain.Coord
	hasPrediction bool
}

func newPlayer(id string, marker Marker, pos domain.Coord) *Player {
	return &Player{
		ID:           id,
		Marker:       marker,
		Position:     pos,
		PrevPosition: pos,
	}
}

// moveTo は前回位置を退避して新しい位置と方向を設定します。
func (p *Player) moveTo(pos domain.Coord) {
	p.PrevPosition = p.Position
	p.Position = pos
	p.PrevDirection = p.Direction
	p.Direction = domain.DirectionBetween(p.PrevPosition, p.Position)
}

// Prediction は次のtickで到達すると予測したセルを返します。
func (p *Player) Prediction() (domain.Coord, bool) {
	return p.prediction, p.hasPrediction
}
