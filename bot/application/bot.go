package application

import "tronbot/bot/domain"

// BotController はボットの意思決定インターフェースです。
type BotController interface {
	// Decide は次のtickで進む方向を決め、その選択を World に記録します。
	Decide(w *World) domain.Direction
}
