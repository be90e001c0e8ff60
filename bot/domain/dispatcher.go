package domain

import "context"

//go:generate go tool mockgen -destination=./mocks/dispatcher_mock.go -package=mocks . Dispatcher

// Dispatcher はセッション層からアプリケーション層へのメッセージ配送を担当します。
type Dispatcher interface {
	// Dispatch は1メッセージを処理し、サーバーへ送り返す行があればそれを返します。
	// ErrMalformed を含むエラーはそのメッセージだけを破棄し、それ以外はセッションを終了させます。
	Dispatch(ctx context.Context, msg Message) (reply []byte, err error)
}
