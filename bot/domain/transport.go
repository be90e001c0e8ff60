package domain

import (
	"context"
)

//go:generate go tool mockgen -destination=./mocks/transport_mock.go -package=mocks . Transport,Dialer

// Transport は Connection（物理接続）が依存するI/O境界です。
// Read は到着したバイト列を返します。行の境界とは一致しません。
type Transport interface {
	Read(ctx context.Context) (data []byte, err error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Dialer はアドレスの名前解決と接続を行います。
type Dialer interface {
	// Resolve はアドレスを接続先候補の一覧に解決します。
	Resolve(ctx context.Context, addr string) (endpoints []string, err error)
	// Connect は候補を順に試し、最初に成功した接続を返します。
	Connect(ctx context.Context, endpoints []string) (Transport, error)
}
