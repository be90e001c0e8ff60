package adapterwebsocket

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/coder/websocket"

	"tronbot/bot/domain"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported websocket scheme")
	ErrNoEndpoints       = errors.New("no endpoints to connect")
)

// IsWebSocketAddr はアドレスが ws:// または wss:// で始まるかを返します。
func IsWebSocketAddr(addr string) bool {
	return strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://")
}

// Dialer はWebSocket経由でゲームサーバーに接続します。
// 各テキストフレームは同じ行ストリームのバイト列として扱います。
type Dialer struct {
	Options *websocket.DialOptions
}

var _ domain.Dialer = (*Dialer)(nil)

func NewDialer() *Dialer {
	return &Dialer{}
}

// Resolve はURLを検証して、そのまま接続先として返します。名前解決は Dial に任せます。
func (d *Dialer) Resolve(_ context.Context, addr string) ([]string, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return []string{u.String()}, nil
}

func (d *Dialer) Connect(ctx context.Context, endpoints []string) (domain.Transport, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	var errs []error
	for _, ep := range endpoints {
		conn, _, err := websocket.Dial(ctx, ep, d.Options)
		if err == nil {
			return NewTransportFrom(conn), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", ep, err))
	}
	return nil, errors.Join(errs...)
}

type wsTransport struct {
	conn *websocket.Conn
}

func NewTransportFrom(conn *websocket.Conn) domain.Transport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) Read(ctx context.Context) ([]byte, error) {
	_, data, err := t.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (t *wsTransport) Write(ctx context.Context, data []byte) error {
	return t.conn.Write(ctx, websocket.MessageText, data)
}

func (t *wsTransport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "")
}
