package adaptertcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"tronbot/bot/domain"
)

// ReadChunkSize は1回の Read で返す最大バイト数です。
const ReadChunkSize = 1024

// DefaultDialTimeout は接続先1件あたりの接続タイムアウトです。
const DefaultDialTimeout = 5 * time.Second

var ErrNoEndpoints = errors.New("no endpoints to connect")

// Dialer はTCPでゲームサーバーに接続します。
type Dialer struct {
	Resolver    *net.Resolver
	DialTimeout time.Duration
}

var _ domain.Dialer = (*Dialer)(nil)

func NewDialer(dialTimeout time.Duration) *Dialer {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	return &Dialer{Resolver: net.DefaultResolver, DialTimeout: dialTimeout}
}

// Resolve は host:port を解決し、IPごとの host:port を返します。
func (d *Dialer) Resolve(ctx context.Context, addr string) ([]string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ips, err := d.Resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}
	endpoints := make([]string, 0, len(ips))
	for _, ip := range ips {
		endpoints = append(endpoints, net.JoinHostPort(ip, port))
	}
	return endpoints, nil
}

// Connect は候補を順に試します。すべて失敗した場合は各エラーをまとめて返します。
func (d *Dialer) Connect(ctx context.Context, endpoints []string) (domain.Transport, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	nd := net.Dialer{Timeout: d.DialTimeout}
	var errs []error
	for _, ep := range endpoints {
		conn, err := nd.DialContext(ctx, "tcp", ep)
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

type tcpTransport struct {
	conn net.Conn
	buf  []byte
}

func NewTransportFrom(conn net.Conn) domain.Transport {
	return &tcpTransport{conn: conn, buf: make([]byte, ReadChunkSize)}
}

// Read は ctx にデッドラインがあれば読み込みに反映します。キャンセルは Close で解除されます。
func (t *tcpTransport) Read(ctx context.Context) ([]byte, error) {
	deadline, _ := ctx.Deadline()
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	n, err := t.conn.Read(t.buf)
	if n > 0 {
		data := make([]byte, n)
		copy(data, t.buf[:n])
		return data, nil
	}
	return nil, err
}

func (t *tcpTransport) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	_, err := t.conn.Write(data)
	return err
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}
