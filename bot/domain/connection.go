package domain

import "context"

// Connection は物理的な接続を表します。
type Connection struct {
	SessionID SessionID
	Remote    string
	transport Transport
}

func NewConnection(sessionID SessionID, remote string, transport Transport) *Connection {
	return &Connection{
		SessionID: sessionID,
		Remote:    remote,
		transport: transport,
	}
}

func (c *Connection) Write(ctx context.Context, data []byte) error {
	return c.transport.Write(ctx, data)
}

func (c *Connection) Read(ctx context.Context) ([]byte, error) {
	return c.transport.Read(ctx)
}

func (c *Connection) Close() {
	_ = c.transport.Close()
}
