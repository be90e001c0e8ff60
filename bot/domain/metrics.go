package domain

import "sync/atomic"

// SessionMetrics はセッション中の主要な指標を記録します。
type SessionMetrics struct {
	BytesRead     atomic.Int64
	LinesReceived atomic.Int64
	Ticks         atomic.Int64
	LinesSent     atomic.Int64
	Malformed     atomic.Int64
}

func (m *SessionMetrics) AddBytesRead(n int) { m.BytesRead.Add(int64(n)) }
func (m *SessionMetrics) IncLinesReceived()  { m.LinesReceived.Add(1) }
func (m *SessionMetrics) IncTicks()          { m.Ticks.Add(1) }
func (m *SessionMetrics) IncLinesSent()      { m.LinesSent.Add(1) }
func (m *SessionMetrics) IncMalformed()      { m.Malformed.Add(1) }

// Snapshot はログ出力用の読み取り専用コピーを返します。
func (m *SessionMetrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"bytes_read":     m.BytesRead.Load(),
		"lines_received": m.LinesReceived.Load(),
		"ticks":          m.Ticks.Load(),
		"lines_sent":     m.LinesSent.Load(),
		"malformed":      m.Malformed.Load(),
	}
}
