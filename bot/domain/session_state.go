package domain

import "fmt"

// SessionState はセッションのライフサイクル上の状態です。
type SessionState uint32

const (
	StateDisconnected SessionState = iota
	StateResolving
	StateConnecting
	StateJoining
	StateActive
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateResolving:
		return "resolving"
	case StateConnecting:
		return "connecting"
	case StateJoining:
		return "joining"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(s))
	}
}

// next は正常系で許される遷移先です。Terminated へはどの状態からでも遷移できます。
func (s SessionState) next() SessionState {
	switch s {
	case StateDisconnected:
		return StateResolving
	case StateResolving:
		return StateConnecting
	case StateConnecting:
		return StateJoining
	case StateJoining:
		return StateActive
	default:
		return StateTerminated
	}
}

// TerminateReason はセッションが終了した理由です。
type TerminateReason uint8

const (
	TerminateNone      TerminateReason = 0
	TerminateTransport TerminateReason = 1 << 0
	TerminateProtocol  TerminateReason = 1 << 1
	TerminateOverflow  TerminateReason = 1 << 2
	TerminateShutdown  TerminateReason = 1 << 7
)

func (r TerminateReason) Has(x TerminateReason) bool { return r&x != 0 }

func (r TerminateReason) String() string {
	if r == TerminateNone {
		return "none"
	}
	if r == TerminateShutdown {
		return "shutdown"
	}
	out := ""
	add := func(s string) {
		if out == "" {
			out = s
			return
		}
		out += "|" + s
	}
	if r.Has(TerminateTransport) {
		add("transport")
	}
	if r.Has(TerminateProtocol) {
		add("protocol")
	}
	if r.Has(TerminateOverflow) {
		add("overflow")
	}
	if out == "" {
		return fmt.Sprintf("unknown(%d)", r)
	}
	return out
}
