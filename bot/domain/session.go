package domain

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SessionID はボットの1セッションを識別するIDです。ログの相関に使います。
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (id SessionID) String() string {
	return string(id)
}

// ErrInvalidTransition は許されない状態遷移を要求した場合に返されるエラーです。
var ErrInvalidTransition = errors.New("invalid session state transition")

// Session は1接続の論理的な接続状態を表す構造体です。
type Session struct {
	id SessionID

	state atomic.Uint32

	// activity
	lastRead  atomic.Int64
	lastWrite atomic.Int64

	// lifecycle
	terminateReason atomic.Uint32
}

func NewSession() *Session {
	s := &Session{
		id: NewSessionID(),
	}
	now := time.Now().UnixNano()
	s.lastRead.Store(now)
	s.lastWrite.Store(now)
	return s
}

func (s *Session) ID() SessionID {
	return s.id
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Transition は現在の状態から to へ遷移します。
// 正常系の次の状態以外への遷移と、Terminated からの遷移は ErrInvalidTransition になります。
func (s *Session) Transition(to SessionState) error {
	for {
		from := s.State()
		if from == StateTerminated || to == StateTerminated || from.next() != to {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		if s.state.CompareAndSwap(uint32(from), uint32(to)) {
			return nil
		}
	}
}

// Terminate はセッションを終了状態にします。初回の呼び出しのみ true を返します。
func (s *Session) Terminate(reason TerminateReason) bool {
	for {
		from := s.State()
		if from == StateTerminated {
			return false
		}
		if s.state.CompareAndSwap(uint32(from), uint32(StateTerminated)) {
			s.terminateReason.Store(uint32(reason))
			return true
		}
	}
}

func (s *Session) TerminateReason() TerminateReason {
	return TerminateReason(s.terminateReason.Load())
}

func (s *Session) IsTerminated() bool {
	return s.State() == StateTerminated
}

func (s *Session) TouchRead() {
	s.lastRead.Store(time.Now().UnixNano())
}

func (s *Session) TouchWrite() {
	s.lastWrite.Store(time.Now().UnixNano())
}

func (s *Session) LastRead() time.Time {
	return time.Unix(0, s.lastRead.Load())
}

func (s *Session) LastWrite() time.Time {
	return time.Unix(0, s.lastWrite.Load())
}
