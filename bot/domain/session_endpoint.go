package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInitializationFailed はセッションエンドポイントの初期化に失敗した場合に返されるエラーです。
	ErrInitializationFailed = errors.New("failed to initialize session endpoint")
	// ErrAlreadyStarted は Run を2回以上呼び出した場合に返されるエラーです。
	ErrAlreadyStarted = errors.New("session endpoint already started")
	// ErrTransport は名前解決・接続・読み書きの失敗を表します。
	ErrTransport = errors.New("transport failure")
	// ErrServerError はサーバーから error コマンドを受信した場合に返されるエラーです。
	ErrServerError = errors.New("server reported an error")
)

// EndpointConfig は接続先とjoinに使う認証情報です。
type EndpointConfig struct {
	Addr         string
	Name         string
	Token        string
	MaxLineBytes int
}

// SessionEndpoint は1つのゲームサーバー接続のライフサイクルを管理します。
// 受信した行の処理（応答の送信を含む）は1つのゴルーチンで順番に完了させます。
type SessionEndpoint struct {
	session    *Session
	dialer     Dialer
	dispatcher Dispatcher
	framer     *Framer
	metrics    *SessionMetrics
	cfg        EndpointConfig
	logger     *slog.Logger

	connection *Connection
}

func NewSessionEndpoint(session *Session, dialer Dialer, dispatcher Dispatcher, cfg EndpointConfig) (*SessionEndpoint, error) {
	if session == nil {
		return nil, ErrInitializationFailed
	}
	if dialer == nil {
		return nil, ErrInitializationFailed
	}
	if dispatcher == nil {
		return nil, ErrInitializationFailed
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInitializationFailed)
	}
	return &SessionEndpoint{
		session:    session,
		dialer:     dialer,
		dispatcher: dispatcher,
		framer:     NewFramer(cfg.MaxLineBytes),
		metrics:    &SessionMetrics{},
		cfg:        cfg,
		logger:     slog.With("sessionID", session.ID()),
	}, nil
}

func (se *SessionEndpoint) Session() *Session {
	return se.session
}

func (se *SessionEndpoint) Metrics() *SessionMetrics {
	return se.metrics
}

// Run は接続からjoin、受信ループまでを実行し、セッションが終了するまでブロックします。
// ctx のキャンセルによる終了時は context.Canceled を返します。
func (se *SessionEndpoint) Run(ctx context.Context) (err error) {
	if se.session.State() != StateDisconnected {
		return ErrAlreadyStarted
	}
	defer func() {
		se.terminate(ctx, err)
	}()

	if err := se.connect(ctx); err != nil {
		return err
	}
	if err := se.join(ctx); err != nil {
		return err
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return se.readLoop(egCtx)
	})
	eg.Go(func() error {
		// Read のブロックを解除するため、終了時に接続を閉じる
		<-egCtx.Done()
		se.connection.Close()
		return nil
	})
	return eg.Wait()
}

func (se *SessionEndpoint) connect(ctx context.Context) error {
	if err := se.session.Transition(StateResolving); err != nil {
		return err
	}
	endpoints, err := se.dialer.Resolve(ctx, se.cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %w", ErrTransport, se.cfg.Addr, err)
	}
	if len(endpoints) == 0 {
		return fmt.Errorf("%w: resolve %s: no endpoints", ErrTransport, se.cfg.Addr)
	}
	se.logger.DebugContext(ctx, "resolved", "addr", se.cfg.Addr, "endpoints", endpoints)

	if err := se.session.Transition(StateConnecting); err != nil {
		return err
	}
	transport, err := se.dialer.Connect(ctx, endpoints)
	if err != nil {
		return fmt.Errorf("%w: connect %s: %w", ErrTransport, se.cfg.Addr, err)
	}
	se.connection = NewConnection(se.session.ID(), se.cfg.Addr, transport)
	se.logger.InfoContext(ctx, "connected", "addr", se.cfg.Addr)
	return nil
}

func (se *SessionEndpoint) join(ctx context.Context) error {
	if err := se.session.Transition(StateJoining); err != nil {
		return err
	}
	line, err := EncodeJoin(se.cfg.Name, se.cfg.Token)
	if err != nil {
		return err
	}
	if err := se.send(ctx, line); err != nil {
		return err
	}
	se.logger.InfoContext(ctx, "joined", "name", se.cfg.Name)
	return se.session.Transition(StateActive)
}

func (se *SessionEndpoint) readLoop(ctx context.Context) error {
	for {
		data, err := se.connection.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: read: %w", ErrTransport, err)
		}
		se.session.TouchRead()
		se.metrics.AddBytesRead(len(data))

		// 上限超過でも、揃っている行は処理してから終了する
		feedErr := se.framer.Feed(data)
		for line := range se.framer.Lines() {
			if err := se.handleLine(ctx, line); err != nil {
				return err
			}
		}
		if feedErr != nil {
			return feedErr
		}
	}
}

// handleLine は1行をデコードしてアプリケーションに配送し、応答があれば送信します。
func (se *SessionEndpoint) handleLine(ctx context.Context, line string) error {
	se.metrics.IncLinesReceived()
	se.logger.DebugContext(ctx, "recv", "line", line)

	msg := Decode(line)
	if msg.Command == CommandTick {
		se.metrics.IncTicks()
	}
	reply, err := se.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			se.metrics.IncMalformed()
			se.logger.WarnContext(ctx, "malformed message ignored", "line", line, "err", err)
			return nil
		}
		return err
	}
	if len(reply) == 0 {
		return nil
	}
	return se.send(ctx, reply)
}

func (se *SessionEndpoint) send(ctx context.Context, line []byte) error {
	se.logger.DebugContext(ctx, "send", "line", string(line))
	if err := se.connection.Write(ctx, line); err != nil {
		return fmt.Errorf("%w: write: %w", ErrTransport, err)
	}
	se.session.TouchWrite()
	se.metrics.IncLinesSent()
	return nil
}

func (se *SessionEndpoint) terminate(ctx context.Context, err error) {
	reason := terminateReasonOf(err)
	if !se.session.Terminate(reason) {
		return
	}
	if se.connection != nil {
		se.connection.Close()
	}
	attrs := []any{"reason", reason, "metrics", se.metrics.Snapshot()}
	if reason == TerminateShutdown {
		se.logger.InfoContext(ctx, "session terminated", attrs...)
		return
	}
	se.logger.ErrorContext(ctx, "session terminated", append(attrs, "err", err)...)
}

func terminateReasonOf(err error) TerminateReason {
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return TerminateShutdown
	case errors.Is(err, ErrServerError):
		return TerminateProtocol
	case errors.Is(err, ErrLineTooLong):
		return TerminateOverflow
	default:
		return TerminateTransport
	}
}
