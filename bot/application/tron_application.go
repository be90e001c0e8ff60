package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tronbot/bot/domain"
)

var ErrInitializationFailed = errors.New("failed to initialize tron application")

// TronApplication はサーバーからのメッセージを World に反映し、tickに移動コマンドで応答します。
type TronApplication struct {
	world      *World
	controller BotController
	greeting   []byte
}

var _ domain.Dispatcher = (*TronApplication)(nil)

// NewTronApplication はアプリケーションを生成します。greeting が空でなければマッチ開始時にchatで送信します。
func NewTronApplication(world *World, controller BotController, greeting string) (*TronApplication, error) {
	if world == nil || controller == nil {
		return nil, ErrInitializationFailed
	}
	app := &TronApplication{world: world, controller: controller}
	if greeting != "" {
		line, err := domain.EncodeChat(greeting)
		if err != nil {
			return nil, fmt.Errorf("%w: greeting: %w", ErrInitializationFailed, err)
		}
		app.greeting = line
	}
	return app, nil
}

func (app *TronApplication) World() *World {
	return app.world
}

func (app *TronApplication) Dispatch(ctx context.Context, msg domain.Message) ([]byte, error) {
	switch msg.Command {
	case domain.CommandGame:
		return app.handleGame(ctx, msg)
	case domain.CommandPos:
		return nil, app.handlePos(ctx, msg)
	case domain.CommandDie:
		return nil, app.handleDie(ctx, msg)
	case domain.CommandTick:
		return app.handleTick(ctx), nil
	case domain.CommandError:
		e := domain.ParseError(msg)
		return nil, fmt.Errorf("%w: %s", domain.ErrServerError, e.Text)
	case domain.CommandMotd, domain.CommandMessage:
		slog.InfoContext(ctx, "server message", "command", msg.Command, "fields", msg.Fields)
	case domain.CommandWin, domain.CommandLose:
		slog.InfoContext(ctx, "match finished", "result", msg.Command, "fields", msg.Fields)
	default:
		slog.DebugContext(ctx, "unknown command ignored", "command", msg.Command)
	}
	return nil, nil
}

func (app *TronApplication) handleGame(ctx context.Context, msg domain.Message) ([]byte, error) {
	game, err := domain.ParseGame(msg)
	if err != nil {
		return nil, err
	}
	app.world.OnGame(game.Width, game.Height, game.SelfID)
	slog.InfoContext(ctx, "game started",
		"width", game.Width,
		"height", game.Height,
		"selfID", game.SelfID,
	)
	return app.greeting, nil
}

func (app *TronApplication) handlePos(ctx context.Context, msg domain.Message) error {
	pos, err := domain.ParsePos(msg)
	if err != nil {
		return err
	}
	if !app.world.OnPos(pos.PlayerID, pos.Position) {
		slog.DebugContext(ctx, "position out of bounds ignored", "playerID", pos.PlayerID, "position", pos.Position)
	}
	return nil
}

func (app *TronApplication) handleDie(ctx context.Context, msg domain.Message) error {
	die, err := domain.ParseDie(msg)
	if err != nil {
		return err
	}
	cleared := app.world.OnDie(die.PlayerIDs...)
	slog.DebugContext(ctx, "players died", "playerIDs", die.PlayerIDs, "cleared", cleared)
	return nil
}

func (app *TronApplication) handleTick(ctx context.Context) []byte {
	dir := app.controller.Decide(app.world)
	pos, _ := app.world.SelfPosition()
	slog.DebugContext(ctx, "tick", "position", pos, "move", dir)
	return domain.EncodeMove(dir)
}
