package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldSeparator はフィールドの区切り文字です。エスケープはありません。
const FieldSeparator = "|"

// Command はプロトコルのコマンド名です。
type Command string

// サーバー → クライアント
const (
	CommandGame    Command = "game"
	CommandPos     Command = "pos"
	CommandDie     Command = "die"
	CommandTick    Command = "tick"
	CommandError   Command = "error"
	CommandMotd    Command = "motd"
	CommandMessage Command = "message"
	CommandWin     Command = "win"
	CommandLose    Command = "lose"
)

// クライアント → サーバー
const (
	CommandJoin Command = "join"
	CommandMove Command = "move"
	CommandChat Command = "chat"
)

// MaxDimension はgameメッセージで受け付けるマップの一辺の上限です。
const MaxDimension = 4096

var (
	// ErrMalformed はフィールドが期待した形式でない場合に返されるエラーです。
	ErrMalformed = errors.New("malformed message")
	// ErrInvalidField は送信フィールドに区切り文字が含まれる場合に返されるエラーです。
	ErrInvalidField = errors.New("field contains a delimiter")
)

// Message は1行をコマンドとフィールドに分割したものです。
type Message struct {
	Command Command
	Fields  []string
}

// Decode は1行を分割します。どんな入力でも失敗しません。
func Decode(line string) Message {
	tokens := strings.Split(line, FieldSeparator)
	return Message{
		Command: Command(tokens[0]),
		Fields:  tokens[1:],
	}
}

func (m Message) String() string {
	if len(m.Fields) == 0 {
		return string(m.Command)
	}
	return string(m.Command) + FieldSeparator + strings.Join(m.Fields, FieldSeparator)
}

// GameMessage は新しいマッチの開始を表します。
//
//	game|width|height|selfID
type GameMessage struct {
	Width  int
	Height int
	SelfID string
}

// PosMessage はプレイヤーの現在位置です。
//
//	pos|playerID|x|y
type PosMessage struct {
	PlayerID string
	Position Coord
}

// DieMessage は脱落したプレイヤーの一覧です。
//
//	die|playerID[|playerID...]
type DieMessage struct {
	PlayerIDs []string
}

// ErrorMessage はサーバーからの致命的なエラーです。
//
//	error|message
type ErrorMessage struct {
	Text string
}

func ParseGame(m Message) (GameMessage, error) {
	if err := expectFields(m, 3); err != nil {
		return GameMessage{}, err
	}
	width, err := parseInt(m, "width", m.Fields[0])
	if err != nil {
		return GameMessage{}, err
	}
	height, err := parseInt(m, "height", m.Fields[1])
	if err != nil {
		return GameMessage{}, err
	}
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return GameMessage{}, fmt.Errorf("%w: %s: map size %dx%d out of range", ErrMalformed, m.Command, width, height)
	}
	if m.Fields[2] == "" {
		return GameMessage{}, fmt.Errorf("%w: %s: empty player id", ErrMalformed, m.Command)
	}
	return GameMessage{Width: width, Height: height, SelfID: m.Fields[2]}, nil
}

func ParsePos(m Message) (PosMessage, error) {
	if err := expectFields(m, 3); err != nil {
		return PosMessage{}, err
	}
	if m.Fields[0] == "" {
		return PosMessage{}, fmt.Errorf("%w: %s: empty player id", ErrMalformed, m.Command)
	}
	x, err := parseInt(m, "x", m.Fields[1])
	if err != nil {
		return PosMessage{}, err
	}
	y, err := parseInt(m, "y", m.Fields[2])
	if err != nil {
		return PosMessage{}, err
	}
	return PosMessage{PlayerID: m.Fields[0], Position: Coord{X: x, Y: y}}, nil
}

func ParseDie(m Message) (DieMessage, error) {
	if len(m.Fields) == 0 {
		return DieMessage{}, fmt.Errorf("%w: %s: no player ids", ErrMalformed, m.Command)
	}
	ids := make([]string, 0, len(m.Fields))
	for _, id := range m.Fields {
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return DieMessage{PlayerIDs: ids}, nil
}

// ParseError はerrorメッセージのテキストを取り出します。テキスト中の区切り文字はそのまま復元します。
func ParseError(m Message) ErrorMessage {
	return ErrorMessage{Text: strings.Join(m.Fields, FieldSeparator)}
}

// EncodeJoin はjoinコマンドの1行を生成します。
func EncodeJoin(name, token string) ([]byte, error) {
	return encodeLine(CommandJoin, name, token)
}

// EncodeMove はmoveコマンドの1行を生成します。
func EncodeMove(dir Direction) []byte {
	line, _ := encodeLine(CommandMove, dir.String())
	return line
}

// EncodeChat はchatコマンドの1行を生成します。
func EncodeChat(text string) ([]byte, error) {
	return encodeLine(CommandChat, text)
}

func encodeLine(cmd Command, fields ...string) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(string(cmd))
	for _, f := range fields {
		if strings.ContainsAny(f, FieldSeparator+string(Delimiter)) {
			return nil, fmt.Errorf("%w: %s: %q", ErrInvalidField, cmd, f)
		}
		sb.WriteString(FieldSeparator)
		sb.WriteString(f)
	}
	sb.WriteByte(Delimiter)
	return []byte(sb.String()), nil
}

func expectFields(m Message, n int) error {
	if len(m.Fields) < n {
		return fmt.Errorf("%w: %s: got %d fields, want %d", ErrMalformed, m.Command, len(m.Fields), n)
	}
	return nil
}

func parseInt(m Message, name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s=%q", ErrMalformed, m.Command, name, s)
	}
	return v, nil
}
