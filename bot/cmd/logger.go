package main

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger はLOG_FILEが設定されていればローテートするファイルに、なければ標準出力に書き込むロガーを返します。
func newLogger(logFile string, level slog.Level) (*slog.Logger, io.Closer) {
	var w io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		w = lj
		closer = lj
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer
}
