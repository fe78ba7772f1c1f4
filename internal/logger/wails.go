package logger

import (
	"context"
	"log/slog"
	"os"

	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
)

// WailsLogger forwards Wails runtime log lines to slog.
type WailsLogger struct {
	log *slog.Logger
}

var _ wailslogger.Logger = (*WailsLogger)(nil)

func NewWailsLogger(log *slog.Logger) *WailsLogger {
	return &WailsLogger{log: log.With(slog.String("component", "wails"))}
}

func (l *WailsLogger) Print(message string)   { l.log.Info(message) }
func (l *WailsLogger) Trace(message string)   { l.log.Log(context.Background(), slog.LevelDebug-4, message) }
func (l *WailsLogger) Debug(message string)   { l.log.Debug(message) }
func (l *WailsLogger) Info(message string)    { l.log.Info(message) }
func (l *WailsLogger) Warning(message string) { l.log.Warn(message) }
func (l *WailsLogger) Error(message string)   { l.log.Error(message) }

func (l *WailsLogger) Fatal(message string) {
	l.log.Error(message, slog.Bool("fatal", true))
	os.Exit(1)
}
