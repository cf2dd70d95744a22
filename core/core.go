package core

import "github.com/hupe1980/lifemesh/logging"

// loggerAdapter embeds a logger into run and tool contexts. A nil logger is
// replaced with NoOpLogger; attrs are attached to every entry.
type loggerAdapter struct {
	logger logging.Logger
}

func newLoggerAdapter(l logging.Logger, attrs ...any) *loggerAdapter {
	if l == nil {
		return &loggerAdapter{logger: logging.NoOpLogger{}}
	}
	if len(attrs) > 0 {
		l = logging.With(l, attrs...)
	}
	return &loggerAdapter{logger: l}
}

// Logger returns the underlying logger.
func (l *loggerAdapter) Logger() logging.Logger { return l.logger }

// LogDebug logs a debug message.
func (l *loggerAdapter) LogDebug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// LogInfo logs an info message.
func (l *loggerAdapter) LogInfo(msg string, args ...any) { l.logger.Info(msg, args...) }

// LogWarn logs a warning message.
func (l *loggerAdapter) LogWarn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// LogError logs an error message.
func (l *loggerAdapter) LogError(msg string, args ...any) { l.logger.Error(msg, args...) }
