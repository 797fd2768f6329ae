package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger - общий интерфейс логгера с парами ключ/значение
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Fatal(msg string, keysAndValues ...interface{})
}

type zeroLogger struct {
	log zerolog.Logger
}

func New(level string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zl := zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return &zeroLogger{log: zl}
}

func (l *zeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(fields(keysAndValues)).Msg(msg)
}

func (l *zeroLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Fields(fields(keysAndValues)).Msg(msg)
}

func (l *zeroLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(fields(keysAndValues)).Msg(msg)
}

func (l *zeroLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(fields(keysAndValues)).Msg(msg)
}

func (l *zeroLogger) Fatal(msg string, keysAndValues ...interface{}) {
	l.log.Fatal().Fields(fields(keysAndValues)).Msg(msg)
}

// fields превращает чередующиеся ключ/значение в map для zerolog
func fields(keysAndValues []interface{}) map[string]interface{} {
	if len(keysAndValues) == 0 {
		return nil
	}

	out := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		out[key] = keysAndValues[i+1]
	}
	return out
}

// NewNop возвращает логгер, который ничего не пишет (для тестов)
func NewNop() Logger {
	return &zeroLogger{log: zerolog.Nop()}
}
