package rtc

import (
	"fmt"

	"github.com/pion/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerFactory routes pion's internal logging into the global zerolog logger,
// one "scope" field per pion subsystem (ice, dtls, sctp...).
type LoggerFactory struct{}

var _ logging.LoggerFactory = LoggerFactory{}

func (LoggerFactory) NewLogger(scope string) logging.LeveledLogger {
	return &leveledLogger{
		z: log.With().Str("module", "pion").Str("scope", scope).Logger(),
	}
}

type leveledLogger struct {
	z zerolog.Logger
}

func (l *leveledLogger) Trace(msg string) { l.z.Trace().Msg(msg) }
func (l *leveledLogger) Tracef(format string, args ...any) {
	l.z.Trace().Msg(fmt.Sprintf(format, args...))
}
func (l *leveledLogger) Debug(msg string) { l.z.Debug().Msg(msg) }
func (l *leveledLogger) Debugf(format string, args ...any) {
	l.z.Debug().Msg(fmt.Sprintf(format, args...))
}
func (l *leveledLogger) Info(msg string) { l.z.Info().Msg(msg) }
func (l *leveledLogger) Infof(format string, args ...any) {
	l.z.Info().Msg(fmt.Sprintf(format, args...))
}
func (l *leveledLogger) Warn(msg string) { l.z.Warn().Msg(msg) }
func (l *leveledLogger) Warnf(format string, args ...any) {
	l.z.Warn().Msg(fmt.Sprintf(format, args...))
}
func (l *leveledLogger) Error(msg string) { l.z.Error().Msg(msg) }
func (l *leveledLogger) Errorf(format string, args ...any) {
	l.z.Error().Msg(fmt.Sprintf(format, args...))
}
