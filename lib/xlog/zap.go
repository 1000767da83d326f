package xlog

import (
	"errors"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerCfg struct {
	writer     zapcore.WriteSyncer
	encoder    *LogEncoderType
	lvlEncoder zapcore.LevelEncoder
	tsEncoder  zapcore.TimeEncoder
	level      *zapcore.Level
	component  string
	core       xLogCore
}

func (cfg *loggerCfg) apply() {
	if cfg.writer == nil {
		cfg.writer = getOutWriterByType(StdOut)
	}
	if cfg.encoder == nil {
		enc := JSON
		cfg.encoder = &enc
	}
	if cfg.level == nil {
		lvl := LogLevel(os.Getenv("XLOG_LVL")).zapLevel()
		cfg.level = &lvl
	}
	if cfg.lvlEncoder == nil {
		cfg.lvlEncoder = zapcore.CapitalLevelEncoder
	}
	if cfg.tsEncoder == nil {
		cfg.tsEncoder = zapcore.ISO8601TimeEncoder
	}
	if cfg.core == nil {
		cfg.core = &consoleCore{}
	}
}

type XLoggerOption func(*loggerCfg) error

// NewXLogger builds a zap logger. Without options it writes JSON to
// stdout at the level named by the XLOG_LVL env (DEBUG if unset).
func NewXLogger(opts ...XLoggerOption) (*zap.Logger, error) {
	cfg := &loggerCfg{}
	for _, o := range opts {
		if err := o(cfg); err != nil {
			return nil, err
		}
	}
	cfg.apply()

	lvl := *cfg.level
	core, err := cfg.core.Build(
		zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= lvl
		}),
		*cfg.encoder,
		cfg.writer,
		cfg.lvlEncoder,
		cfg.tsEncoder,
	)
	if err != nil {
		return nil, err
	}

	// Disable zap logger error stack.
	l := zap.New(core, zap.AddCaller())
	if cfg.component != "" {
		l = l.Named(cfg.component)
	}
	return l, nil
}

func WithXLoggerWriter(w LogOutWriterType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if w >= _writerMax {
			return errors.New("[xlog] unknown writer")
		}
		cfg.writer = getOutWriterByType(w)
		return nil
	}
}

// WithXLoggerWriteSyncer redirects the output to an arbitrary syncer,
// e.g. an in-memory buffer in tests.
func WithXLoggerWriteSyncer(ws zapcore.WriteSyncer) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if ws == nil {
			return errors.New("[xlog] nil write syncer")
		}
		cfg.writer = ws
		return nil
	}
}

func WithXLoggerEncoder(logEnc LogEncoderType) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if logEnc >= _encMax {
			return errors.New("[xlog] unknown encoder")
		}
		cfg.encoder = &logEnc
		return nil
	}
}

func WithXLoggerLevel(lvl LogLevel) XLoggerOption {
	return func(cfg *loggerCfg) error {
		_lvl := lvl.zapLevel()
		cfg.level = &_lvl
		return nil
	}
}

func WithXLoggerLevelEncoder(lvlEnc zapcore.LevelEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if lvlEnc == nil {
			lvlEnc = zapcore.CapitalColorLevelEncoder
		}
		cfg.lvlEncoder = lvlEnc
		return nil
	}
}

func WithXLoggerTimeEncoder(tsEnc zapcore.TimeEncoder) XLoggerOption {
	return func(cfg *loggerCfg) error {
		if tsEnc == nil {
			tsEnc = zapcore.ISO8601TimeEncoder
		}
		cfg.tsEncoder = tsEnc
		return nil
	}
}

func WithXLoggerComponent(name string) XLoggerOption {
	return func(cfg *loggerCfg) error {
		cfg.component = name
		return nil
	}
}
