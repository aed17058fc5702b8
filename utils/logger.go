package utils

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel enumerates severity tiers.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l LogLevel) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	}
	return zapcore.InfoLevel
}

// Logger is a concurrency-safe, levelled logger used across the pipeline.
// DEBUG and INFO go to the output stream, WARN and above to the error
// stream; an optional log file receives everything.
type Logger struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// InitLogger creates the process logger on stdout/stderr and installs it
// as L().
func InitLogger(minLevel LogLevel, logFilePath string) *Logger {
	lg := NewLogger(minLevel, os.Stdout, os.Stderr, logFilePath)
	SetLogger(lg)
	return lg
}

// NewLogger builds a logger writing to out and errOut.
func NewLogger(minLevel LogLevel, out, errOut io.Writer, logFilePath string) *Logger {
	floor := minLevel.zapLevel()
	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= floor && l < zapcore.WarnLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= floor && l >= zapcore.WarnLevel
	})

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(), zapcore.AddSync(out), low),
		zapcore.NewCore(newEncoder(), zapcore.AddSync(errOut), high),
	}

	var (
		f       *os.File
		openErr error
	)
	if logFilePath != "" {
		f, openErr = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if openErr == nil {
			cores = append(cores, zapcore.NewCore(newEncoder(), zapcore.AddSync(f), zap.NewAtomicLevelAt(floor)))
		}
	}

	lg := &Logger{
		sugar: zap.New(zapcore.NewTee(cores...)).Sugar(),
		file:  f,
	}
	if openErr != nil {
		lg.Warn("could not open log file %s: %v", logFilePath, openErr)
	}
	return lg
}

// NopLogger discards everything.
func NopLogger() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func newEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: "  ",
	})
}

// SetLogger installs lg as the process logger.
func SetLogger(lg *Logger) {
	globalMu.Lock()
	globalLogger = lg
	globalMu.Unlock()
}

// L returns the process logger, falling back to a stdout-only DEBUG logger
// when InitLogger has not been called.
func L() *Logger {
	globalMu.RLock()
	lg := globalLogger
	globalMu.RUnlock()
	if lg == nil {
		return InitLogger(DEBUG, "")
	}
	return lg
}

// Close flushes buffered entries and closes the log file, if any.
func (l *Logger) Close() {
	_ = l.sugar.Sync()
	if l.file != nil {
		_ = l.file.Close()
	}
}

func (l *Logger) Debug(f string, a ...any) { l.sugar.Debugf(f, a...) }
func (l *Logger) Info(f string, a ...any)  { l.sugar.Infof(f, a...) }
func (l *Logger) Warn(f string, a ...any)  { l.sugar.Warnf(f, a...) }
func (l *Logger) Error(f string, a ...any) { l.sugar.Errorf(f, a...) }
func (l *Logger) Fatal(f string, a ...any) { l.sugar.Fatalf(f, a...) }
