// Package logger provides process-wide leveled logging on top of zap.
//
// Call sites use printf-style helpers (logger.Info("built %d sections", n)) so that
// packages never carry a logger handle around.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity. Lower values are more verbose.
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	PanicLevel
)

var levelNames = map[Level]string{
	TraceLevel: "trace",
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	FatalLevel: "fatal",
	PanicLevel: "panic",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	case "panic":
		return PanicLevel, nil
	default:
		return InfoLevel, fmt.Errorf("invalid log level %q (use trace, debug, info, warn, error, fatal, panic)", s)
	}
}

// Options configures the logger output.
type Options struct {
	Level string
	// File appends log output to the given path instead of stderr.
	File string
	// JSON switches from the console encoder to the JSON encoder.
	JSON bool
}

var (
	mu      sync.RWMutex
	current = InfoLevel
	atom    = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar   = newSugar(zapcore.Lock(os.Stderr), false)
	closer  io.Closer
)

func newSugar(w zapcore.WriteSyncer, jsonFormat bool) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if jsonFormat {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zap.New(zapcore.NewCore(enc, w, atom)).Sugar()
}

func toZap(l Level) zapcore.Level {
	switch l {
	case TraceLevel, DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.PanicLevel
	}
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	current = l
	atom.SetLevel(toZap(l))
}

// GetLevel returns the active level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetOutput redirects log output to w using the console encoder.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sugar = newSugar(zapcore.AddSync(w), false)
}

// Configure applies level, destination and encoding in one step.
func Configure(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	var ws zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	var f *os.File
	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		ws = zapcore.Lock(f)
	}

	mu.Lock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	if f != nil {
		closer = f
	}
	current = level
	atom.SetLevel(toZap(level))
	sugar = newSugar(ws, opts.JSON)
	mu.Unlock()
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	_ = s.Sync()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Trace logs below debug; it is only written when the level is trace.
func Trace(format string, args ...any) {
	if GetLevel() > TraceLevel {
		return
	}
	get().Debugf("[trace] "+format, args...)
}

func Debug(format string, args ...any) {
	get().Debugf(format, args...)
}

func Info(format string, args ...any) {
	get().Infof(format, args...)
}

func Warn(format string, args ...any) {
	get().Warnf(format, args...)
}

func Error(format string, args ...any) {
	get().Errorf(format, args...)
}
