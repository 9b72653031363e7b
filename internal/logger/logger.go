// Package logger is the process-wide log for digest, built on zap.
//
// Errors and warnings are always written; debug and info lines only with
// --verbose. Output is "[LEVEL] message" lines by default, or one JSON
// object per line for log collectors when the format is FormatJSON.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the line encoding.
type Format string

// Supported formats.
const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ParseFormat accepts "console", "text" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console", "text":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want console or json)", s)
	}
}

var (
	mu      sync.RWMutex
	verbose bool
	format  = FormatConsole
	output  io.Writer = os.Stderr
	level             = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	base              = build(output, format)
)

func build(w io.Writer, f Format) *zap.Logger {
	var enc zapcore.Encoder
	if f == FormatJSON {
		enc = zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:     "ts",
			LevelKey:    "level",
			MessageKey:  "msg",
			EncodeTime:  zapcore.ISO8601TimeEncoder,
			EncodeLevel: zapcore.LowercaseLevelEncoder,
		})
	} else {
		enc = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:       "msg",
			LevelKey:         "level",
			ConsoleSeparator: " ",
			EncodeLevel: func(l zapcore.Level, pae zapcore.PrimitiveArrayEncoder) {
				pae.AppendString("[" + l.CapitalString() + "]")
			},
		})
	}
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level))
}

// SetVerbose switches debug and info lines on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.WarnLevel)
	}
}

// IsVerbose reports whether debug output is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetFormat changes the line encoding.
func SetFormat(f Format) {
	mu.Lock()
	defer mu.Unlock()
	format = f
	base = build(output, f)
}

// SetOutput redirects logs, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build(w, format)
}

func logf(lvl zapcore.Level, msg string, args []any, fields []zap.Field) {
	mu.RLock()
	defer mu.RUnlock()
	if ce := base.Check(lvl, fmt.Sprintf(msg, args...)); ce != nil {
		ce.Write(fields...)
	}
}

// Debug logs a formatted line in verbose mode.
func Debug(format string, args ...any) { logf(zapcore.DebugLevel, format, args, nil) }

// Info logs a formatted line in verbose mode.
func Info(format string, args ...any) { logf(zapcore.InfoLevel, format, args, nil) }

// Warn logs a formatted warning.
func Warn(format string, args ...any) { logf(zapcore.WarnLevel, format, args, nil) }

// Error logs a formatted error.
func Error(format string, args ...any) { logf(zapcore.ErrorLevel, format, args, nil) }

// Fields logs msg at debug level with structured key/value pairs, which
// the JSON format keeps as separate properties.
func Fields(msg string, kv ...any) {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	logf(zapcore.DebugLevel, "%s", []any{msg}, fields)
}

// Section prints a banner between pipeline phases in verbose console mode.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose && format == FormatConsole {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}
