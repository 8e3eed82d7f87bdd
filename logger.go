package raymarch

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/raymarch/internal/gpu"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for raymarch and its internal packages.
// By default raymarch produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels used by raymarch:
//   - [slog.LevelDebug]: per-frame diagnostics (skipped frames, suboptimal
//     surface textures, repeated resizes)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, renderer ready)
//   - [slog.LevelWarn]: recovered problems (outdated surface reconfigured,
//     frame errors the application keeps running through)
//
// Example:
//
//	raymarch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the current logger used by raymarch.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
