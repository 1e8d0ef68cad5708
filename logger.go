package dxinterop

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for dxinterop and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// SetLogger is safe for concurrent use.
//
// Events logged by the sub-packages:
//   - [slog.LevelDebug] "mem: alloc" / "mem: free": every block with its
//     size and address
//   - [slog.LevelDebug] "directml: marshaled operator" / "directml: freeing
//     operator": operator type and root DML_OPERATOR_DESC address
//   - [slog.LevelDebug] "d3d11: state hash collision": two distinct state
//     descriptions sharing a StateCache hash
//   - [slog.LevelWarn] "mem: allocation failed": the allocator's error
//   - [slog.LevelWarn] "mem: rejected free": double or foreign free caught by
//     a tracking allocator
//   - [slog.LevelWarn] "mem: platform release failed": munmap or VirtualFree
//     error
//
// Example:
//
//	dxinterop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by dxinterop.
// Sub-packages (mem/, d3d11/, directml/) call this to share one logger
// configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
