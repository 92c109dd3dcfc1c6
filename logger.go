package memtable

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	loggerOnce sync.Once
	loggerPtr  atomic.Pointer[zap.Logger]
	nopLogger  = zap.NewNop()
)

// InitLogger sets the package logger.
// Only the first call has an effect, further calls are no-ops,
// so concurrent initialization from multiple packages is safe.
func InitLogger(logger *zap.Logger) {
	loggerOnce.Do(func() {
		if logger != nil {
			loggerPtr.Store(logger)
		}
	})
}

// Logger returns the logger set by InitLogger,
// or a no-op logger if InitLogger was never called.
func Logger() *zap.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return nopLogger
}
