package actor

import (
	"log/slog"
	"sync/atomic"
)

// pkgLogger 包级日志器，用于不属于任何 System 的默认动作（如 Die 的丢弃记录）
var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger 覆盖包级日志器
//
// 未设置或设置为 nil 时使用 slog.Default()。
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func defaultLogger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
