package notify

import (
	"go.uber.org/zap"
)

// Notifier 用户提示，调用方不关心返回
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// ZapNotifier 提示写入日志
type ZapNotifier struct {
	log *zap.Logger
}

// NewZapNotifier l 为空时使用全局 logger
func NewZapNotifier(l *zap.Logger) *ZapNotifier {
	if l == nil {
		l = zap.L()
	}
	return &ZapNotifier{log: l.Named("notify")}
}

func (n *ZapNotifier) Success(msg string) { n.log.Info(msg) }

func (n *ZapNotifier) Error(msg string) { n.log.Warn(msg) }

// Nop 丢弃所有提示
type Nop struct{}

func (Nop) Success(string) {}

func (Nop) Error(string) {}
