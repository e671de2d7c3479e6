package xbound

import (
	"context"
	"errors"

	"github.com/omeyang/bindkit/pkg/context/xambient"
)

// BoundLogger 是携带上下文的 logger。
//
// 实例本身不可变：Bind/New/Unbind 返回新 logger（共享 emitter 与
// 处理器链），上下文的共享语义由其 Mapping 实现决定。
// 并发安全性随上下文：分区 Handle 上下文并发安全，Detached 不是。
type BoundLogger struct {
	emitter    Emitter
	processors []Processor
	ctx        xambient.Mapping
}

// NewLogger 创建 BoundLogger。
// e 为 nil 时，发射按当时的包级配置取默认 Emitter（见 [Configure]）。
func NewLogger(e Emitter, opts ...Option) *BoundLogger {
	o := applyOptions(defaultLoggerOptions(), opts)
	if e == nil {
		e = o.emitter
	}
	ctx := o.ctx
	if ctx == nil {
		ctx = o.ctxFactory(o.initial)
	}
	return &BoundLogger{
		emitter:    e,
		processors: o.processors,
		ctx:        ctx,
	}
}

// Bind 将 fields 并入上下文，返回新 logger。
// 分区上下文：新旧 logger 共享同一映射（绑定互相可见）；
// Detached 上下文：派生即拷贝，原 logger 不受影响。
func (l *BoundLogger) Bind(fields xambient.Fields) *BoundLogger {
	if l == nil {
		return nil
	}
	return &BoundLogger{
		emitter:    l.emitter,
		processors: l.processors,
		ctx:        l.ctx.Derive(fields),
	}
}

// New 清空当前上下文后绑定 fields（reset-then-bind）。
func (l *BoundLogger) New(fields xambient.Fields) *BoundLogger {
	if l == nil {
		return nil
	}
	l.ctx.Clear()
	return l.Bind(fields)
}

// Unbind 从上下文删除各 key，返回新 logger。
// 任一 key 缺失时返回携带字段名的 xambient.MissingFieldError，
// 已删除的键不回滚。静默版本见 [BoundLogger.TryUnbind]。
func (l *BoundLogger) Unbind(keys ...string) (*BoundLogger, error) {
	if l == nil {
		return nil, ErrNilLogger
	}
	nl := l.Bind(nil)
	for _, key := range keys {
		if err := nl.ctx.Delete(key); err != nil {
			return nil, err
		}
	}
	return nl, nil
}

// TryUnbind 与 Unbind 相同，但缺失的 key 静默跳过。
func (l *BoundLogger) TryUnbind(keys ...string) *BoundLogger {
	if l == nil {
		return nil
	}
	nl := l.Bind(nil)
	for _, key := range keys {
		_ = nl.ctx.Delete(key)
	}
	return nl
}

// Context 返回 logger 的上下文映射。
func (l *BoundLogger) Context() xambient.Mapping {
	if l == nil {
		return nil
	}
	return l.ctx
}

// Items 返回上下文内容的拷贝。
// 满足 xambient.ContextView，可直接传给 xambient.GetMerged。
func (l *BoundLogger) Items() xambient.Fields {
	if l == nil {
		return xambient.Fields{}
	}
	return l.ctx.Items()
}

// Resolve 实现 [Resolver]：BoundLogger 已是具体 logger，返回自身。
func (l *BoundLogger) Resolve() *BoundLogger {
	return l
}

// Log 发射一条事件。
//
// 负载 = 上下文内容与 event 的合并（event 键优先），随后处理器链
// 从左到右加工。处理器返回 [ErrDropEvent] 时静默取消（返回 nil）；
// 其他处理器错误原样返回；否则交给 Emitter。
// logger 与包级配置都无 Emitter 时返回 [ErrNilEmitter]。
func (l *BoundLogger) Log(ctx context.Context, method string, event xambient.Fields) error {
	if l == nil {
		return ErrNilLogger
	}

	payload := l.ctx.Items()
	for k, v := range event {
		payload[k] = v
	}

	payload, err := runChain(l.processors, l, method, payload)
	if err != nil {
		if errors.Is(err, ErrDropEvent) {
			return nil
		}
		return err
	}

	e := l.emitter
	if e == nil {
		e = loadConfig().emitter
	}
	if e == nil {
		return ErrNilEmitter
	}
	return e.Emit(ctx, method, payload)
}

// Debug 以 debug 级别发射，msg 写入负载的 "event" 键。
func (l *BoundLogger) Debug(ctx context.Context, msg string, fields xambient.Fields) error {
	return l.logEvent(ctx, "debug", msg, fields)
}

// Info 以 info 级别发射，msg 写入负载的 "event" 键。
func (l *BoundLogger) Info(ctx context.Context, msg string, fields xambient.Fields) error {
	return l.logEvent(ctx, "info", msg, fields)
}

// Warn 以 warn 级别发射，msg 写入负载的 "event" 键。
func (l *BoundLogger) Warn(ctx context.Context, msg string, fields xambient.Fields) error {
	return l.logEvent(ctx, "warn", msg, fields)
}

// Error 以 error 级别发射，msg 写入负载的 "event" 键。
func (l *BoundLogger) Error(ctx context.Context, msg string, fields xambient.Fields) error {
	return l.logEvent(ctx, "error", msg, fields)
}

func (l *BoundLogger) logEvent(ctx context.Context, method, msg string, fields xambient.Fields) error {
	if l == nil {
		return ErrNilLogger
	}
	event := make(xambient.Fields, len(fields)+1)
	for k, v := range fields {
		event[k] = v
	}
	event["event"] = msg
	return l.Log(ctx, method, event)
}

// 编译期检查：BoundLogger 可作为 GetMerged 的上下文视图。
var _ xambient.ContextView = (*BoundLogger)(nil)
