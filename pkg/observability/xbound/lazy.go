package xbound

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/omeyang/bindkit/pkg/context/xambient"
)

// =============================================================================
// 包级配置
//
// 延迟 logger 的物化基底。配置先于使用、使用先于配置都被支持：
// LazyLogger 每次物化都读取"那一刻"的配置。
// =============================================================================

type config struct {
	emitter    Emitter
	processors []Processor
	ctxFactory func(xambient.Fields) xambient.Mapping
	initial    xambient.Fields
}

// configPtr 当前包级配置（并发安全）
var configPtr atomic.Pointer[config]

// configMu 保护 configOnce 及其 Do 执行（也用于 ResetConfig）
var configMu sync.Mutex

// configOnce 确保默认配置只初始化一次
var configOnce sync.Once

// defaultConfig 构造出厂配置：slog 默认 Handler + Detached 上下文，无处理器。
func defaultConfig() *config {
	// slog.Default().Handler() 恒非 nil，err 恒为 nil。
	em, _ := NewSlogEmitter(slog.Default().Handler())
	return &config{
		emitter:    em,
		ctxFactory: defaultLoggerOptions().ctxFactory,
	}
}

// initConfig 惰性初始化包级配置。
//
// 设计决策: 与 xambient 的默认 Store 相同——持锁执行 once.Do，
// 避免 ResetConfig 重置 configOnce 与 Do 并发竞争。
func initConfig() *config {
	configMu.Lock()
	defer configMu.Unlock()

	configOnce.Do(func() {
		configPtr.Store(defaultConfig())
	})
	return configPtr.Load()
}

func loadConfig() *config {
	if c := configPtr.Load(); c != nil {
		return c
	}
	return initConfig()
}

// Configure 替换包级默认配置（整体替换，未给出的项回到出厂值）。
//
// 现存的 [LazyLogger] 下次物化时即采用新配置——这是延迟 logger 的
// 意义所在：logger 可以先于配置创建。
// [WithContext] 在此非法（返回 [ErrSharedContext]）：包级配置被所有
// 延迟 logger 共享，不能携带具体上下文实例。
func Configure(opts ...Option) error {
	o := applyOptions(defaultLoggerOptions(), opts)
	if o.ctx != nil {
		return ErrSharedContext
	}
	c := &config{
		emitter:    o.emitter,
		processors: o.processors,
		ctxFactory: o.ctxFactory,
		initial:    o.initial,
	}
	if c.emitter == nil {
		c.emitter = defaultConfig().emitter
	}
	configPtr.Store(c)
	return nil
}

// ResetConfig 将包级配置重置为未初始化状态（仅用于测试）。
// 下次使用时重新初始化出厂配置。
func ResetConfig() {
	configMu.Lock()
	configPtr.Store(nil)
	configOnce = sync.Once{}
	configMu.Unlock()
}

// Logger 按包级配置返回新的延迟 logger，fields 作为初始字段。
// 这是获取默认 logger 的惯用入口。
func Logger(fields xambient.Fields) *LazyLogger {
	return Wrap(nil, WithInitialFields(fields))
}

// =============================================================================
// LazyLogger
// =============================================================================

// LazyLogger 是延迟物化的 logger 代理。
//
// Wrap 只捕获覆盖项，不构造任何东西；每次 Bind/New/Resolve/发射
// 都以"那一刻"的包级配置为基底叠加覆盖项构造具体 [BoundLogger]。
// 因此早于 [Configure] 创建的 LazyLogger 也能吃到后来的配置。
//
// 代理本身不可变、并发安全；物化产物的并发安全性见 [BoundLogger]。
type LazyLogger struct {
	emitter Emitter
	opts    []Option
}

// Wrap 创建延迟 logger。e 与 opts 都是对包级配置的覆盖，可全为空。
func Wrap(e Emitter, opts ...Option) *LazyLogger {
	return &LazyLogger{emitter: e, opts: opts}
}

// Resolve 按当前包级配置物化一个具体 BoundLogger。
// 每次调用都物化新实例。
func (p *LazyLogger) Resolve() *BoundLogger {
	if p == nil {
		return nil
	}
	cfg := loadConfig()
	base := options{
		emitter:    cfg.emitter,
		processors: cfg.processors,
		ctxFactory: cfg.ctxFactory,
		initial:    cfg.initial,
	}
	o := applyOptions(base, p.opts)
	e := p.emitter
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

// Bind 物化后绑定 fields。见 [BoundLogger.Bind]。
func (p *LazyLogger) Bind(fields xambient.Fields) *BoundLogger {
	return p.Resolve().Bind(fields)
}

// New 物化后执行 reset-then-bind。见 [BoundLogger.New]。
func (p *LazyLogger) New(fields xambient.Fields) *BoundLogger {
	return p.Resolve().New(fields)
}

// Log 物化后发射。见 [BoundLogger.Log]。
func (p *LazyLogger) Log(ctx context.Context, method string, event xambient.Fields) error {
	if p == nil {
		return ErrNilLogger
	}
	return p.Resolve().Log(ctx, method, event)
}

// Debug 物化后以 debug 级别发射。
func (p *LazyLogger) Debug(ctx context.Context, msg string, fields xambient.Fields) error {
	if p == nil {
		return ErrNilLogger
	}
	return p.Resolve().Debug(ctx, msg, fields)
}

// Info 物化后以 info 级别发射。
func (p *LazyLogger) Info(ctx context.Context, msg string, fields xambient.Fields) error {
	if p == nil {
		return ErrNilLogger
	}
	return p.Resolve().Info(ctx, msg, fields)
}

// Warn 物化后以 warn 级别发射。
func (p *LazyLogger) Warn(ctx context.Context, msg string, fields xambient.Fields) error {
	if p == nil {
		return ErrNilLogger
	}
	return p.Resolve().Warn(ctx, msg, fields)
}

// Error 物化后以 error 级别发射。
func (p *LazyLogger) Error(ctx context.Context, msg string, fields xambient.Fields) error {
	if p == nil {
		return ErrNilLogger
	}
	return p.Resolve().Error(ctx, msg, fields)
}
