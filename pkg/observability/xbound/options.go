package xbound

import "github.com/omeyang/bindkit/pkg/context/xambient"

// Option 定义 logger 可选配置，供 [NewLogger]、[Wrap] 与 [Configure] 使用。
type Option func(*options)

type options struct {
	emitter    Emitter
	processors []Processor
	ctx        xambient.Mapping
	ctxFactory func(xambient.Fields) xambient.Mapping
	initial    xambient.Fields
}

func defaultLoggerOptions() options {
	return options{
		// 默认每个 logger 私有上下文；接入共享环境存储需显式
		// WithContext 分区 Handle 或 WithContextFactory。
		ctxFactory: func(f xambient.Fields) xambient.Mapping {
			return xambient.NewDetached(f)
		},
	}
}

// WithEmitter 设置发射目的地。
// [NewLogger] 与 [Wrap] 的显式 Emitter 参数优先于本选项；
// 主要供 [Configure] 设置包级默认目的地。
func WithEmitter(e Emitter) Option {
	return func(o *options) {
		o.emitter = e
	}
}

// WithProcessors 设置处理器链（按给定顺序执行，替换而非追加）。
// 典型链首是 xambient 的 Merge 适配器。
func WithProcessors(ps ...Processor) Option {
	return func(o *options) {
		o.processors = ps
	}
}

// WithContext 直接指定 logger 的上下文映射。
// 传入分区 Handle 时，该 logger 及其 Bind 派生都共享分区映射。
// 与 WithContextFactory/WithInitialFields 同时出现时以本选项为准。
// 不可用于 [Configure]（见 [ErrSharedContext]）。
func WithContext(m xambient.Mapping) Option {
	return func(o *options) {
		o.ctx = m
	}
}

// WithContextFactory 设置上下文工厂：logger 物化时用它从初始字段
// 构造上下文。默认工厂产出 [xambient.Detached]。
func WithContextFactory(fn func(xambient.Fields) xambient.Mapping) Option {
	return func(o *options) {
		if fn != nil {
			o.ctxFactory = fn
		}
	}
}

// WithInitialFields 设置物化时交给上下文工厂的初始字段。
// 指定了 WithContext 时本选项不生效。
func WithInitialFields(fields xambient.Fields) Option {
	return func(o *options) {
		o.initial = fields
	}
}

func applyOptions(base options, opts []Option) options {
	for _, opt := range opts {
		if opt != nil {
			opt(&base)
		}
	}
	return base
}
