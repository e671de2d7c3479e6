package xbound

import "github.com/omeyang/bindkit/pkg/context/xambient"

// Resolver 是可解析为具体 BoundLogger 的引用：
// [BoundLogger]（恒等）与 [LazyLogger]（物化）都满足。
type Resolver interface {
	Resolve() *BoundLogger
}

// AsImmutable 返回上下文为私有快照的等价 logger。
//
// 延迟引用先按其配置物化；结果 logger 的上下文是当前内容的
// [xambient.Detached] 拷贝，与任何分区共享映射彻底断开——
// 之后双方各自的 bind/new 互不影响。
// 幂等：对已脱离的 logger 再次调用得到行为等价的新拷贝。
// l 为 nil（或解析结果为 nil）时返回 [ErrNilLogger]。
func AsImmutable(l Resolver) (*BoundLogger, error) {
	if l == nil {
		return nil, ErrNilLogger
	}
	resolved := l.Resolve()
	if resolved == nil {
		return nil, ErrNilLogger
	}
	return &BoundLogger{
		emitter:    resolved.emitter,
		processors: resolved.processors,
		ctx:        xambient.NewDetached(resolved.ctx.Items()),
	}, nil
}

// 编译期接口检查。
var (
	_ Resolver = (*BoundLogger)(nil)
	_ Resolver = (*LazyLogger)(nil)
)
