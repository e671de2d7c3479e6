package xambient

import (
	"fmt"

	"github.com/omeyang/bindkit/pkg/context/xtask"
)

const (
	defaultShardCount = 32
	maxShardCount     = 1 << 16 // 65536
)

// Option 定义 Store 可选配置。
type Option func(*options)

type options struct {
	provider   xtask.Provider
	shardCount int
	shardMask  uint64 // validate() 计算，供 shardFor 使用
}

func defaultOptions() options {
	return options{
		provider:   xtask.Goroutine(),
		shardCount: defaultShardCount,
	}
}

// WithProvider 设置执行单元身份 Provider。
// 默认 [xtask.Goroutine]；协作式调度器使用 [xtask.NewSwitcher]，
// 测试可用 [xtask.Fixed] 模拟多个逻辑执行单元。
// p 不得为 nil，否则 New 返回 [ErrNilProvider]。
func WithProvider(p xtask.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithShardCount 设置分片数量。
// n 必须为正整数且为 2 的幂，上限 65536，否则 New 返回错误。默认 32。
// 更多分片减少表锁争用，但增加内存占用；常规场景默认值即可。
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}

func (o *options) validate() error {
	if o.provider == nil {
		return ErrNilProvider
	}
	sc := o.shardCount
	if sc <= 0 || sc > maxShardCount || sc&(sc-1) != 0 {
		return fmt.Errorf("%w: must be a positive power of 2 (max %d), got %d",
			ErrInvalidShardCount, maxShardCount, sc)
	}
	// sc ∈ [1, maxShardCount] 且为 2 的幂，int→uint64 转换安全。
	o.shardMask = uint64(sc - 1)
	return nil
}
