package xambient

import (
	"sync"
	"sync/atomic"
)

// =============================================================================
// 包级默认 Store
//
// 定位：绝大多数进程只需要一个环境字段存储；包级函数直接委托给它。
// 需要自定义 Provider/分片数或多个独立存储时，显式构造 [New]。
// =============================================================================

// defaultStore 全局默认 Store（并发安全）
var defaultStore atomic.Pointer[Store]

// defaultMu 保护 defaultOnce 及其 Do 执行（也用于 ResetDefault）
var defaultMu sync.Mutex

// defaultOnce 确保默认 Store 只初始化一次
var defaultOnce sync.Once

// initDefault 惰性初始化默认 Store。
//
// 设计决策: 在持锁状态下执行 once.Do，确保 ResetDefault（重置 defaultOnce）
// 与 once.Do 之间不会发生并发竞争。初始化后 Default() 走 atomic.Load
// 快速路径，不进入此函数。
func initDefault() *Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultOnce.Do(func() {
		// 默认配置（goroutine Provider + 32 分片）恒通过校验，err 恒为 nil。
		s, _ := New()
		defaultStore.Store(s)
	})
	return defaultStore.Load()
}

// Default 返回包级默认 Store（首次调用时惰性创建）。
func Default() *Store {
	if s := defaultStore.Load(); s != nil {
		return s
	}
	return initDefault()
}

// SetDefault 替换包级默认 Store。
// 传入 nil 时忽略（避免后续包级函数 panic）；要重置请用 ResetDefault。
func SetDefault(s *Store) {
	if s == nil {
		return
	}
	defaultStore.Store(s)
}

// ResetDefault 将默认 Store 重置为未初始化状态（仅用于测试）。
// 下次 Default() 会重新创建。
func ResetDefault() {
	defaultMu.Lock()
	defaultStore.Store(nil)
	defaultOnce = sync.Once{}
	defaultMu.Unlock()
}

// =============================================================================
// 包级便利函数：委托默认 Store
// =============================================================================

// Bind 将 fields 并入当前执行单元的环境映射。见 [Store.Bind]。
func Bind(fields Fields) {
	Default().Bind(fields)
}

// Unbind 删除各 key，不存在的键静默跳过。见 [Store.Unbind]。
func Unbind(keys ...string) {
	Default().Unbind(keys...)
}

// Clear 清空当前执行单元的环境映射。见 [Store.Clear]。
func Clear() {
	Default().Clear()
}

// Get 返回当前执行单元环境映射的拷贝。见 [Store.Get]。
func Get() Fields {
	return Default().Get()
}

// GetMerged 返回环境映射与 view 上下文的合并拷贝。见 [Store.GetMerged]。
func GetMerged(view ContextView) Fields {
	return Default().GetMerged(view)
}

// Merge 是默认 Store 的合并适配器。见 [Store.Merge]。
func Merge(logger any, method string, event Fields) (Fields, error) {
	return Default().Merge(logger, method, event)
}

// NewPartition 在默认 Store 上创建隔离分区。见 [Store.NewPartition]。
func NewPartition(opts ...PartitionOption) *Partition {
	return Default().NewPartition(opts...)
}
