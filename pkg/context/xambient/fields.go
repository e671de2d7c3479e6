package xambient

import "maps"

// Fields 是环境上下文的字段集合：字符串键到任意值的映射。
type Fields map[string]any

// Clone 返回 f 的浅拷贝；nil 返回 nil。
// 值本身不复制：调用方对可变值（slice、map、指针）保持共享。
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	return maps.Clone(f)
}

// Mapping 是日志管线实际需要的最小映射接口。
// 实现：[Handle]（分区共享）与 [Detached]（私有快照）。
//
// 设计决策: 只暴露管线用到的操作集合，不做任意方法透传。
// 需要更丰富的集合操作时使用具体类型 [Handle]。
type Mapping interface {
	// Get 返回 key 对应的值；不存在时返回 (nil, false)。
	Get(key string) (any, bool)

	// Set 写入或覆盖 key。
	Set(key string, value any)

	// Delete 删除 key；key 不存在时返回 [MissingFieldError]。
	Delete(key string) error

	// Len 返回当前字段数量。
	Len() int

	// Items 返回当前内容的时点拷贝，永不为 nil。
	// 返回值归调用方所有，后续映射变更不会反映进去。
	Items() Fields

	// Clear 清空全部字段。
	Clear()

	// Derive 以 bind 语义并入 extra 并返回结果映射。
	// 共享还是拷贝由实现决定：[Handle] 返回共享同一底层映射的新视图，
	// [Detached] 返回独立副本。
	Derive(extra Fields) Mapping
}

// ContextView 是 GetMerged 接受的只读视图，
// 由 [Mapping] 和 xbound.BoundLogger 等携带上下文的类型满足。
type ContextView interface {
	Items() Fields
}
