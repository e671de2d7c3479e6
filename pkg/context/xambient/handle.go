package xambient

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"
)

// Handle 是分区在当前执行单元上的映射视图。
//
// Handle 不持有映射本身：每次操作按（分区, 当前执行单元）现场解析。
// 因此同一分区的所有 Handle 在同一执行单元内观察同一份映射，
// 而同一个 Handle 被传到另一个 goroutine 后看到的是那边的映射。
//
// 并发安全（委托给 Store 的分片锁）。
type Handle struct {
	p *Partition
}

// Get 返回 key 对应的值；不存在时返回 (nil, false)。
func (h *Handle) Get(key string) (any, bool) {
	return h.p.store.getAt(h.p.slot(), key)
}

// Set 写入或覆盖 key；映射不存在时创建。
func (h *Handle) Set(key string, value any) {
	h.p.store.setAt(h.p.slot(), h.p.seed, key, value)
}

// Delete 删除 key。
// key 不存在时返回携带字段名的 [MissingFieldError]（errors.As 可提取），
// 与 [Store.Unbind] 的静默语义相对：显式单键删除失败应当可见。
func (h *Handle) Delete(key string) error {
	return h.p.store.deleteAt(h.p.slot(), key)
}

// Len 返回当前映射的字段数量。
func (h *Handle) Len() int {
	return h.p.store.lenAt(h.p.slot())
}

// Keys 返回当前字段名的有序列表。
// Go map 无序，排序换取确定性输出（测试与日志友好）。
func (h *Handle) Keys() []string {
	items := h.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// All 返回按键序迭代当前内容的迭代器。
// 迭代的是时点快照：迭代期间映射的并发变更不会反映进来。
func (h *Handle) All() iter.Seq2[string, any] {
	items := h.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return func(yield func(string, any) bool) {
		for _, k := range keys {
			if !yield(k, items[k]) {
				return
			}
		}
	}
}

// Items 返回当前映射内容的拷贝，永不为 nil。
func (h *Handle) Items() Fields {
	return h.p.items()
}

// Clear 清空当前执行单元在该分区上的映射。
func (h *Handle) Clear() {
	h.p.clear()
}

// Derive 以 bind 语义并入 extra，返回共享同一底层映射的新 Handle。
func (h *Handle) Derive(extra Fields) Mapping {
	return h.p.New(extra)
}

// Equal 判断两个 Handle 是否等价：同属一个分区，且当前内容结构相等。
// 分区是隔离边界，身份参与等价——不同分区的 Handle 即使内容相同也不相等。
// 内容用 reflect.DeepEqual 比较（字段值为 any，可能含不可比较类型）。
func (h *Handle) Equal(other *Handle) bool {
	if other == nil || h.p.id != other.p.id {
		return false
	}
	return reflect.DeepEqual(h.Items(), other.Items())
}

// String 返回形如 xambient[tag]{a: 1, b: "x"} 的文本表示，键有序。
func (h *Handle) String() string {
	var b strings.Builder
	b.WriteString("xambient[")
	b.WriteString(h.p.tag)
	b.WriteString("]{")
	items := h.Items()
	for i, k := range h.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %#v", k, items[k])
	}
	b.WriteString("}")
	return b.String()
}

// Partition 返回 Handle 所属的分区。
func (h *Handle) Partition() *Partition {
	return h.p
}

// Tag 返回所属分区的显示标签。
func (h *Handle) Tag() string {
	return h.p.tag
}

var _ Mapping = (*Handle)(nil)
