package xambient

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// partitionSeq 为每个分区分配进程内唯一 id。
// 进程级计数器：即使多个 Store 并存，分区 id 也不会碰撞。
var partitionSeq atomic.Uint64

// Partition 是不透明的隔离分区令牌。
//
// 每次 [Store.NewPartition] 都产生一个全新分区，参数相同也互不相关；
// 不同分区即使在同一执行单元内也绝不共享映射。
// 同一分区的所有 [Handle] 在同一执行单元内共享同一份映射。
//
// 并发安全；零值不可用。
type Partition struct {
	store *Store
	id    uint64
	tag   string
	seed  func() Fields
}

// PartitionOption 定义分区可选配置。
type PartitionOption func(*partitionOptions)

type partitionOptions struct {
	tag  string
	seed func() Fields
}

// WithTag 设置分区的显示标签（出现在 Handle 的 String 输出中）。
// 空串被忽略，保留默认标签。标签只用于展示，不参与寻址。
func WithTag(tag string) PartitionOption {
	return func(o *partitionOptions) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// WithSeed 设置映射的初始工厂：某执行单元首次触达该分区时，
// 以 seed() 的返回值作为初始映射（nil 视为空映射）。
// seed 每次必须返回全新映射，返回值直接成为该执行单元的底层存储。
// 适合预置每个执行单元都应携带的默认字段。
func WithSeed(seed func() Fields) PartitionOption {
	return func(o *partitionOptions) {
		o.seed = seed
	}
}

// NewPartition 创建新的隔离分区。
// 重复调用永远返回相互隔离的新分区。
func (s *Store) NewPartition(opts ...PartitionOption) *Partition {
	o := partitionOptions{
		// 默认标签取 uuid 前 8 位，保证展示上可区分即可。
		tag: uuid.New().String()[:8],
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Partition{
		store: s,
		id:    partitionSeq.Add(1),
		tag:   o.tag,
		seed:  o.seed,
	}
}

// Tag 返回分区的显示标签。
func (p *Partition) Tag() string {
	return p.tag
}

// Attach 返回挂接到当前执行单元映射的 Handle。
// 映射不存在时创建（应用 seed），已有内容不受影响。
func (p *Partition) Attach() *Handle {
	p.store.bindAt(p.slot(), p.seed, nil)
	return &Handle{p: p}
}

// New 确保当前执行单元的映射存在并并入 fields，返回其 Handle。
// fields 为 nil 时等价于 [Partition.Attach]。
// bind 语义：已有键被覆盖，新键加入。
func (p *Partition) New(fields Fields) *Handle {
	p.store.bindAt(p.slot(), p.seed, fields)
	return &Handle{p: p}
}

// From 用已有 Handle 的当前内容初始化：先拷贝 src 的视图，再并入 extra。
//
// src 为 nil 返回 [ErrNilHandle]；src 属于其他分区返回
// [ErrPartitionMismatch] —— 跨分区拷贝必须显式进行，不允许静默合并。
func (p *Partition) From(src *Handle, extra Fields) (*Handle, error) {
	if src == nil {
		return nil, ErrNilHandle
	}
	if src.p.id != p.id {
		return nil, fmt.Errorf("%w: got partition %q, want %q",
			ErrPartitionMismatch, src.p.tag, p.tag)
	}
	p.store.bindAt(p.slot(), p.seed, src.Items())
	p.store.bindAt(p.slot(), p.seed, extra)
	return &Handle{p: p}, nil
}

// slot 返回分区在当前执行单元上的寻址键。
// 每次操作现场解析：Handle 跨 goroutine 传递时自动落到对方的映射。
func (p *Partition) slot() slotKey {
	return slotKey{partition: p.id, unit: p.store.opts.provider.Current()}
}

// 根分区与 Handle 共用的内部短操作。

func (p *Partition) bind(fields Fields) {
	p.store.bindAt(p.slot(), p.seed, fields)
}

func (p *Partition) unbind(keys ...string) {
	p.store.unbindAt(p.slot(), keys...)
}

func (p *Partition) clear() {
	p.store.clearAt(p.slot())
}

func (p *Partition) items() Fields {
	return p.store.itemsAt(p.slot())
}
