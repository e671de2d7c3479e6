package xambient

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Store 是按（分区, 执行单元）寻址的分片字段表。
// 所有方法并发安全。零值不可用，必须经 [New] 构造。
type Store struct {
	shards []shard
	mask   uint64
	opts   options
	root   *Partition
}

type shard struct {
	mu sync.RWMutex
	m  map[slotKey]Fields
}

// slotKey 是存储的复合寻址键。
// 分区之间、执行单元之间都通过它隔离：任一分量不同即落在不同条目。
type slotKey struct {
	partition uint64
	unit      uint64
}

// New 创建 Store。配置无效时返回错误（如分片数不是 2 的幂）。
func New(opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		shards: make([]shard, o.shardCount),
		mask:   o.shardMask,
		opts:   o,
	}
	for i := range s.shards {
		s.shards[i].m = make(map[slotKey]Fields)
	}
	// 根分区承载包级 Bind/Get 等便利操作；它与 NewPartition
	// 产生的分区走同一套寻址，没有任何特殊路径。
	s.root = s.NewPartition(WithTag("root"))
	return s, nil
}

func (s *Store) shardFor(k slotKey) *shard {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], k.partition)
	binary.LittleEndian.PutUint64(buf[8:], k.unit)
	return &s.shards[xxhash.Sum64(buf[:])&s.mask]
}

// =============================================================================
// 根分区操作（环境上下文的包级语义）
// =============================================================================

// Bind 将 fields 并入当前执行单元的环境映射。
// 已有键被覆盖，新键加入；映射不存在时创建。
func (s *Store) Bind(fields Fields) {
	s.root.bind(fields)
}

// Unbind 删除各 key。key 不存在时静默跳过（幂等删除）。
func (s *Store) Unbind(keys ...string) {
	s.root.unbind(keys...)
}

// Clear 清空当前执行单元的环境映射并回收存储条目。
func (s *Store) Clear() {
	s.root.clear()
}

// Get 返回当前执行单元环境映射的拷贝。
// 从未绑定过时返回空（非 nil）映射，不在表中创建条目。
// 返回值归调用方所有，修改它不影响存储。
func (s *Store) Get() Fields {
	return s.root.items()
}

// GetMerged 返回环境映射与 view 上下文的合并拷贝。
// 键冲突时 view 的值优先（logger 自身上下文比环境字段更具体）。
// view 为 nil 时等价于 [Store.Get]。
func (s *Store) GetMerged(view ContextView) Fields {
	out := s.Get()
	if view == nil {
		return out
	}
	for k, v := range view.Items() {
		out[k] = v
	}
	return out
}

// Merge 是可插入处理器链的合并适配器：
// 返回新的事件负载，环境字段作为默认值补入，event 中已有的键保留。
//
// logger 与 method 仅为满足处理器签名，可为 nil/空串；event 不会被
// 原地修改。error 恒为 nil，错误返回值只为与处理器签名兼容。
// 方法值（store.Merge）可直接用作 xbound.Processor。
func (s *Store) Merge(logger any, method string, event Fields) (Fields, error) {
	_ = logger
	_ = method
	out := s.Get()
	for k, v := range event {
		out[k] = v
	}
	return out, nil
}

// Size 返回全部分区在所有执行单元上的活跃映射条目数。
// 跨分片快照，不保证瞬时一致；用于测试与泄漏观察。
func (s *Store) Size() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

// =============================================================================
// 槽位访问（Partition/Handle 共用的内部原语）
// =============================================================================

// itemsAt 返回槽位内容的拷贝，槽位不存在时返回空映射（不创建）。
func (s *Store) itemsAt(k slotKey) Fields {
	sh := s.shardFor(k)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	m := sh.m[k]
	out := make(Fields, len(m))
	for key, v := range m {
		out[key] = v
	}
	return out
}

func (s *Store) getAt(k slotKey, key string) (any, bool) {
	sh := s.shardFor(k)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	v, ok := sh.m[k][key]
	return v, ok
}

func (s *Store) lenAt(k slotKey) int {
	sh := s.shardFor(k)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	return len(sh.m[k])
}

// ensureLocked 确保槽位存在并返回底层映射，调用方必须持有 sh 的写锁。
// seed 仅在首次创建时调用（分区的初始工厂语义）。
func ensureLocked(sh *shard, k slotKey, seed func() Fields) Fields {
	m, ok := sh.m[k]
	if !ok {
		if seed != nil {
			m = seed()
		}
		if m == nil {
			m = make(Fields)
		}
		sh.m[k] = m
	}
	return m
}

// bindAt 确保槽位存在并并入 fields。
func (s *Store) bindAt(k slotKey, seed func() Fields, fields Fields) {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	m := ensureLocked(sh, k, seed)
	for key, v := range fields {
		m[key] = v
	}
}

func (s *Store) setAt(k slotKey, seed func() Fields, key string, value any) {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	ensureLocked(sh, k, seed)[key] = value
}

// deleteAt 删除单个键；键不存在时返回 [MissingFieldError]。
func (s *Store) deleteAt(k slotKey, key string) error {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	m, ok := sh.m[k]
	if !ok {
		return &MissingFieldError{Field: key}
	}
	if _, ok := m[key]; !ok {
		return &MissingFieldError{Field: key}
	}
	delete(m, key)
	return nil
}

// unbindAt 删除各键，不存在的键静默跳过。
func (s *Store) unbindAt(k slotKey, keys ...string) {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	m, ok := sh.m[k]
	if !ok {
		return
	}
	for _, key := range keys {
		delete(m, key)
	}
}

// clearAt 移除整个槽位条目。
// 下次触达按惰性创建得到全新空映射，效果等同"替换为空映射"，
// 同时把条目从表中回收。
func (s *Store) clearAt(k slotKey) {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	delete(sh.m, k)
}
