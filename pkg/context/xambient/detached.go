package xambient

// Detached 是脱离分区的私有映射：一份不与任何存储共享的时点快照。
// xbound.AsImmutable 用它切断 logger 与共享环境上下文的联系。
//
// 非并发安全：Detached 是单个 logger 的私有上下文，随 logger
// 在一个执行单元内使用。需要跨执行单元共享时应使用分区 [Handle]。
type Detached struct {
	m Fields
}

// NewDetached 以 fields 的拷贝创建私有映射。
// fields 为 nil 时创建空映射；调用方之后修改 fields 不影响结果。
func NewDetached(fields Fields) *Detached {
	m := make(Fields, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	return &Detached{m: m}
}

// Get 返回 key 对应的值；不存在时返回 (nil, false)。
func (d *Detached) Get(key string) (any, bool) {
	v, ok := d.m[key]
	return v, ok
}

// Set 写入或覆盖 key。
func (d *Detached) Set(key string, value any) {
	d.m[key] = value
}

// Delete 删除 key；不存在时返回携带字段名的 [MissingFieldError]。
func (d *Detached) Delete(key string) error {
	if _, ok := d.m[key]; !ok {
		return &MissingFieldError{Field: key}
	}
	delete(d.m, key)
	return nil
}

// Len 返回字段数量。
func (d *Detached) Len() int {
	return len(d.m)
}

// Items 返回内容拷贝，永不为 nil。
func (d *Detached) Items() Fields {
	out := make(Fields, len(d.m))
	for k, v := range d.m {
		out[k] = v
	}
	return out
}

// Clear 清空全部字段。
func (d *Detached) Clear() {
	clear(d.m)
}

// Derive 返回并入 extra 后的独立副本；接收者不受影响。
// 与 [Handle.Derive] 相反，这里没有共享：派生即拷贝。
func (d *Detached) Derive(extra Fields) Mapping {
	out := NewDetached(d.m)
	for k, v := range extra {
		out.m[k] = v
	}
	return out
}

var _ Mapping = (*Detached)(nil)
