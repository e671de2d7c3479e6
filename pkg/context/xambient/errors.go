package xambient

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField 表示删除/访问的字段不存在。
	// 具体字段名通过 [MissingFieldError] 携带，用 errors.As 提取。
	ErrMissingField = errors.New("xambient: missing field")

	// ErrPartitionMismatch 表示试图用其他分区的 Handle 初始化本分区。
	// 分区之间相互隔离，跨分区拷贝必须显式走 Items()，不允许静默合并。
	ErrPartitionMismatch = errors.New("xambient: handle belongs to a different partition")

	// ErrNilHandle 表示 From 的来源 Handle 为 nil。
	ErrNilHandle = errors.New("xambient: nil handle")

	// ErrNilProvider 表示 WithProvider 传入了 nil。
	ErrNilProvider = errors.New("xambient: nil provider")

	// ErrInvalidShardCount 表示分片数不是 2 的幂或超出上限。
	ErrInvalidShardCount = errors.New("xambient: invalid shard count")
)

// MissingFieldError 携带缺失字段的名称。
// 包装 [ErrMissingField]，errors.Is(err, ErrMissingField) 成立。
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("xambient: missing field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}
