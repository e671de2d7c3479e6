package xbound

import "github.com/omeyang/bindkit/pkg/context/xambient"

// TmpBind 在 fn 的作用域内临时绑定 fields，退出时精确恢复进入时的上下文。
//
// 进入时快照 l 的全部上下文内容并执行 bind；fn 收到观察更新后
// 上下文的 logger（分区上下文时 tmp 与 l 共享同一映射，更新对双方
// 可见）。无论 fn 正常返回、返回错误，还是 panic，上下文都恢复为
// 进入时的快照（整体替换，非逆向差量），错误与 panic 原样向外传播，
// 绝不吞掉。嵌套使用时各层快照独立，内层恢复不影响外层。
//
// l 为 nil 返回 [ErrNilLogger]，fn 为 nil 返回 [ErrNilFunc]，
// 两者都在任何绑定发生之前检查。
func TmpBind(l *BoundLogger, fields xambient.Fields, fn func(tmp *BoundLogger) error) error {
	if l == nil {
		return ErrNilLogger
	}
	if fn == nil {
		return ErrNilFunc
	}

	snapshot := l.ctx.Items()
	defer func() {
		// panic 路径同样经过这里：先恢复，再继续 unwind。
		l.ctx.Clear()
		for k, v := range snapshot {
			l.ctx.Set(k, v)
		}
	}()

	return fn(l.Bind(fields))
}
