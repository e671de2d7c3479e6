package xtask

import "sync/atomic"

// Switcher 是面向协作式调度器的 Provider。
//
// 单线程任务框架（fiber/协程风格）在一个 OS 线程内切换多个任务，
// goroutine id 无法区分它们。调度器在切入任务时调用 [Switcher.Enter]，
// 切出时调用返回的 leave，使 Current 始终报告当前活跃任务的身份；
// 没有活跃任务时回退到 fallback（通常是 [Goroutine]）。
//
// 正确性前提：Enter/leave 只能由同一个调度线程调用（协作式调度器
// 对宿主的常规约束）。多个调度线程需要各自持有独立的 Switcher。
type Switcher struct {
	// cur 存储 id+1，0 表示"无活跃任务"，因此 0 也是合法的任务 id。
	cur      atomic.Uint64
	fallback Provider
}

// NewSwitcher 创建协作式调度 Provider。
// fallback 为 nil 时使用 [Goroutine]。
func NewSwitcher(fallback Provider) *Switcher {
	if fallback == nil {
		fallback = Goroutine()
	}
	return &Switcher{fallback: fallback}
}

// Enter 声明任务 id 开始执行，返回的 leave 恢复先前的活跃任务。
// 支持嵌套：内层 leave 恢复外层任务，调用顺序须与 Enter 相反（LIFO）。
func (s *Switcher) Enter(id uint64) (leave func()) {
	prev := s.cur.Swap(id + 1)
	return func() {
		s.cur.Store(prev)
	}
}

// Current 返回当前活跃任务的身份；无活跃任务时委托给 fallback。
func (s *Switcher) Current() uint64 {
	if v := s.cur.Load(); v != 0 {
		return v - 1
	}
	return s.fallback.Current()
}

var _ Provider = (*Switcher)(nil)
