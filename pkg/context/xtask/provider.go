package xtask

import (
	"runtime"

	"github.com/petermattis/goid"
)

// Provider 报告调用方所属执行单元的身份。
// 所有实现必须并发安全；Current 不得阻塞。
type Provider interface {
	// Current 返回当前执行单元的身份。
	// 同一执行单元内多次调用返回相同值；不同执行单元的返回值互不相同。
	Current() uint64
}

// goidProvider 通过 goid 直接读取运行时内部的 goroutine id。
type goidProvider struct{}

func (goidProvider) Current() uint64 {
	// goid.Get 返回 int64，运行时内部 goid 从 1 递增，窄化安全。
	return uint64(goid.Get())
}

// stackProvider 从 runtime.Stack 的首行头部解析 goroutine id。
// 比 goid 慢若干个数量级，仅作为 goid 偏移失配时的替补路径。
type stackProvider struct{}

func (stackProvider) Current() uint64 {
	// 只需要 "goroutine <id> [" 头部，64 字节足够。
	var buf [64]byte
	return parseGoroutineID(buf[:runtime.Stack(buf[:], false)])
}

// parseGoroutineID 解析 "goroutine <id> [" 形式的栈头，
// 格式不符时返回 0。
func parseGoroutineID(header []byte) uint64 {
	const prefix = "goroutine "
	if len(header) < len(prefix) {
		return 0
	}
	var id uint64
	for _, c := range header[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}

// goroutineSingleton 进程启动时选定的实现，所有调用方共享。
var goroutineSingleton = pickGoroutineProvider()

// pickGoroutineProvider 校验 goid 快路径后选定默认实现。
//
// goid 通过镜像运行时内部 g 结构的字段偏移读取 goroutine id，
// Go 运行时升级后偏移可能失配（读到 0 或无关值）。启动时与栈头
// 解析出的权威 id 比对一次：一致走快路径，失配则整体退回栈解析，
// 执行单元身份在任何工具链上都保持正确。
func pickGoroutineProvider() Provider {
	if id := (goidProvider{}).Current(); id != 0 && id == (stackProvider{}).Current() {
		return goidProvider{}
	}
	return stackProvider{}
}

// Goroutine 返回默认 Provider：以当前 goroutine id 作为执行单元身份。
// 返回包级单例。
func Goroutine() Provider {
	return goroutineSingleton
}

// fixedProvider 始终返回固定身份。
type fixedProvider uint64

func (f fixedProvider) Current() uint64 {
	return uint64(f)
}

// Fixed 返回始终报告 id 的 Provider。
//
// 供测试在单个 goroutine 内模拟多个逻辑执行单元：
// 对同一个 Store 使用不同的 Fixed id 构造多个实例，
// 即可在无真实并发的情况下验证隔离性。
func Fixed(id uint64) Provider {
	return fixedProvider(id)
}

// 编译期接口检查。
var (
	_ Provider = goidProvider{}
	_ Provider = stackProvider{}
	_ Provider = fixedProvider(0)
)
