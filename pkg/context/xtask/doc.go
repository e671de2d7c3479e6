// Package xtask 提供"当前执行单元身份"的可插拔抽象。
//
// 环境字段存储（xambient）按执行单元隔离：每个 goroutine 或协作式任务
// 拥有自己的字段映射。本包回答"现在是谁在执行"这一个问题，
// 存储逻辑与调度模型由此解耦。
//
// # Provider 选择
//
//   - [Goroutine]: 默认实现，以 goroutine id 作为执行单元身份。
//     适用于常规的抢占式并发（每个请求一个 goroutine）。
//   - [Switcher]: 协作式调度器（单线程内切换任务的框架）使用。
//     调度器在任务切换时调用 Enter/leave，使同一 OS 线程上的
//     不同任务各自观察到独立的映射。
//   - [Fixed]: 返回固定身份，供测试在无真实并发的情况下
//     模拟多个逻辑执行单元。
//
// # 设计决策
//
// goroutine 没有公开的身份 API，这是 Go 官方的有意设计
// （避免 goroutine-local storage 滥用）。本库的领域恰恰是
// execution-local 状态，因此通过 github.com/petermattis/goid
// 读取运行时内部的 goroutine id。goid 依赖运行时 g 结构的字段偏移，
// 新工具链上可能失配，进程启动时会与 runtime.Stack 栈头解析出的
// 权威 id 比对一次，失配即退回栈解析实现，身份始终正确。
// 该依赖只在 [Goroutine] 中出现，替换 Provider 即可完全移除。
package xtask
