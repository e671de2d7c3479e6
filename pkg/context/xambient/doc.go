// Package xambient 提供按执行单元隔离的环境字段存储。
//
// 业务代码在请求入口绑定 request_id、tenant_id 等字段后，
// 同一执行单元内的任何日志调用都能取到这些字段，无需沿调用链显式传参。
// 不同执行单元（goroutine 或协作式任务）的字段互不可见。
//
// # 核心概念
//
//   - [Store]: 分片存储表，按（分区, 执行单元）二元组寻址字段映射。
//   - [Partition]: 隔离分区。每次 NewPartition 产生一个全新分区，
//     互不相关的子系统可以各自持有私有的环境上下文；
//     同一分区的所有 [Handle] 在同一执行单元内共享同一份映射。
//   - [Handle]: 绑定到（分区, 当前执行单元）的映射视图，
//     每次操作时解析当前执行单元，跨 goroutine 传递时自动切换到
//     对方的映射。
//   - [Detached]: 脱离分区的私有快照映射，供"不可变"logger 使用。
//
// # 基本用法
//
//	xambient.Bind(xambient.Fields{"request_id": "req-123"})
//	defer xambient.Clear()
//
//	// 日志发射时由处理器链合并（事件字段优先）：
//	payload, _ := xambient.Merge(nil, "info", xambient.Fields{"event": "done"})
//
// 私有分区：
//
//	p := xambient.NewPartition()
//	h := p.New(xambient.Fields{"job": "sync"})
//	h.Set("attempt", 3)
//
// # 合并优先级
//
// 环境字段永远是"兜底"：
//   - [Store.Merge]: 事件负载中已有的键保留，环境字段只补缺。
//   - [Store.GetMerged]: logger 自身上下文的键覆盖环境字段。
//
// 理由：按调用点显式给出的字段比环境字段更具体。
//
// # 并发模型
//
// 一份映射只属于一个（分区, 执行单元）组合，跨执行单元不存在共享，
// 因此单元内的操作天然全序，无需调用方加锁。Store 内部使用
// 分片 RWMutex 保护表结构本身（默认 32 分片）。
// [Handle] 与 [Partition] 并发安全；[Detached] 不是（见其文档）。
//
// # 生命周期
//
// 映射在首次 Bind/Attach 时惰性创建，直到 Clear 或 Store 被丢弃才回收。
// 本库不在执行单元结束时自动清理（goroutine id 会被运行时复用，
// 基于时间的清理有串值风险）；长生命周期复用执行单元的场景
// 应在单元边界调用 Clear。[Store.Size] 可观察活跃映射数量。
package xambient
