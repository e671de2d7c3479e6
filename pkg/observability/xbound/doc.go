// Package xbound 提供携带上下文的日志发射管线。
//
// [BoundLogger] 把三样东西绑在一起：上下文映射（xambient.Mapping）、
// 处理器链（[Processor]）和发射目的地（[Emitter]）。每次发射时，
// 上下文字段并入事件负载，处理器链依次加工，最终交给 Emitter。
//
// # 组件
//
//   - [Processor]: 处理器链元素，逐个加工事件负载。
//     xambient 的 Merge（环境字段合并适配器）可直接插入链中。
//   - [Emitter]: 发射目的地。[SlogEmitter] 桥接 log/slog，
//     [CaptureEmitter] 供测试记录，[Discard] 丢弃。
//   - [BoundLogger]: 不可变 logger 视图；Bind/New/Unbind 派生新实例。
//   - [LazyLogger]: 延迟物化代理。配置先于使用捕获，每次
//     Bind/Resolve 时按"那一刻"的包级配置构造具体 logger，
//     使早于 Configure 创建的 logger 也能吃到后来的配置。
//   - [TmpBind]: 带作用域的临时绑定，任何退出路径（正常返回、
//     错误、panic）都精确恢复进入时的上下文。
//   - [AsImmutable]: 把共享上下文的 logger 转为私有快照上下文的
//     logger，切断与环境存储的联系。
//
// # 基本用法
//
//	store, _ := xambient.New()
//	em, _ := xbound.NewSlogEmitter(slog.Default().Handler())
//	log := xbound.NewLogger(em, xbound.WithProcessors(store.Merge))
//
//	log = log.Bind(xambient.Fields{"request_id": "req-1"})
//	_ = log.Info(ctx, "request handled", nil)
//
// # 上下文共享语义
//
// Bind 的共享与否由上下文实现决定：分区 Handle 派生的 logger
// 共享同一份映射（绑定互相可见），Detached 上下文派生即拷贝。
// 默认配置使用 Detached（每个 logger 私有上下文），接入环境存储
// 需显式 WithContext 一个分区 Handle 或插入 store.Merge 处理器。
package xbound
