// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xbound: 绑定字段的日志器，处理器链与环境字段合并
//
// 设计原则：
//   - 日志器不可变，Bind/New 返回新实例
//   - 环境字段通过处理器在发射前合并，事件负载优先
//   - 发射端可插拔，默认基于 log/slog
package observability
