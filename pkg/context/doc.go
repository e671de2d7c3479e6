// Package context 提供执行上下文与环境字段管理相关的子包。
//
// 子包列表：
//   - xtask: 执行单元标识（goroutine ID、固定 ID、可切换 Provider）
//   - xambient: 按执行单元隔离的环境字段存储与分区句柄
//
// 设计原则：
//   - 字段按 (分区, 执行单元) 二元组寻址，跨单元自动隔离
//   - 句柄每次操作即时解析归属，不持有字段表引用
//   - 执行单元标识可插拔，便于测试与协作式调度场景
package context
