package xbound

import "github.com/omeyang/bindkit/pkg/context/xambient"

// Processor 是处理器链的元素。
//
// 链按序执行，每个处理器接收目标 logger（可能为 nil）、方法名
// （可能为空串）和当前负载，返回交给下一级的负载。返回
// [ErrDropEvent]（裸值或包装）静默取消发射；其他错误中止发射
// 并原样返回给调用方。
//
// 处理器不得原地修改传入负载；需要变更时返回新映射。
// xambient.Merge 与 (*xambient.Store).Merge 满足此签名，
// 可直接作为链首元素插入。
type Processor func(logger any, method string, event xambient.Fields) (xambient.Fields, error)

// runChain 依次执行处理器链，nil 元素跳过。
// 错误（含 ErrDropEvent）原样上抛，由调用方区分取消与失败。
func runChain(chain []Processor, logger any, method string, event xambient.Fields) (xambient.Fields, error) {
	for _, p := range chain {
		if p == nil {
			continue
		}
		next, err := p(logger, method, event)
		if err != nil {
			return nil, err
		}
		event = next
	}
	return event, nil
}
