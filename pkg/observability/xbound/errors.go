package xbound

import "errors"

var (
	// ErrDropEvent 由处理器返回（裸值或包装后），表示静默取消本次发射。
	// Log 捕获它并返回 nil；其他处理器错误原样向调用方传播。
	ErrDropEvent = errors.New("xbound: event dropped")

	// ErrNilHandler 表示 NewSlogEmitter 收到 nil slog.Handler。
	ErrNilHandler = errors.New("xbound: nil handler")

	// ErrNilLogger 表示操作的 logger 为 nil。
	ErrNilLogger = errors.New("xbound: nil logger")

	// ErrNilFunc 表示 TmpBind 的作用域函数为 nil。
	ErrNilFunc = errors.New("xbound: nil func")

	// ErrNilEmitter 表示发射时 logger 与包级配置都未提供目的地。
	ErrNilEmitter = errors.New("xbound: nil emitter")

	// ErrSharedContext 表示 Configure 收到了具体的上下文实例。
	// 包级配置被所有延迟 logger 共享，携带具体 Mapping 会让它们
	// 意外写同一份上下文；全局默认只接受 WithContextFactory。
	ErrSharedContext = errors.New("xbound: package config cannot carry a concrete context")
)
