package xbound

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/omeyang/bindkit/pkg/context/xambient"
)

// Emitter 是发射目的地：处理器链走完后的事件负载交给它。
// 实现必须并发安全。
type Emitter interface {
	// Emit 发射一条事件。method 是调用的日志方法名（如 "info"），
	// event 是处理器链产出的最终负载。
	Emit(ctx context.Context, method string, event xambient.Fields) error
}

// =============================================================================
// SlogEmitter：桥接 log/slog
// =============================================================================

// SlogEmitter 把事件转发给 slog.Handler。
//
// 映射规则：method 按名字转日志级别（debug/info/warn/error，
// 其余视为 info）；负载中的 "event" 键（字符串值）作为消息，
// 其余键按键序转为 slog 属性。
type SlogEmitter struct {
	h slog.Handler
}

// NewSlogEmitter 创建 slog 桥接 Emitter。
// h 不得为 nil，否则返回 [ErrNilHandler]。
func NewSlogEmitter(h slog.Handler) (*SlogEmitter, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	return &SlogEmitter{h: h}, nil
}

// levelFor 把日志方法名映射为 slog 级别，未知名字归入 Info。
func levelFor(method string) slog.Level {
	switch method {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Emit 实现 [Emitter]。
func (e *SlogEmitter) Emit(ctx context.Context, method string, event xambient.Fields) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level := levelFor(method)
	if !e.h.Enabled(ctx, level) {
		return nil
	}

	msg := ""
	keys := make([]string, 0, len(event))
	for k, v := range event {
		if k == "event" {
			if s, ok := v.(string); ok {
				msg = s
				continue
			}
		}
		keys = append(keys, k)
	}
	// 键排序换取确定性的属性顺序（map 无序）
	slices.Sort(keys)

	rec := slog.NewRecord(time.Now(), level, msg, 0)
	for _, k := range keys {
		rec.AddAttrs(slog.Any(k, event[k]))
	}
	return e.h.Handle(ctx, rec)
}

// =============================================================================
// CaptureEmitter：测试用记录器
// =============================================================================

// Call 是 CaptureEmitter 记录的一次发射。
type Call struct {
	Method string
	Event  xambient.Fields
}

// CaptureEmitter 记录所有发射，供测试与示例断言。并发安全。
type CaptureEmitter struct {
	mu    sync.Mutex
	calls []Call
}

// Emit 实现 [Emitter]：记录 method 与 event 的拷贝。
func (e *CaptureEmitter) Emit(_ context.Context, method string, event xambient.Fields) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Method: method, Event: event.Clone()})
	return nil
}

// Calls 返回已记录发射的拷贝。
func (e *CaptureEmitter) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.calls)
}

// Last 返回最近一次发射；尚无记录时 ok 为 false。
func (e *CaptureEmitter) Last() (call Call, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.calls) == 0 {
		return Call{}, false
	}
	return e.calls[len(e.calls)-1], true
}

// Reset 清空记录。
func (e *CaptureEmitter) Reset() {
	e.mu.Lock()
	e.calls = nil
	e.mu.Unlock()
}

// =============================================================================
// Discard
// =============================================================================

type discardEmitter struct{}

func (discardEmitter) Emit(context.Context, string, xambient.Fields) error {
	return nil
}

// Discard 丢弃所有事件。
var Discard Emitter = discardEmitter{}

// 编译期接口检查。
var (
	_ Emitter = (*SlogEmitter)(nil)
	_ Emitter = (*CaptureEmitter)(nil)
)
