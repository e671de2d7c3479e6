package xambient_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/omeyang/bindkit/pkg/context/xambient"
	"github.com/omeyang/bindkit/pkg/context/xtask"
)

func newStore(t *testing.T, opts ...xambient.Option) *xambient.Store {
	t.Helper()
	s, err := xambient.New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := newStore(t)
		if s == nil {
			t.Fatal("store should not be nil")
		}
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := xambient.New(xambient.WithProvider(nil))
		if !errors.Is(err, xambient.ErrNilProvider) {
			t.Errorf("expected ErrNilProvider, got %v", err)
		}
	})

	t.Run("shard count not power of two", func(t *testing.T) {
		_, err := xambient.New(xambient.WithShardCount(3))
		if !errors.Is(err, xambient.ErrInvalidShardCount) {
			t.Errorf("expected ErrInvalidShardCount, got %v", err)
		}
	})

	t.Run("shard count zero", func(t *testing.T) {
		_, err := xambient.New(xambient.WithShardCount(0))
		if !errors.Is(err, xambient.ErrInvalidShardCount) {
			t.Errorf("expected ErrInvalidShardCount, got %v", err)
		}
	})

	t.Run("shard count above max", func(t *testing.T) {
		_, err := xambient.New(xambient.WithShardCount(1 << 17))
		if !errors.Is(err, xambient.ErrInvalidShardCount) {
			t.Errorf("expected ErrInvalidShardCount, got %v", err)
		}
	})

	t.Run("nil option ignored", func(t *testing.T) {
		s, err := xambient.New(nil, xambient.WithShardCount(64))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if s == nil {
			t.Fatal("store should not be nil")
		}
	})
}

func TestStoreBindGet(t *testing.T) {
	t.Run("get without bind returns empty non-nil", func(t *testing.T) {
		s := newStore(t)
		got := s.Get()
		if got == nil {
			t.Fatal("Get() should return non-nil map")
		}
		if len(got) != 0 {
			t.Fatalf("Get() = %v, want empty", got)
		}
	})

	t.Run("bind then get", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"a": 1, "b": "x"})

		got := s.Get()
		if got["a"] != 1 || got["b"] != "x" {
			t.Fatalf("Get() = %v", got)
		}
	})

	t.Run("later bind overrides", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"a": 1})
		s.Bind(xambient.Fields{"a": 2})

		got := s.Get()
		if got["a"] != 2 {
			t.Fatalf(`Get()["a"] = %v, want 2`, got["a"])
		}
	})

	t.Run("binds accumulate", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"a": 1, "b": 2})
		s.Bind(xambient.Fields{"c": 3})

		got := s.Get()
		if len(got) != 3 || got["a"] != 1 || got["b"] != 2 || got["c"] != 3 {
			t.Fatalf("Get() = %v", got)
		}
	})

	t.Run("get returns a copy", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"a": 1})

		got := s.Get()
		got["a"] = 99
		got["injected"] = true

		if fresh := s.Get(); fresh["a"] != 1 || len(fresh) != 1 {
			t.Fatalf("store mutated through returned copy: %v", fresh)
		}
	})
}

func TestStoreUnbind(t *testing.T) {
	s := newStore(t)
	s.Bind(xambient.Fields{"a": 234, "b": 34})

	s.Unbind("a")
	if got := s.Get(); len(got) != 1 || got["b"] != 34 {
		t.Fatalf("after Unbind(a): %v", got)
	}

	// 缺失键静默跳过
	s.Unbind("missing")
	if got := s.Get(); len(got) != 1 || got["b"] != 34 {
		t.Fatalf("after Unbind(missing): %v", got)
	}

	// 从未绑定过的 store 上 Unbind 也是 no-op
	s2 := newStore(t)
	s2.Unbind("anything")
	if got := s2.Get(); len(got) != 0 {
		t.Fatalf("Unbind on empty store changed state: %v", got)
	}
}

func TestStoreClear(t *testing.T) {
	s := newStore(t)
	s.Bind(xambient.Fields{"a": 1})
	s.Clear()

	if got := s.Get(); len(got) != 0 {
		t.Fatalf("after Clear: %v", got)
	}

	// Clear 回收条目
	if n := s.Size(); n != 0 {
		t.Fatalf("Size() = %d after Clear, want 0", n)
	}
}

type staticView xambient.Fields

func (v staticView) Items() xambient.Fields {
	return xambient.Fields(v).Clone()
}

func TestStoreGetMerged(t *testing.T) {
	t.Run("view wins on collision", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"x": 1, "shared": "ambient"})

		got := s.GetMerged(staticView{"y": 2, "shared": "logger"})
		want := xambient.Fields{"x": 1, "y": 2, "shared": "logger"}
		for k, v := range want {
			if got[k] != v {
				t.Fatalf("GetMerged()[%s] = %v, want %v", k, got[k], v)
			}
		}
		if len(got) != len(want) {
			t.Fatalf("GetMerged() = %v, want %v", got, want)
		}
	})

	t.Run("nil view equals Get", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"x": 1})

		got := s.GetMerged(nil)
		if len(got) != 1 || got["x"] != 1 {
			t.Fatalf("GetMerged(nil) = %v", got)
		}
	})

	t.Run("no prior binds", func(t *testing.T) {
		s := newStore(t)
		got := s.GetMerged(staticView{"b": 2})
		if len(got) != 1 || got["b"] != 2 {
			t.Fatalf("GetMerged() = %v", got)
		}
	})
}

func TestStoreMerge(t *testing.T) {
	t.Run("ambient as defaults, event wins", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"a": 1, "shared": "ambient"})

		event := xambient.Fields{"b": 2, "shared": "event"}
		got, err := s.Merge(nil, "", event)
		if err != nil {
			t.Fatalf("Merge returned error: %v", err)
		}
		if got["a"] != 1 || got["b"] != 2 || got["shared"] != "event" {
			t.Fatalf("Merge() = %v", got)
		}
	})

	t.Run("input payload not mutated", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"a": 1})

		event := xambient.Fields{"b": 2}
		_, err := s.Merge(nil, "info", event)
		if err != nil {
			t.Fatalf("Merge returned error: %v", err)
		}
		if len(event) != 1 || event["b"] != 2 {
			t.Fatalf("input payload mutated: %v", event)
		}
	})

	t.Run("empty context passes payload through", func(t *testing.T) {
		s := newStore(t)
		got, err := s.Merge(nil, "", xambient.Fields{"b": 2})
		if err != nil {
			t.Fatalf("Merge returned error: %v", err)
		}
		if len(got) != 1 || got["b"] != 2 {
			t.Fatalf("Merge() = %v", got)
		}
	})

	t.Run("cleared context", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"a": 1})
		s.Clear()

		got, err := s.Merge(nil, "", xambient.Fields{"b": 2})
		if err != nil {
			t.Fatalf("Merge returned error: %v", err)
		}
		if len(got) != 1 || got["b"] != 2 {
			t.Fatalf("Merge() after Clear = %v", got)
		}
	})
}

// providerSwitch 在测试中切换"当前执行单元"，模拟协作式调度。
type providerSwitch struct {
	mu sync.Mutex
	id uint64
}

func (p *providerSwitch) Current() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

func (p *providerSwitch) set(id uint64) {
	p.mu.Lock()
	p.id = id
	p.mu.Unlock()
}

func TestStoreUnitIsolation(t *testing.T) {
	t.Run("logical units via switchable provider", func(t *testing.T) {
		p := &providerSwitch{}
		s := newStore(t, xambient.WithProvider(p))

		p.set(1)
		s.Bind(xambient.Fields{"unit": 1})

		p.set(2)
		if got := s.Get(); len(got) != 0 {
			t.Fatalf("unit 2 sees unit 1 fields: %v", got)
		}
		s.Bind(xambient.Fields{"unit": 2})

		p.set(1)
		if got := s.Get(); got["unit"] != 1 {
			t.Fatalf("unit 1 context corrupted: %v", got)
		}
	})

	t.Run("real goroutines", func(t *testing.T) {
		s := newStore(t)
		s.Bind(xambient.Fields{"main": true})

		done := make(chan xambient.Fields)
		go func() {
			// 新 goroutine 从空上下文开始
			inner := s.Get()
			s.Bind(xambient.Fields{"worker": true})
			done <- inner
		}()
		inner := <-done

		if len(inner) != 0 {
			t.Fatalf("worker goroutine inherited fields: %v", inner)
		}
		if got := s.Get(); len(got) != 1 || got["main"] != true {
			t.Fatalf("main context affected by worker: %v", got)
		}
	})

	t.Run("switcher provider isolates cooperative tasks", func(t *testing.T) {
		sw := xtask.NewSwitcher(nil)
		s := newStore(t, xambient.WithProvider(sw))

		leave := sw.Enter(10)
		s.Bind(xambient.Fields{"task": 10})
		leave()

		leave = sw.Enter(11)
		if got := s.Get(); len(got) != 0 {
			t.Fatalf("task 11 sees task 10 fields: %v", got)
		}
		leave()

		leave = sw.Enter(10)
		if got := s.Get(); got["task"] != 10 {
			t.Fatalf("task 10 context lost: %v", got)
		}
		leave()
	})
}

func TestStoreSize(t *testing.T) {
	p := &providerSwitch{}
	s := newStore(t, xambient.WithProvider(p))

	if n := s.Size(); n != 0 {
		t.Fatalf("fresh store Size() = %d", n)
	}

	p.set(1)
	s.Bind(xambient.Fields{"a": 1})
	p.set(2)
	s.Bind(xambient.Fields{"a": 2})

	if n := s.Size(); n != 2 {
		t.Fatalf("Size() = %d, want 2", n)
	}

	// 不同分区的映射分开计数
	part := s.NewPartition()
	part.New(xambient.Fields{"b": 1})
	if n := s.Size(); n != 3 {
		t.Fatalf("Size() = %d, want 3", n)
	}

	p.set(1)
	s.Clear()
	if n := s.Size(); n != 2 {
		t.Fatalf("Size() after Clear = %d, want 2", n)
	}
}

func TestStoreConcurrentBind(t *testing.T) {
	s := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.Bind(xambient.Fields{"n": n, "j": j})
				got := s.Get()
				if got["n"] != n {
					t.Errorf("goroutine %d observed foreign fields: %v", n, got)
					return
				}
				s.Clear()
			}
		}(i)
	}
	wg.Wait()
}
