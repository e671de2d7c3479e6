package xambient_test

import (
	"testing"

	"github.com/omeyang/bindkit/pkg/context/xambient"
)

// 包级函数共享进程全局状态，相关用例串行执行并在收尾时重置。

func TestDefault(t *testing.T) {
	t.Cleanup(xambient.ResetDefault)

	t.Run("lazy init", func(t *testing.T) {
		xambient.ResetDefault()
		s := xambient.Default()
		if s == nil {
			t.Fatal("Default() should not be nil")
		}
		if s != xambient.Default() {
			t.Fatal("Default() should be stable")
		}
	})

	t.Run("set default", func(t *testing.T) {
		custom, err := xambient.New()
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		xambient.SetDefault(custom)
		if xambient.Default() != custom {
			t.Fatal("SetDefault not observed")
		}
	})

	t.Run("set nil ignored", func(t *testing.T) {
		cur := xambient.Default()
		xambient.SetDefault(nil)
		if xambient.Default() != cur {
			t.Fatal("SetDefault(nil) should be a no-op")
		}
	})

	t.Run("reset reinitialises", func(t *testing.T) {
		before := xambient.Default()
		xambient.ResetDefault()
		after := xambient.Default()
		if before == after {
			t.Fatal("ResetDefault should produce a fresh store")
		}
	})
}

func TestPackageLevelFuncs(t *testing.T) {
	xambient.ResetDefault()
	t.Cleanup(xambient.ResetDefault)

	xambient.Bind(xambient.Fields{"a": 1, "b": 2})
	if got := xambient.Get(); got["a"] != 1 || got["b"] != 2 {
		t.Fatalf("Get() = %v", got)
	}

	xambient.Unbind("a", "missing")
	if got := xambient.Get(); len(got) != 1 || got["b"] != 2 {
		t.Fatalf("after Unbind: %v", got)
	}

	merged, err := xambient.Merge(nil, "", xambient.Fields{"c": 3})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if merged["b"] != 2 || merged["c"] != 3 {
		t.Fatalf("Merge() = %v", merged)
	}

	if got := xambient.GetMerged(staticView{"b": "view"}); got["b"] != "view" {
		t.Fatalf("GetMerged() = %v", got)
	}

	p := xambient.NewPartition()
	if p == nil {
		t.Fatal("NewPartition() returned nil")
	}
	p.New(xambient.Fields{"part": true})
	if got := xambient.Get(); len(got) != 1 {
		t.Fatalf("partition leaked into root context: %v", got)
	}

	xambient.Clear()
	if got := xambient.Get(); len(got) != 0 {
		t.Fatalf("after Clear: %v", got)
	}
}
