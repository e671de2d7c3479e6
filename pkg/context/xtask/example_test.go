package xtask_test

import (
	"fmt"

	"github.com/omeyang/bindkit/pkg/context/xtask"
)

func ExampleFixed() {
	p := xtask.Fixed(42)

	fmt.Println(p.Current())
	fmt.Println(p.Current())
	// Output:
	// 42
	// 42
}

func ExampleSwitcher() {
	// 协作式调度器：切入任务时 Enter，切出时 leave。
	s := xtask.NewSwitcher(xtask.Fixed(0))

	leave := s.Enter(7)
	fmt.Println("in task:", s.Current())
	leave()
	fmt.Println("after leave:", s.Current())
	// Output:
	// in task: 7
	// after leave: 0
}
