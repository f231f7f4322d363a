package cleanup

import (
	"errors"
	"testing"
)

func TestRunAll_LIFOAndJoinedErrors(t *testing.T) {
	var order []int
	errA := errors.New("close cache")
	Register(func() error { order = append(order, 1); return errA })
	Register(nil)
	Register(func() error { order = append(order, 2); return nil })

	err := RunAll()
	if !errors.Is(err, errA) {
		t.Fatalf("RunAll() = %v, want wrapped %v", err, errA)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("order = %v, want [2 1]", order)
	}
	if err := RunAll(); err != nil {
		t.Fatalf("second RunAll() = %v, want nil", err)
	}
}
