package seep

import (
	"errors"
	"testing"
)

func TestRetryFirstSuccess(t *testing.T) {
	calls := 0
	err := retry(3, 0, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("retry = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryRecovers(t *testing.T) {
	calls := 0
	err := retry(3, 0, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retry = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryExhausted(t *testing.T) {
	terminal := errors.New("persistent")
	calls := 0
	err := retry(3, 0, func() error {
		calls++
		return terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("retry = %v, want %v", err, terminal)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryBudgetFloor(t *testing.T) {
	for _, attempts := range []int{0, -1, 1} {
		calls := 0
		retry(attempts, 0, func() error {
			calls++
			return errors.New("nope")
		})
		if calls != 1 {
			t.Errorf("attempts=%d: calls = %d, want 1", attempts, calls)
		}
	}
}
