package resilience

import (
	"errors"
	"testing"
	"time"
)

func newBackendGroup(cfg CircuitBreakerConfig) *FallbackGroup[string] {
	fg := NewFallbackGroup("gemini", "gemini", FallbackConfig{CircuitBreaker: cfg})
	fg.AddFallback("chatgpt", "chatgpt")
	return fg
}

func TestFallbackGroup_PrimarySuccess(t *testing.T) {
	t.Parallel()
	fg := newBackendGroup(CircuitBreakerConfig{MaxFailures: 3})

	var called string
	err := fg.Execute(func(v string) error {
		called = v
		return nil
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "gemini" {
		t.Fatalf("called = %q, want gemini", called)
	}
}

func TestFallbackGroup_PrimaryFailFallbackSuccess(t *testing.T) {
	t.Parallel()
	fg := newBackendGroup(CircuitBreakerConfig{MaxFailures: 3})

	var called string
	err := fg.Execute(func(v string) error {
		if v == "gemini" {
			return errBackendDown
		}
		called = v
		return nil
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "chatgpt" {
		t.Fatalf("called = %q, want chatgpt", called)
	}
}

func TestFallbackGroup_AllFail(t *testing.T) {
	t.Parallel()
	fg := newBackendGroup(CircuitBreakerConfig{MaxFailures: 3})

	err := fg.Execute(func(string) error {
		return errBackendDown
	})
	if err == nil {
		t.Fatal("expected error when every backend fails")
	}
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}

func TestFallbackGroup_SkipsOpenBreaker(t *testing.T) {
	t.Parallel()
	fg := newBackendGroup(CircuitBreakerConfig{
		MaxFailures:  2,
		ResetTimeout: time.Hour,
	})

	// Trip the primary's breaker.
	for range 2 {
		_ = fg.Execute(func(v string) error {
			if v == "gemini" {
				return errBackendDown
			}
			return nil
		})
	}

	var called string
	err := fg.Execute(func(v string) error {
		called = v
		return nil
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "chatgpt" {
		t.Fatalf("called = %q, want chatgpt while the gemini circuit is open", called)
	}
}

func TestExecuteWithResult_Success(t *testing.T) {
	t.Parallel()
	fg := NewFallbackGroup(10, "ten", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fg.AddFallback("twenty", 20)

	result, err := ExecuteWithResult(fg, func(v int) (string, error) {
		if v == 10 {
			return "from-ten", nil
		}
		return "from-twenty", nil
	})
	if err != nil {
		t.Fatalf("ExecuteWithResult: %v", err)
	}
	if result != "from-ten" {
		t.Fatalf("result = %q, want from-ten", result)
	}
}

func TestExecuteWithResult_Failover(t *testing.T) {
	t.Parallel()
	fg := NewFallbackGroup(10, "ten", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})
	fg.AddFallback("twenty", 20)

	result, err := ExecuteWithResult(fg, func(v int) (string, error) {
		if v == 10 {
			return "", errBackendDown
		}
		return "from-twenty", nil
	})
	if err != nil {
		t.Fatalf("ExecuteWithResult: %v", err)
	}
	if result != "from-twenty" {
		t.Fatalf("result = %q, want from-twenty", result)
	}
}

func TestExecuteWithResult_AllFail(t *testing.T) {
	t.Parallel()
	fg := NewFallbackGroup(10, "ten", FallbackConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 3},
	})

	_, err := ExecuteWithResult(fg, func(int) (string, error) {
		return "", errBackendDown
	})
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}
