package asyncrt

import (
	"errors"
	"testing"
)

func TestResolvedFutureWait(t *testing.T) {
	fut := Resolved(42)
	v, err := fut.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("got %d, want 42", v)
	}
}

func TestGoAndThenInWorker(t *testing.T) {
	rt := NewRuntime(2)
	defer rt.Stop()

	fut := Go(rt, func() (int, error) { return 10, nil })
	next := ThenInWorker(rt, fut, func(v int, err error) (int, error) {
		if err != nil {
			return 0, err
		}
		return v * 2, nil
	})

	v, err := next.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 20 {
		t.Errorf("got %d, want 20", v)
	}
}

func TestThenInMainRequiresPump(t *testing.T) {
	rt := NewRuntime(1)
	defer rt.Stop()

	fut := Resolved(5)
	next := ThenInMain(rt, fut, func(v int, err error) (int, error) {
		return v + 1, err
	})

	select {
	case <-settledChan(next):
		t.Fatalf("main-lane continuation ran before Pump")
	default:
	}

	rt.Pump()

	v, err := next.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 6 {
		t.Errorf("got %d, want 6", v)
	}
}

func TestFlatMapInWorkerFlattensNestedFuture(t *testing.T) {
	rt := NewRuntime(2)
	defer rt.Stop()

	outer := Resolved(3)
	flattened := FlatMapInWorker(rt, outer, func(v int, err error) *Future[string] {
		return Go(rt, func() (string, error) {
			if v == 3 {
				return "three", nil
			}
			return "", errors.New("unexpected")
		})
	})

	v, err := flattened.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "three" {
		t.Errorf("got %q, want %q", v, "three")
	}
}

func TestErrorPropagatesAsValueNotPanic(t *testing.T) {
	rt := NewRuntime(1)
	defer rt.Stop()

	boom := errors.New("boom")
	fut := Go(rt, func() (int, error) { return 0, boom })
	_, err := fut.Wait()
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}

// settledChan returns a channel that is closed once fut settles, for tests
// that need to assert something has NOT happened yet without blocking.
func settledChan[T any](fut *Future[T]) <-chan struct{} {
	ch := make(chan struct{})
	fut.watch(func(T, error) { close(ch) })
	return ch
}
