package loaders

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// trackingFetch records every key set it is called with and serves values
// from a fixed map, returning nil for missing keys.
func trackingFetch(data map[int]string) (BatchFunc[int, *string], func() [][]int) {
	var mu sync.Mutex
	var calls [][]int

	fetch := func(keys []int) ([]*string, error) {
		mu.Lock()
		calls = append(calls, append([]int(nil), keys...))
		mu.Unlock()

		out := make([]*string, len(keys))
		for i, k := range keys {
			if v, ok := data[k]; ok {
				value := v
				out[i] = &value
			}
		}
		return out, nil
	}

	getCalls := func() [][]int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
	return fetch, getCalls
}

func TestLoadOrderPreserved(t *testing.T) {
	fetch, calls := trackingFetch(map[int]string{1: "a", 3: "c"})
	l := New(fetch)

	// Schedule all three before resolving any, so they share a batch.
	t1 := l.LoadThunk(1)
	t2 := l.LoadThunk(2) // missing from the backing data
	t3 := l.LoadThunk(3)

	v1, err := t1()
	if err != nil {
		t.Fatalf("load 1: %v", err)
	}
	v2, _ := t2()
	v3, _ := t3()

	if v1 == nil || *v1 != "a" {
		t.Errorf("Expected a for key 1, got %v", v1)
	}
	if v2 != nil {
		t.Errorf("Expected nil for missing key 2, got %q", *v2)
	}
	if v3 == nil || *v3 != "c" {
		t.Errorf("Expected c for key 3, got %v", v3)
	}

	got := calls()
	if len(got) != 1 {
		t.Fatalf("Expected 1 fetch call, got %d", len(got))
	}
	if len(got[0]) != 3 || got[0][0] != 1 || got[0][1] != 2 || got[0][2] != 3 {
		t.Errorf("Expected keys [1 2 3] in request order, got %v", got[0])
	}
}

func TestLoadDedup(t *testing.T) {
	fetch, calls := trackingFetch(map[int]string{1: "a", 2: "b"})
	l := New(fetch)

	t1 := l.LoadThunk(1)
	t1again := l.LoadThunk(1)
	t2 := l.LoadThunk(2)

	if v, err := t1(); err != nil || v == nil || *v != "a" {
		t.Fatalf("load 1: %v, %v", v, err)
	}
	if v, _ := t1again(); v == nil || *v != "a" {
		t.Errorf("Expected duplicate load to resolve to a, got %v", v)
	}
	if v, _ := t2(); v == nil || *v != "b" {
		t.Errorf("Expected b for key 2, got %v", v)
	}

	got := calls()
	if len(got) != 1 {
		t.Fatalf("Expected 1 fetch call, got %d", len(got))
	}
	if len(got[0]) != 2 {
		t.Errorf("Expected deduped key set of 2, got %v", got[0])
	}
}

func TestLoadCachedAcrossBatches(t *testing.T) {
	fetch, calls := trackingFetch(map[int]string{1: "a", 2: "b"})
	l := New(fetch)

	if _, err := l.Load(1); err != nil {
		t.Fatalf("load 1: %v", err)
	}
	// Second batch; key 1 must come from the cache, not the fetch.
	if _, err := l.Load(1); err != nil {
		t.Fatalf("reload 1: %v", err)
	}
	if _, err := l.Load(2); err != nil {
		t.Fatalf("load 2: %v", err)
	}

	got := calls()
	if len(got) != 2 {
		t.Fatalf("Expected 2 fetch calls, got %d", len(got))
	}
	for _, call := range got {
		if len(call) != 1 {
			t.Errorf("Expected single-key fetches, got %v", call)
		}
	}
}

func TestBatchErrorFailsAllThunks(t *testing.T) {
	wantErr := errors.New("bulk fetch blew up")
	l := New(func(keys []int) ([]*string, error) {
		return nil, wantErr
	})

	t1 := l.LoadThunk(1)
	t2 := l.LoadThunk(2)

	if _, err := t1(); !errors.Is(err, wantErr) {
		t.Errorf("Expected batch error for key 1, got %v", err)
	}
	if _, err := t2(); !errors.Is(err, wantErr) {
		t.Errorf("Expected the same batch error for key 2, got %v", err)
	}
}

func TestResultLengthMismatch(t *testing.T) {
	l := New(func(keys []int) ([]*string, error) {
		return make([]*string, len(keys)+1), nil
	})

	if _, err := l.Load(1); err == nil {
		t.Error("Expected an error for a result slice of the wrong length")
	}
}

func TestMaxBatchDispatchesEarly(t *testing.T) {
	fetch, calls := trackingFetch(map[int]string{})
	l := New(fetch)
	l.maxBatch = 2
	l.wait = time.Hour // timer must not be what dispatches

	t1 := l.LoadThunk(1)
	t2 := l.LoadThunk(2)
	t3 := l.LoadThunk(3) // opens a second batch

	if _, err := t1(); err != nil {
		t.Fatalf("load 1: %v", err)
	}
	if _, err := t2(); err != nil {
		t.Fatalf("load 2: %v", err)
	}

	got := calls()
	if len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("Expected one full batch of 2, got %v", got)
	}

	// Resolving the third thunk would block on the hour-long timer, so just
	// check it was not swept into the first batch.
	_ = t3
	for _, call := range got {
		for _, k := range call {
			if k == 3 {
				t.Error("Key 3 should be in the next batch")
			}
		}
	}
}

func TestLoadAll(t *testing.T) {
	fetch, calls := trackingFetch(map[int]string{1: "a", 2: "b", 3: "c"})
	l := New(fetch)

	values, err := l.LoadAll([]int{3, 1, 2, 1})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	want := []string{"c", "a", "b", "a"}
	for i, v := range values {
		if v == nil || *v != want[i] {
			t.Errorf("Position %d: expected %q, got %v", i, want[i], v)
		}
	}

	got := calls()
	if len(got) != 1 || len(got[0]) != 3 {
		t.Errorf("Expected one deduped fetch of 3 keys, got %v", got)
	}
}
