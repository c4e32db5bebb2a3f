package store

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

type commits struct {
	mu   sync.Mutex
	vals []string
}

func (c *commits) add(v string) {
	c.mu.Lock()
	c.vals = append(c.vals, v)
	c.mu.Unlock()
}

func (c *commits) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.vals...)
}

func TestDebouncerOnlyLastValueCommits(t *testing.T) {
	var got commits
	d := NewDebouncer(30*time.Millisecond, got.add)
	defer d.Stop()

	d.Set("c")
	d.Set("ch")
	d.Set("chi")
	d.Set("chile")

	time.Sleep(150 * time.Millisecond)
	vals := got.get()
	if len(vals) != 1 || vals[0] != "chile" {
		t.Fatalf("commits = %v, want [chile]", vals)
	}
}

func TestDebouncerCommitsAgainAfterQuietWindow(t *testing.T) {
	var got commits
	d := NewDebouncer(20*time.Millisecond, got.add)
	defer d.Stop()

	d.Set("first")
	time.Sleep(100 * time.Millisecond)
	d.Set("second")
	time.Sleep(100 * time.Millisecond)

	vals := got.get()
	if len(vals) != 2 || vals[0] != "first" || vals[1] != "second" {
		t.Fatalf("commits = %v, want [first second]", vals)
	}
}

func TestDebouncerFlush(t *testing.T) {
	var got commits
	d := NewDebouncer(time.Hour, got.add)
	defer d.Stop()

	d.Set("pending")
	d.Flush()

	vals := got.get()
	if len(vals) != 1 || vals[0] != "pending" {
		t.Fatalf("commits = %v, want [pending]", vals)
	}

	// Flush with nothing pending is a no-op.
	d.Flush()
	if len(got.get()) != 1 {
		t.Error("empty flush committed")
	}
}

func TestDebouncerStalledCommitIsNotOvertaken(t *testing.T) {
	var got commits
	var mu sync.Mutex
	first := true
	entered := make(chan struct{})
	release := make(chan struct{})

	// The first commit stalls until released, simulating store-mutex
	// contention lasting longer than the quiet window.
	d := NewDebouncer(20*time.Millisecond, func(v string) {
		mu.Lock()
		stall := first
		first = false
		mu.Unlock()
		if stall {
			close(entered)
			<-release
		}
		got.add(v)
	})
	defer d.Stop()

	d.Set("old")
	<-entered
	d.Set("new")
	time.Sleep(80 * time.Millisecond) // second timer fires while old is stalled
	close(release)
	time.Sleep(100 * time.Millisecond)

	want := []string{"old", "new"}
	if vals := got.get(); !reflect.DeepEqual(vals, want) {
		t.Fatalf("commit order = %v, want %v", vals, want)
	}
}

func TestDebouncerFlushWaitsForStalledCommit(t *testing.T) {
	var got commits
	var mu sync.Mutex
	first := true
	entered := make(chan struct{})
	release := make(chan struct{})

	d := NewDebouncer(20*time.Millisecond, func(v string) {
		mu.Lock()
		stall := first
		first = false
		mu.Unlock()
		if stall {
			close(entered)
			<-release
		}
		got.add(v)
	})
	defer d.Stop()

	d.Set("old")
	<-entered
	d.Set("new")
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()
	d.Flush()

	want := []string{"old", "new"}
	if vals := got.get(); !reflect.DeepEqual(vals, want) {
		t.Fatalf("commit order = %v, want %v", vals, want)
	}
}

func TestDebouncerStopDropsPending(t *testing.T) {
	var got commits
	d := NewDebouncer(20*time.Millisecond, got.add)

	d.Set("doomed")
	d.Stop()
	time.Sleep(100 * time.Millisecond)

	if vals := got.get(); len(vals) != 0 {
		t.Fatalf("commits after Stop = %v, want none", vals)
	}
}
