package fanout

import (
	"context"
	"testing"
	"time"
)

// TestAwaitTimeoutPendingChild tests the timed wait with one straggler:
// false while it is outstanding, true once it resolves in time
func TestAwaitTimeoutPendingChild(t *testing.T) {
	ps, children := promises("a", "b", "c", "d", "e")
	future := NewFuture(children)

	for _, p := range ps[:4] {
		p.Succeed()
	}

	done, err := future.AwaitTimeout(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done {
		t.Fatal("timed wait should report false with a child still pending")
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		ps[4].Succeed()
	}()

	done, err = future.AwaitTimeout(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Fatal("timed wait should report true once the last child resolves")
	}
	if !future.IsCompleteSuccess() {
		t.Error("woken waiter should observe the final classification")
	}
}

// TestAwaitCancellation tests that the interruptible wait surfaces context
// cancellation
func TestAwaitCancellation(t *testing.T) {
	_, children := promises("a")
	future := NewFuture(children)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if err := future.Await(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if future.IsDone() {
		t.Error("cancelling the wait must not complete the future")
	}
}

// TestAwaitCompletion tests that the interruptible wait returns nil on
// completion
func TestAwaitCompletion(t *testing.T) {
	ps, children := promises("a")
	future := NewFuture(children)

	go func() {
		time.Sleep(10 * time.Millisecond)
		ps[0].Succeed()
	}()

	if err := future.Await(context.Background()); err != nil {
		t.Fatalf("expected nil from Await on completion, got %v", err)
	}
	if !future.IsDone() {
		t.Error("Await returned before completion")
	}
}

// TestAwaitPrefersCompletionOverCancellation tests that a future which is
// already done reports completion even on a dead context
func TestAwaitPrefersCompletionOverCancellation(t *testing.T) {
	ps, children := promises("a")
	future := NewFuture(children)
	ps[0].Succeed()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := future.Await(ctx); err != nil {
		t.Errorf("completed future should report nil even on a cancelled context, got %v", err)
	}
	if done, err := future.AwaitTimeout(ctx, time.Millisecond); !done || err != nil {
		t.Errorf("completed future should report done=true, got done=%v err=%v", done, err)
	}
}

// TestWaitIgnoresCancellation tests the uninterruptible wait: cancellation
// signals around it change nothing, only actual completion returns
func TestWaitIgnoresCancellation(t *testing.T) {
	ps, children := promises("a")
	future := NewFuture(children)

	// Cancel a few contexts while the wait is parked; the uninterruptible
	// variant consults none of them.
	for i := 0; i < 3; i++ {
		_, cancel := context.WithCancel(context.Background())
		cancel()
	}

	returned := make(chan struct{})
	go func() {
		future.Wait()
		close(returned)
	}()

	select {
	case <-returned:
		t.Fatal("Wait returned before completion")
	case <-time.After(50 * time.Millisecond):
	}

	ps[0].Fail(context.Canceled)

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after completion")
	}
	if !future.IsCompleteFailure() {
		t.Error("woken waiter should observe the final classification")
	}
}

// TestWaitTimeout tests the uninterruptible timed wait in both directions
func TestWaitTimeout(t *testing.T) {
	ps, children := promises("a")
	future := NewFuture(children)

	if future.WaitTimeout(30 * time.Millisecond) {
		t.Fatal("timed wait should report false while the child is pending")
	}

	ps[0].Succeed()

	if !future.WaitTimeout(30 * time.Millisecond) {
		t.Fatal("timed wait should report true once done")
	}
}
