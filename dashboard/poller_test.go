package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestNewPoller_ClampsInterval(t *testing.T) {
	refresh := func(context.Context) error { return nil }

	assert.Equal(t, DefaultInterval, NewPoller(0, refresh, nil).Interval())
	assert.Equal(t, MinInterval, NewPoller(time.Second, refresh, nil).Interval())
	assert.Equal(t, 45*time.Second, NewPoller(45*time.Second, refresh, zap.NewNop()).Interval())
}

func TestPoller_RefreshesImmediatelyAndStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	refreshed := make(chan struct{}, 1)
	var calls atomic.Int32
	p := NewPoller(MinInterval, func(ctx context.Context) error {
		calls.Add(1)
		select {
		case refreshed <- struct{}{}:
		default:
		}
		return nil
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	select {
	case <-refreshed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the initial refresh")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestPoller_KeepsRunningAfterRefreshError(t *testing.T) {
	defer goleak.VerifyNone(t)

	refreshed := make(chan struct{}, 1)
	p := NewPoller(MinInterval, func(ctx context.Context) error {
		select {
		case refreshed <- struct{}{}:
		default:
		}
		return errors.New("backend offline")
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	// A failed initial refresh must not stop the loop; Run returns only on
	// cancellation.
	<-refreshed
	select {
	case <-done:
		t.Fatal("Run returned after a refresh error")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}

func TestPoller_Run_ContextAlreadyCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int32
	p := NewPoller(time.Minute, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
	assert.Zero(t, calls.Load())
}
