package worker

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type funcJob struct {
	id string
	fn func() error
}

func (j funcJob) Execute() error { return j.fn() }
func (j funcJob) ID() string     { return j.id }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDispatcherRunsJobs(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(3, 10, quietLogger())
	d.Run()
	defer d.Stop()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		require.NoError(t, d.SubmitJob(funcJob{id: strconv.Itoa(i), fn: func() error {
			defer wg.Done()
			ran.Add(1)
			if i%2 == 0 {
				return errors.New("odd failure")
			}
			return nil
		}}))
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs did not finish")
	}
	require.EqualValues(t, 8, ran.Load())
}

func TestDispatcherQueueFull(t *testing.T) {
	t.Parallel()

	// Not running, so nothing drains the queue.
	d := NewDispatcher(1, 1, quietLogger())
	noop := funcJob{id: "noop", fn: func() error { return nil }}

	require.NoError(t, d.SubmitJob(noop))
	require.ErrorIs(t, d.SubmitJob(noop), ErrQueueFull)
}

func TestDispatcherStop(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(2, 4, quietLogger())
	d.Run()

	started := make(chan struct{})
	var finished atomic.Bool
	require.NoError(t, d.SubmitJob(funcJob{id: "slow", fn: func() error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	}}))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never started")
	}

	d.Stop()
	require.True(t, finished.Load(), "Stop must wait for running jobs")
	d.Stop()

	require.ErrorIs(t, d.SubmitJob(funcJob{id: "late", fn: func() error { return nil }}), ErrDispatcherStopped)
}

func TestDispatcherStopDrainsQueue(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(1, 10, quietLogger())
	d.Run()

	started := make(chan struct{})
	release := make(chan struct{})
	var executed atomic.Int32
	require.NoError(t, d.SubmitJob(funcJob{id: "blocker", fn: func() error {
		close(started)
		<-release
		executed.Add(1)
		return nil
	}}))
	<-started

	for i := 0; i < 5; i++ {
		require.NoError(t, d.SubmitJob(funcJob{id: strconv.Itoa(i), fn: func() error {
			executed.Add(1)
			return nil
		}}))
	}

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()
	close(release)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	require.EqualValues(t, 6, executed.Load(), "queued jobs must run before Stop returns")
	require.ErrorIs(t, d.SubmitJob(funcJob{id: "late", fn: func() error { return nil }}), ErrDispatcherStopped)
}

func TestDispatcherShutdownDeadline(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(1, 10, quietLogger())
	d.Run()

	started := make(chan struct{})
	release := make(chan struct{})
	var executed atomic.Int32
	require.NoError(t, d.SubmitJob(funcJob{id: "blocker", fn: func() error {
		close(started)
		<-release
		executed.Add(1)
		return nil
	}}))
	<-started
	for i := 0; i < 3; i++ {
		require.NoError(t, d.SubmitJob(funcJob{id: strconv.Itoa(i), fn: func() error {
			executed.Add(1)
			return nil
		}}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Let the blocker finish only after the dispatcher has given up on the queue.
	go func() {
		<-d.quit
		close(release)
	}()

	err := d.Shutdown(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.EqualValues(t, 1, executed.Load(), "running job finishes, queued jobs are dropped")
	require.NoError(t, d.Shutdown(context.Background()))
}
