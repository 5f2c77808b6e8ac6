package document

import (
	"context"
	"sync"
	"testing"
	"time"

	"document-storage-server/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	mu    sync.Mutex
	saves []string
	ch    chan struct{}
}

func newRecordingSaver() *recordingSaver {
	return &recordingSaver{ch: make(chan struct{}, 16)}
}

func (r *recordingSaver) Save(ctx context.Context, id int64, name string, content []byte) error {
	r.mu.Lock()
	r.saves = append(r.saves, string(content))
	r.mu.Unlock()
	r.ch <- struct{}{}
	return nil
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recordingSaver) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return ""
	}
	return r.saves[len(r.saves)-1]
}

func waitForSave(t *testing.T, saver *recordingSaver) {
	t.Helper()
	select {
	case <-saver.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for autosave flush")
	}
}

func TestAutosaveFlushesDirtySession(t *testing.T) {
	saver := newRecordingSaver()
	pool := worker.NewPool(1, 16)
	defer pool.Shutdown()

	manager := NewSessionManager(10*time.Millisecond, pool, saver)
	defer manager.Shutdown()

	manager.Buffer("session-1", 1, "X.docx", []byte("v1"))
	waitForSave(t, saver)
	assert.Equal(t, "v1", saver.last())
}

func TestAutosaveFlushesLatestPendingPayload(t *testing.T) {
	saver := newRecordingSaver()
	pool := worker.NewPool(1, 16)
	defer pool.Shutdown()

	manager := NewSessionManager(50*time.Millisecond, pool, saver)
	defer manager.Shutdown()

	// Several buffers between ticks collapse into one flush of the latest.
	manager.Buffer("session-1", 1, "X.docx", []byte("v1"))
	manager.Buffer("session-1", 1, "X.docx", []byte("v2"))
	manager.Buffer("session-1", 1, "X.docx", []byte("v3"))

	waitForSave(t, saver)
	assert.Equal(t, "v3", saver.last())
}

func TestAutosaveDoesNotFlushCleanSession(t *testing.T) {
	saver := newRecordingSaver()
	pool := worker.NewPool(1, 16)
	defer pool.Shutdown()

	manager := NewSessionManager(10*time.Millisecond, pool, saver)
	defer manager.Shutdown()

	manager.Buffer("session-1", 1, "X.docx", []byte("v1"))
	waitForSave(t, saver)

	// Clean after the flush; further ticks must not save again.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
}

func TestCloseStopsTimerDeterministically(t *testing.T) {
	saver := newRecordingSaver()
	pool := worker.NewPool(1, 16)
	defer pool.Shutdown()

	manager := NewSessionManager(10*time.Millisecond, pool, saver)

	manager.Buffer("session-1", 1, "X.docx", []byte("v1"))
	waitForSave(t, saver)

	manager.Close("session-1")
	saved := saver.count()

	// The ticker goroutine has exited; nothing more is scheduled.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, saved, saver.count())

	// Closing an unknown session is a no-op.
	manager.Close("session-1")
	manager.Close("never-opened")
}

func TestFailedFlushRetriesOnNextTick(t *testing.T) {
	pool := worker.NewPool(1, 16)
	defer pool.Shutdown()

	failing := &flakySaver{failures: 1, ch: make(chan struct{}, 16)}
	manager := NewSessionManager(10*time.Millisecond, pool, failing)
	defer manager.Shutdown()

	manager.Buffer("session-1", 1, "X.docx", []byte("v1"))

	// First attempt fails, second succeeds.
	select {
	case <-failing.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for retry")
	}
	require.GreaterOrEqual(t, failing.attemptCount(), 2)
}

func TestAutosaveRecoversFromRejectedFlush(t *testing.T) {
	pool := worker.NewPool(1, 0)
	defer pool.Shutdown()

	// Occupy the only worker so that tick-time submissions are rejected.
	release := make(chan struct{})
	running := make(chan struct{})
	require.True(t, pool.Submit(func(ctx context.Context) error {
		close(running)
		<-release
		return nil
	}))
	<-running

	saver := newRecordingSaver()
	manager := NewSessionManager(10*time.Millisecond, pool, saver)
	defer manager.Shutdown()

	manager.Buffer("session-1", 1, "X.docx", []byte("v1"))

	// Every flush attempt is rejected while the worker is busy.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, saver.count())

	// Once the worker frees up, a later tick must still flush the session.
	close(release)
	waitForSave(t, saver)
	assert.Equal(t, "v1", saver.last())
}

type flakySaver struct {
	mu       sync.Mutex
	failures int
	attempts int
	ch       chan struct{}
}

func (f *flakySaver) Save(ctx context.Context, id int64, name string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return context.DeadlineExceeded
	}
	f.ch <- struct{}{}
	return nil
}

func (f *flakySaver) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}
