package document

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"document-storage-server/internal/worker"
)

// Saver is the slice of Service the autosave machinery needs.
type Saver interface {
	Save(ctx context.Context, id int64, name string, content []byte) error
}

// editSession is one browser editing session's autosave state: the latest
// unsaved payload plus a dirty flag checked on every timer tick. At most one
// flush is in flight per session; cross-session saves under the same name
// remain last-write-wins.
type editSession struct {
	saver    Saver
	pool     *worker.Pool
	interval time.Duration

	mu      sync.Mutex
	docID   int64
	name    string
	pending []byte

	dirty    atomic.Bool
	inFlight atomic.Bool

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newEditSession(interval time.Duration, pool *worker.Pool, saver Saver) *editSession {
	s := &editSession{
		saver:    saver,
		pool:     pool,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *editSession) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *editSession) tick() {
	if !s.dirty.Load() {
		return
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return
	}
	s.dirty.Store(false)

	s.mu.Lock()
	docID, name, content := s.docID, s.name, s.pending
	s.mu.Unlock()

	accepted := s.pool.Submit(func(ctx context.Context) error {
		defer s.inFlight.Store(false)
		if err := s.saver.Save(ctx, docID, name, content); err != nil {
			// Keep the payload pending so the next tick retries.
			s.dirty.Store(true)
			return err
		}
		return nil
	})
	if !accepted {
		// The pool rejected the flush, so the closure above will never run.
		// Undo the claim or the session could never flush again.
		s.dirty.Store(true)
		s.inFlight.Store(false)
	}
}

// buffer replaces the pending payload and marks the session dirty.
func (s *editSession) buffer(docID int64, name string, content []byte) {
	s.mu.Lock()
	s.docID = docID
	s.name = name
	s.pending = content
	s.mu.Unlock()
	s.dirty.Store(true)
}

// halt stops the timer deterministically: once it returns, the ticker
// goroutine has exited and no further flush will be scheduled.
func (s *editSession) halt() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// SessionManager tracks one autosave timer per editing session and stops them
// on session end so no timer leaks past the session's lifetime.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*editSession
	interval time.Duration
	pool     *worker.Pool
	saver    Saver
}

func NewSessionManager(interval time.Duration, pool *worker.Pool, saver Saver) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*editSession),
		interval: interval,
		pool:     pool,
		saver:    saver,
	}
}

// Buffer stores a session's latest unsaved document, opening the session's
// timer on first use.
func (m *SessionManager) Buffer(sessionID string, docID int64, name string, content []byte) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	if !ok {
		session = newEditSession(m.interval, m.pool, m.saver)
		m.sessions[sessionID] = session
	}
	m.mu.Unlock()

	session.buffer(docID, name, content)
}

// Close ends a session and stops its timer. Unknown session ids are a no-op.
func (m *SessionManager) Close(sessionID string) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if ok {
		session.halt()
	}
}

// Shutdown stops every open session.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*editSession, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.halt()
	}
}
