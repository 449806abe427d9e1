package forms

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/estatedesk/admin/pkg/metrics"
)

type sessionEntry struct {
	form      *ProjectForm
	expiresAt time.Time
}

// SessionStore keeps open project forms in memory. A session expires after
// ttl without being touched.
type SessionStore struct {
	ttl time.Duration
	now func() time.Time
	log *logrus.Entry

	mu    sync.Mutex
	items map[uuid.UUID]*sessionEntry
}

func NewSessionStore(ttl time.Duration, log *logrus.Entry) *SessionStore {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &SessionStore{
		ttl:   ttl,
		now:   time.Now,
		log:   log,
		items: make(map[uuid.UUID]*sessionEntry),
	}
}

func (s *SessionStore) Put(form *ProjectForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[form.ID()] = &sessionEntry{form: form, expiresAt: s.now().Add(s.ttl)}
	metrics.OpenFormSessions.Set(float64(len(s.items)))
}

// Get returns the form and extends its lifetime.
func (s *SessionStore) Get(id uuid.UUID) (*ProjectForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, ErrSessionNotFound
	}
	e.expiresAt = s.now().Add(s.ttl)
	return e.form, nil
}

func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	e, ok := s.items[id]
	delete(s.items, id)
	metrics.OpenFormSessions.Set(float64(len(s.items)))
	s.mu.Unlock()
	if ok {
		s.close(ctx, e.form)
	}
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *SessionStore) Sweep(ctx context.Context) int {
	now := s.now()
	var expired []*ProjectForm
	s.mu.Lock()
	for id, e := range s.items {
		if !now.Before(e.expiresAt) {
			expired = append(expired, e.form)
			delete(s.items, id)
		}
	}
	metrics.OpenFormSessions.Set(float64(len(s.items)))
	s.mu.Unlock()

	for _, f := range expired {
		s.close(ctx, f)
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				s.log.WithField("count", n).Debug("expired project form sessions")
			}
		}
	}
}

func (s *SessionStore) close(ctx context.Context, f *ProjectForm) {
	f.Wait()
	if err := f.Close(ctx); err != nil {
		s.log.WithError(err).WithField("form_session", f.ID().String()).Warn("failed to drop form previews")
	}
}
