package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nergy-se/dashboard/pkg/dashboard"
	"github.com/sirupsen/logrus"
)

type entry struct {
	dashboard *dashboard.Dashboard
	lastSeen  time.Time
}

// Store keeps one dashboard per browser session in memory.
type Store struct {
	sessions map[string]*entry
	notifier dashboard.Notifier
	now      func() time.Time
	sync.RWMutex
}

func NewStore(notifier dashboard.Notifier) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		notifier: notifier,
		now:      time.Now,
	}
}

// Get returns the dashboard for id. A new session is created when id is unknown.
// The returned id differs from the given one when a new session was created.
func (s *Store) Get(id string) (*dashboard.Dashboard, string) {
	s.Lock()
	defer s.Unlock()
	if e, ok := s.sessions[id]; ok {
		e.lastSeen = s.now()
		return e.dashboard, id
	}

	id = uuid.NewString()
	d := dashboard.New(id, s.notifier)
	s.sessions[id] = &entry{dashboard: d, lastSeen: s.now()}
	logrus.Debugf("created session %s", id)
	return d, id
}

func (s *Store) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.sessions)
}

// Expire removes sessions not seen within ttl and returns how many were removed.
func (s *Store) Expire(ttl time.Duration) int {
	deadline := s.now().Add(-ttl)
	removed := 0
	s.Lock()
	for id, e := range s.sessions {
		if e.lastSeen.Before(deadline) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.Unlock()
	return removed
}
