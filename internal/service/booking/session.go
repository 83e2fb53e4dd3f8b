package booking

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// SessionStore keeps in-flight wizard sessions in memory with a TTL.
// Sessions own no durable state, so losing one on restart only means the
// user starts the wizard again.
type SessionStore struct {
	c *gocache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		c: gocache.New(ttl, 2*ttl),
	}
}

func (s *SessionStore) Put(session *Session) {
	s.c.SetDefault(session.ID.String(), session)
}

func (s *SessionStore) Get(id uuid.UUID) (*Session, bool) {
	v, ok := s.c.Get(id.String())
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}
