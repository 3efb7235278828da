package memory

import (
	"time"

	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionStateRepository struct {
	cache *cache.Cache
}

func NewSessionStateRepository() *SessionStateRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionStateRepository{
		cache: c,
	}
}

func (r *SessionStateRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionStateRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionStateRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
