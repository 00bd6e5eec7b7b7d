package memory

import (
	"time"

	"redoma-support-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository caches authenticated staff sessions so membership is
// not re-checked against the database on every request.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(24*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.StaffSession) {
	r.cache.Set(session.UserId, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(userId string) (*store.StaffSession, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*store.StaffSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userId string) {
	r.cache.Delete(userId)
}
