// File: internal/infra/db/postgres/postgres_user_repo_cache.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"online-course-platform/internal/domain/model"
	"online-course-platform/internal/domain/ports/repository"
	"online-course-platform/internal/infra/metrics"
)

var _ repository.UserRepository = (*CachedUserRepo)(nil)

// CachedUserRepo decorates a UserRepository with a read-through redis cache.
// Every write path invalidates the key, so a stale entry can outlive a write
// by at most one racing read. The access middleware is the hot reader, so the
// cached entity is the user entitlement record.
type CachedUserRepo struct {
	inner repository.UserRepository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedUserRepo(inner repository.UserRepository, rdb *redis.Client, ttl time.Duration) *CachedUserRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedUserRepo{inner: inner, rdb: rdb, ttl: ttl}
}

func userCacheKey(id string) string { return "user:" + id }

func (r *CachedUserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	// A transactional read must see its own uncommitted writes.
	if qx != nil {
		metrics.IncCacheRequest("user", "bypass")
		return r.inner.FindByID(ctx, qx, id)
	}

	raw, err := r.rdb.Get(ctx, userCacheKey(id)).Bytes()
	if err == nil {
		var u model.User
		if jsonErr := json.Unmarshal(raw, &u); jsonErr == nil {
			metrics.IncCacheRequest("user", "hit")
			return &u, nil
		}
		r.rdb.Del(ctx, userCacheKey(id))
	} else if !errors.Is(err, redis.Nil) {
		// Cache down degrades to the database, never to an error.
		metrics.IncCacheRequest("user", "bypass")
		return r.inner.FindByID(ctx, qx, id)
	}

	metrics.IncCacheRequest("user", "miss")
	u, err := r.inner.FindByID(ctx, qx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(u); err == nil {
		r.rdb.Set(ctx, userCacheKey(id), raw, r.ttl)
	}
	return u, nil
}

func (r *CachedUserRepo) Save(ctx context.Context, qx any, u *model.User) error {
	if err := r.inner.Save(ctx, qx, u); err != nil {
		return err
	}
	r.rdb.Del(ctx, userCacheKey(u.ID))
	return nil
}

func (r *CachedUserRepo) GrantCourseAccess(ctx context.Context, qx any, userID, courseID string, at time.Time) error {
	if err := r.inner.GrantCourseAccess(ctx, qx, userID, courseID, at); err != nil {
		return err
	}
	r.rdb.Del(ctx, userCacheKey(userID))
	return nil
}

func (r *CachedUserRepo) SetCustomerID(ctx context.Context, qx any, userID, customerID string) error {
	if err := r.inner.SetCustomerID(ctx, qx, userID, customerID); err != nil {
		return err
	}
	r.rdb.Del(ctx, userCacheKey(userID))
	return nil
}
