package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"quiz-service/internal/app"
	"quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache layout:
//
//	HSET quiz:questions   {questionID} {question JSON}
//	SET  quiz:question_ids {[]id JSON}
//	SET  quiz:categories   {[]string JSON}
//	HSET quiz:leaderboard {n} {[]score JSON}
//	INCR quiz:leaderboard:version on every saved score
const (
	questionsKey          = "quiz:questions"
	questionIDsKey        = "quiz:question_ids"
	categoriesKey         = "quiz:categories"
	leaderboardKey        = "quiz:leaderboard"
	leaderboardVersionKey = "quiz:leaderboard:version"
)

// CachedStore caches reads from an app.Store in Redis and falls back to it on cache miss.
// Questions are immutable once stored, so only seeding and new scores invalidate entries.
type CachedStore struct {
	app.Store
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewCachedStore(client *redis.Client, store app.Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Store:  store,
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CachedStore) SeedIfEmpty(ctx context.Context, questions []domain.QuestionInput) (int, error) {
	inserted, err := c.Store.SeedIfEmpty(ctx, questions)
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		_ = c.client.Del(ctx, questionsKey, questionIDsKey, categoriesKey).Err()
	}
	return inserted, nil
}

func (c *CachedStore) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	field := strconv.FormatInt(id, 10)
	return readThrough(ctx, c, questionsKey, field, "", func() (domain.Question, error) {
		return c.Store.GetQuestion(ctx, id)
	})
}

func (c *CachedStore) ListQuestionIDs(ctx context.Context) ([]int64, error) {
	return readThrough(ctx, c, questionIDsKey, "", "", func() ([]int64, error) {
		return c.Store.ListQuestionIDs(ctx)
	})
}

func (c *CachedStore) ListCategories(ctx context.Context) ([]string, error) {
	return readThrough(ctx, c, categoriesKey, "", "", func() ([]string, error) {
		return c.Store.ListCategories(ctx)
	})
}

func (c *CachedStore) InsertScore(ctx context.Context, in domain.ScoreInput) (domain.Score, error) {
	score, err := c.Store.InsertScore(ctx, in)
	if err != nil {
		return domain.Score{}, err
	}
	// The version bump fails any leaderboard write whose load started before this insert.
	_, _ = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, leaderboardVersionKey)
		pipe.Del(ctx, leaderboardKey)
		return nil
	})
	return score, nil
}

func (c *CachedStore) TopScores(ctx context.Context, n int) ([]domain.Score, error) {
	return readThrough(ctx, c, leaderboardKey, strconv.Itoa(n), leaderboardVersionKey, func() ([]domain.Score, error) {
		return c.Store.TopScores(ctx, n)
	})
}

// readThrough serves key (or the hash field of key when field is set) from Redis,
// loading and caching it on a miss. Redis failures degrade to loading from the store.
// When versionKey is set, the loaded value is cached only if versionKey did not change
// while it was loading.
func readThrough[T any](ctx context.Context, c *CachedStore, key, field, versionKey string, load func() (T, error)) (T, error) {
	if v, ok := c.get(ctx, key, field); ok {
		var out T
		if err := json.Unmarshal(v, &out); err == nil {
			return out, nil
		}
	}

	result, err, _ := c.sf.Do(key+"/"+field, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if v, ok := c.get(ctx, key, field); ok {
			var out T
			if err := json.Unmarshal(v, &out); err == nil {
				return out, nil
			}
		}

		version, versionOK := c.version(ctx, versionKey)
		value, err := load()
		if err != nil {
			return value, err
		}
		if !versionOK {
			return value, nil
		}
		if data, err := json.Marshal(value); err == nil {
			if versionKey == "" {
				c.set(ctx, key, field, data)
			} else {
				c.setIfVersion(ctx, key, field, data, versionKey, version)
			}
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (c *CachedStore) get(ctx context.Context, key, field string) ([]byte, bool) {
	var (
		v   []byte
		err error
	)
	if field == "" {
		v, err = c.client.Get(ctx, key).Bytes()
	} else {
		v, err = c.client.HGet(ctx, key, field).Bytes()
	}
	if err != nil {
		return nil, false
	}
	return v, true
}

func (c *CachedStore) set(ctx context.Context, key, field string, data []byte) {
	ttl := c.ttlWithJitter()
	if field == "" {
		_ = c.client.Set(ctx, key, data, ttl).Err()
		return
	}
	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, field, data)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, _ = pipe.Exec(ctx)
}

// version reads versionKey; an unset key reads as "". ok is false when Redis cannot answer.
func (c *CachedStore) version(ctx context.Context, versionKey string) (string, bool) {
	if versionKey == "" {
		return "", true
	}
	v, err := c.client.Get(ctx, versionKey).Result()
	if err != nil && !isCacheMiss(err) {
		return "", false
	}
	return v, true
}

// setIfVersion writes the hash field only while versionKey still holds version.
func (c *CachedStore) setIfVersion(ctx context.Context, key, field string, data []byte, versionKey, version string) {
	ttl := c.ttlWithJitter()
	_ = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Result()
		if err != nil && !isCacheMiss(err) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field, data)
			if ttl > 0 {
				pipe.Expire(ctx, key, ttl)
			}
			return nil
		})
		return err
	}, versionKey)
}

func (c *CachedStore) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// isCacheMiss reports whether err is a plain Redis miss rather than a connection fault.
func isCacheMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
