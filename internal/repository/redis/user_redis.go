package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository"
)

const (
	usersKey     = "users"
	userSeqKey   = "users:seq"
	userIDPrefix = "user:id:"

	maxCreateAttempts = 64
)

// RedisUserRepository implements UserRepository using Redis.
// Users are stored as JSON in the "users" hash keyed by username, with
// "user:id:<id>" mapping ids back to usernames.
type RedisUserRepository struct {
	client *redis.Client
}

// Helper to construct the id index key
func makeUserIDKey(id int64) string {
	return userIDPrefix + strconv.FormatInt(id, 10)
}

func NewRedisUserRepository(client *redis.Client) repository.UserRepository {
	return &RedisUserRepository{
		client: client,
	}
}

func (r *RedisUserRepository) CheckIfUserExists(ctx context.Context, username string) (bool, error) {
	exists, err := r.client.HExists(ctx, usersKey, username).Result()
	if err != nil {
		return false, fmt.Errorf("redis HEXISTS failed: %w", err)
	}
	return exists, nil
}

func (r *RedisUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	data, err := r.client.HGet(ctx, usersKey, username).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis HGET failed: %w", err)
	}
	return decodeUser(data)
}

func (r *RedisUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	username, err := r.client.Get(ctx, makeUserIDKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}
	return r.GetUserByUsername(ctx, username)
}

// CreateUser reserves an id, then claims the username and writes the id index in
// one MULTI/EXEC guarded by WATCH on the users hash, so a user is stored with
// both records or not at all. An id whose claim loses the race is discarded,
// so ids are never reused.
func (r *RedisUserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	id, err := r.client.Incr(ctx, userSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate user id: %w", err)
	}

	created := &models.User{
		ID:             id,
		Username:       user.Username,
		PasswordSalt:   user.PasswordSalt,
		PasswordDigest: user.PasswordDigest,
		CreatedAt:      time.Now().UTC(),
	}
	data, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	claim := func(tx *redis.Tx) error {
		taken, err := tx.HExists(ctx, usersKey, created.Username).Result()
		if err != nil {
			return fmt.Errorf("redis HEXISTS failed: %w", err)
		}
		if taken {
			return repository.ErrUserExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, usersKey, created.Username, data)
			pipe.Set(ctx, makeUserIDKey(id), created.Username, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		err = r.client.Watch(ctx, claim, usersKey)
		if errors.Is(err, redis.TxFailedErr) {
			// another write touched the users hash; re-check the claim
			continue
		}
		if errors.Is(err, repository.ErrUserExists) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store user: %w", err)
		}
		return created, nil
	}
	return nil, fmt.Errorf("failed to store user: %w", err)
}

func (r *RedisUserRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	values, err := r.client.HVals(ctx, usersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis HVALS failed: %w", err)
	}

	users := make([]*models.User, 0, len(values))
	for _, v := range values {
		u, err := decodeUser([]byte(v))
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func decodeUser(data []byte) (*models.User, error) {
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	return &u, nil
}
