package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func newTestRedisUserRepo(t *testing.T) (repo repository.UserRepository, mr *miniredis.Miniredis) {
	t.Helper()
	client, mr := newTestRedisClient(t)
	return NewRedisUserRepository(client), mr
}

var errConnectionReset = errors.New("connection reset")

// failingIndexHook drops any transaction that carries the id index SET while
// enabled, as if the connection broke before EXEC reached the server.
type failingIndexHook struct {
	enabled atomic.Bool
}

func (h *failingIndexHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *failingIndexHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h *failingIndexHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if h.enabled.Load() {
			for _, cmd := range cmds {
				if cmd.Name() == "set" {
					return errConnectionReset
				}
			}
		}
		return next(ctx, cmds)
	}
}

func testUser(username string) *models.User {
	return &models.User{
		Username:       username,
		PasswordSalt:   []byte{0x01, 0x02, 0x03},
		PasswordDigest: []byte{0xAA, 0xBB, 0xCC},
	}
}

func TestRedisUserRepository_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mr := newTestRedisUserRepo(t)

		created, err := repo.CreateUser(ctx, testUser("ana"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)

		raw := mr.HGet(usersKey, "ana")
		require.NotEmpty(t, raw)
		var stored models.User
		require.NoError(t, json.Unmarshal([]byte(raw), &stored))
		assert.Equal(t, created.ID, stored.ID)
		assert.Equal(t, []byte{0x01, 0x02, 0x03}, stored.PasswordSalt)

		indexed, err := mr.Get(makeUserIDKey(created.ID))
		require.NoError(t, err)
		assert.Equal(t, "ana", indexed)
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo, _ := newTestRedisUserRepo(t)

		_, err := repo.CreateUser(ctx, testUser("ana"))
		require.NoError(t, err)

		_, err = repo.CreateUser(ctx, testUser("ana"))
		assert.ErrorIs(t, err, repository.ErrUserExists)
	})

	t.Run("IDsAreNotReusedAfterLostClaim", func(t *testing.T) {
		repo, _ := newTestRedisUserRepo(t)

		_, err := repo.CreateUser(ctx, testUser("ana"))
		require.NoError(t, err)
		_, err = repo.CreateUser(ctx, testUser("ana"))
		require.ErrorIs(t, err, repository.ErrUserExists)

		next, err := repo.CreateUser(ctx, testUser("bruno"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), next.ID)
	})

	t.Run("ConcurrentSameUsername", func(t *testing.T) {
		repo, _ := newTestRedisUserRepo(t)
		const workers = 16

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.CreateUser(ctx, testUser("racer"))
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var succeeded int
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, repository.ErrUserExists)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("FailedIndexWriteStoresNothing", func(t *testing.T) {
		client, mr := newTestRedisClient(t)
		hook := &failingIndexHook{}
		client.AddHook(hook)
		repo := NewRedisUserRepository(client)

		hook.enabled.Store(true)
		_, err := repo.CreateUser(ctx, testUser("ana"))
		require.ErrorIs(t, err, errConnectionReset)
		assert.NotErrorIs(t, err, repository.ErrUserExists)

		exists, err := repo.CheckIfUserExists(ctx, "ana")
		require.NoError(t, err)
		assert.False(t, exists)
		_, err = repo.GetUserByUsername(ctx, "ana")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		_, err = repo.GetUserByID(ctx, 1)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		assert.False(t, mr.Exists(makeUserIDKey(1)))

		hook.enabled.Store(false)
		created, err := repo.CreateUser(ctx, testUser("ana"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), created.ID)

		byID, err := repo.GetUserByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "ana", byID.Username)
	})

	t.Run("ConcurrentDistinctUsernames", func(t *testing.T) {
		repo, _ := newTestRedisUserRepo(t)
		names := []string{"ana", "bruno", "carla", "diego", "elena", "fabio", "gina", "hugo"}

		var wg sync.WaitGroup
		for _, name := range names {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.CreateUser(ctx, testUser(name))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, len(names))
		for _, u := range users {
			byID, err := repo.GetUserByID(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, u.Username, byID.Username)
		}
	})

	t.Run("RedisUnavailable", func(t *testing.T) {
		repo, mr := newTestRedisUserRepo(t)
		mr.Close()

		_, err := repo.CreateUser(ctx, testUser("ana"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrUserExists)
	})
}

func TestRedisUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()

	t.Run("ExistsAndGet", func(t *testing.T) {
		repo, _ := newTestRedisUserRepo(t)

		exists, err := repo.CheckIfUserExists(ctx, "ana")
		require.NoError(t, err)
		assert.False(t, exists)

		created, err := repo.CreateUser(ctx, testUser("ana"))
		require.NoError(t, err)

		exists, err = repo.CheckIfUserExists(ctx, "ana")
		require.NoError(t, err)
		assert.True(t, exists)

		byName, err := repo.GetUserByUsername(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)
		assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, byName.PasswordDigest)

		byID, err := repo.GetUserByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "ana", byID.Username)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, _ := newTestRedisUserRepo(t)

		_, err := repo.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)

		_, err = repo.GetUserByID(ctx, 5)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("UsernameRecordWithoutIDIndex", func(t *testing.T) {
		repo, mr := newTestRedisUserRepo(t)
		orphan, err := json.Marshal(&models.User{ID: 4, Username: "ana"})
		require.NoError(t, err)
		mr.HSet(usersKey, "ana", string(orphan))

		byName, err := repo.GetUserByUsername(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, int64(4), byName.ID)

		_, err = repo.GetUserByID(ctx, 4)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)

		_, err = repo.CreateUser(ctx, testUser("ana"))
		assert.ErrorIs(t, err, repository.ErrUserExists)
		assert.False(t, mr.Exists(makeUserIDKey(1)), "a rejected claim must not write an id index")
	})

	t.Run("CorruptRecord", func(t *testing.T) {
		repo, mr := newTestRedisUserRepo(t)
		mr.HSet(usersKey, "ana", "{not-json")

		_, err := repo.GetUserByUsername(ctx, "ana")
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("ListOrderedByUsername", func(t *testing.T) {
		repo, _ := newTestRedisUserRepo(t)
		for _, name := range []string{"carla", "ana", "bruno"} {
			_, err := repo.CreateUser(ctx, testUser(name))
			require.NoError(t, err)
		}

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "ana", users[0].Username)
		assert.Equal(t, "bruno", users[1].Username)
		assert.Equal(t, "carla", users[2].Username)
	})
}
