package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository"
)

// MemoryUserRepository implements UserRepository in memory (NOT FOR PRODUCTION)
type MemoryUserRepository struct {
	users  map[string]*models.User
	byID   map[int64]string
	nextID int64
	mutex  sync.RWMutex
}

func NewMemoryUserRepository() repository.UserRepository {
	return &MemoryUserRepository{
		users: make(map[string]*models.User),
		byID:  make(map[int64]string),
	}
}

func (r *MemoryUserRepository) CheckIfUserExists(ctx context.Context, username string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.users[username]
	return exists, nil
}

func (r *MemoryUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	username, exists := r.byID[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(r.users[username]), nil
}

func (r *MemoryUserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return nil, repository.ErrUserExists
	}

	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()

	r.users[stored.Username] = stored
	r.byID[stored.ID] = stored.Username
	return cloneUser(stored), nil
}

func (r *MemoryUserRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// cloneUser keeps callers from mutating stored credential bytes.
func cloneUser(u *models.User) *models.User {
	c := *u
	c.PasswordSalt = append([]byte(nil), u.PasswordSalt...)
	c.PasswordDigest = append([]byte(nil), u.PasswordDigest...)
	return &c
}
