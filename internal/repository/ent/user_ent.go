package ent_repo

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository"
)

var userColumns = []string{"id", "username", "password_salt", "password_digest", "created_at"}

// EntUserRepository implements UserRepository on a relational database through
// ent's dialect-aware SQL builder.
type EntUserRepository struct {
	drv *entsql.Driver
}

func NewEntUserRepository(drv *entsql.Driver) repository.UserRepository {
	return &EntUserRepository{
		drv: drv,
	}
}

func (r *EntUserRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.drv.Dialect())
}

func (r *EntUserRepository) CheckIfUserExists(ctx context.Context, username string) (bool, error) {
	b := r.builder()
	query, args := b.Select("id").
		From(b.Table(usersTable)).
		Where(entsql.EQ("username", username)).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return false, fmt.Errorf("failed to check if user exists: %w", err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("failed to check if user exists: %w", err)
	}
	return exists, nil
}

func (r *EntUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, entsql.EQ("username", username))
}

func (r *EntUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, entsql.EQ("id", id))
}

func (r *EntUserRepository) getOne(ctx context.Context, pred *entsql.Predicate) (*models.User, error) {
	b := r.builder()
	query, args := b.Select(userColumns...).
		From(b.Table(usersTable)).
		Where(pred).
		Limit(1).
		Query()

	users, err := r.queryUsers(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("database query failed for user: %w", err)
	}
	if len(users) == 0 {
		return nil, repository.ErrUserNotFound
	}
	return users[0], nil
}

func (r *EntUserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	created := &models.User{
		Username:       user.Username,
		PasswordSalt:   user.PasswordSalt,
		PasswordDigest: user.PasswordDigest,
		CreatedAt:      time.Now().UTC(),
	}

	insert := r.builder().Insert(usersTable).
		Columns("username", "password_salt", "password_digest", "created_at").
		Values(created.Username, created.PasswordSalt, created.PasswordDigest, created.CreatedAt)

	var err error
	if r.drv.Dialect() == dialect.Postgres {
		created.ID, err = r.insertReturningID(ctx, insert)
	} else {
		created.ID, err = r.insertLastID(ctx, insert)
	}
	if err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return nil, repository.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (r *EntUserRepository) insertReturningID(ctx context.Context, insert *entsql.InsertBuilder) (int64, error) {
	query, args := insert.Returning("id").Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, stdsql.ErrNoRows
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, rows.Err()
}

func (r *EntUserRepository) insertLastID(ctx context.Context, insert *entsql.InsertBuilder) (int64, error) {
	query, args := insert.Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *EntUserRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	b := r.builder()
	query, args := b.Select(userColumns...).
		From(b.Table(usersTable)).
		OrderBy("username").
		Query()

	users, err := r.queryUsers(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *EntUserRepository) queryUsers(ctx context.Context, query string, args []any) ([]*models.User, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordSalt, &u.PasswordDigest, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
