package ent_repo

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const usersTable = "users"

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "username", Type: field.TypeString, Unique: true, Size: 255},
		{Name: "password_salt", Type: field.TypeBytes},
		{Name: "password_digest", Type: field.TypeBytes},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       usersTable,
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
	}
)

// Open connects to the configured database. driverName is the database/sql driver
// ("sqlite3" or "pgx"); the ent dialect is derived from it.
func Open(driverName, dsn string) (*entsql.Driver, error) {
	var dialectName string
	switch driverName {
	case dialect.SQLite:
		dialectName = dialect.SQLite
	case "pgx", dialect.Postgres:
		driverName = "pgx"
		dialectName = dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to %s: %w", dialectName, err)
	}
	if dialectName == dialect.SQLite {
		// sqlite allows a single writer; an in-memory database also lives on one connection.
		db.SetMaxOpenConns(1)
	}
	return entsql.OpenDB(dialectName, db), nil
}

// Migrate creates or upgrades the tables used by the repository.
func Migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("failed creating schema migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("failed creating schema resources: %w", err)
	}
	return nil
}
