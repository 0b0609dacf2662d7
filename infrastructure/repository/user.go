package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/database/postgres"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/lib/pq"
)

const (
	usersTable  = "users u"
	userColumns = "u.id, u.username, u.password_hash, u.role, u.active, u.created_at, u.last_login_at"
)

type UserRepository interface {
	GetByUsername(username string) (*domain.User, error)
	UpdateLastLogin(userID int) error
	Upsert(user *domain.User) error
}

type userRepository struct {
	conn *postgres.Connection
}

func NewUserRepository(conn *postgres.Connection) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (r *userRepository) GetByUsername(username string) (*domain.User, error) {
	query, args, err := squirrel.
		Select(userColumns).
		From(usersTable).
		Where(squirrel.Eq{"u.username": username}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	user := &domain.User{}

	row := r.conn.QueryRow(query, args...)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.LastLoginAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func (r *userRepository) UpdateLastLogin(userID int) error {
	query, args, err := squirrel.StatementBuilder.
		Update("users").
		Set("last_login_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

// Upsert creates or refreshes a user keyed by username. Used by the
// startup seeding script, never by the API surface.
func (r *userRepository) Upsert(user *domain.User) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("users").
		Columns("username", "password_hash", "role", "active").
		Values(user.Username, user.PasswordHash, user.Role, user.Active).
		Suffix(`
			ON CONFLICT (username) DO UPDATE SET
				password_hash = EXCLUDED.password_hash,
				role = EXCLUDED.role,
				active = EXCLUDED.active
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}
