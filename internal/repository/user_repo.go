package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new account with the visitor role.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, salt string) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, salt, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	u := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		Role:         model.RoleVisitor,
	}
	err := r.pool.QueryRow(ctx, query, username, email, passwordHash, salt, model.RoleVisitor).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &u, nil
}

// FindByUsername returns an account by exact username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, salt, role, created_at
		FROM users
		WHERE username = $1`

	var u model.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID returns an account by primary key.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, salt, role, created_at
		FROM users
		WHERE id = $1`

	var u model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
