package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adelie22/Artivora/internal/db"
)

var ErrNotFound = errors.New("user: not found")

type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, credits, role, created_at, updated_at
		FROM public.users
		WHERE id = $1
	`, id).Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&u.Credits,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}
