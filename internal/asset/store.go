package asset

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adelie22/Artivora/internal/db"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("asset: not found")

// Notifier is told after every successful mutation so collection
// watchers can recompute their snapshots.
type Notifier interface {
	CollectionChanged(ctx context.Context)
}

type Store struct {
	db       *db.DB
	notifier Notifier
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

// SetNotifier attaches the change notifier. Wired after construction
// because the watcher itself lists through this store.
func (s *Store) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Store) notify(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.CollectionChanged(ctx)
	}
}

func (s *Store) Create(ctx context.Context, a Asset) (*Asset, error) {
	if a.Title == "" || a.FileURL == "" {
		return nil, errors.New("asset: title and file_url are required")
	}

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO public.assets (title, price, file_url, thumbnail_url, creator_uid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		a.Title,
		a.Price,
		a.FileURL,
		a.ThumbnailURL,
		a.CreatorUID,
	).Scan(&id, &a.CreatedAt)

	if err != nil {
		return nil, err
	}

	a.ID = id.String()
	s.notify(ctx)
	return &a, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM public.assets WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	s.notify(ctx)
	return nil
}

// List returns assets newest-first. limit <= 0 means unbounded.
func (s *Store) List(ctx context.Context, limit int) ([]Asset, error) {
	query := `
		SELECT id, title, price, file_url, thumbnail_url, creator_uid, created_at
		FROM public.assets
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT $1`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Price,
			&a.FileURL,
			&a.ThumbnailURL,
			&a.CreatorUID,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}

	return assets, rows.Err()
}
