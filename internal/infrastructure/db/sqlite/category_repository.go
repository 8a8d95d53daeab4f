package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListVisible returns global categories and those owned by userID, by id.
func (r *CategoryRepository) ListVisible(ctx context.Context, userID int64) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, user_id FROM categories WHERE user_id IS NULL OR user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, user_id) VALUES (?, ?)`,
		c.Name, ownerColumn(c.Owner),
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("category id: %w", err)
	}

	created := *c
	created.ID = id
	return &created, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT id, name, user_id FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// EverCreated reads the AUTOINCREMENT high-water mark, which survives
// deletes.
func (r *CategoryRepository) EverCreated(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var created bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sqlite_sequence WHERE name = 'categories' AND seq > 0)`,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("category sequence: %w", err)
	}
	return created, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(s rowScanner) (*domain.Category, error) {
	var (
		c     domain.Category
		owner sql.NullInt64
	)
	if err := s.Scan(&c.ID, &c.Name, &owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	if owner.Valid {
		c.Owner = domain.OwnedBy(owner.Int64)
	}
	return &c, nil
}

func ownerColumn(o domain.Owner) sql.NullInt64 {
	id, ok := o.UserID()
	return sql.NullInt64{Int64: id, Valid: ok}
}
