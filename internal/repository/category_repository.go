// Package repository contains data access logic separated from HTTP
// handlers. This file holds repository methods for categories. A
// Category is a shared catalog label; its name is unique across the
// table and many movies may reference it.
package repository

import (
	"context"      // context allows passing deadlines and cancellation to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define sentinel values

	"github.com/iliyamo/movie-club/internal/model"
)

// ErrCategoryNotFound is returned when a category cannot be found in the DB.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepo encapsulates all database queries related to categories.
type CategoryRepo struct {
	db *sql.DB // db is the underlying connection pool
}

// NewCategoryRepo constructs a CategoryRepo with the provided DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts a new category and populates its ID. Duplicate names
// are reported as ErrNameExists so handlers can answer 409 instead of
// surfacing a raw driver error.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	const q = "INSERT INTO categories (name) VALUES (?)"
	res, err := r.db.ExecContext(ctx, q, c.Name)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a category by its ID. It returns ErrCategoryNotFound
// when no row matches.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	const q = "SELECT id, name FROM categories WHERE id = ?"
	var c model.Category
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name. An empty catalog yields
// an empty slice and nil error.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	const q = "SELECT id, name FROM categories ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a category by ID. Join rows in movie_categories are
// removed by the DB via ON DELETE CASCADE; movies themselves are never
// touched. Returns ErrCategoryNotFound when the row does not exist.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	const q = "DELETE FROM categories WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
