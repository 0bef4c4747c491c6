package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-club/internal/model"
)

// ErrStreamingServiceNotFound is returned when a streaming service
// cannot be found in the DB.
var ErrStreamingServiceNotFound = errors.New("streaming service not found")

// StreamingServiceRepo manages persistence for streaming services.
// It mirrors CategoryRepo: services share the unique-name lifecycle
// and the same cascade behaviour on their join table.
type StreamingServiceRepo struct {
	db *sql.DB
}

// NewStreamingServiceRepo constructs a StreamingServiceRepo with the
// given DB handle.
func NewStreamingServiceRepo(db *sql.DB) *StreamingServiceRepo {
	return &StreamingServiceRepo{db: db}
}

// Create inserts a new streaming service and populates its ID.
// Duplicate names map to ErrNameExists.
func (r *StreamingServiceRepo) Create(ctx context.Context, s *model.StreamingService) error {
	const q = "INSERT INTO streaming_services (name) VALUES (?)"
	res, err := r.db.ExecContext(ctx, q, s.Name)
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
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a streaming service by ID, returning
// ErrStreamingServiceNotFound when no row matches.
func (r *StreamingServiceRepo) GetByID(ctx context.Context, id uint64) (*model.StreamingService, error) {
	const q = "SELECT id, name FROM streaming_services WHERE id = ?"
	var s model.StreamingService
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStreamingServiceNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all streaming services ordered by name.
func (r *StreamingServiceRepo) List(ctx context.Context) ([]model.StreamingService, error) {
	const q = "SELECT id, name FROM streaming_services ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.StreamingService{}
	for rows.Next() {
		var s model.StreamingService
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a streaming service by ID. Movie links cascade in the
// DB; movies are untouched. Returns ErrStreamingServiceNotFound when
// no row was deleted.
func (r *StreamingServiceRepo) Delete(ctx context.Context, id uint64) error {
	const q = "DELETE FROM streaming_services WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStreamingServiceNotFound
	}
	return nil
}
