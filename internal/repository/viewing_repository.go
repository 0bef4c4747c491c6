// This file defines repository methods for viewings. A viewing's
// existence is the "seen" state of a (user, movie) pair; the table
// carries UNIQUE (user_id, movie_id) so toggling and upserting must
// stay duplicate-safe under concurrent submits.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-club/internal/model"
)

// ErrViewingNotFound is returned when a viewing cannot be found in the DB.
var ErrViewingNotFound = errors.New("viewing not found")

// ViewingRepo manages persistence for viewings.
type ViewingRepo struct {
	db *sql.DB
}

// NewViewingRepo constructs a ViewingRepo with the given DB handle.
func NewViewingRepo(db *sql.DB) *ViewingRepo {
	return &ViewingRepo{db: db}
}

// DB exposes the underlying sql.DB for callers that need to span a
// transaction across repositories.
func (r *ViewingRepo) DB() *sql.DB {
	return r.db
}

// viewingColumns is the shared select list for viewing queries joined
// with users for the owner's display name.
const viewingColumns = `v.id, v.user_id, v.movie_id, v.watched_on, v.rating, v.comment, v.created_at, u.display_name`

func scanViewing(s rowScanner) (model.Viewing, error) {
	var (
		v       model.Viewing
		watched sql.NullTime
		rating  sql.NullFloat64
	)
	err := s.Scan(&v.ID, &v.UserID, &v.MovieID, &watched, &rating, &v.Comment, &v.CreatedAt, &v.DisplayName)
	if err != nil {
		return model.Viewing{}, err
	}
	if watched.Valid {
		t := watched.Time
		v.WatchedOn = &t
	}
	if rating.Valid {
		f := rating.Float64
		v.Rating = &f
	}
	return v, nil
}

// GetByUserAndMovie returns the caller's own viewing for a movie, or
// ErrViewingNotFound when none exists.
func (r *ViewingRepo) GetByUserAndMovie(ctx context.Context, userID, movieID uint64) (*model.Viewing, error) {
	q := `SELECT ` + viewingColumns + `
	      FROM viewings v
	      JOIN users u ON u.id = v.user_id
	      WHERE v.user_id = ? AND v.movie_id = ?`
	v, err := scanViewing(r.db.QueryRowContext(ctx, q, userID, movieID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrViewingNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListByMovieIDs returns every viewing of the given movies in ONE
// query, newest first. Listing pages call this once for the whole
// filtered movie set and partition the result in memory; they must
// never fall back to a per-movie lookup.
func (r *ViewingRepo) ListByMovieIDs(ctx context.Context, movieIDs []uint64) ([]model.Viewing, error) {
	if len(movieIDs) == 0 {
		return []model.Viewing{}, nil
	}
	ph := ""
	args := make([]any, 0, len(movieIDs))
	for _, id := range movieIDs {
		ph += "?,"
		args = append(args, id)
	}
	ph = ph[:len(ph)-1]
	q := `SELECT ` + viewingColumns + `
	      FROM viewings v
	      JOIN users u ON u.id = v.user_id
	      WHERE v.movie_id IN (` + ph + `)
	      ORDER BY v.created_at DESC, v.id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Viewing{}
	for rows.Next() {
		v, err := scanViewing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleResult reports the outcome of a seen-toggle.
type ToggleResult struct {
	Seen      bool // state after the toggle
	HadRating bool // a rating was destroyed by an unseen transition
}

// Toggle flips the seen state of (userID, movieID) inside one
// transaction. A missing row is created bare (no rating, date or
// comment; those are added later through the viewing upsert path); an
// existing row is deleted together with whatever the user had
// recorded on it. The row is locked FOR UPDATE so two toggles from the
// same user serialize, and a duplicate-key error on the insert (a
// concurrent toggle won the race) is treated as a successful create,
// never surfaced: the pair's invariant is at most one row either way.
func (r *ViewingRepo) Toggle(ctx context.Context, userID, movieID uint64) (ToggleResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ToggleResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		id     uint64
		rating sql.NullFloat64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, rating FROM viewings WHERE user_id = ? AND movie_id = ? FOR UPDATE`,
		userID, movieID).Scan(&id, &rating)

	var res ToggleResult
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, insErr := tx.ExecContext(ctx,
			`INSERT INTO viewings (user_id, movie_id) VALUES (?, ?)`,
			userID, movieID)
		if insErr != nil && !isDuplicateKey(insErr) {
			return ToggleResult{}, insErr
		}
		res = ToggleResult{Seen: true}
	case err != nil:
		return ToggleResult{}, err
	default:
		if _, delErr := tx.ExecContext(ctx, `DELETE FROM viewings WHERE id = ?`, id); delErr != nil {
			return ToggleResult{}, delErr
		}
		res = ToggleResult{Seen: false, HadRating: rating.Valid}
	}

	if err := tx.Commit(); err != nil {
		return ToggleResult{}, err
	}
	committed = true
	return res, nil
}

// Upsert creates or updates the caller's viewing of a movie with the
// given details. The duplicate-key case is resolved by the database
// itself (INSERT ... ON DUPLICATE KEY UPDATE), so a concurrent insert
// for the same pair degrades to an update instead of a constraint
// error.
func (r *ViewingRepo) Upsert(ctx context.Context, v *model.Viewing) error {
	var watched, rating any
	if v.WatchedOn != nil {
		watched = v.WatchedOn.Format("2006-01-02")
	}
	if v.Rating != nil {
		rating = *v.Rating
	}
	const q = `INSERT INTO viewings (user_id, movie_id, watched_on, rating, comment)
	           VALUES (?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               watched_on = VALUES(watched_on),
	               rating     = VALUES(rating),
	               comment    = VALUES(comment)`
	if _, err := r.db.ExecContext(ctx, q, v.UserID, v.MovieID, watched, rating, v.Comment); err != nil {
		return err
	}
	// Re-read to populate ID, created_at and display name.
	cur, err := r.GetByUserAndMovie(ctx, v.UserID, v.MovieID)
	if err != nil {
		return err
	}
	*v = *cur
	return nil
}

// CreateTx inserts a viewing using the provided transaction. It is
// used by the add-movie flow, where the movie and the recommender's
// first viewing must land atomically.
func (r *ViewingRepo) CreateTx(ctx context.Context, tx *sql.Tx, v *model.Viewing) error {
	var watched, rating any
	if v.WatchedOn != nil {
		watched = v.WatchedOn.Format("2006-01-02")
	}
	if v.Rating != nil {
		rating = *v.Rating
	}
	const q = `INSERT INTO viewings (user_id, movie_id, watched_on, rating, comment)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, v.UserID, v.MovieID, watched, rating, v.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// Delete removes the caller's viewing of a movie. Returns
// ErrViewingNotFound when the pair has no row.
func (r *ViewingRepo) Delete(ctx context.Context, userID, movieID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM viewings WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrViewingNotFound
	}
	return nil
}
