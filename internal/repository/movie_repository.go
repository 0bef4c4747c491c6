// This file defines repository methods for movies: CRUD, relation
// maintenance and batched relation loading. Filtered listing lives in
// movie_filter.go next to the predicate builder.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-club/internal/model"
)

// ErrMovieNotFound is returned when a movie cannot be found in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// movieColumns is the shared select list for movie queries. Every
// query that feeds scanMovie must select exactly these columns in this
// order.
const movieColumns = `m.id, m.title, m.year, m.description, m.runtime_minutes,
       m.starring, m.director, m.writer, m.recommended_by, m.poster, m.created_at`

// MovieRepo manages persistence for movies and their category /
// streaming-service links.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories, e.g. creating a movie
// together with its recommender's first viewing.
func (r *MovieRepo) DB() *sql.DB {
	return r.db
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMovie reads one movieColumns row into a model.Movie, converting
// nullable columns into pointers.
func scanMovie(s rowScanner) (model.Movie, error) {
	var (
		m       model.Movie
		year    sql.NullInt64
		runtime sql.NullInt64
		recBy   sql.NullInt64
		poster  sql.NullString
	)
	err := s.Scan(&m.ID, &m.Title, &year, &m.Description, &runtime,
		&m.Starring, &m.Director, &m.Writer, &recBy, &poster, &m.CreatedAt)
	if err != nil {
		return model.Movie{}, err
	}
	if year.Valid {
		y := uint16(year.Int64)
		m.Year = &y
	}
	if runtime.Valid {
		rt := uint16(runtime.Int64)
		m.RuntimeMinutes = &rt
	}
	if recBy.Valid {
		id := uint64(recBy.Int64)
		m.RecommendedBy = &id
	}
	if poster.Valid && poster.String != "" {
		p := poster.String
		m.Poster = &p
	}
	return m, nil
}

// nullableUint16 converts an optional numeric field for binding.
func nullableUint16(v *uint16) any {
	if v == nil {
		return nil
	}
	return *v
}

// CreateTx inserts a new movie using the provided transaction and
// assigns the generated ID and created_at back to the struct. The
// caller owns the transaction; movie creation is always part of a
// larger atomic write (movie + links + the recommender's viewing).
func (r *MovieRepo) CreateTx(ctx context.Context, tx *sql.Tx, m *model.Movie) error {
	const q = `INSERT INTO movies (title, year, description, runtime_minutes, starring, director, writer, recommended_by, poster)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var recBy, poster any
	if m.RecommendedBy != nil {
		recBy = *m.RecommendedBy
	}
	if m.Poster != nil {
		poster = *m.Poster
	}
	res, err := tx.ExecContext(ctx, q,
		m.Title, nullableUint16(m.Year), m.Description, nullableUint16(m.RuntimeMinutes),
		m.Starring, m.Director, m.Writer, recBy, poster)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	// Fetch the freshly inserted row to populate created_at.
	const sel = `SELECT created_at FROM movies WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt)
}

// Update rewrites the editable columns of an existing movie.
// recommended_by is deliberately not editable: it is set once at
// creation and only ever cleared by the DB when the recommender is
// deleted. Returns ErrMovieNotFound for an unknown ID.
func (r *MovieRepo) Update(ctx context.Context, tx *sql.Tx, m *model.Movie) error {
	const q = `UPDATE movies
	           SET title = ?, year = ?, description = ?, runtime_minutes = ?,
	               starring = ?, director = ?, writer = ?, poster = ?
	           WHERE id = ?`
	var poster any
	if m.Poster != nil {
		poster = *m.Poster
	}
	res, err := tx.ExecContext(ctx, q,
		m.Title, nullableUint16(m.Year), m.Description, nullableUint16(m.RuntimeMinutes),
		m.Starring, m.Director, m.Writer, poster, m.ID)
	if err != nil {
		return err
	}
	if _, err := res.RowsAffected(); err != nil {
		return err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update,
	// so existence is checked explicitly.
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)`, m.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrMovieNotFound
	}
	return nil
}

// GetByID fetches one movie with its category and streaming-service
// sets attached. Returns ErrMovieNotFound when no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	q := `SELECT ` + movieColumns + ` FROM movies m WHERE m.id = ?`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	movies := []model.Movie{m}
	if err := r.attachRelations(ctx, movies); err != nil {
		return nil, err
	}
	return &movies[0], nil
}

// Exists reports whether a movie row exists for the given ID.
func (r *MovieRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// Delete removes a movie. Viewings and join rows cascade in the DB, so
// the whole removal is a single atomic statement. Returns
// ErrMovieNotFound when the row does not exist.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// SetCategoriesTx replaces the movie's category set inside the given
// transaction. IDs are deduplicated; unknown category IDs surface as a
// foreign key error from the DB.
func (r *MovieRepo) SetCategoriesTx(ctx context.Context, tx *sql.Tx, movieID uint64, categoryIDs []uint64) error {
	return replaceLinksTx(ctx, tx, "movie_categories", "category_id", movieID, categoryIDs)
}

// SetStreamingServicesTx replaces the movie's streaming-service set
// inside the given transaction.
func (r *MovieRepo) SetStreamingServicesTx(ctx context.Context, tx *sql.Tx, movieID uint64, serviceIDs []uint64) error {
	return replaceLinksTx(ctx, tx, "movie_streaming_services", "streaming_service_id", movieID, serviceIDs)
}

// replaceLinksTx clears and re-inserts one m2m link table for a movie.
// Table and column names are compile-time constants at every call
// site, never user input.
func replaceLinksTx(ctx context.Context, tx *sql.Tx, table, column string, movieID uint64, ids []uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE movie_id = ?`, movieID); err != nil {
		return err
	}
	ids = dedupIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	values := strings.TrimRight(strings.Repeat("(?,?),", len(ids)), ",")
	args := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, movieID, id)
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO `+table+` (movie_id, `+column+`) VALUES `+values, args...)
	return err
}

// attachRelations loads the category and streaming-service sets for
// all given movies with one batched query per table. Collecting the
// IDs up front keeps list rendering at a fixed number of queries no
// matter how many movies matched.
func (r *MovieRepo) attachRelations(ctx context.Context, movies []model.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	idx := make(map[uint64]int, len(movies))
	ids := make([]uint64, 0, len(movies))
	for i := range movies {
		idx[movies[i].ID] = i
		ids = append(ids, movies[i].ID)
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	catQ := `SELECT mc.movie_id, c.id, c.name
	         FROM movie_categories mc
	         JOIN categories c ON c.id = mc.category_id
	         WHERE mc.movie_id IN (` + ph + `)
	         ORDER BY c.name ASC`
	rows, err := r.db.QueryContext(ctx, catQ, args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var movieID uint64
		var c model.Category
		if err := rows.Scan(&movieID, &c.ID, &c.Name); err != nil {
			rows.Close()
			return err
		}
		if i, ok := idx[movieID]; ok {
			movies[i].Categories = append(movies[i].Categories, c)
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}

	svcQ := `SELECT ms.movie_id, s.id, s.name
	         FROM movie_streaming_services ms
	         JOIN streaming_services s ON s.id = ms.streaming_service_id
	         WHERE ms.movie_id IN (` + ph + `)
	         ORDER BY s.name ASC`
	rows, err = r.db.QueryContext(ctx, svcQ, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var movieID uint64
		var s model.StreamingService
		if err := rows.Scan(&movieID, &s.ID, &s.Name); err != nil {
			return err
		}
		if i, ok := idx[movieID]; ok {
			movies[i].StreamingServices = append(movies[i].StreamingServices, s)
		}
	}
	return rows.Err()
}
