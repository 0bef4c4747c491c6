package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViewingRepoMock(t *testing.T) (*ViewingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewViewingRepo(db), mock
}

const toggleSelect = `SELECT id, rating FROM viewings WHERE user_id = ? AND movie_id = ? FOR UPDATE`

func Test_Toggle_CreatesBareViewingWhenUnseen(t *testing.T) {
	repo, mock := newViewingRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(toggleSelect)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO viewings (user_id, movie_id) VALUES (?, ?)`)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	res, err := repo.Toggle(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.True(t, res.Seen)
	assert.False(t, res.HadRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Toggle_DeletesViewingAndReportsLostRating(t *testing.T) {
	repo, mock := newViewingRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(toggleSelect)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rating"}).AddRow(42, 4.5))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM viewings WHERE id = ?`)).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := repo.Toggle(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.False(t, res.Seen)
	assert.True(t, res.HadRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Toggle_DeletesUnratedViewing(t *testing.T) {
	repo, mock := newViewingRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(toggleSelect)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rating"}).AddRow(42, nil))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM viewings WHERE id = ?`)).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := repo.Toggle(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.False(t, res.Seen)
	assert.False(t, res.HadRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Toggle_TreatsDuplicateInsertAsSeen(t *testing.T) {
	// A concurrent toggle can win the insert race between our SELECT
	// and INSERT. The unique pair constraint fires 1062 and the row we
	// wanted exists, which is the outcome we were after.
	repo, mock := newViewingRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(toggleSelect)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO viewings (user_id, movie_id) VALUES (?, ?)`)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '7-3' for key 'viewings.uq_viewings_user_movie'"))
	mock.ExpectCommit()

	res, err := repo.Toggle(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.True(t, res.Seen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Toggle_RollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newViewingRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(toggleSelect)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO viewings (user_id, movie_id) VALUES (?, ?)`)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnError(errors.New("Error 1205: Lock wait timeout exceeded"))
	mock.ExpectRollback()

	_, err := repo.Toggle(context.Background(), 7, 3)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Delete_ReturnsNotFoundWhenNoRow(t *testing.T) {
	repo, mock := newViewingRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM viewings WHERE user_id = ? AND movie_id = ?`)).
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrViewingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_GetByUserAndMovie_MapsNoRows(t *testing.T) {
	repo, mock := newViewingRepoMock(t)

	mock.ExpectQuery("SELECT .+ FROM viewings v").
		WithArgs(uint64(7), uint64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserAndMovie(context.Background(), 7, 3)
	assert.ErrorIs(t, err, ErrViewingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_ListByMovieIDs_EmptyInputSkipsQuery(t *testing.T) {
	repo, mock := newViewingRepoMock(t)

	out, err := repo.ListByMovieIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
