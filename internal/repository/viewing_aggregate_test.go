package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/movie-club/internal/model"
)

func viewing(id, userID, movieID uint64) model.Viewing {
	return model.Viewing{ID: id, UserID: userID, MovieID: movieID}
}

func Test_PartitionViewings_SplitsOwnFromOthers(t *testing.T) {
	rows := []model.Viewing{
		viewing(1, 7, 10),
		viewing(2, 3, 10),
		viewing(3, 7, 20),
		viewing(4, 5, 20),
		viewing(5, 3, 20),
	}

	sets := PartitionViewings(rows, 7)

	assert.Len(t, sets.Own, 2)
	assert.Equal(t, uint64(1), sets.Own[10].ID)
	assert.Equal(t, uint64(3), sets.Own[20].ID)

	assert.Len(t, sets.Others[10], 1)
	assert.Equal(t, uint64(2), sets.Others[10][0].ID)
	// Input order is preserved within a movie's list.
	assert.Equal(t, []uint64{4, 5}, []uint64{sets.Others[20][0].ID, sets.Others[20][1].ID})
}

func Test_PartitionViewings_AnonymousViewerOwnsNothing(t *testing.T) {
	rows := []model.Viewing{
		viewing(1, 7, 10),
		viewing(2, 3, 10),
	}

	sets := PartitionViewings(rows, 0)

	assert.Empty(t, sets.Own)
	assert.Len(t, sets.Others[10], 2)
}

func Test_PartitionViewings_EmptyInput(t *testing.T) {
	sets := PartitionViewings(nil, 7)
	assert.NotNil(t, sets.Own)
	assert.NotNil(t, sets.Others)
	assert.Empty(t, sets.Own)
	assert.Empty(t, sets.Others)
}
