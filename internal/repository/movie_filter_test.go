package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseSeenState(t *testing.T) {
	tests := []struct {
		in     string
		want   SeenState
		wantOK bool
	}{
		{"", SeenAll, true},
		{"all", SeenAll, true},
		{"ALL", SeenAll, true},
		{"1", SeenSeen, true},
		{"seen", SeenSeen, true},
		{" Seen ", SeenSeen, true},
		{"0", SeenUnseen, true},
		{"unseen", SeenUnseen, true},
		{"maybe", SeenAll, false},
		{"2", SeenAll, false},
	}
	for _, tc := range tests {
		got, ok := ParseSeenState(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.in)
	}
}

func Test_ParseSortKey_FallsBackToTitleAsc(t *testing.T) {
	assert.Equal(t, SortTitleAsc, ParseSortKey(""))
	assert.Equal(t, SortTitleAsc, ParseSortKey("garbage"))
	assert.Equal(t, SortTitleAsc, ParseSortKey("title_asc"))
	assert.Equal(t, SortTitleDesc, ParseSortKey("TITLE_DESC"))
	assert.Equal(t, SortYearAsc, ParseSortKey("year_asc"))
	assert.Equal(t, SortYearDesc, ParseSortKey("year_desc"))
	assert.Equal(t, SortRecent, ParseSortKey("recent"))
}

func Test_MovieFilter_WhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   MovieFilter
		wantCond string
		wantArgs []any
	}{
		{
			name:     "empty_filter_matches_everything",
			filter:   MovieFilter{},
			wantCond: "1=1",
			wantArgs: []any{},
		},
		{
			name:     "seen_requires_viewing_row",
			filter:   MovieFilter{ViewerID: 7, Seen: SeenSeen},
			wantCond: "EXISTS (SELECT 1 FROM viewings v WHERE v.movie_id = m.id AND v.user_id = ?)",
			wantArgs: []any{uint64(7)},
		},
		{
			name:     "unseen_requires_absent_viewing_row",
			filter:   MovieFilter{ViewerID: 7, Seen: SeenUnseen},
			wantCond: "NOT EXISTS (SELECT 1 FROM viewings v WHERE v.movie_id = m.id AND v.user_id = ?)",
			wantArgs: []any{uint64(7)},
		},
		{
			name:     "seen_is_ignored_for_guests",
			filter:   MovieFilter{ViewerID: 0, Seen: SeenUnseen},
			wantCond: "1=1",
			wantArgs: []any{},
		},
		{
			name:     "categories_match_any_of_the_set",
			filter:   MovieFilter{CategoryIDs: []uint64{3, 1, 3, 0}},
			wantCond: "EXISTS (SELECT 1 FROM movie_categories mc WHERE mc.movie_id = m.id AND mc.category_id IN (?,?))",
			wantArgs: []any{uint64(3), uint64(1)},
		},
		{
			name:     "director_is_exact_match_on_raw_column",
			filter:   MovieFilter{Director: "Joel Coen, Ethan Coen"},
			wantCond: "m.director = ?",
			wantArgs: []any{"Joel Coen, Ethan Coen"},
		},
		{
			name:     "starring_is_case_insensitive_substring",
			filter:   MovieFilter{Starring: "Frances McDormand"},
			wantCond: "LOWER(m.starring) LIKE ?",
			wantArgs: []any{"%frances mcdormand%"},
		},
		{
			name:   "predicates_compose_with_and",
			filter: MovieFilter{ViewerID: 2, Seen: SeenUnseen, Writer: "Nora Ephron", RecommendedBy: 9, StreamingServiceID: 4},
			wantCond: "NOT EXISTS (SELECT 1 FROM viewings v WHERE v.movie_id = m.id AND v.user_id = ?)" +
				" AND m.writer = ?" +
				" AND m.recommended_by = ?" +
				" AND EXISTS (SELECT 1 FROM movie_streaming_services ms WHERE ms.movie_id = m.id AND ms.streaming_service_id = ?)",
			wantArgs: []any{uint64(2), "Nora Ephron", uint64(9), uint64(4)},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cond, args := tc.filter.whereClause()
			assert.Equal(t, tc.wantCond, cond)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func Test_MovieFilter_OrderClause(t *testing.T) {
	tests := []struct {
		sort SortKey
		want string
	}{
		{SortTitleAsc, "ORDER BY m.title ASC, m.id ASC"},
		{SortTitleDesc, "ORDER BY m.title DESC, m.id ASC"},
		{SortYearAsc, "ORDER BY (m.year IS NULL) ASC, m.year ASC, m.id ASC"},
		{SortYearDesc, "ORDER BY (m.year IS NULL) ASC, m.year DESC, m.id ASC"},
		{SortRecent, "ORDER BY m.created_at DESC, m.id DESC"},
		{SortKey(""), "ORDER BY m.title ASC, m.id ASC"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MovieFilter{Sort: tc.sort}.orderClause(), "sort %q", tc.sort)
	}
}

func Test_MovieFilter_YearSortsPutUnknownYearLast(t *testing.T) {
	// Both year orderings lead with the NULL check so unknown years
	// trail the list regardless of direction.
	for _, k := range []SortKey{SortYearAsc, SortYearDesc} {
		clause := MovieFilter{Sort: k}.orderClause()
		assert.True(t, strings.HasPrefix(clause, "ORDER BY (m.year IS NULL) ASC"), "sort %q: %s", k, clause)
		assert.True(t, strings.HasSuffix(clause, "m.id ASC"), "sort %q: %s", k, clause)
	}
}

func Test_DedupIDs(t *testing.T) {
	assert.Nil(t, dedupIDs(nil))
	assert.Equal(t, []uint64{5, 2, 9}, dedupIDs([]uint64{5, 2, 5, 0, 9, 2}))
}
