package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func Test_ValidRating(t *testing.T) {
	tests := []struct {
		rating float64
		want   bool
	}{
		{0, true},
		{0.5, true},
		{2, true},
		{3.5, true},
		{5, true},
		{-0.5, false},
		{5.5, false},
		{4.75, false},
		{3.1, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, validRating(tc.rating), "rating %v", tc.rating)
	}
}

func Test_ParseWatchedOn(t *testing.T) {
	got, err := parseWatchedOn("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseWatchedOn("2024-03-17")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), *got)

	_, err = parseWatchedOn("17.03.2024")
	assert.Error(t, err)
}

func Test_ViewerID_GuestIsZero(t *testing.T) {
	c := newTestContext(t, "/v1/movies")
	assert.Equal(t, uint64(0), viewerID(c))

	c.Set("user_id", uint64(7))
	assert.Equal(t, uint64(7), viewerID(c))
}

func Test_GetUserID_AcceptsClaimTypes(t *testing.T) {
	// JWT claims arrive as float64 after JSON decoding; other paths set
	// native integer types. All of them must resolve to the same ID.
	for _, v := range []any{uint64(7), int(7), int64(7), float64(7), "7"} {
		c := newTestContext(t, "/")
		c.Set("user_id", v)
		id, err := getUserID(c)
		require.NoError(t, err, "value %T", v)
		assert.Equal(t, uint64(7), id)
	}

	c := newTestContext(t, "/")
	c.Set("user_id", "not-a-number")
	_, err := getUserID(c)
	assert.Error(t, err)
}

func Test_PathID(t *testing.T) {
	c := newTestContext(t, "/v1/movies/12")
	c.SetParamNames("id")
	c.SetParamValues("12")
	id, err := pathID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		c := newTestContext(t, "/v1/movies/"+bad)
		c.SetParamNames("id")
		c.SetParamValues(bad)
		_, err := pathID(c)
		assert.Error(t, err, "param %q", bad)
	}
}

func Test_MovieReq_Validate(t *testing.T) {
	rating := 4.75
	tests := []struct {
		name       string
		req        movieReq
		wantFields []string
	}{
		{
			name:       "title_required",
			req:        movieReq{},
			wantFields: []string{"title"},
		},
		{
			name: "valid_minimal",
			req:  movieReq{Title: "Fargo"},
		},
		{
			name: "viewing_rating_must_be_half_step",
			req:  movieReq{Title: "Fargo", Viewing: &viewingReq{Rating: &rating}},
			wantFields: []string{"viewing.rating"},
		},
		{
			name: "viewing_date_must_be_iso",
			req:  movieReq{Title: "Fargo", Viewing: &viewingReq{WatchedOn: "03/17/2024"}},
			wantFields: []string{"viewing.watched_on"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := tc.req.validate()
			assert.Len(t, fields, len(tc.wantFields))
			for _, f := range tc.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}
