package repository

import (
	"context"
	"sort"
	"strings"
)

// PeopleChoices holds the distinct values observed across the whole
// catalog for the people-based filter widgets. Directors and writers
// are the raw comma-joined column values (exact-match filters compare
// against the joined string, so it is offered verbatim); starring is
// split into individual trimmed names.
type PeopleChoices struct {
	Directors []string `json:"directors"`
	Writers   []string `json:"writers"`
	Starring  []string `json:"starring"`
}

// DistinctPeople recomputes the filter-choice lists from the current
// catalog. It always reads the live tables: suggestion and list pages
// must reflect movies added moments ago.
func (r *MovieRepo) DistinctPeople(ctx context.Context) (PeopleChoices, error) {
	var out PeopleChoices
	var err error
	if out.Directors, err = r.distinctColumn(ctx, "director"); err != nil {
		return PeopleChoices{}, err
	}
	if out.Writers, err = r.distinctColumn(ctx, "writer"); err != nil {
		return PeopleChoices{}, err
	}
	raw, err := r.distinctColumn(ctx, "starring")
	if err != nil {
		return PeopleChoices{}, err
	}
	out.Starring = SplitPeople(raw)
	return out, nil
}

// distinctColumn returns the distinct non-empty values of one of the
// free-text people columns, ordered alphabetically. The column name is
// a compile-time constant at every call site.
func (r *MovieRepo) distinctColumn(ctx context.Context, column string) ([]string, error) {
	q := `SELECT DISTINCT ` + column + ` FROM movies WHERE ` + column + ` <> '' ORDER BY ` + column + ` ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SplitPeople explodes comma-joined name strings into a sorted,
// deduplicated list of individual trimmed names.
func SplitPeople(joined []string) []string {
	set := map[string]struct{}{}
	for _, s := range joined {
		for _, name := range strings.Split(s, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				set[name] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
