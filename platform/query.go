package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// A Query addresses one table. Filters and modifiers accumulate, one of the
// executor methods performs the single round-trip.
type Query struct {
	client *Client
	table  string
	params map[string][]string
}

func (q *Query) path() string {
	return "/rest/v1/" + q.table
}

// Select sets the returned columns, "*" for all. Embedded resources use the
// PostgREST syntax, e.g. "*, categories(name)".
func (q *Query) Select(columns string) *Query {
	q.params["select"] = []string{columns}
	return q
}

// Eq keeps only rows whose column equals value.
func (q *Query) Eq(column string, value string) *Query {
	q.params[column] = append(q.params[column], "eq."+value)
	return q
}

// Order sorts by the given column.
func (q *Query) Order(column string, ascending bool) *Query {
	var direction = "desc"
	if ascending {
		direction = "asc"
	}
	q.params["order"] = []string{column + "." + direction}
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.params["limit"] = []string{strconv.Itoa(n)}
	return q
}

// Get fetches all matching rows into dest, which must be a pointer to a slice.
func (q *Query) Get(ctx context.Context, dest interface{}) error {
	resp, err := q.client.do(ctx, http.MethodGet, q.path(), q.params, nil, nil)
	if err != nil {
		return err
	}
	return decode(resp, dest)
}

// Single fetches exactly one row into dest. Zero or multiple matches are an
// error (the backend reports CodeNoRows for zero).
func (q *Query) Single(ctx context.Context, dest interface{}) error {
	var header = make(http.Header)
	header.Set("Accept", "application/vnd.pgrst.object+json")
	resp, err := q.client.do(ctx, http.MethodGet, q.path(), q.params, header, nil)
	if err != nil {
		return err
	}
	return decode(resp, dest)
}

// MaybeSingle fetches at most one row into dest. Zero matches leave dest
// untouched and return found == false.
func (q *Query) MaybeSingle(ctx context.Context, dest interface{}) (bool, error) {
	var rows []json.RawMessage
	if err := q.Get(ctx, &rows); err != nil {
		return false, err
	}
	switch len(rows) {
	case 0:
		return false, nil
	case 1:
		return true, json.Unmarshal(rows[0], dest)
	default:
		return false, errors.New("multiple rows returned")
	}
}

// Count returns the number of matching rows without transferring them.
func (q *Query) Count(ctx context.Context) (int, error) {

	var header = make(http.Header)
	header.Set("Prefer", "count=exact")

	resp, err := q.client.do(ctx, http.MethodHead, q.path(), q.params, header, nil)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	// Content-Range is like "0-24/3573" or "*/0"
	contentRange := resp.Header.Get("Content-Range")
	slash := strings.LastIndex(contentRange, "/")
	if slash < 0 {
		return 0, errors.New("missing row count in response")
	}
	return strconv.Atoi(contentRange[slash+1:])
}

// Insert adds a row. If dest is not nil, the created row is fetched into it.
func (q *Query) Insert(ctx context.Context, row interface{}, dest interface{}) error {
	var header = make(http.Header)
	if dest != nil {
		header.Set("Prefer", "return=representation")
		header.Set("Accept", "application/vnd.pgrst.object+json")
	} else {
		header.Set("Prefer", "return=minimal")
	}
	resp, err := q.client.do(ctx, http.MethodPost, q.path(), q.params, header, row)
	if err != nil {
		return err
	}
	return decode(resp, dest)
}

// Update patches all matching rows. If dest is not nil, the query must match
// exactly one row, which is fetched into it.
func (q *Query) Update(ctx context.Context, patch interface{}, dest interface{}) error {
	var header = make(http.Header)
	if dest != nil {
		header.Set("Prefer", "return=representation")
		header.Set("Accept", "application/vnd.pgrst.object+json")
	} else {
		header.Set("Prefer", "return=minimal")
	}
	resp, err := q.client.do(ctx, http.MethodPatch, q.path(), q.params, header, patch)
	if err != nil {
		return err
	}
	return decode(resp, dest)
}

// Delete removes all matching rows.
func (q *Query) Delete(ctx context.Context) error {
	resp, err := q.client.do(ctx, http.MethodDelete, q.path(), q.params, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
