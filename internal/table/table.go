// Package table holds the editable lists of an inmate's requests and
// comments as seen by the client.
//
// Every mutation builds a new slice; a snapshot returned by Rows is never
// modified afterwards.
package table

import "maps"

// NewRow is the key under which errors for the add form are kept.
const NewRow = -1

// Row is a record with an identity within its list.
type Row interface {
	Key() int
}

// Table owns one list of rows and the field errors of its editors.
type Table[T Row] struct {
	rows []T
	errs map[int]map[string]string
}

// New wraps rows; the slice is owned by the table from now on.
func New[T Row](rows []T) *Table[T] {
	return &Table[T]{rows: rows, errs: map[int]map[string]string{}}
}

// Rows returns the current snapshot.
func (t *Table[T]) Rows() []T { return t.rows }

func (t *Table[T]) Len() int { return len(t.rows) }

// Get returns the row with the given key.
func (t *Table[T]) Get(key int) (T, bool) {
	if i := indexOf(t.rows, key); i >= 0 {
		return t.rows[i], true
	}
	var zero T
	return zero, false
}

// Errors returns the field errors attached to the editor of key (NewRow
// for the add form). The result must not be modified.
func (t *Table[T]) Errors(key int) map[string]string {
	return t.errs[key]
}

// Fail attaches field errors to the editor of key. Rows are untouched.
func (t *Table[T]) Fail(key int, errs map[string]string) {
	t.errs[key] = maps.Clone(errs)
}

// Added prepends the canonical row returned by the server and clears the
// add form's errors.
func (t *Table[T]) Added(row T) {
	t.rows = Prepend(t.rows, row)
	delete(t.errs, NewRow)
}

// Updated replaces the row with the same key. It reports false, leaving the
// table as it was, when no such row exists.
func (t *Table[T]) Updated(row T) bool {
	rows, ok := Replace(t.rows, row)
	if !ok {
		return false
	}
	t.rows = rows
	delete(t.errs, row.Key())
	return true
}

// Removed drops the row with key.
func (t *Table[T]) Removed(key int) bool {
	rows, ok := Remove(t.rows, key)
	if !ok {
		return false
	}
	t.rows = rows
	delete(t.errs, key)
	return true
}

// Prepend returns a new slice with row in front of rows.
func Prepend[T Row](rows []T, row T) []T {
	out := make([]T, 0, len(rows)+1)
	out = append(out, row)
	return append(out, rows...)
}

// Replace returns a copy of rows with the element sharing row's key
// replaced by row.
func Replace[T Row](rows []T, row T) ([]T, bool) {
	i := indexOf(rows, row.Key())
	if i < 0 {
		return rows, false
	}
	out := make([]T, len(rows))
	copy(out, rows)
	out[i] = row
	return out, true
}

// Remove returns a copy of rows without the element with key.
func Remove[T Row](rows []T, key int) ([]T, bool) {
	i := indexOf(rows, key)
	if i < 0 {
		return rows, false
	}
	out := make([]T, 0, len(rows)-1)
	out = append(out, rows[:i]...)
	return append(out, rows[i+1:]...), true
}

func indexOf[T Row](rows []T, key int) int {
	for i, r := range rows {
		if r.Key() == key {
			return i
		}
	}
	return -1
}
