package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/casetracker/internal/models"
)

func comments(bodies ...string) []models.Comment {
	out := make([]models.Comment, len(bodies))
	for i, b := range bodies {
		out[i] = models.Comment{Index: len(bodies) - 1 - i, Body: b}
	}
	return out
}

func TestTable_AddPrepends(t *testing.T) {
	tb := New(comments("b", "a"))
	before := tb.Rows()

	tb.Fail(NewRow, map[string]string{"body": "This field is required."})
	require.NotEmpty(t, tb.Errors(NewRow))

	tb.Added(models.Comment{Index: 2, Body: "c"})
	want := []models.Comment{{Index: 2, Body: "c"}, {Index: 1, Body: "b"}, {Index: 0, Body: "a"}}
	if diff := cmp.Diff(want, tb.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, tb.Errors(NewRow), "a successful add clears the form errors")
	assert.Len(t, before, 2, "old snapshot is untouched")
}

func TestTable_UpdateReplacesByKey(t *testing.T) {
	tb := New(comments("c", "b", "a"))
	before := tb.Rows()

	tb.Fail(1, map[string]string{"body": "too long"})
	ok := tb.Updated(models.Comment{Index: 1, Body: "B"})
	require.True(t, ok)

	assert.Equal(t, "B", tb.Rows()[1].Body)
	assert.Equal(t, "b", before[1].Body, "old snapshot is untouched")
	assert.Nil(t, tb.Errors(1))

	assert.False(t, tb.Updated(models.Comment{Index: 9, Body: "x"}))
	assert.Len(t, tb.Rows(), 3)
}

func TestTable_RemoveByKey(t *testing.T) {
	tb := New(comments("c", "b", "a"))
	before := tb.Rows()

	require.True(t, tb.Removed(1))
	want := []models.Comment{{Index: 2, Body: "c"}, {Index: 0, Body: "a"}}
	if diff := cmp.Diff(want, tb.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, before, 3)

	assert.False(t, tb.Removed(1))
	_, found := tb.Get(1)
	assert.False(t, found)
	got, found := tb.Get(2)
	assert.True(t, found)
	assert.Equal(t, "c", got.Body)
}

func TestTable_FailLeavesRows(t *testing.T) {
	tb := New([]models.Request{{Index: 0, Action: models.ActionFilled}})
	errs := map[string]string{"date_postmarked": "Enter a valid date."}
	tb.Fail(0, errs)
	errs["date_postmarked"] = "changed by caller"

	assert.Equal(t, "Enter a valid date.", tb.Errors(0)["date_postmarked"])
	assert.Equal(t, 1, tb.Len())
}
