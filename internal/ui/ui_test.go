package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/casetracker/internal/confirm"
	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/search"
)

func TestLineChooser(t *testing.T) {
	cases := []struct {
		input string
		want  confirm.Choice
		err   error
	}{
		{"t\n", confirm.Toss, nil},
		{"maybe\nFill anyway\n", confirm.Fill, nil},
		{"", confirm.NoChoice, ErrNoAnswer},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		got, err := LineChooser{In: strings.NewReader(tc.input), Out: &out}.Choose(context.Background(), []string{"too soon"})
		assert.ErrorIs(t, err, tc.err)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
		assert.Contains(t, out.String(), "too soon")
	}
}

func TestSearchResults(t *testing.T) {
	assert.Equal(t, MsgNoMatches+"\n", SearchResults(search.Result{}))

	out := SearchResults(search.Result{
		Inmates: []models.Inmate{{Jurisdiction: "Texas", ID: 1234, FirstName: "Jane", LastName: "Doe"}},
		Errors:  []string{"Failed to search Federal inmates."},
	})
	assert.Contains(t, out, "00001234")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Failed to search Federal inmates.")
}

func TestInmateAndTables(t *testing.T) {
	agg := models.InmateAggregate{
		Inmate: models.Inmate{
			Jurisdiction: "Texas", ID: 1234, FirstName: "Jane", LastName: "Doe",
			DatetimeFetched: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
			Unit:            models.Unit{Name: "Hobby", Street1: "742 FM 712", City: "Marlin", State: "TX", Zipcode: "76661"},
		},
		ReleaseWarning:       "Inmate may have been released on 2024-01-01.",
		MinPostmarkTimedelta: 60,
	}
	out := Inmate(agg)
	assert.Contains(t, out, "742 FM 712, Marlin, TX 76661")
	assert.Contains(t, out, "Not Available")
	assert.Contains(t, out, "60 days")
	assert.Contains(t, out, agg.ReleaseWarning)

	reqs := Requests([]models.Request{{Index: 2, DatePostmarked: models.NewDate(2024, time.May, 1), Action: models.ActionFilled}})
	assert.Contains(t, reqs, "2024-05-01")
	assert.Contains(t, reqs, "Filled")
	assert.Contains(t, Requests(nil), "No requests.")
	assert.Contains(t, Comments(nil), "No comments.")

	assert.Empty(t, Warnings(nil))
	require.Empty(t, FieldErrors(nil))
	fe := FieldErrors(map[string]string{"date_postmarked": "Enter a valid date.", "action": "This field is required."})
	assert.Less(t, strings.Index(fe, "action"), strings.Index(fe, "date_postmarked"))
}
