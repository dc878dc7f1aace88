package warning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/casetracker/internal/models"
)

func filled(y int, m time.Month, d int) models.Request {
	return models.Request{DatePostmarked: models.NewDate(y, m, d), Action: models.ActionFilled}
}

func tossed(y int, m time.Month, d int) models.Request {
	return models.Request{DatePostmarked: models.NewDate(y, m, d), Action: models.ActionTossed}
}

func TestSpacing_DeltaTable(t *testing.T) {
	history := []models.Request{
		filled(2024, time.January, 1),
		filled(2024, time.March, 10),
		tossed(2024, time.June, 1),
	}
	latest := models.NewDate(2024, time.March, 10)

	tests := []struct {
		name      string
		candidate models.Date
		want      string
	}{
		{"after", latest.AddDays(-3), "There is a filled request postmarked after this one."},
		{"same day", latest, "There is a filled request postmarked the same day as this one."},
		{"one day", latest.AddDays(1), "This request is postmarked one day from date of last filled request."},
		{"five days", latest.AddDays(5), "This request is postmarked 5 days from date of last filled request."},
		{"one short of gap", latest.AddDays(59), "This request is postmarked 59 days from date of last filled request."},
		{"exactly gap", latest.AddDays(60), ""},
		{"beyond gap", latest.AddDays(200), ""},
		{"unset", models.Date{}, "This request is postmarked too early from date of last filled request."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Spacing(tt.candidate, history, 60))
		})
	}
}

func TestSpacing_NoFilledRequests(t *testing.T) {
	history := []models.Request{tossed(2024, time.January, 1), tossed(2024, time.February, 1)}
	for _, candidate := range []models.Date{{}, models.NewDate(2023, time.January, 1), models.NewDate(2024, time.January, 1)} {
		assert.Empty(t, Spacing(candidate, history, 60))
	}
	assert.Empty(t, Spacing(models.NewDate(2024, time.January, 1), nil, 60))
}

func TestSpacing_ExactlyOneMessageBelowThreshold(t *testing.T) {
	latest := models.NewDate(2023, time.December, 30)
	history := []models.Request{filled(2023, time.December, 30), filled(2023, time.November, 1)}
	for gap := 0; gap < 10; gap++ {
		for offset := -5; offset < 15; offset++ {
			msgs := Check(Input{DatePostmarked: latest.AddDays(offset), Requests: history, MinGapDays: gap})
			if offset < gap {
				assert.Len(t, msgs, 1, "gap=%d offset=%d", gap, offset)
			} else {
				assert.Empty(t, msgs, "gap=%d offset=%d", gap, offset)
			}
		}
	}
}

func TestCheck_Ordering(t *testing.T) {
	msgs := Check(Input{
		DatePostmarked:  models.NewDate(2024, time.January, 2),
		Requests:        []models.Request{filled(2024, time.January, 1)},
		MinGapDays:      30,
		EntryAgeWarning: "entry",
		ReleaseWarning:  "release",
	})
	assert.Equal(t, []string{
		"entry",
		"release",
		"This request is postmarked one day from date of last filled request.",
	}, msgs)

	msgs = Check(Input{ReleaseWarning: "release"})
	assert.Equal(t, []string{"release"}, msgs)

	msgs = Check(Input{})
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestEntryAge(t *testing.T) {
	now := time.Date(2024, time.May, 1, 15, 0, 0, 0, time.UTC)
	assert.Empty(t, EntryAge(now.AddDate(0, 0, -90), now, 90))
	assert.Equal(t, "Entry was last updated 91 days ago.", EntryAge(now.AddDate(0, 0, -91), now, 90))
	assert.Empty(t, EntryAge(time.Time{}, now, 90))
	assert.Empty(t, EntryAge(now.AddDate(-5, 0, 0), now, 0))
}

func TestRelease(t *testing.T) {
	now := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "Inmate may have been released on 2024-04-30.", Release("2024-04-30", now))
	assert.Equal(t, "Inmate may have been released on 2024-05-01.", Release("2024-05-01", now))
	assert.Empty(t, Release("2024-05-02", now))
	assert.Empty(t, Release("Life", now))
	assert.Empty(t, Release("", now))
}

func TestCheckAggregate(t *testing.T) {
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	agg := models.InmateAggregate{
		Inmate:   models.Inmate{Release: "2020-01-01", DatetimeFetched: now},
		Requests: []models.Request{filled(2024, time.April, 20)},
	}
	ForAggregate(&agg, now, 60, 90)

	assert.Equal(t, 60, agg.MinPostmarkTimedelta)
	assert.Empty(t, agg.EntryAgeWarning)
	assert.Equal(t, []string{
		"Inmate may have been released on 2020-01-01.",
		"This request is postmarked 10 days from date of last filled request.",
	}, CheckAggregate(agg, models.NewDate(2024, time.April, 30)))
}
