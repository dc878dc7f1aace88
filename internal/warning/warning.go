// Package warning computes the advisory messages shown before a mail request
// is recorded as Filled.
package warning

import (
	"fmt"
	"time"

	"github.com/yourusername/casetracker/internal/models"
)

const (
	msgAfter    = "There is a filled request postmarked after this one."
	msgSameDay  = "There is a filled request postmarked the same day as this one."
	msgOneDay   = "This request is postmarked one day from date of last filled request."
	msgDaysFmt  = "This request is postmarked %d days from date of last filled request."
	msgTooEarly = "This request is postmarked too early from date of last filled request."
)

// Input is everything the rule looks at.
type Input struct {
	DatePostmarked  models.Date
	Requests        []models.Request
	MinGapDays      int
	EntryAgeWarning string
	ReleaseWarning  string
}

// Check returns the warnings for a prospective Filled request, in the order
// entry-age, release, spacing. Empty warnings are dropped; the result is
// never nil.
func Check(in Input) []string {
	out := make([]string, 0, 3)
	for _, msg := range []string{in.EntryAgeWarning, in.ReleaseWarning, Spacing(in.DatePostmarked, in.Requests, in.MinGapDays)} {
		if msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

// Spacing returns the postmark spacing warning, or "" when the candidate is
// far enough from the latest Filled request (or there is none).
func Spacing(candidate models.Date, requests []models.Request, gapDays int) string {
	latest, ok := LatestFilled(requests)
	if !ok {
		return ""
	}
	if candidate.IsZero() {
		return msgTooEarly
	}
	if !candidate.Before(latest.AddDays(gapDays)) {
		return ""
	}

	switch delta := candidate.DaysSince(latest); {
	case delta < 0:
		return msgAfter
	case delta == 0:
		return msgSameDay
	case delta == 1:
		return msgOneDay
	default:
		return fmt.Sprintf(msgDaysFmt, delta)
	}
}

// LatestFilled returns the latest postmark among Filled requests.
func LatestFilled(requests []models.Request) (models.Date, bool) {
	var latest models.Date
	found := false
	for _, r := range requests {
		if r.Action != models.ActionFilled || r.DatePostmarked.IsZero() {
			continue
		}
		if !found || r.DatePostmarked.After(latest) {
			latest = r.DatePostmarked
			found = true
		}
	}
	return latest, found
}

// EntryAge warns when an inmate record has not been refreshed for more than
// maxAgeDays.
func EntryAge(fetched, now time.Time, maxAgeDays int) string {
	if fetched.IsZero() || maxAgeDays <= 0 {
		return ""
	}
	age := models.DateOf(now).DaysSince(models.DateOf(fetched))
	if age <= maxAgeDays {
		return ""
	}
	return fmt.Sprintf("Entry was last updated %d days ago.", age)
}

// Release warns when the free-text release field holds a date that is not in
// the future.
func Release(release string, now time.Time) string {
	if release == "" {
		return ""
	}
	date, err := models.ParseDate(release)
	if err != nil {
		return ""
	}
	if date.After(models.DateOf(now)) {
		return ""
	}
	return fmt.Sprintf("Inmate may have been released on %s.", date)
}

// ForAggregate fills in the standing warnings and policy of an inmate aggregate.
func ForAggregate(agg *models.InmateAggregate, now time.Time, minGapDays, maxEntryAgeDays int) {
	agg.MinPostmarkTimedelta = minGapDays
	agg.EntryAgeWarning = EntryAge(agg.DatetimeFetched, now, maxEntryAgeDays)
	agg.ReleaseWarning = Release(agg.Release, now)
}

// CheckAggregate runs Check against an inmate aggregate.
func CheckAggregate(agg models.InmateAggregate, candidate models.Date) []string {
	return Check(Input{
		DatePostmarked:  candidate,
		Requests:        agg.Requests,
		MinGapDays:      agg.MinPostmarkTimedelta,
		EntryAgeWarning: agg.EntryAgeWarning,
		ReleaseWarning:  agg.ReleaseWarning,
	})
}
