// Package label renders mailing labels for filled requests.
package label

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/utils"
)

var (
	// ErrNotFilled is returned for requests that were not filled; only
	// filled requests get a package.
	ErrNotFilled = errors.New("label: request is not filled")
	// ErrNoAddress is returned when the inmate's unit has no street address.
	ErrNoAddress = errors.New("label: unit has no mailing address")
)

// Render returns the plain-text label for request r of inmate in.
func Render(in models.Inmate, r models.Request) (string, error) {
	if r.Action != models.ActionFilled {
		return "", ErrNotFilled
	}
	u := in.Unit
	if u.Street1 == "" || u.City == "" {
		return "", ErrNoAddress
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s #%s\n", utils.FullName(in.FirstName, in.LastName), utils.FormatID(in.ID))
	if u.Name != "" {
		fmt.Fprintf(&b, "%s\n", u.Name)
	}
	fmt.Fprintf(&b, "%s\n", u.Street1)
	if u.Street2 != "" {
		fmt.Fprintf(&b, "%s\n", u.Street2)
	}
	fmt.Fprintf(&b, "%s\n", strings.TrimSpace(fmt.Sprintf("%s, %s %s", u.City, u.State, u.Zipcode)))
	fmt.Fprintf(&b, "\n%s request %d, postmarked %s\n", in.Jurisdiction, r.Index, r.DatePostmarked)
	return b.String(), nil
}
