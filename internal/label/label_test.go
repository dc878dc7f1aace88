package label

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/casetracker/internal/models"
)

func testInmate() models.Inmate {
	return models.Inmate{
		Jurisdiction: "Texas",
		ID:           1234,
		FirstName:    "Jane",
		LastName:     "Doe",
		Unit: models.Unit{
			Name:    "Hobby",
			Street1: "742 FM 712",
			City:    "Marlin",
			State:   "TX",
			Zipcode: "76661",
		},
	}
}

func TestRender_Golden(t *testing.T) {
	req := models.Request{Index: 3, DatePostmarked: models.NewDate(2024, time.January, 5), Action: models.ActionFilled}

	out, err := Render(testInmate(), req)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "label_basic", []byte(out))

	in := testInmate()
	in.Unit.Street2 = "PO Box 19"
	out, err = Render(in, req)
	require.NoError(t, err)
	g.Assert(t, "label_street2", []byte(out))
}

func TestRender_Errors(t *testing.T) {
	req := models.Request{Action: models.ActionTossed}
	_, err := Render(testInmate(), req)
	assert.ErrorIs(t, err, ErrNotFilled)

	in := testInmate()
	in.Unit.Street1 = ""
	_, err = Render(in, models.Request{Action: models.ActionFilled})
	assert.ErrorIs(t, err, ErrNoAddress)
}
