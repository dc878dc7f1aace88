package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/casetracker/internal/api"
	"github.com/yourusername/casetracker/internal/app"
	"github.com/yourusername/casetracker/internal/config"
	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/storage"
)

var testNow = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

// newServer starts the real API on an in-memory database with one inmate
// and one staff account.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.JWTSecret = "test-secret"
	cfg.Label.StoragePath = t.TempDir()
	cfg.Rate.RPS = 0

	db, err := storage.Open(config.DBConfig{Driver: "sqlite3", Path: ":memory:"})
	require.NoError(t, err)
	a, err := app.New(cfg, db, zap.NewNop())
	require.NoError(t, err)
	a.SetClock(func() time.Time { return testNow })

	ctx := context.Background()
	require.NoError(t, db.UpsertInmate(ctx, models.Inmate{
		Jurisdiction: "Texas", ID: 1234, FirstName: "Jane", LastName: "Doe",
		DatetimeFetched: testNow,
		Unit:            models.Unit{Name: "Hobby", Street1: "742 FM 712", City: "Marlin", State: "TX", Zipcode: "76661"},
	}))
	hash, err := a.Auth().HashPassword("hunter22")
	require.NoError(t, err)
	require.NoError(t, db.CreateUser(ctx, models.User{ID: "u1", Email: "kim@example.org", PasswordHash: hash, CreatedAt: testNow}))

	srv := httptest.NewServer(api.SetupRouter(a))
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return srv
}

func TestClient_RoundTrip(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(srv.URL+"/", "")

	_, err := c.Search(ctx, "doe")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)

	_, err = c.Login(ctx, "kim@example.org", "hunter22")
	require.NoError(t, err)

	res, err := c.Search(ctx, "doe")
	require.NoError(t, err)
	require.Len(t, res.Inmates, 1)

	d, err := c.Inmate(ctx, "Texas", 1234)
	require.NoError(t, err)
	assert.Equal(t, "Doe", d.Inmate.LastName)
	assert.Equal(t, "2024-06-01", d.DatePostmarked.String())

	_, err = c.Inmate(ctx, "Texas", 4321)
	assert.True(t, IsNotFound(err))

	r, err := c.CreateRequest(ctx, "Texas", 1234, models.Request{
		DatePostmarked: models.NewDate(2024, time.May, 1),
		Action:         models.ActionFilled,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, r.Index)

	warnings, err := c.Warnings(ctx, "Texas", 1234, models.NewDate(2024, time.May, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"This request is postmarked one day from date of last filled request."}, warnings)

	r.Action = models.ActionTossed
	r, err = c.UpdateRequest(ctx, "Texas", 1234, r)
	require.NoError(t, err)
	assert.Equal(t, models.ActionTossed, r.Action)

	_, err = c.Label(ctx, "Texas", 1234, r.Index)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "action")

	require.NoError(t, c.DeleteRequest(ctx, "Texas", 1234, r.Index))
	assert.True(t, IsNotFound(c.DeleteRequest(ctx, "Texas", 1234, r.Index)))

	cm, err := c.CreateComment(ctx, "Texas", 1234, models.Comment{Body: "Asked for a dictionary"})
	require.NoError(t, err)
	assert.Equal(t, "kim@example.org", cm.Author)
	cm.Body = "Asked for two dictionaries"
	cm, err = c.UpdateComment(ctx, "Texas", 1234, cm)
	require.NoError(t, err)
	assert.Equal(t, "Asked for two dictionaries", cm.Body)
	require.NoError(t, c.DeleteComment(ctx, "Texas", 1234, cm.Index))
}

func TestClient_FieldErrors(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(srv.URL, "")
	_, err := c.Login(ctx, "kim@example.org", "hunter22")
	require.NoError(t, err)

	_, err = c.CreateRequest(ctx, "Texas", 1234, models.Request{Action: models.ActionFilled})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldErrors{"date_postmarked": "This field is required."}, fe)
	assert.Equal(t, "date_postmarked: This field is required.", fe.Error())

	_, err = c.CreateComment(ctx, "Texas", 1234, models.Comment{})
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "body")
}

func TestClient_Labels(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(srv.URL, "")
	_, err := c.Login(ctx, "kim@example.org", "hunter22")
	require.NoError(t, err)

	r, err := c.CreateRequest(ctx, "Texas", 1234, models.Request{
		DatePostmarked: models.NewDate(2024, time.May, 1),
		Action:         models.ActionFilled,
	})
	require.NoError(t, err)

	text, err := c.Label(ctx, "Texas", 1234, r.Index)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe #00001234")

	pr, err := c.PrintLabel(ctx, "Texas", 1234, r.Index)
	require.NoError(t, err)
	assert.False(t, pr.Mailed)
	assert.NotEmpty(t, pr.Path)
}

func TestDecodeError(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"generic 400", 400, `{"error":"Invalid request"}`, func(t *testing.T, err error) {
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "Invalid request", se.Message)
		}},
		{"plain text", 502, "bad gateway", func(t *testing.T, err error) {
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, 502, se.Code)
			assert.Equal(t, "bad gateway", se.Message)
		}},
		{"fields", 400, `{"id":"Enter a whole number."}`, func(t *testing.T, err error) {
			assert.Equal(t, FieldErrors{"id": "Enter a whole number."}, err)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, "").Search(context.Background(), "x")
			tc.check(t, err)
		})
	}
}
