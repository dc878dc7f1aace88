package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
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
	"github.com/yourusername/casetracker/internal/ui"
)

type harness struct {
	url, token string
}

func newHarness(t *testing.T) harness {
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
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a.SetClock(func() time.Time { return now })

	ctx := context.Background()
	for _, in := range []models.Inmate{
		{Jurisdiction: "Texas", ID: 1234, FirstName: "Jane", LastName: "Doe"},
		{Jurisdiction: "Texas", ID: 5678, FirstName: "John", LastName: "Smith"},
		{Jurisdiction: "Texas", ID: 5679, FirstName: "Joan", LastName: "Smith"},
	} {
		in.DatetimeFetched = now
		in.Unit = models.Unit{Name: "Hobby", Street1: "742 FM 712", City: "Marlin", State: "TX", Zipcode: "76661"}
		require.NoError(t, db.UpsertInmate(ctx, in))
	}
	_, err = db.CreateRequest(ctx, "Texas", 1234, models.Request{DatePostmarked: models.NewDate(2024, time.May, 1), Action: models.ActionFilled})
	require.NoError(t, err)

	token, err := a.Auth().GenerateToken(models.User{ID: "u1", Email: "kim@example.org"})
	require.NoError(t, err)

	srv := httptest.NewServer(api.SetupRouter(a))
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return harness{url: srv.URL, token: token}
}

// run executes casectl with the line prompt reading stdin.
func (h harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(strings.NewReader(stdin), false)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", h.url, "--token", h.token}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSearch(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "search", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, ui.MsgNoMatches)

	out, err = h.run(t, "", "search", "smith")
	require.NoError(t, err)
	assert.Contains(t, out, "00005678")
	assert.Contains(t, out, "00005679")

	// a single match goes straight to the detail view
	out, err = h.run(t, "", "search", "doe")
	require.NoError(t, err)
	assert.Contains(t, out, "Requests")
	assert.Contains(t, out, "2024-05-01")
}

func TestShow_NoMatch(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "show", "Texas", "999")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, ui.MsgNoInmate)
}

func TestRequestAdd_TossAfterWarning(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "t\n", "request", "add", "Texas", "1234", "--postmarked", "2024-05-06")
	require.NoError(t, err, out)
	assert.Contains(t, out, "This request is postmarked 5 days from date of last filled request.")
	assert.Contains(t, out, "Tossed")
}

func TestRequestAdd_FillAnyway(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "f\n", "request", "add", "Texas", "1234", "--postmarked", "2024-05-06")
	require.NoError(t, err, out)
	assert.NotContains(t, out, "Tossed")
	assert.Equal(t, 2, strings.Count(out, "Filled"))
}

func TestRequestUpdate_ProcessedDateNoPrompt(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "request", "add", "Texas", "1234", "--postmarked", "2024-08-01")
	require.NoError(t, err)

	// no stdin: a prompt here would fail the command
	out, err := h.run(t, "", "request", "update", "Texas", "1234", "0", "--processed", "2024-05-20")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2024-05-20")
	assert.NotContains(t, out, "Tossed")
	assert.Equal(t, 2, strings.Count(out, "Filled"))
}

func TestRequestAdd_FieldErrors(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "request", "add", "Texas", "1234", "--postmarked", "2024-09-01", "--action", "Lost")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "action: Must be one of: Filled, Tossed.")
}

func TestCommentLifecycle(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "comment", "add", "Texas", "1234", "--body", "Asked for a dictionary")
	require.NoError(t, err, out)
	assert.Contains(t, out, "kim@example.org")

	out, err = h.run(t, "", "comment", "update", "Texas", "1234", "0", "--body", "Asked for two")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Asked for two")

	out, err = h.run(t, "", "comment", "delete", "Texas", "1234", "0")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No comments.")
}

func TestLabel(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "label", "Texas", "1234", "0", "--print")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Jane Doe #00001234")
	assert.Contains(t, out, "saved to")
}
