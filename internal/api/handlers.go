package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/casetracker/internal/app"
	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/search"
	"github.com/yourusername/casetracker/internal/storage"
	"github.com/yourusername/casetracker/internal/warning"
)

/* ----------------------------------------------------------------
   DTO types
-----------------------------------------------------------------*/

type UserLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

/* ================================================================
   HEALTH & AUTHENTICATION
================================================================ */

func handleHealth(a *app.App, c *gin.Context) {
	if err := a.DB().GetDB().PingContext(c.Request.Context()); err != nil {
		c.JSON(503, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(200, gin.H{"status": "ok"})
}

func handleLogin(a *app.App, c *gin.Context) {
	var in UserLogin
	if !bindJSON(c, &in) {
		return
	}

	u, err := a.DB().GetUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			_ = c.Error(err)
		}
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}
	if a.Auth().CheckPassword(in.Password, u.PasswordHash) != nil {
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := a.Auth().GenerateToken(u)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(200, gin.H{"token": token})
}

func handleListUsers(a *app.App, c *gin.Context) {
	users, err := a.DB().ListUsers(c.Request.Context())
	if err != nil {
		storageError(c, err, "")
		return
	}
	c.JSON(200, gin.H{"users": users})
}

/* ================================================================
   INMATES
================================================================ */

func handleSearchInmates(a *app.App, c *gin.Context) {
	res, err := a.Search().Search(c.Request.Context(), c.Query("query"))
	if errors.Is(err, search.ErrEmptyQuery) {
		c.JSON(400, gin.H{"query": msgRequired})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(500, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(200, res)
}

// loadAggregate fetches an inmate with its records and standing warnings.
func loadAggregate(a *app.App, c *gin.Context, jurisdiction string, id int64) (models.InmateAggregate, bool) {
	agg, err := a.DB().GetAggregate(c.Request.Context(), jurisdiction, id)
	if err != nil {
		storageError(c, err, "Inmate not found")
		return models.InmateAggregate{}, false
	}
	p := a.Config().Policy
	warning.ForAggregate(&agg, a.Now(), p.MinPostmarkTimedelta, p.MaxEntryAgeDays)
	return agg, true
}

func handleGetInmate(a *app.App, c *gin.Context) {
	j, id, ok := inmateKey(c)
	if !ok {
		return
	}
	agg, ok := loadAggregate(a, c, j, id)
	if !ok {
		return
	}
	c.JSON(200, gin.H{
		"inmate":         agg,
		"datePostmarked": models.DateOf(a.Now()),
	})
}

// handleCheckWarnings runs the postmark rule for a prospective Filled
// request without recording anything.
func handleCheckWarnings(a *app.App, c *gin.Context) {
	j, id, ok := inmateKey(c)
	if !ok {
		return
	}

	errs := gin.H{}
	candidate := parseDateField(errs, "datePostmarked", c.Query("datePostmarked"))
	if len(errs) > 0 {
		c.JSON(400, errs)
		return
	}

	agg, ok := loadAggregate(a, c, j, id)
	if !ok {
		return
	}

	spacing := warning.Spacing(candidate, agg.Requests, agg.MinPostmarkTimedelta)
	countWarnings(a, agg.EntryAgeWarning, agg.ReleaseWarning, spacing)
	a.Logger().Debug("postmark warnings",
		zap.String("jurisdiction", j), zap.Int64("id", id),
		zap.Stringer("date_postmarked", candidate), zap.Bool("spacing", spacing != ""))

	c.JSON(200, warning.CheckAggregate(agg, candidate))
}

func countWarnings(a *app.App, entryAge, release, spacing string) {
	for kind, msg := range map[string]string{"entry_age": entryAge, "release": release, "spacing": spacing} {
		if msg != "" {
			a.Metrics().Warnings.WithLabelValues(kind).Inc()
		}
	}
}
