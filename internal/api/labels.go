package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/casetracker/internal/app"
	"github.com/yourusername/casetracker/internal/label"
	"github.com/yourusername/casetracker/internal/storage"
	"github.com/yourusername/casetracker/internal/utils"
)

/* ================================================================
   LABELS
================================================================ */

// renderLabel loads the inmate and request and renders the label, writing
// the error response itself when that fails.
func renderLabel(a *app.App, c *gin.Context) (text, subject string, ok bool) {
	j, id, index, ok := recordKey(c)
	if !ok {
		return "", "", false
	}
	ctx := c.Request.Context()

	in, err := a.DB().GetInmate(ctx, j, id)
	if err != nil {
		storageError(c, err, "Inmate not found")
		return "", "", false
	}
	r, err := a.DB().GetRequest(ctx, j, id, index)
	if err != nil {
		storageError(c, err, "Request not found")
		return "", "", false
	}

	text, err = label.Render(in, r)
	switch {
	case errors.Is(err, label.ErrNotFilled):
		c.JSON(400, gin.H{"action": "Labels are only printed for Filled requests."})
		return "", "", false
	case errors.Is(err, label.ErrNoAddress):
		c.JSON(422, gin.H{"error": "Inmate unit has no mailing address"})
		return "", "", false
	case err != nil:
		_ = c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to render label"})
		return "", "", false
	}

	subject = fmt.Sprintf("Label: %s #%s request %d", j, utils.FormatID(id), index)
	return text, subject, true
}

func handleGetLabel(a *app.App, c *gin.Context) {
	text, _, ok := renderLabel(a, c)
	if !ok {
		return
	}
	c.String(200, text)
}

// handlePrintLabel spools the label to disk and, when a print relay is
// configured, mails it to the print queue.
func handlePrintLabel(a *app.App, c *gin.Context) {
	text, subject, ok := renderLabel(a, c)
	if !ok {
		return
	}
	// recordKey already succeeded in renderLabel
	j, id, index, _ := recordKey(c)

	path, err := a.Labels().SaveLabel(j, id, index, []byte(text))
	if errors.Is(err, storage.ErrBadJurisdiction) {
		c.JSON(400, gin.H{"jurisdiction": "Not a valid jurisdiction."})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(500, gin.H{"error": "Failed to save label"})
		return
	}

	mailer := a.Mailer()
	if mailer == nil {
		a.Metrics().LabelsPrinted.WithLabelValues("spool").Inc()
		c.JSON(200, gin.H{"path": path, "mailed": false})
		return
	}

	if err := mailer.Send(subject, text, path); err != nil {
		a.Logger().Error("label mail failed", zap.String("path", path), zap.Error(err))
		c.JSON(502, gin.H{"error": "Failed to send label to printer", "path": path})
		return
	}
	a.Metrics().LabelsPrinted.WithLabelValues("mail").Inc()
	c.JSON(200, gin.H{"path": path, "mailed": true})
}
