package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/casetracker/internal/app"
	"github.com/yourusername/casetracker/internal/models"
)

/* ----------------------------------------------------------------
   DTO types
-----------------------------------------------------------------*/

type RequestInput struct {
	DatePostmarked string `json:"date_postmarked" binding:"required"`
	DateProcessed  string `json:"date_processed"`
	Action         string `json:"action" binding:"required,oneof=Filled Tossed"`
}

type CommentInput struct {
	Body   string `json:"body" binding:"required,max=4000"`
	Author string `json:"author" binding:"max=200"`
}

// toModel validates the date fields.
func (in RequestInput) toModel(c *gin.Context) (models.Request, bool) {
	errs := gin.H{}
	r := models.Request{
		DatePostmarked: parseDateField(errs, "date_postmarked", in.DatePostmarked),
		DateProcessed:  parseDateField(errs, "date_processed", in.DateProcessed),
		Action:         models.Action(in.Action),
	}
	if len(errs) > 0 {
		c.JSON(400, errs)
		return models.Request{}, false
	}
	return r, true
}

func (in CommentInput) toModel(c *gin.Context) (models.Comment, bool) {
	author := in.Author
	if author == "" {
		author = c.GetString("email")
	}
	if author == "" {
		c.JSON(400, gin.H{"author": msgRequired})
		return models.Comment{}, false
	}
	return models.Comment{Body: in.Body, Author: author}, true
}

func recordMutation(a *app.App, c *gin.Context, record, op string, index int) {
	a.Metrics().RecordMutations.WithLabelValues(record, op).Inc()
	a.Logger().Info(record+" "+op,
		zap.String("jurisdiction", c.Param("jurisdiction")),
		zap.String("id", c.Param("id")),
		zap.Int("index", index),
		zap.String("user", c.GetString("email")))
}

/* ================================================================
   REQUESTS
================================================================ */

func handleCreateRequest(a *app.App, c *gin.Context) {
	j, id, ok := inmateKey(c)
	if !ok {
		return
	}
	var in RequestInput
	if !bindJSON(c, &in) {
		return
	}
	r, ok := in.toModel(c)
	if !ok {
		return
	}
	if r.DateProcessed.IsZero() {
		r.DateProcessed = models.DateOf(a.Now())
	}

	created, err := a.DB().CreateRequest(c.Request.Context(), j, id, r)
	if err != nil {
		storageError(c, err, "Inmate not found")
		return
	}
	recordMutation(a, c, "request", "create", created.Index)
	c.JSON(201, created)
}

func handleUpdateRequest(a *app.App, c *gin.Context) {
	j, id, index, ok := recordKey(c)
	if !ok {
		return
	}
	var in RequestInput
	if !bindJSON(c, &in) {
		return
	}
	// an omitted processed date keeps the stored one
	r, ok := in.toModel(c)
	if !ok {
		return
	}

	updated, err := a.DB().UpdateRequest(c.Request.Context(), j, id, index, r)
	if err != nil {
		storageError(c, err, "Request not found")
		return
	}
	recordMutation(a, c, "request", "update", index)
	c.JSON(200, updated)
}

func handleDeleteRequest(a *app.App, c *gin.Context) {
	j, id, index, ok := recordKey(c)
	if !ok {
		return
	}
	if err := a.DB().DeleteRequest(c.Request.Context(), j, id, index); err != nil {
		storageError(c, err, "Request not found")
		return
	}
	if err := a.Labels().DeleteLabel(j, id, index); err != nil {
		a.Logger().Warn("failed to remove label", zap.Error(err))
	}
	recordMutation(a, c, "request", "delete", index)
	c.JSON(200, gin.H{})
}

/* ================================================================
   COMMENTS
================================================================ */

func handleCreateComment(a *app.App, c *gin.Context) {
	j, id, ok := inmateKey(c)
	if !ok {
		return
	}
	var in CommentInput
	if !bindJSON(c, &in) {
		return
	}
	cm, ok := in.toModel(c)
	if !ok {
		return
	}
	cm.Datetime = a.Now().UTC()

	created, err := a.DB().CreateComment(c.Request.Context(), j, id, cm)
	if err != nil {
		storageError(c, err, "Inmate not found")
		return
	}
	recordMutation(a, c, "comment", "create", created.Index)
	c.JSON(201, created)
}

func handleUpdateComment(a *app.App, c *gin.Context) {
	j, id, index, ok := recordKey(c)
	if !ok {
		return
	}
	var in CommentInput
	if !bindJSON(c, &in) {
		return
	}
	cm, ok := in.toModel(c)
	if !ok {
		return
	}

	updated, err := a.DB().UpdateComment(c.Request.Context(), j, id, index, cm)
	if err != nil {
		storageError(c, err, "Comment not found")
		return
	}
	recordMutation(a, c, "comment", "update", index)
	c.JSON(200, updated)
}

func handleDeleteComment(a *app.App, c *gin.Context) {
	j, id, index, ok := recordKey(c)
	if !ok {
		return
	}
	if err := a.DB().DeleteComment(c.Request.Context(), j, id, index); err != nil {
		storageError(c, err, "Comment not found")
		return
	}
	recordMutation(a, c, "comment", "delete", index)
	c.JSON(200, gin.H{})
}
