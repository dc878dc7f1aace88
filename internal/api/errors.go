package api

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yourusername/casetracker/internal/models"
	"github.com/yourusername/casetracker/internal/storage"
)

const (
	msgRequired    = "This field is required."
	msgInvalidDate = "Enter a valid date."
	msgNotNumber   = "Enter a whole number."
)

func init() {
	// report validation failures under the JSON field name
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON binds the body into dst. On failure it answers 400, with a
// field-keyed body for validation errors, and returns false.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return false
	}
	body := gin.H{}
	for _, fe := range verrs {
		if _, seen := body[fe.Field()]; !seen {
			body[fe.Field()] = fieldMessage(fe)
		}
	}
	c.JSON(400, body)
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ") + "."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}

// parseDateField parses a YYYY-MM-DD body field; errs collects the message.
func parseDateField(errs gin.H, field, value string) models.Date {
	if value == "" {
		return models.Date{}
	}
	d, err := models.ParseDate(value)
	if err != nil {
		errs[field] = msgInvalidDate
	}
	return d
}

// inmateKey reads the :jurisdiction and :id path parameters.
func inmateKey(c *gin.Context) (string, int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"id": msgNotNumber})
		return "", 0, false
	}
	return c.Param("jurisdiction"), id, true
}

// recordKey reads :jurisdiction, :id and :index.
func recordKey(c *gin.Context) (string, int64, int, bool) {
	j, id, ok := inmateKey(c)
	if !ok {
		return "", 0, 0, false
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(400, gin.H{"index": msgNotNumber})
		return "", 0, 0, false
	}
	return j, id, index, true
}

// storageError maps a storage failure onto a response.
func storageError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(404, gin.H{"error": notFound})
		return
	}
	_ = c.Error(err)
	c.JSON(500, gin.H{"error": "Database error"})
}
