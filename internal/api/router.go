package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/casetracker/internal/app"
)

/*
SetupRouter wires every HTTP endpoint, using thin closure wrappers
so each handler receives the running *app.App instance.
*/
func SetupRouter(a *app.App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(a.Logger()), Instrument(a.Metrics()))

	/* ---------- public endpoints ---------- */
	r.GET("/healthz", func(c *gin.Context) { handleHealth(a, c) })
	r.GET("/metrics", gin.WrapH(a.Metrics().Handler()))

	api := r.Group("/api")
	api.Use(RateLimit(a.Config().Rate.RPS, a.Config().Rate.Burst))
	api.POST("/login", func(c *gin.Context) { handleLogin(a, c) })

	/* ---------- protected endpoints ---------- */
	protected := api.Group("")
	mw := NewMiddleware(a.Auth())
	if a.Config().AuthEnabled {
		protected.Use(mw.AuthRequired())
	}
	{
		protected.GET("/inmate", func(c *gin.Context) { handleSearchInmates(a, c) })
		protected.GET("/inmate/:jurisdiction/:id", func(c *gin.Context) { handleGetInmate(a, c) })
		protected.GET("/warning/:jurisdiction/:id", func(c *gin.Context) { handleCheckWarnings(a, c) })

		protected.POST("/request/:jurisdiction/:id", func(c *gin.Context) { handleCreateRequest(a, c) })
		protected.PUT("/request/:jurisdiction/:id/:index", func(c *gin.Context) { handleUpdateRequest(a, c) })
		protected.DELETE("/request/:jurisdiction/:id/:index", func(c *gin.Context) { handleDeleteRequest(a, c) })

		protected.POST("/comment/:jurisdiction/:id", func(c *gin.Context) { handleCreateComment(a, c) })
		protected.PUT("/comment/:jurisdiction/:id/:index", func(c *gin.Context) { handleUpdateComment(a, c) })
		protected.DELETE("/comment/:jurisdiction/:id/:index", func(c *gin.Context) { handleDeleteComment(a, c) })

		protected.GET("/label/:jurisdiction/:id/:index", func(c *gin.Context) { handleGetLabel(a, c) })
		protected.POST("/label/:jurisdiction/:id/:index", func(c *gin.Context) { handlePrintLabel(a, c) })

		/* ----- admin sub-group ----- */
		if a.Config().AuthEnabled {
			admin := protected.Group("/admin")
			admin.Use(mw.AdminRequired())
			admin.GET("/users", func(c *gin.Context) { handleListUsers(a, c) })
		}
	}

	return r
}
