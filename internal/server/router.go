package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/handlers"
)

type RouterConfig struct {
	AllowedOrigins    []string
	RetrievalHandler  *handlers.RetrievalHandler
	PlanHandler       *handlers.PlanHandler
	CredentialHandler *handlers.CredentialHandler
	PipelineHandler   *handlers.PipelineHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5174"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/retrieve", cfg.RetrievalHandler.Retrieve)
		api.POST("/plan", cfg.PlanHandler.GeneratePlan)
		api.POST("/credentials/issue", cfg.CredentialHandler.Issue)
		api.POST("/credentials/verify", cfg.CredentialHandler.Verify)
		api.POST("/pipeline/run", cfg.PipelineHandler.Run)
	}

	return router
}

// ParseOrigins splits a comma-separated origins list from the environment.
func ParseOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
