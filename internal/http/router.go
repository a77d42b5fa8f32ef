package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/roadside-plus/backend/internal/ai"
	"github.com/roadside-plus/backend/internal/config"
	"github.com/roadside-plus/backend/internal/export"
	"github.com/roadside-plus/backend/internal/http/handlers"
	"github.com/roadside-plus/backend/internal/http/middleware"
	"github.com/roadside-plus/backend/internal/metrics"

	_ "github.com/roadside-plus/backend/docs"
)

// Router wires every route. store may be nil, in which case the dataset routes
// answer 503.
func Router(cfg config.Config, store handlers.DatasetStore, assistant *ai.Service, collector *metrics.Collector, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.BodyLimit(cfg.MaxBodySizeMB << 20))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" || cfg.CORSAllowed == "" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		for _, o := range strings.Split(cfg.CORSAllowed, ",") {
			if o = strings.TrimSpace(o); o != "" {
				corsCfg.AllowOrigins = append(corsCfg.AllowOrigins, o)
			}
		}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:          store,
		AI:             assistant,
		Formatter:      export.NewFormatter(),
		Metrics:        collector,
		Validator:      validator.New(),
		Logger:         logger,
		DatasetLimit:   cfg.DatasetLimit,
		RequestTimeout: cfg.RequestTimeout,
	}

	r.GET("/healthz", h.Healthz)
	if collector != nil {
		r.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	api := r.Group("/api")
	{
		api.POST("/export", h.Export)
		api.GET("/datasets/:dataType", h.DatasetList)
		api.GET("/datasets/:dataType/export", h.DatasetExport)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/datasets/:dataType", h.DatasetImport)
		admin.POST("/assistant/diagnose", h.AssistantDiagnose)
		admin.POST("/assistant/review", h.AssistantReview)
		admin.POST("/assistant/chat", h.AssistantChat)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
