package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/adcopy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/adcopy-backend/internal/http/middleware"
	"github.com/yungbote/adcopy-backend/internal/observability"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	HealthHandler     *httpH.HealthHandler
	ExampleHandler    *httpH.ExampleHandler
	GenerationHandler *httpH.GenerationHandler
	FeedbackHandler   *httpH.FeedbackHandler
	ComplianceHandler *httpH.ComplianceHandler
	ReferenceHandler  *httpH.ReferenceHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "adcopy"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Selection
		if cfg.ExampleHandler != nil {
			api.POST("/examples/select", cfg.ExampleHandler.Select)
		}

		// Generation
		if cfg.GenerationHandler != nil {
			api.POST("/generation/context", cfg.GenerationHandler.Context)
			api.POST("/generation/review", cfg.GenerationHandler.Review)
		}

		// Usage + feedback
		if cfg.FeedbackHandler != nil {
			api.POST("/copies/:copy_id/usage", cfg.FeedbackHandler.RecordUsage)
			api.POST("/copies/:copy_id/feedback", cfg.FeedbackHandler.SubmitFeedback)
		}

		// Compliance
		if cfg.ComplianceHandler != nil {
			api.POST("/compliance/validate", cfg.ComplianceHandler.Validate)
			api.GET("/compliance/platforms", cfg.ComplianceHandler.ListPlatforms)
		}

		// Reference curation
		if cfg.ReferenceHandler != nil {
			api.POST("/references", cfg.ReferenceHandler.Create)
			api.GET("/references/:id", cfg.ReferenceHandler.Get)
			api.PUT("/references/:id/pin", cfg.ReferenceHandler.Pin)
			api.DELETE("/references/:id/pin", cfg.ReferenceHandler.Unpin)
			api.POST("/references/:id/deactivate", cfg.ReferenceHandler.Deactivate)
		}
	}

	return r
}
