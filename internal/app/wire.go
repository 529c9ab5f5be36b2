package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/adcopy-backend/internal/clients/redis"
	"github.com/yungbote/adcopy-backend/internal/compliance"
	"github.com/yungbote/adcopy-backend/internal/data/repos"
	apphttp "github.com/yungbote/adcopy-backend/internal/http"
	httpH "github.com/yungbote/adcopy-backend/internal/http/handlers"
	"github.com/yungbote/adcopy-backend/internal/observability"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
	"github.com/yungbote/adcopy-backend/internal/services"
)

type Services struct {
	Repos      repos.Set
	Validator  *compliance.Validator
	Selector   services.ExampleSelector
	Feedback   services.FeedbackService
	Admin      services.ReferenceAdminService
	Generation services.GenerationContextService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, table *compliance.Table, guard services.IdempotencyGuard) Services {
	log.Info("Wiring services...")
	set := repos.NewSet(db, log)
	validator := compliance.NewValidator(table)
	selector := services.NewExampleSelector(log, set.ReferenceExample, cfg.Selection)
	return Services{
		Repos:      set,
		Validator:  validator,
		Selector:   selector,
		Feedback:   services.NewFeedbackService(db, log, set.ReferenceExample, set.ReferenceUsageLog, guard),
		Admin:      services.NewReferenceAdminService(log, set.ReferenceExample),
		Generation: services.NewGenerationContextService(log, selector, validator, cfg.Limits.Default),
	}
}

// wireIdempotencyGuard falls back to the no-op guard when redis is not configured or
// unreachable; feedback still applies, only replay protection is lost.
func wireIdempotencyGuard(log *logger.Logger, cfg Config) (services.IdempotencyGuard, func() error) {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set, feedback idempotency disabled")
		return services.NewNoopIdempotencyGuard(), nil
	}
	guard, err := redis.NewIdempotencyGuard(log, cfg.Redis)
	if err != nil {
		log.Warn("redis idempotency guard unavailable, continuing without it", "error", err)
		return services.NewNoopIdempotencyGuard(), nil
	}
	return guard, guard.Close
}

func wireRouterConfig(log *logger.Logger, cfg Config, svc Services, metrics *observability.Metrics) apphttp.RouterConfig {
	return apphttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.OTel.ServiceName,
		CORSOrigins:       cfg.CORSOrigins,
		HealthHandler:     httpH.NewHealthHandler(),
		ExampleHandler:    httpH.NewExampleHandler(svc.Selector, metrics, cfg.Limits),
		GenerationHandler: httpH.NewGenerationHandler(svc.Generation, metrics, cfg.Limits),
		FeedbackHandler:   httpH.NewFeedbackHandler(svc.Feedback, metrics),
		ComplianceHandler: httpH.NewComplianceHandler(svc.Validator, metrics),
		ReferenceHandler:  httpH.NewReferenceHandler(svc.Admin),
	}
}
