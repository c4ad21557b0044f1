package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/medibook/hospital-api/internal/handler"
	authHandler "github.com/medibook/hospital-api/internal/handler/auth"
	doctorHandler "github.com/medibook/hospital-api/internal/handler/doctor"
	patientHandler "github.com/medibook/hospital-api/internal/handler/patient"
	reportHandler "github.com/medibook/hospital-api/internal/handler/report"
	"github.com/medibook/hospital-api/internal/middleware"
	"github.com/medibook/hospital-api/internal/model"
	"github.com/medibook/hospital-api/pkg/metrics"
)

const directoryCacheSeconds = 300

type Config struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORS             middleware.CORSConfig
}

type Router struct {
	engine *gin.Engine
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	doctorH *doctorHandler.Handler,
	patientH *patientHandler.Handler,
	reportH *reportHandler.Handler,
	m *metrics.Metrics,
	cfg Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.CORS(cfg.CORS))
	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  cfg.RateLimit,
			Burst: cfg.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	engine.GET("/health", handler.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")

	// Public surface: registration, login, the doctor directory and the
	// password reset endpoints.
	authH.RegisterRoutes(api)
	public := api.Group("", middleware.PublicCache(directoryCacheSeconds))
	doctorH.RegisterPublicRoutes(public)
	patientH.RegisterPublicRoutes(api)

	doctorOnly := api.Group("", auth.Authenticate(), middleware.RequireRole(model.RoleDoctor))
	doctorH.RegisterRoutes(doctorOnly)
	reportH.RegisterRoutes(doctorOnly)

	patientOnly := api.Group("", auth.Authenticate(), middleware.RequireRole(model.RolePatient))
	patientH.RegisterRoutes(patientOnly)

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
