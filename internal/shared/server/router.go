package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/services/health"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/server/middleware"
)

// RouteRegistrar attaches a feature's routes to a router group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers and shared services the router mounts.
type RouterDeps struct {
	Config   config.Config
	Health   *health.Service
	Limiter  middleware.Limiter
	Handlers []RouteRegistrar
}

const generationGroup = "GENERATION"

// generationRoutes are the LLM and pdflatex backed endpoints.
var generationRoutes = map[string]string{
	"/profile/:userId/new_resume":                http.MethodPost,
	"/profile/:userId/new_resume/:resumeId/pdf": http.MethodGet,
	"/pdf-resume":                                http.MethodPost,
}

// RateLimitGroup maps a request onto its rate limit bucket.
func RateLimitGroup(c *gin.Context) string {
	if method, ok := generationRoutes[c.FullPath()]; ok && method == c.Request.Method {
		return generationGroup
	}
	return ""
}

// DefaultRateLimitRules are the per-principal token bucket settings.
func DefaultRateLimitRules() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		"DEFAULT":       {Rate: 10, Burst: 40},
		generationGroup: {Rate: 0.2, Burst: 5},
	}
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        DefaultRateLimitRules(),
			DefaultGroup: "DEFAULT",
			GroupFor:     RateLimitGroup,
			Limiter:      deps.Limiter,
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	})
	r.GET("/metrics", metrics.Handler())

	root := &r.RouterGroup
	registerMeRoutes(root)
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(root)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
