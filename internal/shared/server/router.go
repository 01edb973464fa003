package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/analyses"
	googleauth "interview-backend/internal/auth"
	"interview-backend/internal/evaluation"
	"interview-backend/internal/interviews"
	"interview-backend/internal/questions"
	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
	"interview-backend/internal/users"
)

const (
	rateGroupCreate = "CREATE"
	rateGroupAnswer = "ANSWER"
)

// RouterDeps carries the handlers mounted under /api/v1.
type RouterDeps struct {
	Config      config.Config
	Interviews  *interviews.Handler
	Questions   *questions.Handler
	Evaluations *evaluation.Handler
	Analyses    *analyses.Handler
	Users       *users.Handler
	GoogleAuth  *googleauth.GoogleService
	// Ping reports storage health for /health. Optional.
	Ping    func(ctx context.Context) error
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(
		middleware.Auth("/api/v1/auth/", "/api/v1/health"),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateGroupCreate: middleware.PerMinute(deps.Config.CreatePerMinute),
				rateGroupAnswer: middleware.PerMinute(deps.Config.AnswerPerMinute),
			},
			GroupFor: middleware.GroupByRoute(map[string]string{
				"POST /api/v1/interviews":                                  rateGroupCreate,
				"POST /api/v1/questions/generate":                          rateGroupCreate,
				"POST /api/v1/cv/analyze":                                  rateGroupCreate,
				"POST /api/v1/interviews/:id/questions/:questionId/answer": rateGroupAnswer,
				"POST /api/v1/evaluations":                                 rateGroupAnswer,
			}),
			Limiter: deps.Limiter,
		}),
	)

	api.GET("/health", healthHandler(deps.Ping))
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.Users != nil {
		deps.Users.RegisterPublicRoutes(api)
		deps.Users.RegisterRoutes(api)
	}
	if deps.Interviews != nil {
		deps.Interviews.RegisterRoutes(api)
	}
	if deps.Questions != nil {
		deps.Questions.RegisterRoutes(api)
	}
	if deps.Evaluations != nil {
		deps.Evaluations.RegisterRoutes(api)
	}
	if deps.Analyses != nil {
		deps.Analyses.RegisterRoutes(api)
	}

	return r
}

func healthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				_ = c.Error(err)
				respond.Error(c, http.StatusServiceUnavailable, "unavailable", "database unreachable", nil)
				return
			}
		}
		respond.OK(c, gin.H{"ok": true})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
