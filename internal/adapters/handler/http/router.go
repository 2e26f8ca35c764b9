package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/handler/http/middleware"
)

// HealthChecker reports one backing service for GET /health. An error marks
// the service as degraded.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (string, error)
}

type DBChecker struct {
	name string
	db   *sqlx.DB
}

func NewDBChecker(name string, db *sqlx.DB) *DBChecker {
	return &DBChecker{name: name, db: db}
}

func (c *DBChecker) Name() string {
	return c.name
}

func (c *DBChecker) Check(ctx context.Context) (string, error) {
	if c.db == nil {
		return "disabled", nil
	}
	if err := c.db.PingContext(ctx); err != nil {
		return "unreachable", err
	}
	return "connected", nil
}

type RouterDependencies struct {
	SubjectHandler *SubjectHandler
	TaskHandler    *TaskHandler
	BoardHandler   *BoardHandler
	ExportHandler  *ExportHandler
	Checkers       []HealthChecker
	Redis          *redis.Client
	RateLimit      int
	AllowedOrigins []string
	StartTime      time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(deps.AllowedOrigins))

	router.GET("/health", healthHandler(deps.Checkers, deps.StartTime))

	apiV1 := router.Group("/api/v1")
	if deps.Redis != nil && deps.RateLimit > 0 {
		apiV1.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, 1*time.Minute))
	}

	deps.SubjectHandler.RegisterRoutes(apiV1)
	deps.TaskHandler.RegisterRoutes(apiV1)
	deps.BoardHandler.RegisterRoutes(apiV1)
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(apiV1)
	}

	return router
}

func healthHandler(checkers []HealthChecker, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"status": "ok"}
		statusCode := http.StatusOK

		for _, checker := range checkers {
			state, err := checker.Check(ctx)
			body[checker.Name()] = state
			if err != nil {
				statusCode = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}

		body["uptime"] = time.Since(startTime).String()
		c.JSON(statusCode, body)
	}
}
