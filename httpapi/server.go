package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry initializes error capture when a DSN is configured. Without
// one the client stays uninitialized and every capture call is a no-op.
// The returned func flushes pending events and is safe to defer either way.
func InitSentry(cfg Config) func() {
	if cfg.SentryDSN == "" {
		log.Println("sentry not configured (SENTRY_DSN not set)")
		return func() {}
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
	}); err != nil {
		log.Printf("failed to initialize sentry: %v", err)
		return func() {}
	}
	return func() { sentry.Flush(sentryFlushTimeout) }
}

// requestID stamps every request with a correlation ID, echoed in the
// X-Request-Id response header and attached to error payloads.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

const requestIDKey = "request_id"

// NewRouter assembles the gin engine: CORS from config, request-ID
// correlation, Sentry panic recovery, /health, and the /v1 artifact
// endpoints.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Request-Id"},
	}))
	r.Use(requestID())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: false}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.POST("/render", RenderScore)
		v1.POST("/midi", GenerateMidi)
		v1.POST("/playback-map", PlaybackMap)
	}
	return r
}
