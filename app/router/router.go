package router

import (
	"github.com/beego/beego/v2/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shikhar1verma/chat-contract-pdf/app/controllers"
	"github.com/shikhar1verma/chat-contract-pdf/app/middleware"
	"github.com/shikhar1verma/chat-contract-pdf/internal/config"
)

// Init 注册路由与过滤器，必须在controllers.Setup之后调用
func Init(cfg *config.Config, rateLimiter *middleware.RateLimiter) {
	web.InsertFilter("/*", web.BeforeRouter, middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	web.InsertFilter("/*", web.BeforeRouter, middleware.SecurityHeaders())

	if cfg.RateLimit.Enabled {
		web.InsertFilter("/api/ingest", web.BeforeRouter,
			rateLimiter.Limit("ingest", cfg.RateLimit.IngestPerMinute))
		web.InsertFilter("/api/chat", web.BeforeRouter,
			rateLimiter.Limit("chat", cfg.RateLimit.ChatPerMinute))
	}

	web.Router("/", &controllers.HealthController{}, "get:Root")
	web.Router("/health", &controllers.HealthController{}, "get:Health")

	web.Router("/api/ingest", &controllers.IngestController{}, "post:Ingest")
	web.Router("/api/status/:upload_id", &controllers.IngestController{}, "get:Status")
	web.Router("/api/reset/:upload_id", &controllers.IngestController{}, "delete:Reset")
	web.Router("/api/chat", &controllers.ChatController{}, "post:Chat")

	web.Handler("/metrics", promhttp.Handler())
}
