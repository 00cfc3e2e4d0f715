package middleware

import (
	"github.com/beego/beego/v2/server/web"
	beecontext "github.com/beego/beego/v2/server/web/context"
)

// CORSMiddleware CORS中间件，允许的源来自配置
func CORSMiddleware(allowedOrigins []string) web.FilterFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(ctx *beecontext.Context) {
		origin := ctx.Input.Header("Origin")

		if origin != "" && (allowAll || allowed[origin]) {
			ctx.Output.Header("Access-Control-Allow-Origin", origin)
			ctx.Output.Header("Access-Control-Allow-Credentials", "true")
		}
		ctx.Output.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		ctx.Output.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin")
		ctx.Output.Header("Access-Control-Max-Age", "3600")

		// 处理OPTIONS预检请求
		if ctx.Input.Method() == "OPTIONS" {
			ctx.Output.SetStatus(204)
			ctx.Output.Body([]byte(""))
			return
		}
	}
}
